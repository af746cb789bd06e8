package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintJSON(t *testing.T) {
	data := struct {
		Offset uint32 `json:"offset"`
		Value  int32  `json:"value"`
	}{Offset: 8, Value: -1}

	var buf bytes.Buffer
	err := PrintJSON(&buf, data)
	require.NoError(t, err)

	assert.JSONEq(t, `{"offset": 8, "value": -1}`, buf.String())
	// Output is indented, not compact
	assert.True(t, strings.Contains(buf.String(), "\n  "), "expected indented JSON, got: %q", buf.String())
}
