package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Level Filtering Tests
// ============================================================================

func TestLevelFiltering(t *testing.T) {
	t.Run("InfoSuppressesDebug", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, "INFO", "text", false)

		Debug("hidden")
		Info("visible")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "visible")
	})

	t.Run("DebugShowsEverything", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, "DEBUG", "text", false)

		Debug("first")
		Warn("second")
		Error("third")

		out := buf.String()
		assert.Contains(t, out, "first")
		assert.Contains(t, out, "second")
		assert.Contains(t, out, "third")
	})

	t.Run("ErrorAlwaysLogged", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, "ERROR", "text", false)

		Info("quiet")
		Error("loud")

		out := buf.String()
		assert.NotContains(t, out, "quiet")
		assert.Contains(t, out, "loud")
	})

	t.Run("InvalidLevelIgnored", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, "INFO", "text", false)
		SetLevel("SHOUTING")

		Info("still works")
		assert.Contains(t, buf.String(), "still works")
	})
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

// ============================================================================
// Format Tests
// ============================================================================

func TestTextFormat(t *testing.T) {
	t.Run("PlainOutputShape", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, "INFO", "text", false)

		Info("opened stream", "path", "data.xdr", "units", 3)

		out := buf.String()
		assert.Contains(t, out, "[INFO] opened stream")
		assert.Contains(t, out, "path=data.xdr")
		assert.Contains(t, out, "units=3")
		assert.True(t, strings.HasSuffix(out, "\n"))
	})

	t.Run("ColorWrapsLevelAndKeys", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, "INFO", "text", true)

		Info("colored", "key", "value")

		out := buf.String()
		assert.Contains(t, out, colorGreen+"INFO"+colorReset)
		assert.Contains(t, out, colorCyan+"key"+colorReset+"=value")
	})

	t.Run("NoColorWhenDisabled", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, "WARN", "text", false)

		Warn("plain")
		assert.NotContains(t, buf.String(), "\033[")
	})
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json", false)

	Info("structured", "offset", 4096)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "structured", record["msg"])
	assert.Equal(t, float64(4096), record["offset"])
	assert.Equal(t, "INFO", record["level"])
}

func TestInvalidFormatIgnored(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text", false)
	SetFormat("xml")

	Info("text still")
	assert.Contains(t, buf.String(), "[INFO] text still")
}

// ============================================================================
// Handler Composition Tests
// ============================================================================

func TestWithBoundAttributes(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text", false)

	l := With("component", "dump")
	l.Info("row", "offset", 0)

	out := buf.String()
	assert.Contains(t, out, "component=dump")
	assert.Contains(t, out, "offset=0")
}

func TestHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorTextHandler(&buf, nil, false)
	l := slog.New(h).WithGroup("stream").With("backend", "file")

	l.Info("op", "pos", 8)

	out := buf.String()
	assert.Contains(t, out, "stream.backend=file")
	assert.Contains(t, out, "stream.pos=8")
}

func TestHandlerValueKinds(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorTextHandler(&buf, nil, false)
	l := slog.New(h)

	l.Info("kinds",
		"str", "s",
		"int", int64(-3),
		"uint", uint64(7),
		"float", 1.5,
		"bool", true,
		"dur", 1500*time.Millisecond,
	)

	out := buf.String()
	assert.Contains(t, out, "str=s")
	assert.Contains(t, out, "int=-3")
	assert.Contains(t, out, "uint=7")
	assert.Contains(t, out, "float=1.500")
	assert.Contains(t, out, "bool=true")
	assert.Contains(t, out, "dur=1.5s")
}

// ============================================================================
// Helper Tests
// ============================================================================

func TestDuration(t *testing.T) {
	start := time.Now().Add(-50 * time.Millisecond)
	ms := Duration(start)
	assert.GreaterOrEqual(t, ms, 50.0)
	assert.Less(t, ms, 5000.0)
}
