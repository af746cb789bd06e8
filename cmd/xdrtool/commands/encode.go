package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/riweirui/ntirpc/internal/cli/output"
	"github.com/riweirui/ntirpc/pkg/bufpool"
	"github.com/riweirui/ntirpc/pkg/xdr"
	"github.com/spf13/cobra"
)

var (
	encodeHex    string
	encodeOut    string
	encodeAppend bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode [value...]",
	Short: "Encode integers and raw bytes as XDR units",
	Long: `Encode the given integers as big-endian 4-byte units, optionally
followed by a verbatim run of raw bytes, and write the result to stdout
or to a file.

Values accept decimal, 0x hex, 0o octal, and 0b binary notation. Each
must fit 32 bits; negative values use two's complement.

Examples:
  # Two units to stdout, piped straight back into dump
  xdrtool encode 1 0x2a | xdrtool dump

  # Negative values need -- so they are not read as flags
  xdrtool encode -- -1

  # A unit followed by a raw byte run
  xdrtool encode 7 --hex deadbeef --out frame.xdr

  # Grow an existing stream
  xdrtool encode 8 --out frame.xdr --append`,
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVar(&encodeHex, "hex", "", "Raw bytes (hex digits) appended verbatim after the units")
	encodeCmd.Flags().StringVarP(&encodeOut, "out", "o", "", "Write to this file instead of stdout")
	encodeCmd.Flags().BoolVar(&encodeAppend, "append", false, "Append to --out instead of truncating it")
}

func runEncode(cmd *cobra.Command, args []string) error {
	values, err := parseUnitValues(args)
	if err != nil {
		return err
	}

	raw, err := parseHexRun(encodeHex)
	if err != nil {
		return err
	}

	if len(values) == 0 && len(raw) == 0 {
		return errors.New("nothing to encode: pass values and/or --hex")
	}

	if encodeOut != "" {
		return encodeToFile(encodeOut, encodeAppend, values, raw)
	}
	return encodeToWriter(os.Stdout, values, raw)
}

// parseUnitValues parses command-line integers and checks each fits a
// 4-byte unit.
func parseUnitValues(args []string) ([]int, error) {
	values := make([]int, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseInt(arg, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", arg, err)
		}
		if v > math.MaxUint32 || v < math.MinInt32 {
			return nil, fmt.Errorf("value %q does not fit in 32 bits", arg)
		}
		values = append(values, int(v))
	}
	return values, nil
}

// parseHexRun decodes a hex byte run, tolerating a 0x prefix and common
// separators.
func parseHexRun(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	clean := strings.TrimPrefix(strings.ToLower(s), "0x")
	clean = strings.Map(func(r rune) rune {
		switch r {
		case ' ', ':', '_':
			return -1
		}
		return r
	}, clean)
	raw, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid --hex run: %w", err)
	}
	return raw, nil
}

// encodeUnits writes the integer units then the raw run, returning the byte
// count produced.
func encodeUnits(st *xdr.Stream, values []int, raw []byte) (int, error) {
	for _, v := range values {
		if !st.PutInt(v) {
			return 0, fmt.Errorf("failed to encode value %d", v)
		}
	}
	if !st.PutBytes(raw) {
		return 0, fmt.Errorf("failed to append %d raw bytes", len(raw))
	}
	return 4*len(values) + len(raw), nil
}

func encodeToFile(path string, appendTo bool, values []int, raw []byte) error {
	flags := os.O_CREATE | os.O_WRONLY
	if appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	st := xdr.NewFileStream(f, xdr.Encode)
	n, err := encodeUnits(st, values, raw)
	st.Destroy()
	if err != nil {
		return err
	}

	p := output.NewPrinter(os.Stdout, output.FormatTable, true)
	p.Success(fmt.Sprintf("encoded %d bytes to %s", n, path))
	return nil
}

func encodeToWriter(w io.Writer, values []int, raw []byte) error {
	total := 4*len(values) + len(raw)
	buf := bufpool.Get(total)
	defer bufpool.Put(buf)

	st := xdr.NewMemStream(buf, xdr.Encode)
	if _, err := encodeUnits(st, values, raw); err != nil {
		st.Destroy()
		return err
	}
	st.Destroy()

	if _, err := w.Write(buf[:total]); err != nil {
		return fmt.Errorf("failed to write encoded units: %w", err)
	}
	return nil
}
