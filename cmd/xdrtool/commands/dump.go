package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/riweirui/ntirpc/internal/bytesize"
	"github.com/riweirui/ntirpc/internal/cli/output"
	"github.com/riweirui/ntirpc/internal/clock"
	"github.com/riweirui/ntirpc/internal/logger"
	"github.com/riweirui/ntirpc/internal/platform"
	"github.com/riweirui/ntirpc/pkg/bufpool"
	"github.com/riweirui/ntirpc/pkg/xdr"
	"github.com/spf13/cobra"
)

var (
	dumpFormat   string
	dumpOffset   uint32
	dumpCount    int
	dumpMaxBytes bytesize.ByteSize
	dumpFollow   bool
	dumpTimeout  time.Duration
	dumpWait     time.Duration
)

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Decode a resource as consecutive 4-byte units",
	Long: `Decode a file (or stdin) as consecutive XDR units and print one row
per unit with its byte offset, hex form, and unsigned/signed readings.

Trailing bytes that do not fill a whole unit are ignored.

Examples:
  # Dump a file as a table
  xdrtool dump frame.xdr

  # Plain rows for scripting
  xdrtool dump frame.xdr --format plain

  # Skip a 16-byte header, show at most 8 units
  xdrtool dump frame.xdr --offset 16 --count 8

  # Tail a growing capture, give up after a minute
  xdrtool dump capture.xdr --follow --timeout 1m

  # Decode stdin, waiting up to 5s for data to arrive
  xdrtool encode 1 2 3 | xdrtool dump --wait 5s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "table", "Output format (table|plain)")
	dumpCmd.Flags().Uint32Var(&dumpOffset, "offset", 0, "Byte offset to start decoding at")
	dumpCmd.Flags().IntVar(&dumpCount, "count", 0, "Maximum number of units to decode (0 = no limit)")
	dumpCmd.Flags().Var(&dumpMaxBytes, "max-bytes", "Cap on bytes read, e.g. 64Ki, 1Mi (0 = no cap)")
	dumpCmd.Flags().BoolVarP(&dumpFollow, "follow", "f", false, "Keep decoding as the file grows (plain rows)")
	dumpCmd.Flags().DurationVar(&dumpTimeout, "timeout", 0, "Stop following after this duration (0 = until interrupted)")
	dumpCmd.Flags().DurationVar(&dumpWait, "wait", 0, "How long to wait for stdin to become readable (0 = indefinitely)")
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogger(cfg); err != nil {
		return err
	}

	// Flags override config defaults only when set explicitly
	format := output.Format(cfg.Dump.Format)
	if cmd.Flags().Changed("format") {
		format, err = output.ParseFormat(dumpFormat)
		if err != nil {
			return err
		}
	}
	if format != output.FormatTable && format != output.FormatPlain {
		return fmt.Errorf("dump renders table or plain output, not %s", format)
	}

	maxBytes := cfg.Dump.MaxBytes
	if cmd.Flags().Changed("max-bytes") {
		maxBytes = dumpMaxBytes
	}
	if maxBytes > 0 && maxBytes < 4 {
		return fmt.Errorf("--max-bytes %s cannot hold a single 4-byte unit", maxBytes)
	}

	wait := cfg.Dump.WaitTimeout
	if cmd.Flags().Changed("wait") {
		wait = dumpWait
	}

	maxUnits := unitBudget(dumpCount, maxBytes)

	if dumpFollow {
		if len(args) == 0 {
			return errors.New("--follow needs a file to watch")
		}
		if format == output.FormatTable && cmd.Flags().Changed("format") {
			return errors.New("--follow streams rows as they appear; use --format plain")
		}
		return dumpFollowFile(args[0], cfg.Dump.PollInterval, dumpTimeout, maxUnits)
	}

	if len(args) == 0 {
		return dumpStdin(wait, format, maxBytes, maxUnits)
	}
	return dumpFile(args[0], format, maxUnits)
}

// unitBudget folds the --count and --max-bytes limits into a single unit
// count. Zero means unbounded.
func unitBudget(count int, maxBytes bytesize.ByteSize) int {
	byUnits := count
	byBytes := 0
	if maxBytes > 0 {
		byBytes = int(maxBytes / 4)
	}
	switch {
	case byUnits <= 0:
		return byBytes
	case byBytes <= 0:
		return byUnits
	case byBytes < byUnits:
		return byBytes
	default:
		return byUnits
	}
}

// unitRow is one decoded 4-byte unit prepared for rendering.
type unitRow struct {
	offset uint32
	value  uint32
}

func (r unitRow) strings() []string {
	return []string{
		fmt.Sprintf("%08x", r.offset),
		fmt.Sprintf("0x%08x", r.value),
		strconv.FormatUint(uint64(r.value), 10),
		strconv.FormatInt(int64(int32(r.value)), 10),
	}
}

var dumpHeaders = []string{"Offset", "Hex", "Uint32", "Int32"}

// readUnits decodes consecutive units until the stream refuses or the budget
// runs out. Offsets are derived from base so the same loop serves resources
// that cannot report positions.
func readUnits(st *xdr.Stream, base uint32, maxUnits int) []unitRow {
	var rows []unitRow
	for maxUnits <= 0 || len(rows) < maxUnits {
		v, ok := st.GetInt()
		if !ok {
			break
		}
		rows = append(rows, unitRow{offset: base + uint32(4*len(rows)), value: uint32(v)})
	}
	return rows
}

func renderRows(w io.Writer, format output.Format, rows []unitRow) error {
	table := output.NewTableData(dumpHeaders...)
	for _, r := range rows {
		table.AddRow(r.strings()...)
	}
	return output.NewPrinter(w, format, false).Print(table)
}

func dumpFile(path string, format output.Format, maxUnits int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	st := xdr.NewFileStream(f, xdr.Decode)
	defer st.Destroy()

	if dumpOffset > 0 && !st.SetPos(dumpOffset) {
		return fmt.Errorf("cannot seek to offset %d in %s", dumpOffset, path)
	}

	rows := readUnits(st, dumpOffset, maxUnits)
	if maxUnits > 0 && len(rows) == maxUnits {
		logger.Warn("unit budget reached; output may be truncated", "units", len(rows))
	}

	return renderRows(os.Stdout, format, rows)
}

func dumpStdin(wait time.Duration, format output.Format, maxBytes bytesize.ByteSize, maxUnits int) error {
	if wait > 0 {
		ready, err := platform.WaitReadable(os.Stdin.Fd(), wait)
		switch {
		case errors.Is(err, platform.ErrUnsupported):
			logger.Debug("readiness polling unsupported here; reading stdin directly")
		case err != nil:
			return fmt.Errorf("failed to poll stdin: %w", err)
		case !ready:
			return fmt.Errorf("no data on stdin after %s", wait)
		}
	}

	data, err := readAllPooled(os.Stdin, maxBytes)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	st := xdr.NewMemStream(data, xdr.Decode)
	defer st.Destroy()

	if dumpOffset > 0 && !st.SetPos(dumpOffset) {
		return fmt.Errorf("cannot seek to offset %d: stdin carried only %d bytes", dumpOffset, len(data))
	}

	rows := readUnits(st, dumpOffset, maxUnits)
	if trailing := len(data) % 4; trailing != 0 {
		logger.Debug("ignoring partial trailing unit", "bytes", trailing)
	}

	return renderRows(os.Stdout, format, rows)
}

// readAllPooled slurps r through a pooled chunk, stopping once limit bytes
// have been collected. A limit of 0 reads to EOF.
func readAllPooled(r io.Reader, limit bytesize.ByteSize) ([]byte, error) {
	chunk := bufpool.Get(bufpool.DefaultChunkSize)
	defer bufpool.Put(chunk)

	var data []byte
	for {
		if limit > 0 && bytesize.ByteSize(len(data)) >= limit {
			data = data[:limit]
			logger.Warn("read cap reached; input truncated", "max_bytes", limit.String())
			break
		}
		n, err := r.Read(chunk)
		data = append(data, chunk[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

func dumpFollowFile(path string, poll, timeout time.Duration, maxUnits int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	st := xdr.NewFileStream(f, xdr.Decode)
	defer st.Destroy()

	if dumpOffset > 0 && !st.SetPos(dumpOffset) {
		return fmt.Errorf("cannot seek to offset %d in %s", dumpOffset, path)
	}

	// Set up file watcher; polling covers us when it is unavailable
	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("file notifications unavailable; relying on polling", "error", err)
	} else {
		defer func() { _ = watcher.Close() }()
		if err := watcher.Add(path); err != nil {
			logger.Warn("cannot watch file; relying on polling", "path", path, "error", err)
		} else {
			events = watcher.Events
			watchErrs = watcher.Errors
		}
	}

	// Set up signal handling for graceful exit
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "Following %s (Ctrl+C to stop)...\n", path)

	return followUnits(ctx, st, os.Stdout, events, watchErrs, clock.NewRealClock(), poll, timeout, maxUnits)
}

// followUnits drains whole units from st, then keeps draining on file
// notifications and on a poll ticker until the context is done, the optional
// timeout fires, or the unit budget is spent.
//
// A refused read leaves the stream position on a partial unit, so the
// position is captured before every read and restored on refusal; the
// partial unit is then re-read from its boundary once the file has grown.
func followUnits(
	ctx context.Context,
	st *xdr.Stream,
	out io.Writer,
	events <-chan fsnotify.Event,
	watchErrs <-chan error,
	clk clock.Clock,
	poll time.Duration,
	timeout time.Duration,
	maxUnits int,
) error {
	emitted := 0

	// drain reports true once the unit budget is spent
	drain := func() bool {
		for {
			if maxUnits > 0 && emitted >= maxUnits {
				logger.Info("unit budget spent; stopping follow", "units", emitted)
				return true
			}
			pos := st.Pos()
			v, ok := st.GetInt()
			if !ok {
				if pos != xdr.InvalidPos {
					st.SetPos(pos)
				}
				return false
			}
			row := unitRow{offset: pos, value: uint32(v)}
			_, _ = fmt.Fprintln(out, strings.Join(row.strings(), " "))
			emitted++
		}
	}

	if drain() {
		return nil
	}

	ticker := clk.NewTicker(poll)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if timeout > 0 {
		deadline = clk.After(timeout)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-deadline:
			logger.Info("follow timeout reached", "units", emitted)
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				if drain() {
					return nil
				}
			}

		case err, ok := <-watchErrs:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)

		case <-ticker.Chan():
			if drain() {
				return nil
			}
		}
	}
}
