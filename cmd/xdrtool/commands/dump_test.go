package commands

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/riweirui/ntirpc/internal/bytesize"
	"github.com/riweirui/ntirpc/internal/cli/output"
	"github.com/riweirui/ntirpc/internal/clock"
	"github.com/riweirui/ntirpc/pkg/xdr"
)

// syncBuffer is an io.Writer safe to read while followUnits writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func unitBytes(values ...uint32) []byte {
	buf := make([]byte, 0, 4*len(values))
	for _, v := range values {
		buf = binary.BigEndian.AppendUint32(buf, v)
	}
	return buf
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestUnitBudget(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		maxBytes bytesize.ByteSize
		want     int
	}{
		{name: "unbounded", count: 0, maxBytes: 0, want: 0},
		{name: "count only", count: 5, maxBytes: 0, want: 5},
		{name: "bytes only", count: 0, maxBytes: 40, want: 10},
		{name: "bytes win when smaller", count: 10, maxBytes: 12, want: 3},
		{name: "count wins when smaller", count: 2, maxBytes: 400, want: 2},
		{name: "bytes round down to whole units", count: 0, maxBytes: 10, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unitBudget(tt.count, tt.maxBytes); got != tt.want {
				t.Errorf("unitBudget(%d, %d) = %d, want %d", tt.count, tt.maxBytes, got, tt.want)
			}
		})
	}
}

func TestUnitRowStrings(t *testing.T) {
	tests := []struct {
		name string
		row  unitRow
		want []string
	}{
		{
			name: "high bit set",
			row:  unitRow{offset: 16, value: 0xdeadbeef},
			want: []string{"00000010", "0xdeadbeef", "3735928559", "-559038737"},
		},
		{
			name: "small value",
			row:  unitRow{offset: 0, value: 1},
			want: []string{"00000000", "0x00000001", "1", "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.row.strings()
			if len(got) != len(tt.want) {
				t.Fatalf("strings() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("strings()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReadUnits(t *testing.T) {
	data := append(unitBytes(1, 2, 0xffffffff), 0xaa) // 3 units plus a stray byte

	t.Run("reads all whole units", func(t *testing.T) {
		st := xdr.NewMemStream(data, xdr.Decode)
		defer st.Destroy()

		rows := readUnits(st, 0, 0)
		if len(rows) != 3 {
			t.Fatalf("readUnits() returned %d rows, want 3", len(rows))
		}
		wantValues := []uint32{1, 2, 0xffffffff}
		for i, row := range rows {
			if row.offset != uint32(4*i) {
				t.Errorf("rows[%d].offset = %d, want %d", i, row.offset, 4*i)
			}
			if row.value != wantValues[i] {
				t.Errorf("rows[%d].value = %#x, want %#x", i, row.value, wantValues[i])
			}
		}
	})

	t.Run("honors unit budget", func(t *testing.T) {
		st := xdr.NewMemStream(data, xdr.Decode)
		defer st.Destroy()

		rows := readUnits(st, 0, 2)
		if len(rows) != 2 {
			t.Fatalf("readUnits() returned %d rows, want 2", len(rows))
		}
	})

	t.Run("offsets follow base", func(t *testing.T) {
		st := xdr.NewMemStream(data, xdr.Decode)
		defer st.Destroy()

		if !st.SetPos(4) {
			t.Fatal("SetPos(4) failed")
		}
		rows := readUnits(st, 4, 0)
		if len(rows) != 2 {
			t.Fatalf("readUnits() returned %d rows, want 2", len(rows))
		}
		if rows[0].offset != 4 || rows[1].offset != 8 {
			t.Errorf("offsets = %d, %d, want 4, 8", rows[0].offset, rows[1].offset)
		}
		if rows[0].value != 2 {
			t.Errorf("rows[0].value = %d, want 2", rows[0].value)
		}
	})
}

func TestReadAllPooled(t *testing.T) {
	t.Run("reads to EOF", func(t *testing.T) {
		src := bytes.Repeat([]byte{0xab}, 80000) // spans more than one pooled chunk
		data, err := readAllPooled(bytes.NewReader(src), 0)
		if err != nil {
			t.Fatalf("readAllPooled() error = %v", err)
		}
		if !bytes.Equal(data, src) {
			t.Errorf("readAllPooled() returned %d bytes, want %d", len(data), len(src))
		}
	})

	t.Run("caps input", func(t *testing.T) {
		src := bytes.Repeat([]byte{0xcd}, 100)
		data, err := readAllPooled(bytes.NewReader(src), 8)
		if err != nil {
			t.Fatalf("readAllPooled() error = %v", err)
		}
		if !bytes.Equal(data, src[:8]) {
			t.Errorf("readAllPooled() = %v, want first 8 bytes", data)
		}
	})

	t.Run("cap above size reads everything", func(t *testing.T) {
		src := unitBytes(1, 2)
		data, err := readAllPooled(bytes.NewReader(src), 1024)
		if err != nil {
			t.Fatalf("readAllPooled() error = %v", err)
		}
		if !bytes.Equal(data, src) {
			t.Errorf("readAllPooled() = %v, want %v", data, src)
		}
	})
}

func TestRenderRows(t *testing.T) {
	rows := []unitRow{
		{offset: 0, value: 1},
		{offset: 4, value: 0xffffffff},
	}

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		if err := renderRows(&buf, output.FormatPlain, rows); err != nil {
			t.Fatalf("renderRows() error = %v", err)
		}
		want := "00000000 0x00000001 1 1\n00000004 0xffffffff 4294967295 -1\n"
		if buf.String() != want {
			t.Errorf("renderRows() = %q, want %q", buf.String(), want)
		}
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := renderRows(&buf, output.FormatTable, rows); err != nil {
			t.Fatalf("renderRows() error = %v", err)
		}
		out := buf.String()
		for _, want := range []string{"OFFSET", "HEX", "UINT32", "INT32", "0xffffffff", "4294967295"} {
			if !strings.Contains(out, want) {
				t.Errorf("table output missing %q:\n%s", want, out)
			}
		}
	})
}

func newFollowStream(t *testing.T, initial []byte) (string, *xdr.Stream) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stream.xdr")
	if err := os.WriteFile(path, initial, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	st := xdr.NewFileStream(f, xdr.Decode)
	t.Cleanup(st.Destroy)
	return path, st
}

func appendBytes(t *testing.T, path string, data []byte) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func countLines(s string) int {
	return strings.Count(s, "\n")
}

func TestFollowUnits(t *testing.T) {
	poll := 500 * time.Millisecond

	t.Run("stops when unit budget is spent", func(t *testing.T) {
		_, st := newFollowStream(t, unitBytes(1, 2, 3))

		var buf syncBuffer
		err := followUnits(context.Background(), st, &buf, nil, nil, clock.NewRealClock(), poll, 0, 2)
		if err != nil {
			t.Fatalf("followUnits() error = %v", err)
		}
		if got := countLines(buf.String()); got != 2 {
			t.Errorf("emitted %d rows, want 2:\n%s", got, buf.String())
		}
	})

	t.Run("decodes appended units on poll", func(t *testing.T) {
		path, st := newFollowStream(t, unitBytes(7))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		fc := clock.NewFakeClock()
		var buf syncBuffer
		done := make(chan error, 1)
		go func() {
			done <- followUnits(ctx, st, &buf, nil, nil, fc, poll, 0, 0)
		}()

		// The initial drain runs before the ticker exists, so once the
		// clock has a waiter the first row is already out.
		fc.BlockUntil(1)
		if got := countLines(buf.String()); got != 1 {
			t.Fatalf("initial drain emitted %d rows, want 1:\n%s", got, buf.String())
		}

		appendBytes(t, path, unitBytes(8))
		fc.Advance(poll)

		waitFor(t, 2*time.Second, func() bool { return countLines(buf.String()) == 2 })
		want := "00000000 0x00000007 7 7\n00000004 0x00000008 8 8\n"
		if buf.String() != want {
			t.Errorf("followUnits() output = %q, want %q", buf.String(), want)
		}

		cancel()
		if err := <-done; err != nil {
			t.Fatalf("followUnits() error = %v", err)
		}
	})

	t.Run("rereads partial unit from its boundary", func(t *testing.T) {
		whole := unitBytes(0x11223344)
		path, st := newFollowStream(t, whole[:2])

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		fc := clock.NewFakeClock()
		var buf syncBuffer
		done := make(chan error, 1)
		go func() {
			done <- followUnits(ctx, st, &buf, nil, nil, fc, poll, 0, 0)
		}()

		fc.BlockUntil(1)
		if buf.String() != "" {
			t.Fatalf("partial unit produced output: %q", buf.String())
		}

		appendBytes(t, path, whole[2:])
		fc.Advance(poll)

		waitFor(t, 2*time.Second, func() bool { return countLines(buf.String()) == 1 })
		want := "00000000 0x11223344 287454020 287454020\n"
		if buf.String() != want {
			t.Errorf("followUnits() output = %q, want %q", buf.String(), want)
		}

		cancel()
		if err := <-done; err != nil {
			t.Fatalf("followUnits() error = %v", err)
		}
	})

	t.Run("stops at timeout", func(t *testing.T) {
		_, st := newFollowStream(t, nil)

		fc := clock.NewFakeClock()
		var buf syncBuffer
		done := make(chan error, 1)
		go func() {
			done <- followUnits(context.Background(), st, &buf, nil, nil, fc, poll, 5*time.Second, 0)
		}()

		// Ticker plus deadline.
		fc.BlockUntil(2)
		fc.Advance(5 * time.Second)

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("followUnits() error = %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("followUnits() did not stop at the timeout")
		}
	})

	t.Run("drains on write events", func(t *testing.T) {
		path, st := newFollowStream(t, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events := make(chan fsnotify.Event, 1)
		var buf syncBuffer
		done := make(chan error, 1)
		go func() {
			done <- followUnits(ctx, st, &buf, events, nil, clock.NewRealClock(), time.Hour, 0, 0)
		}()

		appendBytes(t, path, unitBytes(0x2a))
		events <- fsnotify.Event{Name: path, Op: fsnotify.Write}

		waitFor(t, 2*time.Second, func() bool { return countLines(buf.String()) == 1 })
		if !strings.Contains(buf.String(), "0x0000002a") {
			t.Errorf("followUnits() output = %q, want it to contain 0x0000002a", buf.String())
		}

		cancel()
		if err := <-done; err != nil {
			t.Fatalf("followUnits() error = %v", err)
		}
	})

	t.Run("returns watcher errors", func(t *testing.T) {
		_, st := newFollowStream(t, nil)

		watchErrs := make(chan error, 1)
		watchErrs <- errors.New("boom")

		var buf syncBuffer
		err := followUnits(context.Background(), st, &buf, nil, watchErrs, clock.NewRealClock(), time.Hour, 0, 0)
		if err == nil || !strings.Contains(err.Error(), "watcher error") {
			t.Errorf("followUnits() error = %v, want watcher error", err)
		}
	})

	t.Run("returns on context cancel", func(t *testing.T) {
		_, st := newFollowStream(t, unitBytes(9))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var buf syncBuffer
		err := followUnits(ctx, st, &buf, nil, nil, clock.NewRealClock(), time.Hour, 0, 0)
		if err != nil {
			t.Fatalf("followUnits() error = %v", err)
		}
		// The drain before the wait loop still runs.
		if got := countLines(buf.String()); got != 1 {
			t.Errorf("emitted %d rows, want 1", got)
		}
	})
}
