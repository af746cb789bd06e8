// Package xdr implements the XDR (External Data Representation) stream
// layer per RFC 4506: a fixed contract of primitive operations (Ops) that
// interchangeable backends implement and that higher-level codecs compose.
//
// Two backends ship with the package:
//   - a buffered-file backend over any io.ReadWriteSeeker (NewFileStream)
//   - a memory backend over a caller-owned byte window (NewMemStream)
//
// The contract is deliberately primitive: 4-byte big-endian integer units,
// verbatim byte ranges, byte-offset positioning, an optional zero-copy
// window, and three extension hooks for backends with extra capabilities.
// Structured types (arrays, strings, unions) and record-marking transports
// layer above it and are not part of this package. Every operation reports
// success as a bare bool; the layer defines no richer error values and
// never retries a short transfer.
//
// Streams are not safe for concurrent use. Each stream has one logical
// owner at a time; sharing a backing resource across streams requires
// external serialization and a shared notion of position.
//
// Reference: RFC 4506 - XDR: External Data Representation Standard
// https://tools.ietf.org/html/rfc4506
package xdr

// Direction fixes, at construction time, whether a stream serializes host
// values into its backing store or deserializes values out of it. Backends
// do not detect direction misuse; calling decode operations on an Encode
// stream (or vice versa) is a caller bug.
type Direction int

const (
	// Encode streams host values into the backing store.
	Encode Direction = iota
	// Decode streams values out of the backing store.
	Decode
)

// String returns "encode" or "decode" for log output.
func (d Direction) String() string {
	switch d {
	case Encode:
		return "encode"
	case Decode:
		return "decode"
	default:
		return "unknown"
	}
}

// ControlReq identifies a backend-specific request issued through Control.
type ControlReq int

const (
	// BytesAvail asks how many bytes remain between the current position
	// and the end of the backing store. The argument must be a *uint32.
	// Only backends with an internal cursor can answer it.
	BytesAvail ControlReq = iota + 1
)

// InvalidPos is returned by Pos when the backing resource cannot report a
// byte offset (for example a pipe bound to the file backend).
const InvalidPos = ^uint32(0)

// Ops is the operation contract every backend implements. The set is fixed:
// codecs depend on exactly these eleven operations and nothing else, so a
// backend that lacks a capability must still provide the method and fail it
// unconditionally (embed NoExtensions or NoVec) rather than narrow the
// contract. Position values are byte offsets in the backend's own terms;
// for a seekable resource they are its seek offsets.
//
// Failure is a bare false (or nil from Inline). No operation retries, and
// after a failed read or write the position is undefined until the caller
// re-establishes it with SetPos.
type Ops interface {
	// GetInt decodes one 4-byte big-endian unit and zero-extends the
	// 32-bit wire value into the native int. It fails when fewer than
	// 4 bytes are available; no partial value is produced.
	GetInt() (int, bool)

	// PutInt encodes the low 32 bits of v as one 4-byte big-endian unit.
	// Truncation of a wider native int is the wire contract, not an
	// error: the unit width is 4 bytes on every platform.
	PutInt(v int) bool

	// GetBytes reads exactly len(p) bytes verbatim. len(p) == 0 succeeds
	// without touching the resource. A short read is total failure.
	GetBytes(p []byte) bool

	// PutBytes writes exactly len(p) bytes verbatim. len(p) == 0 succeeds
	// without touching the resource. A short write is total failure.
	PutBytes(p []byte) bool

	// Pos reports the current byte offset, or InvalidPos when the
	// resource cannot report one.
	Pos() uint32

	// SetPos repositions the stream to an absolute byte offset.
	SetPos(pos uint32) bool

	// Inline returns a window of n bytes directly into the backend's
	// buffer, advancing the position, or nil when the backend cannot
	// expose one. nil is always a legal answer; callers must fall back
	// to GetBytes/PutBytes.
	Inline(n uint32) []byte

	// Destroy releases backend bookkeeping and flushes buffered output.
	// It never fails: a flush error is swallowed so Destroy stays safe
	// to call during cleanup. The backing resource is left open; its
	// lifetime belongs to whoever opened it.
	Destroy()

	// Control issues a backend-specific request. Backends without
	// control support fail every request.
	Control(req ControlReq, arg any) bool

	// GetBufs is the scatter-read extension hook for backends with
	// vectored input support.
	GetBufs(v [][]byte, flags uint32) bool

	// PutBufs is the gather-write extension hook for backends with
	// vectored output support.
	PutBufs(v [][]byte, flags uint32) bool
}

// NoVec stubs the scatter/gather hooks as permanent failures. Backends
// without vectored I/O embed it to keep the uniform contract shape.
type NoVec struct{}

// GetBufs always reports failure.
func (NoVec) GetBufs([][]byte, uint32) bool { return false }

// PutBufs always reports failure.
func (NoVec) PutBufs([][]byte, uint32) bool { return false }

// NoExtensions stubs all three extension hooks (Control plus the vectored
// pair) as permanent failures.
type NoExtensions struct{ NoVec }

// Control always reports failure.
func (NoExtensions) Control(ControlReq, any) bool { return false }

// Stream binds a direction to an Ops implementation for the lifetime of an
// encode or decode session. Direction and the contract reference never
// change after construction; only backend-internal state (position,
// buffered bytes) evolves as operations run.
//
// A stream does not own its backing resource. Destroy flushes and releases
// stream bookkeeping, after which the stream must not be used again, but
// closing the resource remains the opener's job.
type Stream struct {
	dir Direction
	ops Ops

	// Public is a free slot for callers layering their own state over a
	// stream (a codec registry, a session tag). The package never reads
	// or writes it.
	Public any
}

// NewStream binds a direction and a backend contract. Backends outside
// this package use it as their constructor tail; NewFileStream and
// NewMemStream call it internally. No I/O happens at construction.
func NewStream(dir Direction, ops Ops) *Stream {
	return &Stream{dir: dir, ops: ops}
}

// Direction reports the direction fixed at construction.
func (s *Stream) Direction() Direction { return s.dir }

// GetInt decodes one 4-byte unit. See Ops.GetInt.
func (s *Stream) GetInt() (int, bool) { return s.ops.GetInt() }

// PutInt encodes one 4-byte unit. See Ops.PutInt.
func (s *Stream) PutInt(v int) bool { return s.ops.PutInt(v) }

// GetBytes reads exactly len(p) bytes. See Ops.GetBytes.
func (s *Stream) GetBytes(p []byte) bool { return s.ops.GetBytes(p) }

// PutBytes writes exactly len(p) bytes. See Ops.PutBytes.
func (s *Stream) PutBytes(p []byte) bool { return s.ops.PutBytes(p) }

// Pos reports the current byte offset. See Ops.Pos.
func (s *Stream) Pos() uint32 { return s.ops.Pos() }

// SetPos repositions the stream. See Ops.SetPos.
func (s *Stream) SetPos(pos uint32) bool { return s.ops.SetPos(pos) }

// Inline returns a zero-copy window or nil. See Ops.Inline.
func (s *Stream) Inline(n uint32) []byte { return s.ops.Inline(n) }

// Destroy releases the stream. It never fails and never closes the backing
// resource. See Ops.Destroy.
func (s *Stream) Destroy() { s.ops.Destroy() }

// Control issues a backend-specific request. See Ops.Control.
func (s *Stream) Control(req ControlReq, arg any) bool { return s.ops.Control(req, arg) }

// GetBufs invokes the scatter-read hook. See Ops.GetBufs.
func (s *Stream) GetBufs(v [][]byte, flags uint32) bool { return s.ops.GetBufs(v, flags) }

// PutBufs invokes the gather-write hook. See Ops.PutBufs.
func (s *Stream) PutBufs(v [][]byte, flags uint32) bool { return s.ops.PutBufs(v, flags) }
