package xdr

import "encoding/binary"

// memStream implements Ops over a caller-owned byte window with an internal
// cursor. Encoding writes into the window in place, so the caller sizes it
// up front; the backend never grows it. Decoding reads from it.
//
// This is the backend that makes the optional parts of the contract real:
// Inline hands out live sub-slices of the window, and Control answers
// BytesAvail from the cursor.
type memStream struct {
	NoVec
	buf []byte
	off int
}

// NewMemStream binds a direction and a caller-owned byte window. The cursor
// starts at offset 0. The window is aliased, not copied: bytes encoded into
// the stream land in buf, and buf edits are visible to later decodes.
func NewMemStream(buf []byte, dir Direction) *Stream {
	return NewStream(dir, &memStream{buf: buf})
}

func (ms *memStream) remaining() int { return len(ms.buf) - ms.off }

func (ms *memStream) GetInt() (int, bool) {
	if ms.remaining() < 4 {
		return 0, false
	}
	v := binary.BigEndian.Uint32(ms.buf[ms.off:])
	ms.off += 4
	return int(v), true
}

func (ms *memStream) PutInt(v int) bool {
	if ms.remaining() < 4 {
		return false
	}
	binary.BigEndian.PutUint32(ms.buf[ms.off:], uint32(v))
	ms.off += 4
	return true
}

func (ms *memStream) GetBytes(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	if ms.remaining() < len(p) {
		return false
	}
	copy(p, ms.buf[ms.off:])
	ms.off += len(p)
	return true
}

func (ms *memStream) PutBytes(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	if ms.remaining() < len(p) {
		return false
	}
	copy(ms.buf[ms.off:], p)
	ms.off += len(p)
	return true
}

func (ms *memStream) Pos() uint32 { return uint32(ms.off) }

// SetPos accepts any offset up to and including the window length; the end
// position is legal, it just has zero bytes remaining.
func (ms *memStream) SetPos(pos uint32) bool {
	if int64(pos) > int64(len(ms.buf)) {
		return false
	}
	ms.off = int(pos)
	return true
}

// Inline returns the next n bytes of the window as a live sub-slice and
// advances the cursor past them. Writes through the window are writes into
// the stream. When fewer than n bytes remain it returns nil and the cursor
// stays put.
func (ms *memStream) Inline(n uint32) []byte {
	if int64(n) > int64(ms.remaining()) {
		return nil
	}
	w := ms.buf[ms.off : ms.off+int(n)]
	ms.off += int(n)
	return w
}

// Destroy is a no-op: the window belongs to the caller and nothing is
// buffered.
func (ms *memStream) Destroy() {}

func (ms *memStream) Control(req ControlReq, arg any) bool {
	switch req {
	case BytesAvail:
		out, ok := arg.(*uint32)
		if !ok {
			return false
		}
		*out = uint32(ms.remaining())
		return true
	default:
		return false
	}
}
