package xdr

import (
	"encoding/binary"
	"io"
)

// flusher is the optional flush capability of a buffered resource
// (bufio.Writer and friends). *os.File does not implement it; its writes
// reach the kernel directly and Destroy has nothing to push down.
type flusher interface {
	Flush() error
}

// fileStream implements Ops over a caller-owned seekable byte resource.
//
// The resource must satisfy whole-buffer transfers in a single call the way
// *os.File does for regular files: GetInt and GetBytes issue exactly one
// Read for the full length and treat anything less as failure, with no
// retry-and-accumulate loop. Resources that legally return short reads
// (pipes, sockets) belong behind a different backend.
//
// The stream holds no position of its own; Pos and SetPos are the
// resource's seek offsets, so the stream interoperates with anything else
// driving the same resource through the same seek semantics.
type fileStream struct {
	NoExtensions
	f io.ReadWriteSeeker
}

// NewFileStream binds a direction and an already-open, caller-owned
// resource. No I/O happens here; the first operation touches the resource
// at whatever offset it currently holds. The caller keeps ownership: after
// Destroy the resource is still open and still the caller's to close.
func NewFileStream(rws io.ReadWriteSeeker, dir Direction) *Stream {
	return NewStream(dir, &fileStream{f: rws})
}

func (fs *fileStream) GetInt() (int, bool) {
	var b [4]byte
	if n, _ := fs.f.Read(b[:]); n != len(b) {
		return 0, false
	}
	return int(binary.BigEndian.Uint32(b[:])), true
}

func (fs *fileStream) PutInt(v int) bool {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	n, err := fs.f.Write(b[:])
	return err == nil && n == len(b)
}

func (fs *fileStream) GetBytes(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	n, _ := fs.f.Read(p)
	return n == len(p)
}

func (fs *fileStream) PutBytes(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	n, err := fs.f.Write(p)
	return err == nil && n == len(p)
}

func (fs *fileStream) Pos() uint32 {
	off, err := fs.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return InvalidPos
	}
	return uint32(off)
}

func (fs *fileStream) SetPos(pos uint32) bool {
	_, err := fs.f.Seek(int64(pos), io.SeekStart)
	return err == nil
}

// Inline always declines. A generic buffered resource cannot hand out a
// direct window into its internals; faking one with a scratch copy would
// reintroduce the copy the zero-copy path exists to avoid.
func (fs *fileStream) Inline(n uint32) []byte { return nil }

// Destroy flushes buffered output when the resource can flush. The flush
// result is dropped: Destroy has no failure channel. The resource stays
// open for the caller.
func (fs *fileStream) Destroy() {
	if fl, ok := fs.f.(flusher); ok {
		_ = fl.Flush()
	}
}
