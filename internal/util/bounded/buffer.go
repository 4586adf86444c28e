// Package bounded provides fixed-capacity byte storage. Nothing in this package
// grows a backing array after construction: writes past capacity fail instead.
package bounded

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	ErrCapacityExceeded = errors.New("bounded: capacity exceeded")
	ErrOutOfRange       = errors.New("bounded: read out of range")
)

// Buffer is an append-only byte buffer with a capacity fixed at construction.
type Buffer struct {
	data []byte
	n    int
}

// NewBuffer allocates a buffer holding at most capacity bytes.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, capacity)}
}

// Wrap uses the given storage as the buffer backing. The buffer never writes
// outside of storage.
func Wrap(storage []byte) Buffer {
	return Buffer{data: storage}
}

// Append copies p to the end of the buffer. If p does not fit, the buffer is
// left untouched and ErrCapacityExceeded is returned.
func (b *Buffer) Append(p ...byte) error {
	if len(p) > len(b.data)-b.n {
		return ErrCapacityExceeded
	}

	b.n += copy(b.data[b.n:], p)
	return nil
}

// AppendLV appends a one byte length prefix followed by p.
func (b *Buffer) AppendLV(p []byte) error {
	if len(p) > 0xff {
		return ErrCapacityExceeded
	}
	if len(p)+1 > len(b.data)-b.n {
		return ErrCapacityExceeded
	}

	b.data[b.n] = byte(len(p))
	b.n++
	b.n += copy(b.data[b.n:], p)
	return nil
}

// Bytes returns the filled part of the buffer. The slice aliases the buffer storage.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.n]
}

func (b *Buffer) Len() int {
	return b.n
}

func (b *Buffer) Cap() int {
	return len(b.data)
}

// Reset zeroes the storage and empties the buffer.
func (b *Buffer) Reset() {
	clear(b.data)
	b.n = 0
}

// Reader reads sequentially from a byte slice with explicit bounds checks.
type Reader struct {
	buf []byte
	off int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Next returns the next n bytes. The returned slice aliases the underlying data.
func (r *Reader) Next(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.off {
		return nil, ErrOutOfRange
	}

	p := r.buf[r.off : r.off+n]
	r.off += n
	return p, nil
}

func (r *Reader) Byte() (byte, error) {
	p, err := r.Next(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (r *Reader) Uint64BE() (uint64, error) {
	p, err := r.Next(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p), nil
}

func (r *Reader) Uint16LE() (uint16, error) {
	p, err := r.Next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(p), nil
}

func (r *Reader) Uint32LE() (uint32, error) {
	p, err := r.Next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(p), nil
}

func (r *Reader) Uint64LE() (uint64, error) {
	p, err := r.Next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(p), nil
}

// Remaining reports the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Offset reports the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}
