package rw

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// reader is a little-endian cursor over one section region.
// The first failed read sets err; later reads return zero values.
type reader struct {
	data []byte
	off  int
	err  error
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) remaining() int { return len(r.data) - r.off }

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if n < 0 || n > r.remaining() {
		r.err = errors.Wrapf(ErrTruncated, "need %d bytes at %d, have %d", n, r.off, r.remaining())
		r.off = len(r.data)
		return false
	}
	return true
}

// fits checks that count elements of size bytes each are present before
// anything is allocated for them.
func (r *reader) fits(count uint64, size int) bool {
	if r.err != nil {
		return false
	}
	if count*uint64(size) > uint64(r.remaining()) {
		r.err = errors.Wrapf(ErrTruncated, "%d elements of %d bytes at %d, have %d",
			count, size, r.off, r.remaining())
		r.off = len(r.data)
		return false
	}
	return true
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) u8() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

func (r *reader) u16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) u32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) i32() int32 { return int32(r.u32()) }

func (r *reader) f32() float32 { return math.Float32frombits(r.u32()) }

func (r *reader) bytes(n int) []byte {
	if !r.need(n) {
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// str reads a fixed-width string field.
func (r *reader) str(n int) string {
	b := r.bytes(n)
	if b == nil {
		return ""
	}
	return decodeString(b)
}

func (r *reader) rest() []byte {
	b := r.data[r.off:]
	r.off = len(r.data)
	return b
}

// bits reads a fixed-size bitfield most significant bit first.
func (r *reader) bits(nbytes int) *bitReader {
	return &bitReader{data: r.bytes(nbytes)}
}

type bitReader struct {
	data []byte
	pos  int
}

func (b *bitReader) take(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		idx := b.pos / 8
		if idx >= len(b.data) {
			return v
		}
		bit := (b.data[idx] >> (7 - uint(b.pos%8))) & 1
		v = v<<1 | uint32(bit)
		b.pos++
	}
	return v
}
