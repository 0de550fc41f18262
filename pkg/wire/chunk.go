package wire

import (
	"encoding/binary"
	"math"

	"github.com/shuliakovsky/peersync/pkg/timing"
)

// Chunk is an append-only byte buffer used to build a wire frame. Values
// are appended in declaration order; readers on the far end must call Get
// in the same order (see Stream).
type Chunk struct {
	buf []byte
}

// NewChunk builds a chunk from a mixture of scalars, strings, TimeStamps,
// and other chunks, appended in order.
func NewChunk(args ...any) *Chunk {
	c := &Chunk{}
	c.Add(args...)
	return c
}

// Add appends each argument to the chunk in order. Supported types are the
// fixed-width integer scalars, bool (one byte), int (written as int32),
// float64, string (length-prefixed UTF-8), timing.TimeStamp (its
// underlying float64), and *Chunk (verbatim); any other type panics.
func (c *Chunk) Add(args ...any) {
	for _, a := range args {
		c.add(a)
	}
}

func (c *Chunk) add(a any) {
	switch v := a.(type) {
	case string:
		c.AddString(v)
	case *Chunk:
		c.AddChunk(v)
	case timing.TimeStamp:
		c.putFloat64(v.Seconds())
	case uint8:
		c.buf = append(c.buf, v)
	case int8:
		c.buf = append(c.buf, byte(v))
	case bool:
		if v {
			c.buf = append(c.buf, 1)
		} else {
			c.buf = append(c.buf, 0)
		}
	case uint16:
		c.putUint16(v)
	case int16:
		c.putUint16(uint16(v))
	case uint32:
		c.putUint32(v)
	case int32:
		c.putUint32(uint32(v))
	case uint64:
		c.putUint64(v)
	case int64:
		c.putUint64(uint64(v))
	case int:
		c.putUint32(uint32(int32(v)))
	case float64:
		c.putFloat64(v)
	default:
		panic("wire: unsupported chunk value type")
	}
}

func (c *Chunk) putUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	c.buf = append(c.buf, b[:]...)
}

func (c *Chunk) putUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	c.buf = append(c.buf, b[:]...)
}

func (c *Chunk) putUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	c.buf = append(c.buf, b[:]...)
}

func (c *Chunk) putFloat64(v float64) {
	c.putUint64(math.Float64bits(v))
}

// AddString appends a length-prefixed (uint32) UTF-8 string.
func (c *Chunk) AddString(s string) {
	c.putUint32(uint32(len(s)))
	c.buf = append(c.buf, s...)
}

// AddChunk appends the contents of another chunk verbatim.
func (c *Chunk) AddChunk(other *Chunk) {
	c.buf = append(c.buf, other.buf...)
}

// Bytes returns the chunk's accumulated byte buffer.
func (c *Chunk) Bytes() []byte {
	return c.buf
}

// Len returns the number of bytes currently accumulated.
func (c *Chunk) Len() int {
	return len(c.buf)
}
