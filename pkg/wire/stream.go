package wire

import (
	"encoding/binary"
	"math"

	"github.com/shuliakovsky/peersync/pkg/timing"
)

// Stream is a cursor over an immutable byte buffer. Get* calls read in
// declaration order; PeekTag is the sole dispatch primitive used to select
// a sub-message.
type Stream struct {
	buf []byte
	pos int
}

// NewStream wraps buf for sequential reading from position 0.
func NewStream(buf []byte) *Stream {
	return &Stream{buf: buf}
}

// Tell returns the current cursor position.
func (s *Stream) Tell() int { return s.pos }

// Seek moves the cursor to an absolute position.
func (s *Stream) Seek(pos int) { s.pos = pos }

func (s *Stream) need(n int) error {
	if s.pos+n > len(s.buf) {
		return ErrMalformedFrame
	}
	return nil
}

// GetUint8 reads a single byte.
func (s *Stream) GetUint8() (uint8, error) {
	if err := s.need(1); err != nil {
		return 0, err
	}
	v := s.buf[s.pos]
	s.pos++
	return v, nil
}

// GetBool reads a single byte as a boolean (non-zero is true).
func (s *Stream) GetBool() (bool, error) {
	v, err := s.GetUint8()
	return v != 0, err
}

// GetUint16 reads a little-endian uint16.
func (s *Stream) GetUint16() (uint16, error) {
	if err := s.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(s.buf[s.pos:])
	s.pos += 2
	return v, nil
}

// GetUint32 reads a little-endian uint32.
func (s *Stream) GetUint32() (uint32, error) {
	if err := s.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(s.buf[s.pos:])
	s.pos += 4
	return v, nil
}

// GetInt32 reads a little-endian int32.
func (s *Stream) GetInt32() (int32, error) {
	v, err := s.GetUint32()
	return int32(v), err
}

// GetUint64 reads a little-endian uint64.
func (s *Stream) GetUint64() (uint64, error) {
	if err := s.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(s.buf[s.pos:])
	s.pos += 8
	return v, nil
}

// GetFloat64 reads a little-endian IEEE-754 double.
func (s *Stream) GetFloat64() (float64, error) {
	bits, err := s.GetUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// GetTimeStamp reads a TimeStamp (serialized as its underlying float64).
func (s *Stream) GetTimeStamp() (timing.TimeStamp, error) {
	v, err := s.GetFloat64()
	return timing.TimeStamp(v), err
}

// GetString reads a length-prefixed (uint32) UTF-8 string.
func (s *Stream) GetString() (string, error) {
	n, err := s.GetUint32()
	if err != nil {
		return "", err
	}
	if err := s.need(int(n)); err != nil {
		return "", err
	}
	v := string(s.buf[s.pos : s.pos+int(n)])
	s.pos += int(n)
	return v, nil
}

// PeekTag reads a string at the cursor, compares it to tag, and advances
// the cursor iff it matches. It returns the match as a boolean and never
// returns an error: a read failure (e.g. end of buffer) is treated as a
// non-match so callers can fall through to an "unknown tag" branch.
func (s *Stream) PeekTag(tag string) bool {
	start := s.pos
	got, err := s.GetString()
	if err != nil {
		s.pos = start
		return false
	}
	if got != tag {
		s.pos = start
		return false
	}
	return true
}

// Remaining returns the number of unread bytes left in the buffer.
func (s *Stream) Remaining() int {
	return len(s.buf) - s.pos
}
