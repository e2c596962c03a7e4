// Package gpread reads the primitive values Guitar Pro files are built from:
// little-endian integers, booleans and length-prefixed Windows-1252 strings.
package gpread

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrUnexpectedEndOfInput   = errors.New("unexpected end of input")
	ErrMismatchedStringLength = errors.New("mismatched string length")
)

// Reader owns the read cursor over a seekable byte source. It is not safe
// for concurrent use; every decode needs its own Reader.
type Reader struct {
	rs   io.ReadSeeker
	pos  int64
	size int64
	buf  [4]byte
}

func NewReader(rs io.ReadSeeker) (*Reader, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errors.Wrap(err, "could not get start offset")
	}
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrap(err, "could not get source size")
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "could not rewind source")
	}
	return &Reader{rs: rs, pos: start, size: size}, nil
}

// Pos is the absolute offset of the next byte to be read.
func (r *Reader) Pos() int64 {
	return r.pos
}

func (r *Reader) Remaining() int64 {
	return r.size - r.pos
}

func (r *Reader) read(p []byte) error {
	if int64(len(p)) > r.Remaining() {
		return errors.Wrapf(ErrUnexpectedEndOfInput, "need %d bytes at offset %d, have %d", len(p), r.pos, r.Remaining())
	}
	n, err := io.ReadFull(r.rs, p)
	r.pos += int64(n)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrapf(ErrUnexpectedEndOfInput, "source ended at offset %d", r.pos)
	}
	if err != nil {
		return errors.Wrapf(err, "read failed at offset %d", r.pos)
	}
	return nil
}

func (r *Reader) ReadU8() (uint8, error) {
	if err := r.read(r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

func (r *Reader) ReadI8() (int8, error) {
	b, err := r.ReadU8()
	return int8(b), err
}

// ReadBool treats any nonzero byte as true.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadU8()
	return b != 0, err
}

func (r *Reader) ReadU16() (uint16, error) {
	if err := r.read(r.buf[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.buf[:2]), nil
}

func (r *Reader) ReadI32() (int32, error) {
	if err := r.read(r.buf[:4]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(r.buf[:4])), nil
}

func (r *Reader) readText(length int) (string, error) {
	if length == 0 {
		return "", nil
	}
	raw := make([]byte, length)
	if err := r.read(raw); err != nil {
		return "", err
	}
	text, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errors.Wrap(err, "could not decode text")
	}
	return string(text), nil
}

// ReadByteString reads a one byte length followed by that many bytes.
func (r *Reader) ReadByteString() (string, error) {
	length, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	return r.readText(int(length))
}

// ReadPaddedByteString reads a byte-length string stored in a fixed slot of
// width bytes after the length byte, and skips the unused rest of the slot.
func (r *Reader) ReadPaddedByteString(width int) (string, error) {
	start := r.pos
	length, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	if int(length) > width {
		return "", errors.Errorf("string at offset %d is %d bytes, slot holds %d", start, length, width)
	}
	s, err := r.readText(int(length))
	if err != nil {
		return "", err
	}
	if err := r.Skip(int64(width - int(length))); err != nil {
		return "", err
	}
	return s, nil
}

// ReadIntString reads a four byte length followed by that many bytes.
func (r *Reader) ReadIntString() (string, error) {
	start := r.pos
	length, err := r.ReadI32()
	if err != nil {
		return "", err
	}
	if length < 0 || int64(length) > r.Remaining() {
		return "", errors.Wrapf(ErrUnexpectedEndOfInput, "string at offset %d claims %d bytes", start, length)
	}
	return r.readText(int(length))
}

// ReadIntByteString reads the dual-length encoding: a four byte length, a
// one byte length that must be one less, then the bytes. On a mismatch the
// text read with the byte length is still returned, together with an error
// wrapping ErrMismatchedStringLength, so the caller decides whether to go on.
func (r *Reader) ReadIntByteString() (string, error) {
	start := r.pos
	intLength, err := r.ReadI32()
	if err != nil {
		return "", err
	}
	byteLength, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	s, err := r.readText(int(byteLength))
	if err != nil {
		return "", err
	}
	if intLength != int32(byteLength)+1 {
		return s, errors.Wrapf(ErrMismatchedStringLength, "string at offset %d: int length %d, byte length %d", start, intLength, byteLength)
	}
	return s, nil
}

// Skip moves the cursor forward without reading. It is only meant for the
// padding after fixed-width string slots.
func (r *Reader) Skip(n int64) error {
	if n < 0 {
		return errors.Errorf("cannot skip %d bytes at offset %d", n, r.pos)
	}
	if n > r.Remaining() {
		return errors.Wrapf(ErrUnexpectedEndOfInput, "skip of %d bytes at offset %d", n, r.pos)
	}
	pos, err := r.rs.Seek(n, io.SeekCurrent)
	if err != nil {
		return errors.Wrapf(err, "seek failed at offset %d", r.pos)
	}
	r.pos = pos
	return nil
}
