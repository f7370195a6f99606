package cdr

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

// Reader decodes CDR values. Alignment is computed relative to the first byte of the buffer.
type Reader struct {
	order   binary.ByteOrder
	options Options
	buf     []byte
	offset  int
}

// NewReader creates reader.
func NewReader(order binary.ByteOrder, b []byte, opts Options) *Reader {
	return &Reader{
		order:   order,
		options: opts,
		buf:     b,
	}
}

// ByteOrder returns byte order used by the reader.
func (r *Reader) ByteOrder() binary.ByteOrder {
	return r.order
}

// Remaining returns number of bytes left.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.offset
}

// Align skips padding up to the multiple of n.
func (r *Reader) Align(n int) error {
	padding := (n - r.offset%n) % n
	if padding > r.Remaining() {
		return errors.Wrapf(ErrMalformedPayload, "alignment to %d exceeds buffer at offset %d", n, r.offset)
	}
	r.offset += padding
	return nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, errors.Wrapf(ErrMalformedPayload, "%d bytes requested at offset %d, %d available",
			n, r.offset, r.Remaining())
	}
	b := r.buf[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

func (r *Reader) aligned(n int) ([]byte, error) {
	if err := r.Align(n); err != nil {
		return nil, err
	}
	return r.take(n)
}

// Uint8 reads uint8.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Bool reads bool.
func (r *Reader) Bool() (bool, error) {
	v, err := r.Uint8()
	return v != 0, err
}

// Uint16 reads uint16.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.aligned(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

// Int16 reads int16.
func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Uint32 reads uint32.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.aligned(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// Int32 reads int32.
func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Uint64 reads uint64.
func (r *Reader) Uint64() (uint64, error) {
	b, err := r.aligned(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

// Octets reads n raw bytes. Returned slice is a copy.
func (r *Reader) Octets(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// OctetsInto fills the array-backed slice.
func (r *Reader) OctetsInto(dst []byte) error {
	b, err := r.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// OctetSeq reads bytes prefixed with their length.
func (r *Reader) OctetSeq() ([]byte, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(r.Remaining()) {
		return nil, errors.Wrapf(ErrMalformedPayload, "octet sequence of %d bytes exceeds buffer", n)
	}
	return r.Octets(int(n))
}

// String reads string. Length includes the terminating NUL.
func (r *Reader) String() (string, error) {
	n, err := r.Uint32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	if uint64(n) > uint64(r.Remaining()) {
		return "", errors.Wrapf(ErrMalformedPayload, "string of %d bytes exceeds buffer", n)
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	if b[n-1] != 0 {
		return "", errors.Wrap(ErrMalformedPayload, "string is not NUL-terminated")
	}
	return string(b[:n-1]), nil
}

// StringSeq reads sequence of strings.
func (r *Reader) StringSeq() ([]string, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	// Every string takes at least 4 bytes.
	if uint64(n)*4 > uint64(r.Remaining()) {
		return nil, errors.Wrapf(ErrMalformedPayload, "sequence of %d strings exceeds buffer", n)
	}
	ss := make([]string, 0, n)
	for range n {
		s, err := r.String()
		if err != nil {
			return nil, err
		}
		ss = append(ss, s)
	}
	return ss, nil
}

// Duration reads duration.
func (r *Reader) Duration() (rtps.Duration, error) {
	sec, err := r.Int32()
	if err != nil {
		return rtps.Duration{}, err
	}
	sub, err := r.Uint32()
	if err != nil {
		return rtps.Duration{}, err
	}
	if !r.options.NanosecondDurations {
		return rtps.DurationFromFraction(sec, sub), nil
	}
	if sec == rtps.DurationInfinite.Seconds && sub == rtps.InfiniteNanoseconds {
		return rtps.DurationInfinite, nil
	}
	return rtps.NewDuration(sec, sub), nil
}

// Locator reads locator.
func (r *Reader) Locator() (rtps.Locator, error) {
	kind, err := r.Int32()
	if err != nil {
		return rtps.Locator{}, err
	}
	port, err := r.Uint32()
	if err != nil {
		return rtps.Locator{}, err
	}
	l := rtps.Locator{Kind: rtps.LocatorKind(kind), Port: port}
	if err := r.OctetsInto(l.Address[:]); err != nil {
		return rtps.Locator{}, err
	}
	return l, nil
}
