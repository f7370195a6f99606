package cdr

import (
	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

// Writer encodes CDR values. Alignment is computed relative to the first byte written.
type Writer struct {
	order   ByteOrder
	options Options
	buf     []byte
}

// NewWriter creates writer.
func NewWriter(order ByteOrder, opts Options) *Writer {
	return &Writer{
		order:   order,
		options: opts,
	}
}

// ByteOrder returns byte order used by the writer.
func (w *Writer) ByteOrder() ByteOrder {
	return w.order
}

// Len returns number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns encoded bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Align pads the buffer with zeros up to the multiple of n.
func (w *Writer) Align(n int) {
	for len(w.buf)%n != 0 {
		w.buf = append(w.buf, 0)
	}
}

// Uint8 writes uint8.
func (w *Writer) Uint8(v uint8) {
	w.buf = append(w.buf, v)
}

// Bool writes bool.
func (w *Writer) Bool(v bool) {
	if v {
		w.Uint8(1)
		return
	}
	w.Uint8(0)
}

// Uint16 writes uint16.
func (w *Writer) Uint16(v uint16) {
	w.Align(2)
	w.buf = w.order.AppendUint16(w.buf, v)
}

// Int16 writes int16.
func (w *Writer) Int16(v int16) {
	w.Uint16(uint16(v))
}

// Uint32 writes uint32.
func (w *Writer) Uint32(v uint32) {
	w.Align(4)
	w.buf = w.order.AppendUint32(w.buf, v)
}

// Int32 writes int32.
func (w *Writer) Int32(v int32) {
	w.Uint32(uint32(v))
}

// Uint64 writes uint64.
func (w *Writer) Uint64(v uint64) {
	w.Align(8)
	w.buf = w.order.AppendUint64(w.buf, v)
}

// Octets writes raw bytes without length.
func (w *Writer) Octets(b []byte) {
	w.buf = append(w.buf, b...)
}

// OctetSeq writes bytes prefixed with their length.
func (w *Writer) OctetSeq(b []byte) {
	w.Uint32(uint32(len(b)))
	w.Octets(b)
}

// String writes string, length includes the terminating NUL.
func (w *Writer) String(s string) {
	w.Uint32(uint32(len(s) + 1))
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

// StringSeq writes sequence of strings.
func (w *Writer) StringSeq(ss []string) {
	w.Uint32(uint32(len(ss)))
	for _, s := range ss {
		w.String(s)
	}
}

// Duration writes duration as seconds followed by fraction or nanoseconds.
func (w *Writer) Duration(d rtps.Duration) {
	w.Int32(d.Seconds)
	switch {
	case !w.options.NanosecondDurations:
		w.Uint32(d.Fraction())
	case d.IsInfinite():
		w.Uint32(rtps.InfiniteNanoseconds)
	default:
		w.Uint32(d.Nanoseconds)
	}
}

// Locator writes locator.
func (w *Writer) Locator(l rtps.Locator) {
	w.Int32(int32(l.Kind))
	w.Uint32(l.Port)
	w.Octets(l.Address[:])
}
