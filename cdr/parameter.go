package cdr

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ParameterID identifies a parameter list record.
type ParameterID uint16

// Parameter ids and flags understood by the parameter list itself.
const (
	PIDPad      ParameterID = 0x0000
	PIDSentinel ParameterID = 0x0001

	ParameterIDVendorBit         ParameterID = 0x8000
	ParameterIDMustUnderstandBit ParameterID = 0x4000
)

// IsVendor returns true if id belongs to the vendor-specific range.
func (id ParameterID) IsVendor() bool {
	return id&ParameterIDVendorBit != 0
}

// MustUnderstand returns true if receiver must reject the list when it does not know the id.
func (id ParameterID) MustUnderstand() bool {
	return id&ParameterIDMustUnderstandBit != 0
}

func (id ParameterID) String() string {
	return fmt.Sprintf("0x%04x", uint16(id))
}

const parameterHeaderSize = 4

// ParameterListWriter encodes parameter list.
type ParameterListWriter struct {
	w *Writer
}

// NewParameterListWriter creates parameter list writer.
func NewParameterListWriter(order ByteOrder, opts Options) *ParameterListWriter {
	return &ParameterListWriter{
		w: NewWriter(order, opts),
	}
}

// Write appends parameter. Value is encoded by fn, aligned relative to the start of the value
// and padded to the multiple of 4 bytes.
func (plw *ParameterListWriter) Write(pid ParameterID, fn func(w *Writer) error) error {
	value := NewWriter(plw.w.order, plw.w.options)
	if err := fn(value); err != nil {
		return errors.Wrapf(err, "encoding parameter %s failed", pid)
	}
	value.Align(4)
	if value.Len() > math.MaxUint16 {
		return errors.Errorf("parameter %s is too long: %d bytes", pid, value.Len())
	}

	plw.w.Uint16(uint16(pid))
	plw.w.Uint16(uint16(value.Len()))
	plw.w.Octets(value.Bytes())
	return nil
}

// Bytes terminates list with sentinel and returns encoded bytes.
func (plw *ParameterListWriter) Bytes() []byte {
	plw.w.Uint16(uint16(PIDSentinel))
	plw.w.Uint16(0)
	return plw.w.Bytes()
}

// ReadParameterList walks records of the parameter list. PID_PAD records are skipped and
// PID_SENTINEL terminates the list. fn returns false for ids it does not know, which are skipped
// unless flagged as must-understand.
func ReadParameterList(
	body []byte,
	order binary.ByteOrder,
	opts Options,
	fn func(pid ParameterID, r *Reader) (bool, error),
) error {
	offset := 0
	for offset < len(body) {
		if len(body)-offset < parameterHeaderSize {
			return errors.Wrapf(ErrMalformedPayload, "truncated parameter header at offset %d", offset)
		}
		pid := ParameterID(order.Uint16(body[offset:]))
		length := int(order.Uint16(body[offset+2:]))
		offset += parameterHeaderSize

		if pid == PIDSentinel {
			return nil
		}
		if length > len(body)-offset {
			return errors.Wrapf(ErrMalformedPayload, "parameter %s of %d bytes exceeds buffer at offset %d",
				pid, length, offset)
		}
		value := body[offset : offset+length]
		offset += length

		if pid == PIDPad {
			continue
		}

		known, err := fn(pid, NewReader(order, value, opts))
		if err != nil {
			if errors.Is(err, ErrMalformedPayload) {
				return errors.WithMessagef(err, "decoding parameter %s failed", pid)
			}
			return errors.Wrapf(ErrMalformedPayload, "decoding parameter %s failed: %s", pid, err)
		}
		if !known && pid.MustUnderstand() && !pid.IsVendor() {
			return errors.Wrapf(ErrMustUnderstand, "parameter %s", pid)
		}
	}
	return nil
}
