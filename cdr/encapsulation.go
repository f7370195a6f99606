// Package cdr implements the OMG CDR encoding and the RTPS parameter list built on top of it.
package cdr

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedPayload is returned when buffer can't be decoded.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrMustUnderstand is returned when parameter list contains unknown parameter flagged as must-understand.
	ErrMustUnderstand = errors.Wrap(ErrMalformedPayload, "unknown must-understand parameter")
)

// HeaderSize is the size of encapsulation header.
const HeaderSize = 4

// Scheme is the encapsulation scheme identifier.
type Scheme uint16

// Encapsulation schemes.
const (
	SchemeCDRBE   Scheme = 0x0000
	SchemeCDRLE   Scheme = 0x0001
	SchemePLCDRBE Scheme = 0x0002
	SchemePLCDRLE Scheme = 0x0003
)

// ByteOrder decodes and appends multi-byte values.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// ByteOrder returns byte order of the body encoded with the scheme.
func (s Scheme) ByteOrder() ByteOrder {
	if s&0x0001 != 0 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// IsParameterList returns true if body is a parameter list.
func (s Scheme) IsParameterList() bool {
	return s == SchemePLCDRBE || s == SchemePLCDRLE
}

func (s Scheme) String() string {
	switch s {
	case SchemeCDRBE:
		return "CDR_BE"
	case SchemeCDRLE:
		return "CDR_LE"
	case SchemePLCDRBE:
		return "PL_CDR_BE"
	case SchemePLCDRLE:
		return "PL_CDR_LE"
	default:
		return "unknown"
	}
}

// Header is the encapsulation header preceding serialized payload.
type Header struct {
	Scheme  Scheme
	Options uint16
}

// Append appends header to the buffer.
// Scheme is always big-endian, options follow the byte order of the body.
func (h Header) Append(b []byte) []byte {
	b = binary.BigEndian.AppendUint16(b, uint16(h.Scheme))
	return h.Scheme.ByteOrder().AppendUint16(b, h.Options)
}

// ReadHeader decodes encapsulation header and returns it together with the body.
func ReadHeader(b []byte) (Header, []byte, error) {
	if len(b) < HeaderSize {
		return Header{}, nil, errors.Wrapf(ErrMalformedPayload, "encapsulation header requires %d bytes, got %d",
			HeaderSize, len(b))
	}
	scheme := Scheme(binary.BigEndian.Uint16(b))
	switch scheme {
	case SchemeCDRBE, SchemeCDRLE, SchemePLCDRBE, SchemePLCDRLE:
	default:
		return Header{}, nil, errors.Wrapf(ErrMalformedPayload, "unknown encapsulation scheme 0x%04x",
			uint16(scheme))
	}
	return Header{
		Scheme:  scheme,
		Options: scheme.ByteOrder().Uint16(b[2:]),
	}, b[HeaderSize:], nil
}
