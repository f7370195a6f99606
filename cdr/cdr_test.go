package cdr

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

func TestHeader(t *testing.T) {
	requireT := require.New(t)

	b := Header{Scheme: SchemePLCDRLE}.Append(nil)
	requireT.Equal([]byte{0x00, 0x03, 0x00, 0x00}, b)

	b = Header{Scheme: SchemePLCDRBE, Options: 1}.Append(nil)
	requireT.Equal([]byte{0x00, 0x02, 0x00, 0x01}, b)

	b = Header{Scheme: SchemePLCDRLE, Options: 1}.Append(nil)
	requireT.Equal([]byte{0x00, 0x03, 0x01, 0x00}, b)

	h, body, err := ReadHeader([]byte{0x00, 0x03, 0x01, 0x00, 0xaa})
	requireT.NoError(err)
	requireT.Equal(SchemePLCDRLE, h.Scheme)
	requireT.EqualValues(1, h.Options)
	requireT.Equal([]byte{0xaa}, body)
	requireT.True(h.Scheme.IsParameterList())
	requireT.Equal(binary.LittleEndian, h.Scheme.ByteOrder())
	requireT.Equal(binary.BigEndian, SchemeCDRBE.ByteOrder())

	_, _, err = ReadHeader([]byte{0x00})
	requireT.ErrorIs(err, ErrMalformedPayload)

	_, _, err = ReadHeader([]byte{0x00, 0x10, 0x00, 0x00})
	requireT.ErrorIs(err, ErrMalformedPayload)
}

func TestWriterAlignment(t *testing.T) {
	requireT := require.New(t)

	w := NewWriter(binary.LittleEndian, Options{})
	w.Uint8(1)
	w.Uint32(2)
	w.Uint16(3)
	w.Uint64(4)

	requireT.Equal([]byte{
		0x01, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}, w.Bytes())

	r := NewReader(binary.LittleEndian, w.Bytes(), Options{})
	v8, err := r.Uint8()
	requireT.NoError(err)
	requireT.EqualValues(1, v8)
	v32, err := r.Uint32()
	requireT.NoError(err)
	requireT.EqualValues(2, v32)
	v16, err := r.Uint16()
	requireT.NoError(err)
	requireT.EqualValues(3, v16)
	v64, err := r.Uint64()
	requireT.NoError(err)
	requireT.EqualValues(4, v64)
	requireT.Zero(r.Remaining())
}

func TestWriterByteOrderFromScheme(t *testing.T) {
	requireT := require.New(t)

	for _, scheme := range []Scheme{SchemeCDRBE, SchemeCDRLE} {
		w := NewWriter(scheme.ByteOrder(), Options{})
		w.Uint16(0x0102)
		w.Uint32(0x03040506)
		w.Uint64(0x0708090a0b0c0d0e)
		requireT.Equal(scheme.ByteOrder(), w.ByteOrder())

		r := NewReader(scheme.ByteOrder(), w.Bytes(), Options{})
		v16, err := r.Uint16()
		requireT.NoError(err)
		requireT.EqualValues(0x0102, v16)
		v32, err := r.Uint32()
		requireT.NoError(err)
		requireT.EqualValues(0x03040506, v32)
		v64, err := r.Uint64()
		requireT.NoError(err)
		requireT.EqualValues(uint64(0x0708090a0b0c0d0e), v64)
	}

	be := NewWriter(SchemeCDRBE.ByteOrder(), Options{})
	be.Uint32(1)
	requireT.Equal([]byte{0x00, 0x00, 0x00, 0x01}, be.Bytes())

	le := NewWriter(SchemeCDRLE.ByteOrder(), Options{})
	le.Uint32(1)
	requireT.Equal([]byte{0x01, 0x00, 0x00, 0x00}, le.Bytes())
}

func TestStrings(t *testing.T) {
	requireT := require.New(t)

	w := NewWriter(binary.BigEndian, Options{})
	w.String("abc")
	w.StringSeq([]string{"", "x"})
	requireT.Equal([]byte{
		0x00, 0x00, 0x00, 0x04, 'a', 'b', 'c', 0x00,
		0x00, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x02, 'x', 0x00,
	}, w.Bytes())

	r := NewReader(binary.BigEndian, w.Bytes(), Options{})
	s, err := r.String()
	requireT.NoError(err)
	requireT.Equal("abc", s)
	ss, err := r.StringSeq()
	requireT.NoError(err)
	requireT.Equal([]string{"", "x"}, ss)

	r = NewReader(binary.BigEndian, []byte{0x00, 0x00, 0x00, 0x02, 'a', 'b'}, Options{})
	_, err = r.String()
	requireT.ErrorIs(err, ErrMalformedPayload)

	r = NewReader(binary.BigEndian, []byte{0x00, 0x00, 0x10, 0x00, 'a', 0x00}, Options{})
	_, err = r.String()
	requireT.ErrorIs(err, ErrMalformedPayload)

	r = NewReader(binary.BigEndian, []byte{0xff, 0xff, 0xff, 0xff}, Options{})
	_, err = r.StringSeq()
	requireT.ErrorIs(err, ErrMalformedPayload)
}

func TestOctetSeq(t *testing.T) {
	requireT := require.New(t)

	w := NewWriter(binary.LittleEndian, Options{})
	w.OctetSeq([]byte{1, 2, 3})
	requireT.Equal([]byte{0x03, 0x00, 0x00, 0x00, 1, 2, 3}, w.Bytes())

	r := NewReader(binary.LittleEndian, w.Bytes(), Options{})
	b, err := r.OctetSeq()
	requireT.NoError(err)
	requireT.Equal([]byte{1, 2, 3}, b)

	r = NewReader(binary.LittleEndian, []byte{0x04, 0x00, 0x00, 0x00, 1, 2, 3}, Options{})
	_, err = r.OctetSeq()
	requireT.ErrorIs(err, ErrMalformedPayload)
}

func TestDurationEncodings(t *testing.T) {
	requireT := require.New(t)

	d := rtps.DurationFromMilliseconds(1500)

	w := NewWriter(binary.BigEndian, Options{})
	w.Duration(d)
	w.Duration(rtps.DurationInfinite)
	requireT.Equal([]byte{
		0x00, 0x00, 0x00, 0x01, 0x80, 0x00, 0x00, 0x00,
		0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	}, w.Bytes())

	r := NewReader(binary.BigEndian, w.Bytes(), Options{})
	v, err := r.Duration()
	requireT.NoError(err)
	requireT.Equal(d, v)
	v, err = r.Duration()
	requireT.NoError(err)
	requireT.True(v.IsInfinite())

	opts := NewOptions(WithNanosecondDurations())
	w = NewWriter(binary.BigEndian, opts)
	w.Duration(d)
	w.Duration(rtps.DurationInfinite)
	requireT.Equal([]byte{
		0x00, 0x00, 0x00, 0x01, 0x1d, 0xcd, 0x65, 0x00,
		0x7f, 0xff, 0xff, 0xff, 0x7f, 0xff, 0xff, 0xff,
	}, w.Bytes())

	r = NewReader(binary.BigEndian, w.Bytes(), opts)
	v, err = r.Duration()
	requireT.NoError(err)
	requireT.Equal(d, v)
	v, err = r.Duration()
	requireT.NoError(err)
	requireT.True(v.IsInfinite())
}

func TestLocator(t *testing.T) {
	requireT := require.New(t)

	l := rtps.NewUDPv4Locator(net.IPv4(192, 168, 1, 10), 7400)
	w := NewWriter(binary.LittleEndian, Options{})
	w.Locator(l)
	requireT.Equal(24, w.Len())

	r := NewReader(binary.LittleEndian, w.Bytes(), Options{})
	l2, err := r.Locator()
	requireT.NoError(err)
	requireT.Equal(l, l2)

	r = NewReader(binary.LittleEndian, w.Bytes()[:20], Options{})
	_, err = r.Locator()
	requireT.ErrorIs(err, ErrMalformedPayload)
}

func TestParameterListRoundTrip(t *testing.T) {
	requireT := require.New(t)

	plw := NewParameterListWriter(binary.LittleEndian, Options{})
	requireT.NoError(plw.Write(0x0005, func(w *Writer) error {
		w.String("topic")
		return nil
	}))
	requireT.NoError(plw.Write(0x0016, func(w *Writer) error {
		w.Octets([]byte{0x01, 0x9a})
		return nil
	}))
	b := plw.Bytes()

	requireT.Equal([]byte{
		0x05, 0x00, 0x0c, 0x00,
		0x06, 0x00, 0x00, 0x00, 't', 'o', 'p', 'i', 'c', 0x00, 0x00, 0x00,
		0x16, 0x00, 0x04, 0x00,
		0x01, 0x9a, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
	}, b)

	var topic string
	var vendor []byte
	requireT.NoError(ReadParameterList(b, binary.LittleEndian, Options{},
		func(pid ParameterID, r *Reader) (bool, error) {
			var err error
			switch pid {
			case 0x0005:
				topic, err = r.String()
			case 0x0016:
				vendor, err = r.Octets(2)
			default:
				return false, nil
			}
			return true, err
		}))
	requireT.Equal("topic", topic)
	requireT.Equal([]byte{0x01, 0x9a}, vendor)
}

func TestParameterListSkipsPadAndUnknown(t *testing.T) {
	requireT := require.New(t)

	b := []byte{
		0x00, 0x00, 0x04, 0x00, 0xff, 0xff, 0xff, 0xff,
		0x34, 0x12, 0x04, 0x00, 0x01, 0x02, 0x03, 0x04,
		0x01, 0x80, 0x00, 0x00,
		0x02, 0x00, 0x08, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x08, 0x00, 0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}

	var seen []ParameterID
	requireT.NoError(ReadParameterList(b, binary.LittleEndian, Options{},
		func(pid ParameterID, r *Reader) (bool, error) {
			seen = append(seen, pid)
			return pid == 0x0002, nil
		}))
	requireT.Equal([]ParameterID{0x1234, 0x8001, 0x0002}, seen)
}

func TestParameterListMustUnderstand(t *testing.T) {
	requireT := require.New(t)

	b := []byte{
		0x00, 0x40, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
	}
	err := ReadParameterList(b, binary.LittleEndian, Options{}, func(ParameterID, *Reader) (bool, error) {
		return false, nil
	})
	requireT.ErrorIs(err, ErrMustUnderstand)
	requireT.ErrorIs(err, ErrMalformedPayload)

	// Vendor ids are never enforced.
	b = []byte{
		0x00, 0xc0, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
	}
	requireT.NoError(ReadParameterList(b, binary.LittleEndian, Options{}, func(ParameterID, *Reader) (bool, error) {
		return false, nil
	}))
}

func TestParameterListTruncated(t *testing.T) {
	requireT := require.New(t)

	noop := func(ParameterID, *Reader) (bool, error) { return true, nil }

	err := ReadParameterList([]byte{0x05, 0x00, 0x08, 0x00, 0x01, 0x02}, binary.LittleEndian, Options{}, noop)
	requireT.ErrorIs(err, ErrMalformedPayload)

	err = ReadParameterList([]byte{0x05, 0x00}, binary.LittleEndian, Options{}, noop)
	requireT.ErrorIs(err, ErrMalformedPayload)

	err = ReadParameterList([]byte{0x05, 0x00, 0x02, 0x00, 0x01, 0x00}, binary.LittleEndian, Options{},
		func(_ ParameterID, r *Reader) (bool, error) {
			_, err := r.Uint32()
			return true, err
		})
	requireT.ErrorIs(err, ErrMalformedPayload)

	err = ReadParameterList([]byte{0x05, 0x00, 0x00, 0x00}, binary.LittleEndian, Options{},
		func(ParameterID, *Reader) (bool, error) {
			return true, errors.New("invalid value")
		})
	requireT.ErrorIs(err, ErrMalformedPayload)
}
