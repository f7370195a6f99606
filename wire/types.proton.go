package wire

import (
	"reflect"
	"unsafe"

	"github.com/outofforest/proton"
	"github.com/outofforest/proton/helpers"
	"github.com/pkg/errors"
)

const (
	id3 uint64 = iota + 1
	id2
	id4
)

var _ proton.Marshaller = Marshaller{}

// NewMarshaller creates marshaller.
func NewMarshaller() Marshaller {
	return Marshaller{}
}

// Marshaller marshals and unmarshals messages.
type Marshaller struct {
}

// Messages returns list of the message types supported by marshaller.
func (m Marshaller) Messages() []any {
	return []any {
		Hello{},
		Header{},
		Content{},
	}
}

// ID returns ID of message type.
func (m Marshaller) ID(msg any) (uint64, error) {
	switch msg.(type) {
	case *Hello:
		return id3, nil
	case *Header:
		return id2, nil
	case *Content:
		return id4, nil
	default:
		return 0, errors.Errorf("unknown message type %T", msg)
	}
}

// Size computes the size of marshalled message.
func (m Marshaller) Size(msg any) (uint64, error) {
	switch msg2 := msg.(type) {
	case *Hello:
		return size3(msg2), nil
	case *Header:
		return size2(msg2), nil
	case *Content:
		return size4(msg2), nil
	default:
		return 0, errors.Errorf("unknown message type %T", msg)
	}
}

// Marshal marshals message.
func (m Marshaller) Marshal(msg any, buf []byte) (retID, retSize uint64, retErr error) {
	defer helpers.RecoverMarshal(&retErr)

	switch msg2 := msg.(type) {
	case *Hello:
		return id3, marshal3(msg2, buf), nil
	case *Header:
		return id2, marshal2(msg2, buf), nil
	case *Content:
		return id4, marshal4(msg2, buf), nil
	default:
		return 0, 0, errors.Errorf("unknown message type %T", msg)
	}
}

// Unmarshal unmarshals message.
func (m Marshaller) Unmarshal(id uint64, buf []byte) (retMsg any, retSize uint64, retErr error) {
	defer helpers.RecoverUnmarshal(&retErr)

	switch id {
	case id3:
		msg := &Hello{}
		return msg, unmarshal3(msg, buf), nil
	case id2:
		msg := &Header{}
		return msg, unmarshal2(msg, buf), nil
	case id4:
		msg := &Content{}
		return msg, unmarshal4(msg, buf), nil
	default:
		return nil, 0, errors.Errorf("unknown ID %d", id)
	}
}

// MakePatch creates a patch.
func (m Marshaller) MakePatch(msgDst, msgSrc any, buf []byte) (retID, retSize uint64, retErr error) {
	defer helpers.RecoverMakePatch(&retErr)

	switch msg2 := msgDst.(type) {
	case *Hello:
		return id3, makePatch3(msg2, msgSrc.(*Hello), buf), nil
	case *Header:
		return id2, makePatch2(msg2, msgSrc.(*Header), buf), nil
	case *Content:
		return id4, makePatch4(msg2, msgSrc.(*Content), buf), nil
	default:
		return 0, 0, errors.Errorf("unknown message type %T", msgDst)
	}
}

// ApplyPatch applies patch.
func (m Marshaller) ApplyPatch(msg any, buf []byte) (retSize uint64, retErr error) {
	defer helpers.RecoverApplyPatch(&retErr)

	switch msg2 := msg.(type) {
	case *Hello:
		return applyPatch3(msg2, buf), nil
	case *Header:
		return applyPatch2(msg2, buf), nil
	case *Content:
		return applyPatch4(msg2, buf), nil
	default:
		return 0, errors.Errorf("unknown message type %T", msg)
	}
}

func size2(m *Header) uint64 {
	var n uint64 = 13
	{
		// Revision

		n += size1(&m.Revision)
	}
	return n
}

func marshal2(m *Header, b []byte) uint64 {
	var o uint64 = 1
	{
		// Sender

		copy(b[o:o+12], unsafe.Slice(&m.Sender[0], 12))
		o += 12
	}
	{
		// Revision

		o += marshal1(&m.Revision, b[o:])
	}
	{
		// Disposed

		if m.Disposed {
			b[0] |= 0x01
		} else {
			b[0] &= 0xFE
		}
	}

	return o
}

func unmarshal2(m *Header, b []byte) uint64 {
	var o uint64 = 1
	{
		// Sender

		copy(unsafe.Slice(&m.Sender[0], 12), b[o:o+12])
		o += 12
	}
	{
		// Revision

		o += unmarshal1(&m.Revision, b[o:])
	}
	{
		// Disposed

		m.Disposed = b[0]&0x01 != 0
	}

	return o
}

func makePatch2(m, mSrc *Header, b []byte) uint64 {
	var o uint64 = 2
	{
		// Sender

		if reflect.DeepEqual(m.Sender, mSrc.Sender) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			copy(b[o:o+12], unsafe.Slice(&m.Sender[0], 12))
			o += 12
		}
	}
	{
		// Revision

		if reflect.DeepEqual(m.Revision, mSrc.Revision) {
			b[0] &= 0xFD
		} else {
			b[0] |= 0x02
			o += marshal1(&m.Revision, b[o:])
		}
	}
	{
		// Disposed

		if m.Disposed == mSrc.Disposed {
			b[1] &= 0xFE
		} else {
			b[1] |= 0x01
		}
	}

	return o
}

func applyPatch2(m *Header, b []byte) uint64 {
	var o uint64 = 2
	{
		// Sender

		if b[0]&0x01 != 0 {
			copy(unsafe.Slice(&m.Sender[0], 12), b[o:o+12])
			o += 12
		}
	}
	{
		// Revision

		if b[0]&0x02 != 0 {
			o += unmarshal1(&m.Revision, b[o:])
		}
	}
	{
		// Disposed

		if b[1]&0x01 != 0 {
			m.Disposed = !m.Disposed
		}
	}

	return o
}

func size1(m *RevisionDescriptor) uint64 {
	var n uint64 = 1
	{
		// Sample

		n += size0(&m.Sample)
	}
	{
		// Index

		helpers.UInt64Size(m.Index, &n)
	}
	return n
}

func marshal1(m *RevisionDescriptor, b []byte) uint64 {
	var o uint64
	{
		// Sample

		o += marshal0(&m.Sample, b[o:])
	}
	{
		// Index

		helpers.UInt64Marshal(m.Index, b, &o)
	}

	return o
}

func unmarshal1(m *RevisionDescriptor, b []byte) uint64 {
	var o uint64
	{
		// Sample

		o += unmarshal0(&m.Sample, b[o:])
	}
	{
		// Index

		helpers.UInt64Unmarshal(&m.Index, b, &o)
	}

	return o
}

func size0(m *Sample) uint64 {
	var n uint64 = 17
	{
		// Kind

		helpers.UInt64Size(m.Kind, &n)
	}
	return n
}

func marshal0(m *Sample, b []byte) uint64 {
	var o uint64
	{
		// Kind

		helpers.UInt64Marshal(m.Kind, b, &o)
	}
	{
		// Key

		copy(b[o:o+16], unsafe.Slice(&m.Key[0], 16))
		o += 16
	}

	return o
}

func unmarshal0(m *Sample, b []byte) uint64 {
	var o uint64
	{
		// Kind

		helpers.UInt64Unmarshal(&m.Kind, b, &o)
	}
	{
		// Key

		copy(unsafe.Slice(&m.Key[0], 16), b[o:o+16])
		o += 16
	}

	return o
}

func size3(m *Hello) uint64 {
	var n uint64 = 14
	{
		// Kinds

		l := uint64(len(m.Kinds))
		helpers.UInt64Size(l, &n)
		n += l
		for _, sv1 := range m.Kinds {
			helpers.UInt64Size(sv1, &n)
		}
	}
	return n
}

func marshal3(m *Hello, b []byte) uint64 {
	var o uint64 = 1
	{
		// PeerID

		copy(b[o:o+12], unsafe.Slice(&m.PeerID[0], 12))
		o += 12
	}
	{
		// IsServer

		if m.IsServer {
			b[0] |= 0x01
		} else {
			b[0] &= 0xFE
		}
	}
	{
		// Kinds

		helpers.UInt64Marshal(uint64(len(m.Kinds)), b, &o)
		for _, sv1 := range m.Kinds {
			helpers.UInt64Marshal(sv1, b, &o)
		}
	}

	return o
}

func unmarshal3(m *Hello, b []byte) uint64 {
	var o uint64 = 1
	{
		// PeerID

		copy(unsafe.Slice(&m.PeerID[0], 12), b[o:o+12])
		o += 12
	}
	{
		// IsServer

		m.IsServer = b[0]&0x01 != 0
	}
	{
		// Kinds

		var l uint64
		helpers.UInt64Unmarshal(&l, b, &o)
		if l > 0 {
			m.Kinds = make([]Kind, l)
			for i1 := range l {
				helpers.UInt64Unmarshal(&m.Kinds[i1], b, &o)
			}
		}
	}

	return o
}

func makePatch3(m, mSrc *Hello, b []byte) uint64 {
	var o uint64 = 2
	{
		// PeerID

		if reflect.DeepEqual(m.PeerID, mSrc.PeerID) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			copy(b[o:o+12], unsafe.Slice(&m.PeerID[0], 12))
			o += 12
		}
	}
	{
		// IsServer

		if m.IsServer == mSrc.IsServer {
			b[1] &= 0xFE
		} else {
			b[1] |= 0x01
		}
	}
	{
		// Kinds

		if reflect.DeepEqual(m.Kinds, mSrc.Kinds) {
			b[0] &= 0xFD
		} else {
			b[0] |= 0x02
			helpers.UInt64Marshal(uint64(len(m.Kinds)), b, &o)
			for _, sv1 := range m.Kinds {
				helpers.UInt64Marshal(sv1, b, &o)
			}
		}
	}

	return o
}

func applyPatch3(m *Hello, b []byte) uint64 {
	var o uint64 = 2
	{
		// PeerID

		if b[0]&0x01 != 0 {
			copy(unsafe.Slice(&m.PeerID[0], 12), b[o:o+12])
			o += 12
		}
	}
	{
		// IsServer

		if b[1]&0x01 != 0 {
			m.IsServer = !m.IsServer
		}
	}
	{
		// Kinds

		if b[0]&0x02 != 0 {
			var l uint64
			helpers.UInt64Unmarshal(&l, b, &o)
			if l > 0 {
				m.Kinds = make([]Kind, l)
				for i1 := range l {
					helpers.UInt64Unmarshal(&m.Kinds[i1], b, &o)
				}
			}
		}
	}

	return o
}

func size4(m *Content) uint64 {
	var n uint64 = 1
	{
		// Payload

		l := uint64(len(m.Payload))
		helpers.UInt64Size(l, &n)
		n += l
	}
	return n
}

func marshal4(m *Content, b []byte) uint64 {
	var o uint64
	{
		// Payload

		l := uint64(len(m.Payload))
		helpers.UInt64Marshal(l, b, &o)
		if l > 0 {
			copy(b[o:o+l], unsafe.Slice(&m.Payload[0], l))
			o += l
		}
	}

	return o
}

func unmarshal4(m *Content, b []byte) uint64 {
	var o uint64
	{
		// Payload

		var l uint64
		helpers.UInt64Unmarshal(&l, b, &o)
		if l > 0 {
			m.Payload = make([]uint8, l)
			copy(m.Payload, b[o:o+l])
			o += l
		}
	}

	return o
}

func makePatch4(m, mSrc *Content, b []byte) uint64 {
	var o uint64 = 1
	{
		// Payload

		if reflect.DeepEqual(m.Payload, mSrc.Payload) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			l := uint64(len(m.Payload))
			helpers.UInt64Marshal(l, b, &o)
			if l > 0 {
				copy(b[o:o+l], unsafe.Slice(&m.Payload[0], l))
				o += l
			}
		}
	}

	return o
}

func applyPatch4(m *Content, b []byte) uint64 {
	var o uint64 = 1
	{
		// Payload

		if b[0]&0x01 != 0 {
			var l uint64
			helpers.UInt64Unmarshal(&l, b, &o)
			if l > 0 {
				m.Payload = make([]uint8, l)
				copy(m.Payload, b[o:o+l])
				o += l
			}
		}
	}

	return o
}
