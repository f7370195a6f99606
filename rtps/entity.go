package rtps

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// EntityKind is the last octet of an entity id.
type EntityKind uint8

// Entity kinds.
const (
	EntityKindUnknown              EntityKind = 0x00
	EntityKindUserWriterWithKey    EntityKind = 0x02
	EntityKindUserWriterNoKey      EntityKind = 0x03
	EntityKindUserReaderNoKey      EntityKind = 0x04
	EntityKindUserReaderWithKey    EntityKind = 0x07
	EntityKindUserWriterGroup      EntityKind = 0x08
	EntityKindUserReaderGroup      EntityKind = 0x09
	EntityKindBuiltinParticipant   EntityKind = 0xc1
	EntityKindBuiltinWriterWithKey EntityKind = 0xc2
	EntityKindBuiltinWriterNoKey   EntityKind = 0xc3
	EntityKindBuiltinReaderNoKey   EntityKind = 0xc4
	EntityKindBuiltinReaderWithKey EntityKind = 0xc7
	EntityKindBuiltinWriterGroup   EntityKind = 0xc8
	EntityKindBuiltinReaderGroup   EntityKind = 0xc9
)

const (
	entityKindSourceMask    EntityKind = 0xc0
	entityKindSourceBuiltin EntityKind = 0xc0
	entityKindSourceVendor  EntityKind = 0x40
	entityKindTypeMask      EntityKind = 0x3f
)

// IsBuiltin returns true if kind belongs to an infrastructure entity.
func (k EntityKind) IsBuiltin() bool {
	return k&entityKindSourceMask == entityKindSourceBuiltin
}

// IsVendor returns true if kind is vendor-specific.
func (k EntityKind) IsVendor() bool {
	return k&entityKindSourceMask == entityKindSourceVendor
}

// IsWriter returns true if kind identifies a writer.
func (k EntityKind) IsWriter() bool {
	switch k & entityKindTypeMask {
	case 0x02, 0x03:
		return true
	}
	return false
}

// IsReader returns true if kind identifies a reader.
func (k EntityKind) IsReader() bool {
	switch k & entityKindTypeMask {
	case 0x04, 0x07:
		return true
	}
	return false
}

// EntityID identifies an entity within a participant.
type EntityID struct {
	Key  [3]byte
	Kind EntityKind
}

// Well-known entity ids.
var (
	EntityIDUnknown                              = EntityID{}
	EntityIDParticipant                          = EntityIDFromUint32(0x000001c1)
	EntityIDSEDPBuiltinTopicWriter               = EntityIDFromUint32(0x000002c2)
	EntityIDSEDPBuiltinTopicReader               = EntityIDFromUint32(0x000002c7)
	EntityIDSEDPBuiltinPublicationsWriter        = EntityIDFromUint32(0x000003c2)
	EntityIDSEDPBuiltinPublicationsReader        = EntityIDFromUint32(0x000003c7)
	EntityIDSEDPBuiltinSubscriptionsWriter       = EntityIDFromUint32(0x000004c2)
	EntityIDSEDPBuiltinSubscriptionsReader       = EntityIDFromUint32(0x000004c7)
	EntityIDSPDPBuiltinParticipantWriter         = EntityIDFromUint32(0x000100c2)
	EntityIDSPDPBuiltinParticipantReader         = EntityIDFromUint32(0x000100c7)
	EntityIDP2PBuiltinParticipantMessageWriter   = EntityIDFromUint32(0x000200c2)
	EntityIDP2PBuiltinParticipantMessageReader   = EntityIDFromUint32(0x000200c7)
	EntityIDP2PBuiltinParticipantStatelessWriter = EntityIDFromUint32(0x000201c3)
	EntityIDP2PBuiltinParticipantStatelessReader = EntityIDFromUint32(0x000201c4)
	EntityIDP2PBuiltinParticipantVolatileWriter  = EntityIDFromUint32(0xff0202c3)
	EntityIDP2PBuiltinParticipantVolatileReader  = EntityIDFromUint32(0xff0202c4)
	EntityIDSEDPBuiltinPublicationsSecureWriter  = EntityIDFromUint32(0xff0003c2)
	EntityIDSEDPBuiltinPublicationsSecureReader  = EntityIDFromUint32(0xff0003c7)
	EntityIDSEDPBuiltinSubscriptionsSecureWriter = EntityIDFromUint32(0xff0004c2)
	EntityIDSEDPBuiltinSubscriptionsSecureReader = EntityIDFromUint32(0xff0004c7)
	EntityIDSPDPReliableParticipantSecureWriter  = EntityIDFromUint32(0xff0101c2)
	EntityIDSPDPReliableParticipantSecureReader  = EntityIDFromUint32(0xff0101c7)
)

// NewEntityID creates entity id from key and kind.
func NewEntityID(key [3]byte, kind EntityKind) EntityID {
	return EntityID{Key: key, Kind: kind}
}

// EntityIDFromUint32 creates entity id from its big-endian numeric form.
func EntityIDFromUint32(v uint32) EntityID {
	return EntityID{
		Key:  [3]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8)},
		Kind: EntityKind(v),
	}
}

// EntityIDFromBytes creates entity id from 4 octets.
func EntityIDFromBytes(b [4]byte) EntityID {
	return EntityID{Key: [3]byte{b[0], b[1], b[2]}, Kind: EntityKind(b[3])}
}

// SetKey sets the key part.
func (id *EntityID) SetKey(key [3]byte) {
	id.Key = key
}

// SetKind sets the kind part.
func (id *EntityID) SetKind(kind EntityKind) {
	id.Kind = kind
}

// Bytes returns wire representation of entity id.
func (id EntityID) Bytes() [4]byte {
	return [4]byte{id.Key[0], id.Key[1], id.Key[2], byte(id.Kind)}
}

// Uint32 returns big-endian numeric form of entity id.
func (id EntityID) Uint32() uint32 {
	b := id.Bytes()
	return binary.BigEndian.Uint32(b[:])
}

// IsUnknown returns true for the all-zero entity id.
func (id EntityID) IsUnknown() bool {
	return id == EntityIDUnknown
}

// IsBuiltin returns true if entity id belongs to an infrastructure entity.
func (id EntityID) IsBuiltin() bool {
	return id.Kind.IsBuiltin()
}

// IsVendor returns true if entity id is vendor-specific.
func (id EntityID) IsVendor() bool {
	return id.Kind.IsVendor()
}

// IsWriter returns true if entity id identifies a writer.
func (id EntityID) IsWriter() bool {
	return id.Kind.IsWriter()
}

// IsReader returns true if entity id identifies a reader.
func (id EntityID) IsReader() bool {
	return id.Kind.IsReader()
}

// IsParticipant returns true if entity id identifies a participant.
func (id EntityID) IsParticipant() bool {
	return id == EntityIDParticipant
}

// Hash returns hash of entity id.
func (id EntityID) Hash() uint64 {
	b := id.Bytes()
	return xxhash.Sum64(b[:])
}

func (id EntityID) String() string {
	return fmt.Sprintf("%08x", id.Uint32())
}
