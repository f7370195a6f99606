package rtps

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// GuidPrefixLength is the number of octets in guid prefix.
	GuidPrefixLength = 12

	// GUIDLength is the number of octets in GUID.
	GUIDLength = 16
)

// GuidPrefix identifies a participant.
type GuidPrefix [GuidPrefixLength]byte

// GuidPrefixUnknown is the all-zero prefix.
var GuidPrefixUnknown GuidPrefix

// NewGuidPrefix generates random prefix starting with vendor id.
func NewGuidPrefix(vendor VendorID) (GuidPrefix, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return GuidPrefix{}, errors.WithStack(err)
	}

	var prefix GuidPrefix
	copy(prefix[:], vendor[:])
	copy(prefix[len(vendor):], u[:])
	return prefix, nil
}

// IsUnknown returns true for the all-zero prefix.
func (p GuidPrefix) IsUnknown() bool {
	return p == GuidPrefixUnknown
}

// Compare compares prefixes byte by byte.
func (p GuidPrefix) Compare(other GuidPrefix) int {
	return bytes.Compare(p[:], other[:])
}

// Less returns true if p sorts before other.
func (p GuidPrefix) Less(other GuidPrefix) bool {
	return p.Compare(other) < 0
}

// Hash returns hash of prefix.
func (p GuidPrefix) Hash() uint64 {
	return xxhash.Sum64(p[:])
}

func (p GuidPrefix) String() string {
	return fmt.Sprintf("%x.%x.%x", p[0:4], p[4:8], p[8:12])
}

// GUID globally identifies an entity.
type GUID struct {
	Prefix   GuidPrefix
	EntityID EntityID
}

// GUIDUnknown is the all-zero GUID.
var GUIDUnknown GUID

// NewGUID creates GUID.
func NewGUID(prefix GuidPrefix, id EntityID) GUID {
	return GUID{Prefix: prefix, EntityID: id}
}

// GUIDFromBytes creates GUID from its flat representation: prefix, entity key, entity kind.
func GUIDFromBytes(b [GUIDLength]byte) GUID {
	var g GUID
	copy(g.Prefix[:], b[:GuidPrefixLength])
	copy(g.EntityID.Key[:], b[GuidPrefixLength:GuidPrefixLength+3])
	g.EntityID.Kind = EntityKind(b[GUIDLength-1])
	return g
}

// Bytes returns flat representation of GUID.
func (g GUID) Bytes() [GUIDLength]byte {
	var b [GUIDLength]byte
	copy(b[:], g.Prefix[:])
	copy(b[GuidPrefixLength:], g.EntityID.Key[:])
	b[GUIDLength-1] = byte(g.EntityID.Kind)
	return b
}

// IsUnknown returns true for the all-zero GUID.
func (g GUID) IsUnknown() bool {
	return g == GUIDUnknown
}

// ParticipantGUID returns GUID of the participant owning the entity.
func (g GUID) ParticipantGUID() GUID {
	return GUID{Prefix: g.Prefix, EntityID: EntityIDParticipant}
}

// Compare compares flat representations of GUIDs byte by byte.
func (g GUID) Compare(other GUID) int {
	b1 := g.Bytes()
	b2 := other.Bytes()
	return bytes.Compare(b1[:], b2[:])
}

// Less returns true if g sorts before other.
func (g GUID) Less(other GUID) bool {
	return g.Compare(other) < 0
}

// Hash returns hash of GUID.
func (g GUID) Hash() uint64 {
	b := g.Bytes()
	return xxhash.Sum64(b[:])
}

func (g GUID) String() string {
	return g.Prefix.String() + "|" + g.EntityID.String()
}

// VendorID identifies the vendor of a middleware implementation.
type VendorID [2]byte

// Known vendor ids.
var (
	VendorIDUnknown  = VendorID{0x00, 0x00}
	VendorIDConnext  = VendorID{0x01, 0x01}
	VendorIDOpenDDS  = VendorID{0x01, 0x03}
	VendorIDCoreDX   = VendorID{0x01, 0x06}
	VendorIDFastDDS  = VendorID{0x01, 0x0f}
	VendorIDCyclone  = VendorID{0x01, 0x10}
	VendorIDGurumDDS = VendorID{0x01, 0x12}
	VendorIDGreen    = VendorID{0x01, 0x9a}
)

var vendorNames = map[VendorID]string{
	VendorIDConnext:  "RTI Connext DDS",
	VendorIDOpenDDS:  "OCI OpenDDS",
	VendorIDCoreDX:   "TwinOaks CoreDX",
	VendorIDFastDDS:  "eProsima Fast DDS",
	VendorIDCyclone:  "Eclipse Cyclone DDS",
	VendorIDGurumDDS: "GurumNetworks GurumDDS",
	VendorIDGreen:    "Greenstone DDS",
}

func (v VendorID) String() string {
	if name, exists := vendorNames[v]; exists {
		return name
	}
	return fmt.Sprintf("unknown(%x)", v[:])
}

// ProtocolVersion is the RTPS protocol version.
type ProtocolVersion struct {
	Major uint8
	Minor uint8
}

// ProtocolVersion24 is the protocol version announced by this implementation.
var ProtocolVersion24 = ProtocolVersion{Major: 2, Minor: 4}

func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
