package rtps

import (
	"bytes"
	"net"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEntityIDKinds(t *testing.T) {
	requireT := require.New(t)

	requireT.True(EntityIDUnknown.IsUnknown())
	requireT.Equal([4]byte{}, EntityIDUnknown.Bytes())

	requireT.True(EntityIDParticipant.IsBuiltin())
	requireT.True(EntityIDParticipant.IsParticipant())
	requireT.False(EntityIDParticipant.IsWriter())

	requireT.True(EntityIDSEDPBuiltinPublicationsWriter.IsBuiltin())
	requireT.True(EntityIDSEDPBuiltinPublicationsWriter.IsWriter())
	requireT.True(EntityIDSEDPBuiltinSubscriptionsReader.IsReader())

	user := NewEntityID([3]byte{0, 0, 1}, EntityKindUserWriterWithKey)
	requireT.False(user.IsBuiltin())
	requireT.True(user.IsWriter())
	requireT.False(user.IsReader())

	vendor := NewEntityID([3]byte{0, 0, 1}, 0x42)
	requireT.True(vendor.IsVendor())
	requireT.False(vendor.IsBuiltin())
}

func TestEntityIDNumericForm(t *testing.T) {
	requireT := require.New(t)

	id := EntityIDFromUint32(0x000100c2)
	requireT.Equal([3]byte{0x00, 0x01, 0x00}, id.Key)
	requireT.Equal(EntityKindBuiltinWriterWithKey, id.Kind)
	requireT.EqualValues(0x000100c2, id.Uint32())
	requireT.Equal(id, EntityIDFromBytes(id.Bytes()))
	requireT.Equal("000100c2", id.String())
}

func TestEntityIDSetters(t *testing.T) {
	requireT := require.New(t)

	var id EntityID
	id.SetKey([3]byte{1, 2, 3})
	id.SetKind(EntityKindUserReaderNoKey)
	requireT.Equal([4]byte{1, 2, 3, 4}, id.Bytes())
}

func TestGUIDBytesRoundTrip(t *testing.T) {
	requireT := require.New(t)

	flat := [GUIDLength]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	g := GUIDFromBytes(flat)
	requireT.Equal(GuidPrefix{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, g.Prefix)
	requireT.Equal([3]byte{13, 14, 15}, g.EntityID.Key)
	requireT.EqualValues(16, g.EntityID.Kind)
	requireT.Equal(flat, g.Bytes())
}

func TestGUIDOrdering(t *testing.T) {
	requireT := require.New(t)

	a := NewGUID(GuidPrefix{}, NewEntityID([3]byte{0, 0, 1}, 1))
	b := NewGUID(GuidPrefix{}, NewEntityID([3]byte{0, 0, 2}, 1))
	requireT.True(a.Less(b))
	requireT.False(b.Less(a))
	requireT.Equal(0, a.Compare(a))

	c := NewGUID(GuidPrefix{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, EntityIDUnknown)
	requireT.True(b.Less(c))

	// The kind octet breaks ties after the key.
	d := NewGUID(GuidPrefix{}, NewEntityID([3]byte{0, 0, 1}, 2))
	requireT.True(a.Less(d))
	requireT.True(d.Less(b))

	guids := []GUID{c, b, d, a}
	sort.Slice(guids, func(i, j int) bool { return guids[i].Less(guids[j]) })
	for i := 1; i < len(guids); i++ {
		b1 := guids[i-1].Bytes()
		b2 := guids[i].Bytes()
		requireT.Equal(-1, bytes.Compare(b1[:], b2[:]))
	}
}

func TestGUIDHelpers(t *testing.T) {
	requireT := require.New(t)

	requireT.True(GUIDUnknown.IsUnknown())

	prefix := GuidPrefix{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	g := NewGUID(prefix, NewEntityID([3]byte{0, 0, 7}, EntityKindUserReaderWithKey))
	requireT.Equal(NewGUID(prefix, EntityIDParticipant), g.ParticipantGUID())
	requireT.Equal("01020304.05060708.090a0b0c|00000707", g.String())

	g2 := g
	requireT.Equal(g.Hash(), g2.Hash())
	requireT.NotEqual(g.Hash(), g.ParticipantGUID().Hash())
}

func TestGuidPrefix(t *testing.T) {
	requireT := require.New(t)

	requireT.True(GuidPrefixUnknown.IsUnknown())

	p1, err := NewGuidPrefix(VendorIDGreen)
	requireT.NoError(err)
	p2, err := NewGuidPrefix(VendorIDGreen)
	requireT.NoError(err)

	requireT.Equal(VendorIDGreen[:], p1[:2])
	requireT.NotEqual(p1, p2)
	requireT.False(p1.IsUnknown())

	requireT.True(GuidPrefix{0, 1}.Less(GuidPrefix{0, 2}))
	requireT.True(GuidPrefix{0, 2}.Less(GuidPrefix{1}))
}

func TestInstanceHandleFromGUID(t *testing.T) {
	requireT := require.New(t)

	g := NewGUID(GuidPrefix{9, 8, 7, 6, 5, 4, 3, 2, 1, 0, 1, 2}, NewEntityID([3]byte{3, 4, 5}, 6))
	h := InstanceHandleFromGUID(g)
	requireT.Equal(InstanceHandle(g.Bytes()), h)
	requireT.Equal(g, h.GUID())
	requireT.False(h.IsNil())
	requireT.True(InstanceHandleNil.IsNil())
}

func TestInstanceHandleFromShortKey(t *testing.T) {
	requireT := require.New(t)

	h := InstanceHandleFromKey([]byte{1, 2, 3})
	requireT.Equal(InstanceHandle{1, 2, 3}, h)

	key := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	requireT.Equal(InstanceHandle(key), InstanceHandleFromKey(key))

	requireT.Equal(InstanceHandleNil, InstanceHandleFromKey(nil))
}

func TestInstanceHandleFromLongKey(t *testing.T) {
	requireT := require.New(t)

	key := make([]byte, 17)
	for i := range key {
		key[i] = byte(i)
	}

	h := InstanceHandleFromKey(key)
	requireT.Equal(InstanceHandle{0x08, 0x8a, 0x17, 0x76, 0xb6, 0xfc, 0xb6, 0xa1}, h)
	requireT.Equal(h, InstanceHandleFromKey(append([]byte{}, key...)))

	key[16] = 0xff
	requireT.NotEqual(h, InstanceHandleFromKey(key))
}

func TestInstanceHandleKeyHashUsesUnsignedOctets(t *testing.T) {
	requireT := require.New(t)

	requireT.EqualValues(uint64(0xe6a4fa29c6375dcc), keyHash(bytes.Repeat([]byte{0xff}, 20)))
}

func TestInstanceHandleOrdering(t *testing.T) {
	requireT := require.New(t)

	requireT.True(InstanceHandle{0, 1}.Less(InstanceHandle{0, 2}))
	requireT.Equal(0, InstanceHandle{5}.Compare(InstanceHandle{5}))
	requireT.Equal(InstanceHandle{5}.Hash(), InstanceHandle{5}.Hash())
}

func TestBuiltinTopicKey(t *testing.T) {
	requireT := require.New(t)

	g := NewGUID(GuidPrefix{1}, EntityIDParticipant)
	k := BuiltinTopicKeyFromGUID(g)
	requireT.Equal(g, k.GUID())
	requireT.Equal(InstanceHandleFromGUID(g), k.InstanceHandle())
	requireT.False(k.IsUnknown())
	requireT.True(BuiltinTopicKey{}.IsUnknown())
}

func TestLocator(t *testing.T) {
	requireT := require.New(t)

	loc := NewUDPv4Locator(net.IPv4(192, 168, 1, 10), 7400)
	requireT.True(loc.IsValid())
	requireT.Equal([4]byte{192, 168, 1, 10}, [4]byte(loc.Address[12:]))
	requireT.True(loc.IP().Equal(net.IPv4(192, 168, 1, 10)))
	requireT.Equal("udpv4://192.168.1.10:7400", loc.String())

	requireT.False(LocatorInvalid.IsValid())

	loc6 := NewUDPv6Locator(net.ParseIP("fe80::1"), 7410)
	requireT.True(loc6.IP().Equal(net.ParseIP("fe80::1")))
}

func TestBuiltinEndpointSet(t *testing.T) {
	requireT := require.New(t)

	requireT.True(BuiltinEndpointsDefault.Has(BuiltinEndpointPublicationAnnouncer))
	requireT.False(BuiltinEndpointsDefault.Has(BuiltinEndpointTopicAnnouncer))
}

func TestVendorID(t *testing.T) {
	requireT := require.New(t)

	requireT.Equal("eProsima Fast DDS", VendorIDFastDDS.String())
	requireT.Equal("unknown(abcd)", VendorID{0xab, 0xcd}.String())
	requireT.Equal("2.4", ProtocolVersion24.String())
}
