package rtps

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

const (
	// InstanceHandleLength is the number of octets in instance handle.
	InstanceHandleLength = 16

	keyHashMultiplier = 131313
)

// InstanceHandle locally identifies an instance or an entity.
type InstanceHandle [InstanceHandleLength]byte

// InstanceHandleNil is the handle which identifies nothing.
var InstanceHandleNil InstanceHandle

// InstanceHandleFromGUID creates handle from GUID.
func InstanceHandleFromGUID(g GUID) InstanceHandle {
	return InstanceHandle(g.Bytes())
}

// InstanceHandleFromKey creates handle from serialized key.
// Keys up to 16 octets are copied and zero-padded. Longer keys are hashed and the 64-bit hash
// is stored little-endian in the first 8 octets.
func InstanceHandleFromKey(key []byte) InstanceHandle {
	var h InstanceHandle
	if len(key) <= InstanceHandleLength {
		copy(h[:], key)
		return h
	}

	binary.LittleEndian.PutUint64(h[:], keyHash(key))
	return h
}

func keyHash(key []byte) uint64 {
	var hash uint64
	for _, b := range key {
		hash = hash*keyHashMultiplier + uint64(b)
	}
	return hash
}

// GUID interprets handle as GUID.
func (h InstanceHandle) GUID() GUID {
	return GUIDFromBytes(h)
}

// IsNil returns true if handle identifies nothing.
func (h InstanceHandle) IsNil() bool {
	return h == InstanceHandleNil
}

// Compare compares handles byte by byte.
func (h InstanceHandle) Compare(other InstanceHandle) int {
	return bytes.Compare(h[:], other[:])
}

// Less returns true if h sorts before other.
func (h InstanceHandle) Less(other InstanceHandle) bool {
	return h.Compare(other) < 0
}

// Hash returns hash of handle.
func (h InstanceHandle) Hash() uint64 {
	return xxhash.Sum64(h[:])
}

func (h InstanceHandle) String() string {
	return hex.EncodeToString(h[:])
}

// BuiltinTopicKey identifies a discovered entity in builtin topics.
type BuiltinTopicKey [GUIDLength]byte

// BuiltinTopicKeyFromGUID creates builtin topic key from GUID.
func BuiltinTopicKeyFromGUID(g GUID) BuiltinTopicKey {
	return BuiltinTopicKey(g.Bytes())
}

// GUID returns GUID of the entity.
func (k BuiltinTopicKey) GUID() GUID {
	return GUIDFromBytes(k)
}

// InstanceHandle returns instance handle of the entity.
func (k BuiltinTopicKey) InstanceHandle() InstanceHandle {
	return InstanceHandle(k)
}

// IsUnknown returns true for the all-zero key.
func (k BuiltinTopicKey) IsUnknown() bool {
	return k == BuiltinTopicKey{}
}

// Compare compares keys byte by byte.
func (k BuiltinTopicKey) Compare(other BuiltinTopicKey) int {
	return bytes.Compare(k[:], other[:])
}

func (k BuiltinTopicKey) String() string {
	return k.GUID().String()
}
