// Package property defines name/value metadata carried by discovery and security payloads.
package property

import (
	"github.com/samber/lo"
)

// Property is a string name/value pair.
// Propagate decides whether the property is sent to remote participants.
type Property struct {
	Name      string
	Value     string
	Propagate bool
}

// New creates property.
func New(name, value string, propagate bool) Property {
	return Property{Name: name, Value: value, Propagate: propagate}
}

// BinaryProperty is a name/octets pair.
type BinaryProperty struct {
	Name      string
	Value     []byte
	Propagate bool
}

// NewBinary creates binary property.
func NewBinary(name string, value []byte, propagate bool) BinaryProperty {
	return BinaryProperty{Name: name, Value: value, Propagate: propagate}
}

// Equal compares binary properties.
func (p BinaryProperty) Equal(other BinaryProperty) bool {
	return p.Name == other.Name && p.Propagate == other.Propagate && string(p.Value) == string(other.Value)
}

// DataHolder is a generic container identified by its class id.
type DataHolder struct {
	ClassID          string
	Properties       []Property
	BinaryProperties []BinaryProperty
}

// Token carries authentication, access control and handshake data.
// Its meaning is defined by ClassID and by the plugin consuming it.
type Token = DataHolder

// Tokens exchanged by security plugins.
type (
	IdentityToken           = Token
	IdentityStatusToken     = Token
	PermissionsToken        = Token
	AuthRequestMessageToken = Token
	HandshakeMessageToken   = Token
	CryptoToken             = Token
)

// Property returns value of the property with the given name.
func (h DataHolder) Property(name string) (string, bool) {
	p, exists := lo.Find(h.Properties, func(p Property) bool {
		return p.Name == name
	})
	return p.Value, exists
}

// BinaryProperty returns value of the binary property with the given name.
func (h DataHolder) BinaryProperty(name string) ([]byte, bool) {
	p, exists := lo.Find(h.BinaryProperties, func(p BinaryProperty) bool {
		return p.Name == name
	})
	return p.Value, exists
}

// IsNil returns true if holder carries no class id and no data.
func (h DataHolder) IsNil() bool {
	return h.ClassID == "" && len(h.Properties) == 0 && len(h.BinaryProperties) == 0
}

// Equal compares holders.
func (h DataHolder) Equal(other DataHolder) bool {
	if h.ClassID != other.ClassID || len(h.Properties) != len(other.Properties) ||
		len(h.BinaryProperties) != len(other.BinaryProperties) {
		return false
	}
	for i, p := range h.Properties {
		if p != other.Properties[i] {
			return false
		}
	}
	for i, p := range h.BinaryProperties {
		if !p.Equal(other.BinaryProperties[i]) {
			return false
		}
	}
	return true
}
