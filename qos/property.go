package qos

import (
	"strings"

	"github.com/greenstonesoft/greenstone-dds-sub002/property"
)

// Property carries name/value configuration of an entity.
// Properties are routed to the public or private sequence once, when added, according to
// their Propagate flag. Only public properties leave the process.
type Property struct {
	public  []property.Property
	private []property.Property
	binary  []property.BinaryProperty
}

// Name returns the name of the policy.
func (Property) Name() string { return NameProperty }

// ID returns the id of the policy.
func (Property) ID() PolicyID { return PolicyIDProperty }

// Add adds property.
func (p *Property) Add(prop property.Property) {
	if prop.Propagate {
		p.public = append(p.public, prop)
		return
	}
	p.private = append(p.private, prop)
}

// AddBinary adds binary property.
func (p *Property) AddBinary(prop property.BinaryProperty) {
	p.binary = append(p.binary, prop)
}

// Value returns private properties followed by public ones.
func (p Property) Value() []property.Property {
	value := make([]property.Property, 0, len(p.private)+len(p.public))
	value = append(value, p.private...)
	return append(value, p.public...)
}

// Public returns properties sent to remote participants.
func (p Property) Public() []property.Property {
	return p.public
}

// Private returns properties kept in the process.
func (p Property) Private() []property.Property {
	return p.private
}

// Binary returns binary properties. They never leave the process.
func (p Property) Binary() []property.BinaryProperty {
	return p.binary
}

// Len returns the number of string properties.
func (p Property) Len() int {
	return len(p.public) + len(p.private)
}

// Clear removes all properties.
func (p *Property) Clear() {
	p.public = nil
	p.private = nil
	p.binary = nil
}

// Equal compares policies. Properties are compared in order.
func (p Property) Equal(other Property) bool {
	if len(p.public) != len(other.public) || len(p.private) != len(other.private) ||
		len(p.binary) != len(other.binary) {
		return false
	}
	for i := range p.public {
		if p.public[i] != other.public[i] {
			return false
		}
	}
	for i := range p.private {
		if p.private[i] != other.private[i] {
			return false
		}
	}
	for i := range p.binary {
		if !p.binary[i].Equal(other.binary[i]) {
			return false
		}
	}
	return true
}

// FindProperty returns value of the first property whose name starts with prefix.
// Private properties are searched before public ones.
func FindProperty(policy Property, prefix string) (string, bool) {
	for _, props := range [][]property.Property{policy.private, policy.public} {
		for _, prop := range props {
			if strings.HasPrefix(prop.Name, prefix) {
				return prop.Value, true
			}
		}
	}
	return "", false
}

// FindBinaryProperty returns value of the first binary property whose name starts with prefix.
func FindBinaryProperty(policy Property, prefix string) ([]byte, bool) {
	for _, prop := range policy.binary {
		if strings.HasPrefix(prop.Name, prefix) {
			return prop.Value, true
		}
	}
	return nil, false
}
