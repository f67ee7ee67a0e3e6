package objects

import (
	"bytes"
	"encoding/binary"

	"github.com/niclabs/kmsp11/criptoki"
)

// An attribute of a crypto object. A sensitive attribute is present on the
// object but its value is never returned to the caller; an attribute that is
// missing from the object's map is absent.
type Attribute struct {
	Type      criptoki.AttributeType
	Value     []byte
	Sensitive bool
}

// A map of attributes.
type Attributes map[criptoki.AttributeType]*Attribute

func NewBoolAttribute(attrType criptoki.AttributeType, value bool) *Attribute {
	b := criptoki.CK_FALSE
	if value {
		b = criptoki.CK_TRUE
	}
	return &Attribute{Type: attrType, Value: []byte{b}}
}

// NewULongAttribute encodes value in the native byte order at CK_ULONG
// width, the in-memory form the C side expects.
func NewULongAttribute(attrType criptoki.AttributeType, value criptoki.ULong) *Attribute {
	buf := make([]byte, 8)
	binary.NativeEndian.PutUint64(buf, value)
	return &Attribute{Type: attrType, Value: buf}
}

func NewBytesAttribute(attrType criptoki.AttributeType, value []byte) *Attribute {
	return &Attribute{Type: attrType, Value: value}
}

func NewStringAttribute(attrType criptoki.AttributeType, value string) *Attribute {
	return &Attribute{Type: attrType, Value: []byte(value)}
}

// NewSensitiveAttribute marks attrType as present but never returnable.
func NewSensitiveAttribute(attrType criptoki.AttributeType) *Attribute {
	return &Attribute{Type: attrType, Sensitive: true}
}

func (attributes Attributes) Add(attrs ...*Attribute) {
	for _, attr := range attrs {
		attributes[attr.Type] = attr
	}
}

// Match reports whether every template entry equals, byte for byte, the
// attribute of the same type on this map. Sensitive and absent attributes
// never match.
func (attributes Attributes) Match(template []criptoki.Attribute) bool {
	for _, entry := range template {
		attribute, ok := attributes[entry.Type]
		if !ok || attribute.Sensitive {
			return false
		}
		if !bytes.Equal(attribute.Value, entry.Value) {
			return false
		}
	}
	return true
}

// Equals returns true if the maps of attributes are equal.
func (attributes Attributes) Equals(attributes2 Attributes) bool {
	if len(attributes) != len(attributes2) {
		return false
	}
	for attrType, attribute := range attributes {
		attribute2, ok := attributes2[attrType]
		if !ok {
			return false
		}
		if !attribute.Equals(attribute2) {
			return false
		}
	}
	return true
}

// Equals returns true if the attributes are equal.
func (attribute *Attribute) Equals(attribute2 *Attribute) bool {
	return attribute.Type == attribute2.Type &&
		attribute.Sensitive == attribute2.Sensitive &&
		bytes.Equal(attribute.Value, attribute2.Value)
}
