package property

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataHolderLookup(t *testing.T) {
	requireT := require.New(t)

	token := IdentityToken{
		ClassID: "DDS:Auth:PKI-DH:1.0",
		Properties: []Property{
			New("dds.cert.sn", "CN=participant", true),
			New("dds.ca.algo", "RSA-2048", true),
		},
		BinaryProperties: []BinaryProperty{
			NewBinary("c.pdata", []byte{1, 2, 3}, true),
		},
	}

	v, ok := token.Property("dds.ca.algo")
	requireT.True(ok)
	requireT.Equal("RSA-2048", v)

	_, ok = token.Property("dds.perm.ca.sn")
	requireT.False(ok)

	b, ok := token.BinaryProperty("c.pdata")
	requireT.True(ok)
	requireT.Equal([]byte{1, 2, 3}, b)

	_, ok = token.BinaryProperty("missing")
	requireT.False(ok)
}

func TestDataHolderEquality(t *testing.T) {
	requireT := require.New(t)

	requireT.True(Token{}.IsNil())

	t1 := PermissionsToken{
		ClassID:          "DDS:Access:Permissions:1.0",
		Properties:       []Property{New("dds.perm_ca.sn", "x", true)},
		BinaryProperties: []BinaryProperty{NewBinary("b", []byte{1}, true)},
	}
	t2 := PermissionsToken{
		ClassID:          "DDS:Access:Permissions:1.0",
		Properties:       []Property{New("dds.perm_ca.sn", "x", true)},
		BinaryProperties: []BinaryProperty{NewBinary("b", []byte{1}, true)},
	}
	requireT.False(t1.IsNil())
	requireT.True(t1.Equal(t2))

	t2.BinaryProperties[0].Value = []byte{2}
	requireT.False(t1.Equal(t2))

	t2 = t1
	t2.ClassID = "DDS:Auth:PKI-DH:1.0"
	requireT.False(t1.Equal(t2))
}
