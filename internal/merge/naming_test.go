package merge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPascalCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"first_name", "FirstName"},
		{"user-id", "UserId"},
		{"API_KEY", "ApiKey"},
		{"created.at", "CreatedAt"},
		{"name", "Name"},
		{"Name", "Name"},
		{"two words", "TwoWords"},
		{"123abc", "Field123Abc"},
		{"", "Field"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PascalCase(tt.in))
		})
	}
}

func TestSingularName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Categories", "Category"},
		{"Users", "User"},
		{"Items", "Item"},
		{"Data", "DataItem"},
		{"Address", "AddressItem"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SingularName(tt.in))
		})
	}
}

func TestNamePoolClaim(t *testing.T) {
	p := newNamePool([]string{"User"})

	name, err := p.claim("Order")
	require.NoError(t, err)
	assert.Equal(t, "Order", name)

	name, err = p.claim("User")
	require.NoError(t, err)
	assert.Equal(t, "User2", name)

	name, err = p.claim("User")
	require.NoError(t, err)
	assert.Equal(t, "User3", name)
}

func TestNamePoolExhaustion(t *testing.T) {
	p := newNamePool(nil)
	for i := 0; i <= maxNameAttempts; i++ {
		if _, err := p.claim("Event"); err != nil {
			var collision *NameCollisionError
			require.True(t, errors.As(err, &collision))
			assert.Equal(t, "Event", collision.Base)
			return
		}
	}
	t.Fatal("expected claim to fail after exhausting the suffix range")
}
