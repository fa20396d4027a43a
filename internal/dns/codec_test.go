package dns

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"simple", "example.com", []byte{7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}},
		{"trailing dot", "example.com.", []byte{7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}},
		{"root", ".", []byte{0}},
		{"empty", "", []byte{0}},
		{"case kept", "A.b", []byte{1, 'A', 1, 'b', 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeName(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeNameErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty label", "a..b"},
		{"long label", strings.Repeat("a", 64) + ".com"},
		{"non ascii", "exämple.com"},
		{"long name", strings.Repeat(strings.Repeat("a", 60)+".", 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeName(tt.in)
			require.ErrorIs(t, err, ErrDNSError)
		})
	}
}

func TestDecodeNameCompression(t *testing.T) {
	// example.com at offset 0, then www + pointer to offset 0.
	msg := []byte{7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0, 3, 'w', 'w', 'w', 0xC0, 0x00}
	off := 13
	name, err := DecodeName(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", name)
	assert.Equal(t, len(msg), off)
}

func TestDecodeNamePointerLoop(t *testing.T) {
	msg := []byte{0xC0, 0x00}
	off := 0
	_, err := DecodeName(msg, &off)
	require.ErrorIs(t, err, ErrDNSError)
}

func TestDecodeNameRoot(t *testing.T) {
	off := 0
	name, err := DecodeName([]byte{0}, &off)
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "Example.COM", CanonicalName("Example.COM."))
	assert.Equal(t, "example.com", CanonicalName("example.com.."))
	assert.Empty(t, CanonicalName("."))
}
