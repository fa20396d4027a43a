package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{ID: 0x1234, Flags: 0x8180, QDCount: 1, ANCount: 2, NSCount: 3, ARCount: 4}
	b, err := h.Marshal()
	require.NoError(t, err)
	require.Len(t, b, HeaderSize)
	assert.Equal(t, []byte{0x12, 0x34, 0x81, 0x80, 0, 1, 0, 2, 0, 3, 0, 4}, b)

	off := 0
	got, err := ParseHeader(b, &off)
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.Equal(t, HeaderSize, off)
	assert.True(t, got.IsResponse())
	assert.False(t, got.IsQuery())
}

func TestParseHeaderTruncated(t *testing.T) {
	off := 0
	_, err := ParseHeader([]byte{0x12, 0x34, 0x01}, &off)
	require.ErrorIs(t, err, ErrDNSError)
}

func TestUnpackFlags(t *testing.T) {
	// QR, opcode 2, AA, RD, RA, AD, rcode 3
	v := QRFlag | 2<<opcodeShift | AAFlag | RDFlag | RAFlag | ADFlag | 3
	f := UnpackFlags(v)
	assert.Equal(t, Flags{QR: 1, Opcode: 2, AA: 1, RD: 1, RA: 1, AD: 1, RCode: 3}, f)
	assert.Equal(t, v, f.Pack())
}

func TestFlagsPack(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		want  uint16
	}{
		{"zero", Flags{}, 0},
		{"standard query", Flags{RD: 1}, 0x0100},
		{"standard response", Flags{QR: 1, RD: 1, RA: 1}, 0x8180},
		{"nxdomain", Flags{QR: 1, RA: 1, RCode: 3}, 0x8083},
		{"all bits", Flags{1, 15, 1, 1, 1, 1, 1, 1, 1, 15}, 0xFFFF},
		{"wide values truncated", Flags{Opcode: 0x1F, RCode: 0x1F}, 0x7800 | 0x000F},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flags.Pack())
		})
	}
}

func TestFlagsRoundTripEveryWord(t *testing.T) {
	for v := 0; v <= 0xFFFF; v += 0x0111 {
		w := uint16(v)
		assert.Equal(t, w, UnpackFlags(w).Pack(), "flags %#04x", w)
	}
}

func TestRecordTypeString(t *testing.T) {
	assert.Equal(t, "A", TypeA.String())
	assert.Equal(t, "AAAA", TypeAAAA.String())
	assert.Equal(t, "TYPE999", RecordType(999).String())
}
