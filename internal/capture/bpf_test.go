package capture_test

import (
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/bpf"

	"github.com/jroosing/dnsmirage/internal/capture"
	"github.com/jroosing/dnsmirage/internal/packet"
)

func frame(t *testing.T, src, dst string, sport, dport uint16) []byte {
	t.Helper()
	b, err := packet.Frame{
		SrcMAC:  net.HardwareAddr{2, 0, 0, 0, 0, 1},
		DstMAC:  net.HardwareAddr{2, 0, 0, 0, 0, 2},
		SrcIP:   netip.MustParseAddr(src),
		DstIP:   netip.MustParseAddr(dst),
		TTL:     64,
		SrcPort: sport,
		DstPort: dport,
		Payload: []byte{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	}.Serialize()
	require.NoError(t, err)
	return b
}

func TestDNSFilter(t *testing.T) {
	raw, err := capture.DNSFilter()
	require.NoError(t, err)
	insns, ok := bpf.Disassemble(raw)
	require.True(t, ok)
	vm, err := bpf.NewVM(insns)
	require.NoError(t, err)

	tests := []struct {
		name   string
		frame  []byte
		accept bool
	}{
		{"ipv4 query", frame(t, "192.0.2.10", "192.0.2.1", 40000, 53), true},
		{"ipv4 reply", frame(t, "192.0.2.1", "192.0.2.10", 53, 40000), true},
		{"ipv4 other port", frame(t, "192.0.2.10", "192.0.2.1", 40000, 123), false},
		{"ipv6 query", frame(t, "2001:db8::10", "2001:db8::1", 40000, 53), true},
		{"ipv6 other port", frame(t, "2001:db8::10", "2001:db8::1", 40000, 5353), false},
		{"arp", append([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 2, 0, 0, 0, 0, 1, 0x08, 0x06}, make([]byte, 28)...), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := vm.Run(tt.frame)
			require.NoError(t, err)
			assert.Equal(t, tt.accept, n > 0)
		})
	}
}
