// Package packet decodes captured frames into the layered view used for
// rule matching and response synthesis.
package packet

import (
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/jroosing/dnsmirage/internal/dns"
)

var (
	// ErrNotDNS is returned for frames that do not carry a UDP DNS message.
	ErrNotDNS = errors.New("not a UDP DNS datagram")
	// ErrStackedVLAN is returned for frames with more than one 802.1Q tag.
	ErrStackedVLAN = fmt.Errorf("%w: stacked VLAN tags", ErrNotDNS)
)

// VLAN is an 802.1Q tag.
type VLAN struct {
	Priority     uint8
	DropEligible bool
	ID           uint16
}

// Query is a decoded DNS datagram together with the layers below it.
// Exactly one of IPv4 and IPv6 is set.
type Query struct {
	Frame []byte

	Eth  *layers.Ethernet
	VLAN *VLAN
	IPv4 *layers.IPv4
	IPv6 *layers.IPv6
	UDP  *layers.UDP
	Msg  dns.Packet
}

// Decode parses an Ethernet frame carrying at most one 802.1Q tag. The
// returned Query references frame.
func Decode(frame []byte) (*Query, error) {
	var (
		eth     layers.Ethernet
		dot1q   layers.Dot1Q
		ip4     layers.IPv4
		ip6     layers.IPv6
		udp     layers.UDP
		payload gopacket.Payload
	)
	parser := gopacket.NewDecodingLayerParser(layers.LayerTypeEthernet, &eth, &dot1q, &ip4, &ip6, &udp, &payload)
	// UDP/53 hands off to layers.DNS, which is decoded by the dns package.
	parser.IgnoreUnsupported = true

	decoded := make([]gopacket.LayerType, 0, 5)
	if err := parser.DecodeLayers(frame, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDNS, err)
	}

	q := &Query{Frame: frame}
	for _, lt := range decoded {
		switch lt {
		case layers.LayerTypeEthernet:
			q.Eth = &eth
		case layers.LayerTypeDot1Q:
			if q.VLAN != nil {
				return nil, ErrStackedVLAN
			}
			q.VLAN = &VLAN{Priority: dot1q.Priority, DropEligible: dot1q.DropEligible, ID: dot1q.VLANIdentifier}
		case layers.LayerTypeIPv4:
			q.IPv4 = &ip4
		case layers.LayerTypeIPv6:
			q.IPv6 = &ip6
		case layers.LayerTypeUDP:
			q.UDP = &udp
		}
	}
	if q.Eth == nil || q.UDP == nil || (q.IPv4 == nil && q.IPv6 == nil) {
		return nil, ErrNotDNS
	}

	msg, err := dns.ParseQuery(q.UDP.Payload)
	if err != nil {
		return nil, err
	}
	q.Msg = msg
	return q, nil
}

// IsIPv6 reports whether the query arrived over IPv6.
func (q *Query) IsIPv6() bool { return q.IPv6 != nil }

// Question returns the first question, if any.
func (q *Query) Question() (dns.Question, bool) {
	if len(q.Msg.Questions) == 0 {
		return dns.Question{}, false
	}
	return q.Msg.Questions[0], true
}

// QName returns the first question name, or "" when there is none.
func (q *Query) QName() string {
	qs, _ := q.Question()
	return qs.Name
}

func (q *Query) SrcMAC() (string, bool) {
	if q.Eth == nil {
		return "", false
	}
	return q.Eth.SrcMAC.String(), true
}

func (q *Query) DstMAC() (string, bool) {
	if q.Eth == nil {
		return "", false
	}
	return q.Eth.DstMAC.String(), true
}

func (q *Query) SrcIP() (netip.Addr, bool) {
	if q.IPv4 != nil {
		return addrOf(q.IPv4.SrcIP)
	}
	if q.IPv6 != nil {
		return addrOf(q.IPv6.SrcIP)
	}
	return netip.Addr{}, false
}

func (q *Query) DstIP() (netip.Addr, bool) {
	if q.IPv4 != nil {
		return addrOf(q.IPv4.DstIP)
	}
	if q.IPv6 != nil {
		return addrOf(q.IPv6.DstIP)
	}
	return netip.Addr{}, false
}

// TTL is the IPv4 TTL or the IPv6 hop limit.
func (q *Query) TTL() (uint8, bool) {
	switch {
	case q.IPv4 != nil:
		return q.IPv4.TTL, true
	case q.IPv6 != nil:
		return q.IPv6.HopLimit, true
	}
	return 0, false
}

// Protocol is the IPv4 protocol or the IPv6 next header.
func (q *Query) Protocol() (uint8, bool) {
	switch {
	case q.IPv4 != nil:
		return uint8(q.IPv4.Protocol), true
	case q.IPv6 != nil:
		return uint8(q.IPv6.NextHeader), true
	}
	return 0, false
}

func (q *Query) SrcPort() (uint16, bool) {
	if q.UDP == nil {
		return 0, false
	}
	return uint16(q.UDP.SrcPort), true
}

func (q *Query) DstPort() (uint16, bool) {
	if q.UDP == nil {
		return 0, false
	}
	return uint16(q.UDP.DstPort), true
}

func (q *Query) DNS() (*dns.Packet, bool) {
	return &q.Msg, true
}

func addrOf(ip net.IP) (netip.Addr, bool) {
	a, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}, false
	}
	return a, true
}
