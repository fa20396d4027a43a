package rules

import (
	"net/netip"

	"github.com/jroosing/dnsmirage/internal/dns"
)

// Fields gives the predicate evaluator access to a captured packet. Each
// accessor reports false when the packet lacks the layer holding the field.
type Fields interface {
	SrcMAC() (string, bool)
	DstMAC() (string, bool)
	SrcIP() (netip.Addr, bool)
	DstIP() (netip.Addr, bool)
	TTL() (uint8, bool)
	Protocol() (uint8, bool)
	SrcPort() (uint16, bool)
	DstPort() (uint16, bool)
	DNS() (*dns.Packet, bool)
}

// Matches reports whether pkt satisfies the trigger condition of r. Layers
// are checked in order L2, L3, L4, DNS and the first failing field ends the
// evaluation. Unset fields accept any value. A constraint on a layer the
// packet does not carry fails the match. The enabled flag is not consulted;
// see FindFirstMatch.
func Matches(pkt Fields, r Rule) bool {
	t := r.Trigger
	if t.DNS == nil || t.DNS.QType == nil {
		return false
	}
	if l2 := t.L2; l2 != nil {
		if !matchString(l2.SrcMAC, pkt.SrcMAC) || !matchString(l2.DstMAC, pkt.DstMAC) {
			return false
		}
	}
	if l3 := t.L3; l3 != nil {
		if !matchAddr(l3.SrcIP, pkt.SrcIP) || !matchAddr(l3.DstIP, pkt.DstIP) {
			return false
		}
		if !matchValue(l3.TTL, pkt.TTL) || !matchValue(l3.Protocol, pkt.Protocol) {
			return false
		}
	}
	if l4 := t.L4; l4 != nil {
		if !matchValue(l4.SrcPort, pkt.SrcPort) || !matchValue(l4.DstPort, pkt.DstPort) {
			return false
		}
	}
	return matchDNS(t.DNS, pkt)
}

func matchDNS(c *DNSMatch, pkt Fields) bool {
	msg, ok := pkt.DNS()
	if !ok || len(msg.Questions) == 0 {
		return false
	}
	q := msg.Questions[0]
	if dns.CanonicalName(c.QName) != dns.CanonicalName(q.Name) || *c.QType != q.Type {
		return false
	}

	h := msg.Header
	if !matchLiteral(c.TransactionID, h.ID) ||
		!matchLiteral(c.QDCount, h.QDCount) ||
		!matchLiteral(c.ANCount, h.ANCount) ||
		!matchLiteral(c.NSCount, h.NSCount) ||
		!matchLiteral(c.ARCount, h.ARCount) {
		return false
	}

	f := c.Flags
	if f == nil {
		return true
	}
	got := dns.UnpackFlags(h.Flags)
	return matchLiteral(f.QR, got.QR) &&
		matchLiteral(f.Opcode, got.Opcode) &&
		matchLiteral(f.AA, got.AA) &&
		matchLiteral(f.TC, got.TC) &&
		matchLiteral(f.RD, got.RD) &&
		matchLiteral(f.RA, got.RA) &&
		matchLiteral(f.AD, got.AD) &&
		matchLiteral(f.CD, got.CD) &&
		matchLiteral(f.RCode, got.RCode)
}

func matchLiteral[T comparable](want *T, got T) bool {
	return want == nil || *want == got
}

func matchValue[T comparable](want *T, get func() (T, bool)) bool {
	if want == nil {
		return true
	}
	got, ok := get()
	return ok && got == *want
}

func matchString(want string, get func() (string, bool)) bool {
	if want == "" {
		return true
	}
	got, ok := get()
	return ok && got == want
}

func matchAddr(want string, get func() (netip.Addr, bool)) bool {
	if want == "" {
		return true
	}
	w, err := netip.ParseAddr(want)
	if err != nil {
		return false
	}
	got, ok := get()
	return ok && got == w
}
