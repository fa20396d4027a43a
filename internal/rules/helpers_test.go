package rules_test

import (
	"errors"
	"net/netip"

	"github.com/jroosing/dnsmirage/internal/dns"
	"github.com/jroosing/dnsmirage/internal/rules"
)

// fakePacket is a rules.Fields backed by plain values. Nil pointers model a
// missing layer.
type fakePacket struct {
	eth *struct{ src, dst string }
	ip  *struct {
		src, dst   netip.Addr
		ttl, proto uint8
	}
	udp *struct{ src, dst uint16 }
	msg *dns.Packet
}

func (p fakePacket) SrcMAC() (string, bool) {
	if p.eth == nil {
		return "", false
	}
	return p.eth.src, true
}

func (p fakePacket) DstMAC() (string, bool) {
	if p.eth == nil {
		return "", false
	}
	return p.eth.dst, true
}

func (p fakePacket) SrcIP() (netip.Addr, bool) {
	if p.ip == nil {
		return netip.Addr{}, false
	}
	return p.ip.src, true
}

func (p fakePacket) DstIP() (netip.Addr, bool) {
	if p.ip == nil {
		return netip.Addr{}, false
	}
	return p.ip.dst, true
}

func (p fakePacket) TTL() (uint8, bool) {
	if p.ip == nil {
		return 0, false
	}
	return p.ip.ttl, true
}

func (p fakePacket) Protocol() (uint8, bool) {
	if p.ip == nil {
		return 0, false
	}
	return p.ip.proto, true
}

func (p fakePacket) SrcPort() (uint16, bool) {
	if p.udp == nil {
		return 0, false
	}
	return p.udp.src, true
}

func (p fakePacket) DstPort() (uint16, bool) {
	if p.udp == nil {
		return 0, false
	}
	return p.udp.dst, true
}

func (p fakePacket) DNS() (*dns.Packet, bool) {
	return p.msg, p.msg != nil
}

// queryFor builds a full-stack packet carrying a query for name/qtype.
func queryFor(name string, qtype dns.RecordType) fakePacket {
	return fakePacket{
		eth: &struct{ src, dst string }{"02:00:00:00:00:01", "02:00:00:00:00:02"},
		ip: &struct {
			src, dst   netip.Addr
			ttl, proto uint8
		}{netip.MustParseAddr("192.0.2.10"), netip.MustParseAddr("192.0.2.1"), 64, 17},
		udp: &struct{ src, dst uint16 }{40000, 53},
		msg: &dns.Packet{
			Header:    dns.Header{ID: 0x1234, Flags: dns.RDFlag, QDCount: 1},
			Questions: []dns.Question{{Name: name, Type: uint16(qtype), Class: uint16(dns.ClassIN)}},
		},
	}
}

func ptr[T any](v T) *T { return &v }

// baseRule returns a valid enabled rule for example.com/A.
func baseRule(name string) rules.Rule {
	return rules.Rule{
		Name:    name,
		Enabled: true,
		Trigger: rules.Trigger{DNS: &rules.DNSMatch{QName: "example.com", QType: ptr(uint16(dns.TypeA))}},
		Action: rules.Action{
			Answers: []rules.RecordSpec{{Type: uint16(dns.TypeA), TTL: 60, RData: "1.2.3.4", Mode: rules.ModeCustom}},
		},
	}
}

// memStore is an in-memory rules.Store. A non-nil failWith makes SaveRules
// fail.
type memStore struct {
	saved    []rules.Rule
	saves    int
	failWith error
}

func (m *memStore) LoadRules() ([]rules.Rule, error) { return m.saved, nil }

func (m *memStore) SaveRules(rs []rules.Rule) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.saves++
	m.saved = append([]rules.Rule(nil), rs...)
	return nil
}

var errDiskFull = errors.New("disk full")
