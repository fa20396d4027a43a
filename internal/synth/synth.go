// Package synth turns a matched rule into the response frame sent back to
// the querier.
package synth

import (
	"fmt"
	"net"
	"net/netip"
	"slices"

	"github.com/jroosing/dnsmirage/internal/capture"
	"github.com/jroosing/dnsmirage/internal/dns"
	"github.com/jroosing/dnsmirage/internal/packet"
	"github.com/jroosing/dnsmirage/internal/rules"
)

// DefaultIPTTL is the IP TTL (or hop limit) used when ttl is in auto mode.
const DefaultIPTTL = 64

// SynthesisError reports a response field that could not be resolved. Only
// the response being built is abandoned.
type SynthesisError struct {
	Field string
	Err   error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesize response: %s: %v", e.Field, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

func fail(field string, err error) error {
	return &SynthesisError{Field: field, Err: err}
}

// Response is a synthesized reply.
type Response struct {
	// Frame is the complete frame ready for transmission.
	Frame []byte
	Msg   dns.Packet
}

// Synthesize builds the response r prescribes for q. local is the interface
// the query arrived on and feeds every auto-mode field.
//
// The transaction ID and question section are always copied from q and
// section counts always follow the configured record lists.
func Synthesize(q *packet.Query, r rules.Rule, local capture.Identity) (*Response, error) {
	a := r.Action

	msg, err := buildMessage(q, a, local)
	if err != nil {
		return nil, err
	}
	payload, err := msg.Marshal()
	if err != nil {
		return nil, fail("dns", err)
	}

	f := packet.Frame{Payload: payload}
	if err := resolveLink(&f, q, a.L2, local); err != nil {
		return nil, err
	}
	if err := resolveNetwork(&f, q, a, local); err != nil {
		return nil, err
	}

	frame, err := f.Serialize()
	if err != nil {
		return nil, fail("frame", err)
	}
	return &Response{Frame: frame, Msg: msg}, nil
}

// resolveLink fills the Ethernet addresses. A VLAN tag on the query is
// copied to the response.
func resolveLink(f *packet.Frame, q *packet.Query, l2 rules.L2Action, local capture.Identity) error {
	qsrc, _ := q.SrcMAC()
	qdst, _ := q.DstMAC()
	f.VLAN = q.VLAN
	auto := rules.None[string]()
	if len(local.MAC) > 0 {
		auto = rules.Some(local.MAC.String())
	}

	src, err := resolveMAC(l2.SrcMAC, qdst, auto)
	if err != nil {
		return fail("l2.src_mac", err)
	}
	dst, err := resolveMAC(l2.DstMAC, qsrc, auto)
	if err != nil {
		return fail("l2.dst_mac", err)
	}
	f.SrcMAC, f.DstMAC = src, dst
	return nil
}

func resolveMAC(field rules.Field[string], inherited string, auto rules.Source[string]) (net.HardwareAddr, error) {
	s, err := rules.ResolveOptional(field, rules.Some(inherited), auto)
	if err != nil {
		return nil, err
	}
	return net.ParseMAC(s)
}

func resolveNetwork(f *packet.Frame, q *packet.Query, a rules.Action, local capture.Identity) error {
	qsrc, _ := q.SrcIP()
	qdst, _ := q.DstIP()
	auto := rules.None[string]()
	if addr, ok := local.AddrFor(q.IsIPv6()); ok {
		auto = rules.Some(addr.String())
	}

	var err error
	if f.SrcIP, err = resolveAddr(a.L3.SrcIP, qdst, auto); err != nil {
		return fail("l3.src_ip", err)
	}
	if f.DstIP, err = resolveAddr(a.L3.DstIP, qsrc, auto); err != nil {
		return fail("l3.dst_ip", err)
	}

	qttl, _ := q.TTL()
	if f.TTL, err = rules.Resolve(a.L3.TTL, qttl, DefaultIPTTL); err != nil {
		return fail("l3.ttl", err)
	}

	// Ports have no local identity; auto behaves as inherit.
	qsport, _ := q.SrcPort()
	qdport, _ := q.DstPort()
	if f.SrcPort, err = rules.Resolve(a.L4.SrcPort, qdport, qdport); err != nil {
		return fail("l4.src_port", err)
	}
	if f.DstPort, err = rules.Resolve(a.L4.DstPort, qsport, qsport); err != nil {
		return fail("l4.dst_port", err)
	}
	return nil
}

func resolveAddr(field rules.Field[string], inherited netip.Addr, auto rules.Source[string]) (netip.Addr, error) {
	s, err := rules.ResolveOptional(field, rules.Some(inherited.String()), auto)
	if err != nil {
		return netip.Addr{}, err
	}
	return netip.ParseAddr(s)
}

func buildMessage(q *packet.Query, a rules.Action, local capture.Identity) (dns.Packet, error) {
	qf := dns.UnpackFlags(q.Msg.Header.Flags)
	flags := a.Header.Flags.Literals()

	var err error
	if flags.RD, err = rules.Resolve(a.Header.Flags.RD, qf.RD, qf.RD); err != nil {
		return dns.Packet{}, fail("dns_header.flags.rd", err)
	}
	// No validation is performed, so auto never claims authenticated data.
	if flags.AD, err = rules.Resolve(a.Header.Flags.AD, qf.AD, 0); err != nil {
		return dns.Packet{}, fail("dns_header.flags.ad", err)
	}
	if flags.CD, err = rules.Resolve(a.Header.Flags.CD, qf.CD, qf.CD); err != nil {
		return dns.Packet{}, fail("dns_header.flags.cd", err)
	}

	msg := dns.Packet{
		Header:       dns.Header{ID: q.Msg.Header.ID, Flags: flags.Pack()},
		Questions:    slices.Clone(q.Msg.Questions),
		RawQuestions: q.Msg.RawQuestions,
	}
	b := recordBuilder{qname: q.QName(), local: local}
	if msg.Answers, err = b.section("dns_answers", a.Answers); err != nil {
		return dns.Packet{}, err
	}
	if msg.Authorities, err = b.section("dns_authority", a.Authority); err != nil {
		return dns.Packet{}, err
	}
	if msg.Additionals, err = b.section("dns_additional", a.Additional); err != nil {
		return dns.Packet{}, err
	}
	return msg, nil
}
