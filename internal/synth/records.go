package synth

import (
	"errors"
	"fmt"
	"net"

	"github.com/jroosing/dnsmirage/internal/capture"
	"github.com/jroosing/dnsmirage/internal/dns"
	"github.com/jroosing/dnsmirage/internal/rules"
)

var errNoLocalAddr = errors.New("interface has no address of the record's family")

type recordBuilder struct {
	qname string
	local capture.Identity
}

// section builds records in declared order. An empty list yields nil.
func (b recordBuilder) section(name string, specs []rules.RecordSpec) ([]dns.Record, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make([]dns.Record, 0, len(specs))
	for i, s := range specs {
		rec, err := b.record(s)
		if err != nil {
			return nil, fail(fmt.Sprintf("%s[%d]", name, i), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (b recordBuilder) record(s rules.RecordSpec) (dns.Record, error) {
	if s.IsOPT() {
		return opt(s), nil
	}

	name, err := rules.Resolve(s.NameField(), b.qname, b.qname)
	if err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	rec, err := b.rdata(s)
	if err != nil {
		return nil, fmt.Errorf("rdata: %w", err)
	}
	rec.SetHeader(dns.RRHeader{Name: name, Class: s.ClassOrDefault(), TTL: s.TTL})
	return rec, nil
}

// rdata resolves the record data. Without a literal an inheriting record
// carries empty rdata, as there is no query value to copy.
func (b recordBuilder) rdata(s rules.RecordSpec) (dns.Record, error) {
	rt := dns.RecordType(s.Type)
	f := s.RDataField()
	switch f.Mode {
	case rules.ModeAuto:
		if rt != dns.TypeA && rt != dns.TypeAAAA {
			return nil, fmt.Errorf("auto rdata is not defined for %s", rt)
		}
		addr, ok := b.local.AddrFor(rt == dns.TypeAAAA)
		if !ok {
			return nil, errNoLocalAddr
		}
		return dns.NewIPRecord(dns.RRHeader{}, net.IP(addr.AsSlice())), nil
	case rules.ModeCustom:
		if f.Value == nil {
			return nil, rules.ErrUnresolved
		}
	}
	if f.Value == nil {
		return dns.NewRawRecord(dns.RRHeader{}, rt, nil), nil
	}
	return dns.ParseRData(rt, *f.Value)
}

// opt builds the EDNS pseudo-record: root owner, class carrying the payload
// size and no options. The record TTL supplies the extended RCODE, version
// and DO bit.
func opt(s rules.RecordSpec) dns.Record {
	return dns.OPTRecord{
		UDPPayloadSize: s.PayloadSizeOrDefault(),
		ExtendedRCode:  uint8(s.TTL >> 24),
		Version:        uint8(s.TTL >> 16),
		DNSSECOk:       s.TTL&(1<<15) != 0,
	}.Record()
}
