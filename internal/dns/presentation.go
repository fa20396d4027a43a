package dns

import (
	"encoding/binary"
	"fmt"
	"net"
	"net/netip"
	"strings"

	mdns "github.com/miekg/dns"
)

// ParseRData converts presentation-format rdata such as "192.0.2.1" or
// "10 mail.example.com." into a record of type rt with an empty header.
//
// Address and single-name types are handled by this package; every other
// type is parsed with miekg/dns, which also accepts the RFC 3597 generic
// form ("\# 4 c0000201").
func ParseRData(rt RecordType, text string) (Record, error) {
	text = strings.TrimSpace(text)
	switch rt {
	case TypeA, TypeAAAA:
		addr, err := netip.ParseAddr(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %s rdata %q: not an IP address", ErrDNSError, rt, text)
		}
		if rt == TypeA && !addr.Is4() {
			return nil, fmt.Errorf("%w: A rdata %q is not IPv4", ErrDNSError, text)
		}
		if rt == TypeAAAA && (addr.Is4() || addr.Is4In6()) {
			return nil, fmt.Errorf("%w: AAAA rdata %q is not IPv6", ErrDNSError, text)
		}
		return NewIPRecord(RRHeader{}, net.IP(addr.AsSlice())), nil
	case TypeCNAME, TypeNS, TypePTR:
		if _, err := EncodeName(text); err != nil {
			return nil, err
		}
		return NewNameRecord(RRHeader{}, rt, CanonicalName(text)), nil
	}

	rr, err := mdns.NewRR(fmt.Sprintf(". 0 IN %s %s", mdns.Type(rt).String(), text))
	if err != nil {
		return nil, fmt.Errorf("%w: %s rdata %q: %v", ErrDNSError, rt, text, err)
	}
	if rr == nil {
		return nil, fmt.Errorf("%w: %s rdata is empty", ErrDNSError, rt)
	}
	buf := make([]byte, mdns.Len(rr)+1)
	end, err := mdns.PackRR(rr, buf, 0, nil, false)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s rdata: %v", ErrDNSError, rt, err)
	}
	// root owner (1) + type, class, ttl, rdlength (10)
	const fixed = 11
	if end < fixed {
		return nil, fmt.Errorf("%w: pack %s rdata: short record", ErrDNSError, rt)
	}
	rdlen := int(binary.BigEndian.Uint16(buf[fixed-2 : fixed]))
	data := make([]byte, rdlen)
	copy(data, buf[fixed:fixed+rdlen])
	return NewRawRecord(RRHeader{}, rt, data), nil
}
