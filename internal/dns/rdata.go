package dns

import (
	"fmt"
	"net"
)

// IPRecord is an A or AAAA record; the type follows the address family.
type IPRecord struct {
	H    RRHeader
	Addr net.IP
}

// NewIPRecord creates an A or AAAA record.
func NewIPRecord(h RRHeader, addr net.IP) *IPRecord {
	return &IPRecord{H: h, Addr: addr}
}

func (r *IPRecord) Type() RecordType {
	if r.Addr.To4() != nil {
		return TypeA
	}
	return TypeAAAA
}

func (r *IPRecord) Header() RRHeader     { return r.H }
func (r *IPRecord) SetHeader(h RRHeader) { r.H = h }

func (r *IPRecord) MarshalRData() ([]byte, error) {
	if ip4 := r.Addr.To4(); ip4 != nil {
		return []byte(ip4), nil
	}
	if ip6 := r.Addr.To16(); ip6 != nil {
		return []byte(ip6), nil
	}
	return nil, fmt.Errorf("%w: invalid IP address", ErrDNSError)
}

func parseIPRData(msg []byte, off *int, rdlen int) (*IPRecord, error) {
	if rdlen != 4 && rdlen != 16 {
		return nil, fmt.Errorf("%w: A/AAAA record must be 4/16 bytes, got %d", ErrDNSError, rdlen)
	}
	b := make([]byte, rdlen)
	copy(b, msg[*off:*off+rdlen])
	*off += rdlen
	return &IPRecord{Addr: net.IP(b)}, nil
}

// NameRecord holds a single target name: CNAME, NS or PTR.
type NameRecord struct {
	H      RRHeader
	T      RecordType
	Target string
}

// NewNameRecord creates a CNAME, NS or PTR record.
func NewNameRecord(h RRHeader, rt RecordType, target string) *NameRecord {
	return &NameRecord{H: h, T: rt, Target: target}
}

func (r *NameRecord) Type() RecordType              { return r.T }
func (r *NameRecord) Header() RRHeader              { return r.H }
func (r *NameRecord) SetHeader(h RRHeader)          { r.H = h }
func (r *NameRecord) MarshalRData() ([]byte, error) { return EncodeName(r.Target) }

func parseNameRData(msg []byte, off *int, start, rdlen int, rt RecordType) (*NameRecord, error) {
	n, err := DecodeName(msg, off)
	if err != nil {
		return nil, err
	}
	if *off-start != rdlen {
		return nil, fmt.Errorf("%w: name record RDATA length mismatch", ErrDNSError)
	}
	return &NameRecord{Target: n, T: rt}, nil
}

// RawRecord carries RDATA that is already in wire form. It is used for every
// type the codec has no dedicated representation for, including OPT.
type RawRecord struct {
	H    RRHeader
	T    RecordType
	Data []byte
}

// NewRawRecord creates a record with pre-encoded RDATA.
func NewRawRecord(h RRHeader, rt RecordType, data []byte) *RawRecord {
	return &RawRecord{H: h, T: rt, Data: data}
}

func (r *RawRecord) Type() RecordType              { return r.T }
func (r *RawRecord) Header() RRHeader              { return r.H }
func (r *RawRecord) SetHeader(h RRHeader)          { r.H = h }
func (r *RawRecord) MarshalRData() ([]byte, error) { return r.Data, nil }

func parseOpaqueRData(msg []byte, off *int, rdlen int, rt RecordType) *RawRecord {
	b := make([]byte, rdlen)
	copy(b, msg[*off:*off+rdlen])
	*off += rdlen
	return &RawRecord{T: rt, Data: b}
}
