package dns

import (
	"encoding/binary"
	"fmt"

	"github.com/jroosing/dnsmirage/internal/helpers"
)

// RRHeader carries the owner name, class and TTL shared by every resource
// record. For OPT records Class holds the UDP payload size and TTL the
// extended RCODE, version and flags.
type RRHeader struct {
	Name  string
	Class uint16
	TTL   uint32
}

// NewRRHeader creates a resource record header.
func NewRRHeader(name string, class RecordClass, ttl uint32) RRHeader {
	return RRHeader{Name: name, Class: uint16(class), TTL: ttl}
}

// Record is a resource record of any type.
type Record interface {
	Type() RecordType
	Header() RRHeader
	SetHeader(h RRHeader)
	// MarshalRData returns the wire form of the record data.
	MarshalRData() ([]byte, error)
}

// ParseRecord parses a resource record at *off and advances *off past it.
func ParseRecord(msg []byte, off *int) (Record, error) {
	name, err := DecodeName(msg, off)
	if err != nil {
		return nil, err
	}
	if *off+10 > len(msg) {
		return nil, fmt.Errorf("%w: unexpected EOF while reading DNS record", ErrDNSError)
	}
	rrType := binary.BigEndian.Uint16(msg[*off : *off+2])
	rrClass := binary.BigEndian.Uint16(msg[*off+2 : *off+4])
	ttl := binary.BigEndian.Uint32(msg[*off+4 : *off+8])
	rdlen := int(binary.BigEndian.Uint16(msg[*off+8 : *off+10]))
	*off += 10
	start := *off
	if start+rdlen > len(msg) {
		return nil, fmt.Errorf("%w: unexpected EOF while reading DNS record rdata", ErrDNSError)
	}

	var rec Record
	switch rt := RecordType(rrType); rt {
	case TypeA, TypeAAAA:
		rec, err = parseIPRData(msg, off, rdlen)
	case TypeCNAME, TypeNS, TypePTR:
		rec, err = parseNameRData(msg, off, start, rdlen, rt)
	default:
		rec = parseOpaqueRData(msg, off, rdlen, rt)
	}
	if err != nil {
		return nil, err
	}
	rec.SetHeader(RRHeader{Name: name, Class: rrClass, TTL: ttl})
	return rec, nil
}

// MarshalRecord converts a Record to wire format. OPT records always carry
// the root owner name regardless of their header.
func MarshalRecord(r Record) ([]byte, error) {
	rdata, err := r.MarshalRData()
	if err != nil {
		return nil, err
	}
	if len(rdata) > 65535 {
		return nil, fmt.Errorf("%w: rdata too large: %d bytes (max 65535)", ErrDNSError, len(rdata))
	}
	h := r.Header()
	rt := r.Type()

	nameWire := []byte{0}
	if rt != TypeOPT {
		b, err := EncodeName(h.Name)
		if err != nil {
			return nil, err
		}
		nameWire = b
	}

	out := make([]byte, len(nameWire)+10, len(nameWire)+10+len(rdata))
	copy(out, nameWire)
	fixed := out[len(nameWire):]
	binary.BigEndian.PutUint16(fixed[0:2], uint16(rt))
	binary.BigEndian.PutUint16(fixed[2:4], h.Class)
	binary.BigEndian.PutUint32(fixed[4:8], h.TTL)
	binary.BigEndian.PutUint16(fixed[8:10], helpers.ClampIntToUint16(len(rdata)))
	return append(out, rdata...), nil
}
