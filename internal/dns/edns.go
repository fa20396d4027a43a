package dns

import (
	"encoding/binary"

	"github.com/jroosing/dnsmirage/internal/helpers"
)

// EDNS payload sizes (RFC 6891).
const (
	DefaultUDPPayloadSize     = 512
	EDNSDefaultUDPPayloadSize = 1232
	EDNSMaxUDPPayloadSize     = 4096
	EDNSMinUDPPayloadSize     = 512
)

// EDNSOption is one option carried in OPT RDATA.
type EDNSOption struct {
	Code uint16
	Data []byte
}

const ednsOptionHeaderLen = 4

// Marshal serializes an EDNS option to wire format.
func (o EDNSOption) Marshal() []byte {
	b := make([]byte, ednsOptionHeaderLen+len(o.Data))
	binary.BigEndian.PutUint16(b[0:2], o.Code)
	binary.BigEndian.PutUint16(b[2:4], helpers.ClampIntToUint16(len(o.Data)))
	copy(b[4:], o.Data)
	return b
}

// ParseEDNSOptions splits OPT RDATA into options. A truncated trailing
// option ends parsing.
func ParseEDNSOptions(rdata []byte) []EDNSOption {
	var opts []EDNSOption
	for i := 0; len(rdata)-i >= ednsOptionHeaderLen; {
		code := binary.BigEndian.Uint16(rdata[i : i+2])
		ln := int(binary.BigEndian.Uint16(rdata[i+2 : i+4]))
		i += ednsOptionHeaderLen
		if i+ln > len(rdata) {
			break
		}
		data := make([]byte, ln)
		copy(data, rdata[i:i+ln])
		opts = append(opts, EDNSOption{Code: code, Data: data})
		i += ln
	}
	return opts
}

// OPTRecord is the decoded view of an EDNS OPT pseudo-record.
//
// The wire form reuses the RR layout: CLASS holds the UDP payload size and
// TTL packs the extended RCODE (bits 31-24), the version (23-16) and the DO
// flag (bit 15).
type OPTRecord struct {
	UDPPayloadSize uint16
	ExtendedRCode  uint8
	Version        uint8
	DNSSECOk       bool
	Options        []EDNSOption
}

// CreateOPT creates an OPT record advertising the given UDP payload size.
func CreateOPT(udpPayloadSize int) OPTRecord {
	sz := helpers.ClampInt(udpPayloadSize, EDNSMinUDPPayloadSize, 65535)
	return OPTRecord{UDPPayloadSize: helpers.ClampIntToUint16(sz)}
}

// Record converts the OPT view into a Record for a packet's additional
// section.
func (o OPTRecord) Record() Record {
	var rdata []byte
	for _, opt := range o.Options {
		rdata = append(rdata, opt.Marshal()...)
	}
	h := RRHeader{Class: o.UDPPayloadSize, TTL: packOPTTTL(o.ExtendedRCode, o.Version, o.DNSSECOk)}
	return NewRawRecord(h, TypeOPT, rdata)
}

// Marshal serializes the OPT record to wire format.
func (o OPTRecord) Marshal() []byte {
	b, _ := MarshalRecord(o.Record()) // root name and bounded rdata cannot fail
	return b
}

func packOPTTTL(extRCode, version uint8, dnssecOk bool) uint32 {
	ttl := uint32(extRCode)<<24 | uint32(version)<<16
	if dnssecOk {
		ttl |= 1 << 15
	}
	return ttl
}

// ExtractOPT returns the first OPT record in additionals, or nil.
func ExtractOPT(additionals []Record) *OPTRecord {
	for _, r := range additionals {
		if r.Type() != TypeOPT {
			continue
		}
		raw, ok := r.(*RawRecord)
		if !ok {
			continue
		}
		h := raw.Header()
		return &OPTRecord{
			UDPPayloadSize: h.Class,
			ExtendedRCode:  helpers.ClampUint32ToUint8((h.TTL >> 24) & 0xFF),
			Version:        helpers.ClampUint32ToUint8((h.TTL >> 16) & 0xFF),
			DNSSECOk:       (h.TTL>>15)&0x1 == 1,
			Options:        ParseEDNSOptions(raw.Data),
		}
	}
	return nil
}
