package dns

import "strconv"

// Header flag masks (RFC 1035 Section 4.1.1, RFC 4035 Section 3.2).
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|QR|   Opcode  |AA|TC|RD|RA| Z|AD|CD|   RCODE   |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	 15 14 13 12 11 10  9  8  7  6  5  4  3  2  1  0
const (
	QRFlag      uint16 = 0x8000
	OpcodeMask  uint16 = 0x7800
	opcodeShift        = 11
	AAFlag      uint16 = 0x0400
	TCFlag      uint16 = 0x0200
	RDFlag      uint16 = 0x0100
	RAFlag      uint16 = 0x0080
	ZFlag       uint16 = 0x0040
	ADFlag      uint16 = 0x0020
	CDFlag      uint16 = 0x0010
	RCodeMask   uint16 = 0x000F
)

// RecordType is a DNS resource record type.
type RecordType uint16

const (
	TypeA     RecordType = 1
	TypeNS    RecordType = 2
	TypeCNAME RecordType = 5
	TypeSOA   RecordType = 6
	TypePTR   RecordType = 12
	TypeMX    RecordType = 15
	TypeTXT   RecordType = 16
	TypeAAAA  RecordType = 28
	TypeSRV   RecordType = 33
	TypeOPT   RecordType = 41 // EDNS pseudo-record (RFC 6891)
	TypeANY   RecordType = 255
)

// RecordClass is a DNS resource record class.
type RecordClass uint16

const (
	ClassIN RecordClass = 1
)

// RCode is a DNS response code.
type RCode uint16

const (
	RCodeNoError  RCode = 0
	RCodeFormErr  RCode = 1
	RCodeServFail RCode = 2
	RCodeNXDomain RCode = 3
	RCodeNotImp   RCode = 4
	RCodeRefused  RCode = 5
)

// RCodeFromFlags extracts the response code from the header flags.
func RCodeFromFlags(flags uint16) RCode {
	return RCode(flags & RCodeMask)
}

// TypeInfo describes a record type for display purposes.
type TypeInfo struct {
	Type        RecordType `json:"type"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
}

// KnownTypes lists the record types operators usually build rules for,
// in ascending type order.
var KnownTypes = []TypeInfo{
	{TypeA, "A", "IPv4 address"},
	{TypeNS, "NS", "Authoritative name server"},
	{TypeCNAME, "CNAME", "Canonical name for an alias"},
	{TypeSOA, "SOA", "Start of a zone of authority"},
	{TypePTR, "PTR", "Domain name pointer"},
	{TypeMX, "MX", "Mail exchange"},
	{TypeTXT, "TXT", "Text strings"},
	{TypeAAAA, "AAAA", "IPv6 address"},
	{TypeSRV, "SRV", "Service locator"},
	{TypeOPT, "OPT", "EDNS0 pseudo-record"},
	{TypeANY, "ANY", "All records"},
}

// String returns the mnemonic for known types and TYPEnn otherwise.
func (t RecordType) String() string {
	for _, ti := range KnownTypes {
		if ti.Type == t {
			return ti.Name
		}
	}
	return "TYPE" + strconv.Itoa(int(t))
}
