// Package rules holds the rule model, its validation and the first-match
// evaluation of captured DNS queries against an ordered rule collection.
package rules

import "github.com/jroosing/dnsmirage/internal/dns"

// Mode selects where a response field takes its value from.
type Mode string

const (
	// ModeInherit copies the corresponding value from the query.
	ModeInherit Mode = "inherit"
	// ModeCustom uses the literal supplied with the field.
	ModeCustom Mode = "custom"
	// ModeAuto derives the value from the interface the query arrived on.
	ModeAuto Mode = "auto"
)

// Known reports whether m is empty or one of the three defined modes.
func (m Mode) Known() bool {
	switch m {
	case "", ModeInherit, ModeCustom, ModeAuto:
		return true
	default:
		return false
	}
}

// Field is a single response-action leaf. A zero Field inherits.
type Field[T any] struct {
	Mode  Mode `json:"mode,omitempty"`
	Value *T   `json:"value,omitempty"`
}

// Custom returns a field fixed to v.
func Custom[T any](v T) Field[T] {
	return Field[T]{Mode: ModeCustom, Value: &v}
}

// Auto returns a field derived from the local interface.
func Auto[T any]() Field[T] {
	return Field[T]{Mode: ModeAuto}
}

// Rule pairs a trigger condition with the response sent when it matches.
type Rule struct {
	ID      string  `json:"rule_id"`
	Name    string  `json:"name"`
	Enabled bool    `json:"is_enabled"`
	Trigger Trigger `json:"trigger_condition"`
	Action  Action  `json:"response_action"`
}

// Trigger is the per-layer predicate tree. A nil layer constrains nothing,
// except DNS which is mandatory.
type Trigger struct {
	L2  *L2Match  `json:"l2,omitempty"`
	L3  *L3Match  `json:"l3,omitempty"`
	L4  *L4Match  `json:"l4,omitempty"`
	DNS *DNSMatch `json:"dns,omitempty"`
}

type L2Match struct {
	SrcMAC string `json:"src_mac,omitempty"`
	DstMAC string `json:"dst_mac,omitempty"`
}

type L3Match struct {
	SrcIP    string `json:"src_ip,omitempty"`
	DstIP    string `json:"dst_ip,omitempty"`
	TTL      *uint8 `json:"ttl,omitempty"`
	Protocol *uint8 `json:"protocol,omitempty"`
}

type L4Match struct {
	SrcPort *uint16 `json:"src_port,omitempty"`
	DstPort *uint16 `json:"dst_port,omitempty"`
}

// DNSMatch constrains the DNS layer. QName and QType are required.
type DNSMatch struct {
	QName         string     `json:"qname"`
	QType         *uint16    `json:"qtype"`
	TransactionID *uint16    `json:"transaction_id,omitempty"`
	QDCount       *uint16    `json:"qd_count,omitempty"`
	ANCount       *uint16    `json:"an_count,omitempty"`
	NSCount       *uint16    `json:"ns_count,omitempty"`
	ARCount       *uint16    `json:"ar_count,omitempty"`
	Flags         *FlagMatch `json:"flags,omitempty"`
}

// FlagMatch constrains individual header flags.
type FlagMatch struct {
	QR     *uint8 `json:"qr,omitempty"`
	Opcode *uint8 `json:"opcode,omitempty"`
	AA     *uint8 `json:"aa,omitempty"`
	TC     *uint8 `json:"tc,omitempty"`
	RD     *uint8 `json:"rd,omitempty"`
	RA     *uint8 `json:"ra,omitempty"`
	AD     *uint8 `json:"ad,omitempty"`
	CD     *uint8 `json:"cd,omitempty"`
	RCode  *uint8 `json:"rcode,omitempty"`
}

// Action describes the response. Section counts follow the record lists.
type Action struct {
	L2         L2Action     `json:"l2"`
	L3         L3Action     `json:"l3"`
	L4         L4Action     `json:"l4"`
	Header     HeaderAction `json:"dns_header"`
	Answers    []RecordSpec `json:"dns_answers"`
	Authority  []RecordSpec `json:"dns_authority"`
	Additional []RecordSpec `json:"dns_additional"`
}

type L2Action struct {
	SrcMAC Field[string] `json:"src_mac"`
	DstMAC Field[string] `json:"dst_mac"`
}

type L3Action struct {
	SrcIP Field[string] `json:"src_ip"`
	DstIP Field[string] `json:"dst_ip"`
	TTL   Field[uint8]  `json:"ttl"`
}

type L4Action struct {
	SrcPort Field[uint16] `json:"src_port"`
	DstPort Field[uint16] `json:"dst_port"`
}

type HeaderAction struct {
	Flags FlagAction `json:"flags"`
}

// FlagAction configures the response header flags. QR, Opcode, AA, TC, RA,
// Z and RCode are plain literals; RD, AD and CD go through mode resolution.
type FlagAction struct {
	QR     *uint8 `json:"qr,omitempty"`
	Opcode *uint8 `json:"opcode,omitempty"`
	AA     *uint8 `json:"aa,omitempty"`
	TC     *uint8 `json:"tc,omitempty"`
	RA     *uint8 `json:"ra,omitempty"`
	Z      *uint8 `json:"z,omitempty"`
	RCode  *uint8 `json:"rcode,omitempty"`

	RD Field[uint8] `json:"rd"`
	AD Field[uint8] `json:"ad"`
	CD Field[uint8] `json:"cd"`
}

// Literals returns the literal flags with defaults applied. RD, AD and CD
// are left zero.
func (f FlagAction) Literals() dns.Flags {
	return dns.Flags{
		QR:     orDefault(f.QR, 1),
		Opcode: orDefault(f.Opcode, 0),
		AA:     orDefault(f.AA, 0),
		TC:     orDefault(f.TC, 0),
		RA:     orDefault(f.RA, 1),
		Z:      orDefault(f.Z, 0),
		RCode:  orDefault(f.RCode, 0),
	}
}

func orDefault(p *uint8, def uint8) uint8 {
	if p == nil {
		return def
	}
	return *p
}

// RecordSpec describes one resource record of a response section.
type RecordSpec struct {
	Name     string `json:"name,omitempty"`
	NameMode Mode   `json:"name_mode,omitempty"`
	Type     uint16 `json:"type"`
	Class    uint16 `json:"class,omitempty"`
	TTL      uint32 `json:"ttl"`
	RData    string `json:"rdata,omitempty"`
	// Mode selects the rdata source.
	Mode           Mode   `json:"mode,omitempty"`
	UDPPayloadSize uint16 `json:"udp_payload_size,omitempty"`
}

// DefaultOPTPayloadSize is advertised by an OPT record without an explicit
// udp_payload_size.
const DefaultOPTPayloadSize = 4096

// IsOPT reports whether the record is the EDNS pseudo-record.
func (s RecordSpec) IsOPT() bool {
	return dns.RecordType(s.Type) == dns.TypeOPT
}

// NameField returns the owner name as a resolvable field.
func (s RecordSpec) NameField() Field[string] {
	return optionalField(s.NameMode, s.Name)
}

// RDataField returns the rdata as a resolvable field.
func (s RecordSpec) RDataField() Field[string] {
	return optionalField(s.Mode, s.RData)
}

// ClassOrDefault returns the record class, IN when unset.
func (s RecordSpec) ClassOrDefault() uint16 {
	if s.Class == 0 {
		return uint16(dns.ClassIN)
	}
	return s.Class
}

// PayloadSizeOrDefault returns the OPT payload size, DefaultOPTPayloadSize
// when unset.
func (s RecordSpec) PayloadSizeOrDefault() uint16 {
	if s.UDPPayloadSize == 0 {
		return DefaultOPTPayloadSize
	}
	return s.UDPPayloadSize
}

func optionalField(m Mode, v string) Field[string] {
	f := Field[string]{Mode: m}
	if v != "" {
		f.Value = &v
	}
	return f
}
