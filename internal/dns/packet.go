package dns

import (
	"fmt"
	"slices"

	"github.com/jroosing/dnsmirage/internal/helpers"
)

// Parsing limits for messages taken off the wire.
const (
	MaxIncomingDNSMessageSize = 4096
	MaxQuestions              = 4
	MaxRRPerSection           = 100
	MaxTotalRR                = 200
)

// Packet is a complete DNS message (RFC 1035 Section 4.1).
type Packet struct {
	Header      Header
	Questions   []Question
	Answers     []Record
	Authorities []Record
	Additionals []Record

	// RawQuestions is the question section exactly as it appeared on the
	// wire. Set by parsing; when present Marshal writes it in place of
	// Questions, so labels containing a literal dot survive unchanged.
	RawQuestions []byte
}

// Marshal serializes the packet. Section counts are taken from the slices,
// not from Header.
func (p Packet) Marshal() ([]byte, error) {
	h := Header{
		ID:      p.Header.ID,
		Flags:   p.Header.Flags,
		QDCount: helpers.ClampIntToUint16(len(p.Questions)),
		ANCount: helpers.ClampIntToUint16(len(p.Answers)),
		NSCount: helpers.ClampIntToUint16(len(p.Authorities)),
		ARCount: helpers.ClampIntToUint16(len(p.Additionals)),
	}
	hb, err := h.Marshal()
	if err != nil {
		return nil, err
	}
	n := len(p.Answers) + len(p.Authorities) + len(p.Additionals)
	out := make([]byte, 0, HeaderSize+len(p.Questions)*50+n*100)
	out = append(out, hb...)

	if p.RawQuestions != nil {
		// The section starts at the header's end in both messages, so any
		// compression pointer inside it still resolves.
		out = append(out, p.RawQuestions...)
	} else {
		for _, q := range p.Questions {
			qb, err := q.Marshal()
			if err != nil {
				return nil, err
			}
			out = append(out, qb...)
		}
	}
	for _, section := range [][]Record{p.Answers, p.Authorities, p.Additionals} {
		for _, r := range section {
			b, err := MarshalRecord(r)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
	}
	return out, nil
}

// ParsePacket decodes a full DNS message without applying any limits.
func ParsePacket(msg []byte) (Packet, error) {
	return parse(msg, false)
}

// ParseQuery decodes a message captured off the wire. It enforces the size
// and section count limits but accepts any QR or opcode; deciding what to
// do with a response or an unusual opcode is left to the caller.
func ParseQuery(msg []byte) (Packet, error) {
	if len(msg) > MaxIncomingDNSMessageSize {
		return Packet{}, fmt.Errorf("%w: message too large: %d bytes", ErrDNSError, len(msg))
	}
	return parse(msg, true)
}

func parse(msg []byte, bounded bool) (Packet, error) {
	off := 0
	h, err := ParseHeader(msg, &off)
	if err != nil {
		return Packet{}, err
	}
	if bounded {
		if int(h.QDCount) > MaxQuestions {
			return Packet{}, fmt.Errorf("%w: too many questions: %d", ErrDNSError, h.QDCount)
		}
		if h.ANCount > MaxRRPerSection || h.NSCount > MaxRRPerSection || h.ARCount > MaxRRPerSection {
			return Packet{}, fmt.Errorf("%w: too many records in a section", ErrDNSError)
		}
		if int(h.ANCount)+int(h.NSCount)+int(h.ARCount) > MaxTotalRR {
			return Packet{}, fmt.Errorf("%w: too many records", ErrDNSError)
		}
	}

	p := Packet{Header: h}
	// Header counts are attacker controlled; cap the preallocation.
	p.Questions = make([]Question, 0, min(int(h.QDCount), MaxQuestions))
	qstart := off
	for range h.QDCount {
		q, err := ParseQuestion(msg, &off)
		if err != nil {
			return Packet{}, err
		}
		p.Questions = append(p.Questions, q)
	}
	p.RawQuestions = slices.Clone(msg[qstart:off])
	if p.Answers, err = parseSection(msg, &off, h.ANCount); err != nil {
		return Packet{}, err
	}
	if p.Authorities, err = parseSection(msg, &off, h.NSCount); err != nil {
		return Packet{}, err
	}
	if p.Additionals, err = parseSection(msg, &off, h.ARCount); err != nil {
		return Packet{}, err
	}
	return p, nil
}

func parseSection(msg []byte, off *int, count uint16) ([]Record, error) {
	rrs := make([]Record, 0, min(int(count), MaxRRPerSection))
	for range count {
		r, err := ParseRecord(msg, off)
		if err != nil {
			return nil, err
		}
		rrs = append(rrs, r)
	}
	return rrs, nil
}
