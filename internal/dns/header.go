package dns

import (
	"encoding/binary"
	"fmt"
)

// Header is the fixed 12-byte DNS message header (RFC 1035 Section 4.1.1).
type Header struct {
	ID      uint16
	Flags   uint16 // see Flags for a decoded view
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// HeaderSize is the fixed size of a DNS header in bytes.
const HeaderSize = 12

// Marshal serializes the header to wire format.
func (h Header) Marshal() ([]byte, error) {
	b := make([]byte, HeaderSize)
	binary.BigEndian.PutUint16(b[0:2], h.ID)
	binary.BigEndian.PutUint16(b[2:4], h.Flags)
	binary.BigEndian.PutUint16(b[4:6], h.QDCount)
	binary.BigEndian.PutUint16(b[6:8], h.ANCount)
	binary.BigEndian.PutUint16(b[8:10], h.NSCount)
	binary.BigEndian.PutUint16(b[10:12], h.ARCount)
	return b, nil
}

// ParseHeader parses a DNS header at *off and advances *off by HeaderSize.
func ParseHeader(msg []byte, off *int) (Header, error) {
	if *off+HeaderSize > len(msg) {
		return Header{}, fmt.Errorf("%w: unexpected EOF while reading DNS header", ErrDNSError)
	}
	h := Header{
		ID:      binary.BigEndian.Uint16(msg[*off : *off+2]),
		Flags:   binary.BigEndian.Uint16(msg[*off+2 : *off+4]),
		QDCount: binary.BigEndian.Uint16(msg[*off+4 : *off+6]),
		ANCount: binary.BigEndian.Uint16(msg[*off+6 : *off+8]),
		NSCount: binary.BigEndian.Uint16(msg[*off+8 : *off+10]),
		ARCount: binary.BigEndian.Uint16(msg[*off+10 : *off+12]),
	}
	*off += HeaderSize
	return h, nil
}

// IsQuery reports whether QR is clear.
func (h Header) IsQuery() bool {
	return h.Flags&QRFlag == 0
}

// IsResponse reports whether QR is set.
func (h Header) IsResponse() bool {
	return h.Flags&QRFlag != 0
}

// Flags is the decoded form of the header flags word. Single-bit flags are
// kept as 0/1 values so they compare directly against rule literals.
type Flags struct {
	QR     uint8
	Opcode uint8 // 4 bits
	AA     uint8
	TC     uint8
	RD     uint8
	RA     uint8
	Z      uint8
	AD     uint8
	CD     uint8
	RCode  uint8 // 4 bits
}

// UnpackFlags decodes a header flags word.
func UnpackFlags(v uint16) Flags {
	return Flags{
		QR:     bit(v, QRFlag),
		Opcode: uint8((v & OpcodeMask) >> opcodeShift),
		AA:     bit(v, AAFlag),
		TC:     bit(v, TCFlag),
		RD:     bit(v, RDFlag),
		RA:     bit(v, RAFlag),
		Z:      bit(v, ZFlag),
		AD:     bit(v, ADFlag),
		CD:     bit(v, CDFlag),
		RCode:  uint8(v & RCodeMask),
	}
}

// Pack encodes the flags into a header flags word. Values wider than their
// field are truncated to the field width.
func (f Flags) Pack() uint16 {
	var v uint16
	v |= setBit(f.QR, QRFlag)
	v |= (uint16(f.Opcode) << opcodeShift) & OpcodeMask
	v |= setBit(f.AA, AAFlag)
	v |= setBit(f.TC, TCFlag)
	v |= setBit(f.RD, RDFlag)
	v |= setBit(f.RA, RAFlag)
	v |= setBit(f.Z, ZFlag)
	v |= setBit(f.AD, ADFlag)
	v |= setBit(f.CD, CDFlag)
	v |= uint16(f.RCode) & RCodeMask
	return v
}

func bit(v, mask uint16) uint8 {
	if v&mask != 0 {
		return 1
	}
	return 0
}

func setBit(b uint8, mask uint16) uint16 {
	if b&1 != 0 {
		return mask
	}
	return 0
}
