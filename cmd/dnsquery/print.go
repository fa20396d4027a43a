package main

import (
	"fmt"
	"io"

	mdns "github.com/miekg/dns"

	"github.com/jroosing/dnsmirage/internal/dns"
)

// printResponse writes the header, every flag and each section of msg.
// Records are rendered by miekg/dns so that types this module does not
// model still print in presentation form.
func printResponse(w io.Writer, msg []byte, wantID uint16) error {
	p, err := dns.ParsePacket(msg)
	if err != nil {
		return fmt.Errorf("unparseable response: %w", err)
	}
	h := p.Header
	f := dns.UnpackFlags(h.Flags)

	idNote := ""
	if h.ID != wantID {
		idNote = fmt.Sprintf(" (sent %d)", wantID)
	}
	fmt.Fprintf(w, ";; id: %d%s, opcode: %d, rcode: %s\n", h.ID, idNote, f.Opcode, rcodeName(f.RCode))
	fmt.Fprintf(w, ";; flags: qr=%d aa=%d tc=%d rd=%d ra=%d z=%d ad=%d cd=%d\n",
		f.QR, f.AA, f.TC, f.RD, f.RA, f.Z, f.AD, f.CD)
	fmt.Fprintf(w, ";; QUERY: %d, ANSWER: %d, AUTHORITY: %d, ADDITIONAL: %d\n",
		h.QDCount, h.ANCount, h.NSCount, h.ARCount)

	fmt.Fprintln(w, "\n;; QUESTION SECTION:")
	for _, q := range p.Questions {
		fmt.Fprintf(w, ";%s\n", q)
	}

	var m mdns.Msg
	if err := m.Unpack(msg); err != nil {
		// Fall back to the bare summary when miekg rejects the message.
		fmt.Fprintf(w, "\n;; records not decodable: %v\n", err)
		return nil
	}
	printSection(w, "ANSWER", m.Answer)
	printSection(w, "AUTHORITY", m.Ns)
	if opt := m.IsEdns0(); opt != nil {
		fmt.Fprintf(w, "\n;; OPT: udp=%d version=%d do=%t ext-rcode=%d\n",
			opt.UDPSize(), opt.Version(), opt.Do(), opt.ExtendedRcode())
	}
	extra := make([]mdns.RR, 0, len(m.Extra))
	for _, rr := range m.Extra {
		if rr.Header().Rrtype != mdns.TypeOPT {
			extra = append(extra, rr)
		}
	}
	printSection(w, "ADDITIONAL", extra)
	return nil
}

func printSection(w io.Writer, name string, rrs []mdns.RR) {
	if len(rrs) == 0 {
		return
	}
	fmt.Fprintf(w, "\n;; %s SECTION:\n", name)
	for _, rr := range rrs {
		fmt.Fprintln(w, rr.String())
	}
}

func rcodeName(rc uint8) string {
	if s, ok := mdns.RcodeToString[int(rc)]; ok {
		return s
	}
	return fmt.Sprintf("RCODE%d", rc)
}
