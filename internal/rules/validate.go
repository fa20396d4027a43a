package rules

import (
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/jroosing/dnsmirage/internal/dns"
)

// ValidationError reports a malformed rule. Field is a JSON path such as
// "trigger_condition.dns.qname".
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid rule: %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks r and canonicalises its MAC and IP literals in place. It
// returns a *ValidationError describing the first problem found.
func (r *Rule) Validate() error {
	if err := r.Trigger.validate("trigger_condition"); err != nil {
		return err
	}
	return r.Action.validate("response_action")
}

func (t *Trigger) validate(path string) error {
	if t.L2 != nil {
		if err := canonicalMAC(&t.L2.SrcMAC, path+".l2.src_mac"); err != nil {
			return err
		}
		if err := canonicalMAC(&t.L2.DstMAC, path+".l2.dst_mac"); err != nil {
			return err
		}
	}
	if t.L3 != nil {
		if err := canonicalIP(&t.L3.SrcIP, path+".l3.src_ip"); err != nil {
			return err
		}
		if err := canonicalIP(&t.L3.DstIP, path+".l3.dst_ip"); err != nil {
			return err
		}
	}

	d := t.DNS
	if d == nil {
		return invalid(path+".dns", "dns condition is required")
	}
	if strings.TrimSpace(d.QName) == "" {
		return invalid(path+".dns.qname", "qname is required")
	}
	if _, err := dns.EncodeName(d.QName); err != nil {
		return invalid(path+".dns.qname", "%v", err)
	}
	if d.QType == nil {
		return invalid(path+".dns.qtype", "qtype is required")
	}
	if f := d.Flags; f != nil {
		p := path + ".dns.flags."
		checks := []struct {
			name string
			v    *uint8
			max  uint8
		}{
			{"qr", f.QR, 1}, {"opcode", f.Opcode, 15}, {"aa", f.AA, 1}, {"tc", f.TC, 1},
			{"rd", f.RD, 1}, {"ra", f.RA, 1}, {"ad", f.AD, 1}, {"cd", f.CD, 1}, {"rcode", f.RCode, 15},
		}
		for _, c := range checks {
			if c.v != nil && *c.v > c.max {
				return invalid(p+c.name, "must be between 0 and %d", c.max)
			}
		}
	}
	return nil
}

func (a *Action) validate(path string) error {
	if err := validateMACField(&a.L2.SrcMAC, path+".l2.src_mac"); err != nil {
		return err
	}
	if err := validateMACField(&a.L2.DstMAC, path+".l2.dst_mac"); err != nil {
		return err
	}
	if err := validateIPField(&a.L3.SrcIP, path+".l3.src_ip"); err != nil {
		return err
	}
	if err := validateIPField(&a.L3.DstIP, path+".l3.dst_ip"); err != nil {
		return err
	}
	if err := validateField(a.L3.TTL, path+".l3.ttl"); err != nil {
		return err
	}
	if err := validateField(a.L4.SrcPort, path+".l4.src_port"); err != nil {
		return err
	}
	if err := validateField(a.L4.DstPort, path+".l4.dst_port"); err != nil {
		return err
	}
	if err := a.Header.Flags.validate(path + ".dns_header.flags"); err != nil {
		return err
	}

	sections := []struct {
		name    string
		records []RecordSpec
	}{
		{"dns_answers", a.Answers},
		{"dns_authority", a.Authority},
		{"dns_additional", a.Additional},
	}
	for _, s := range sections {
		for i, rec := range s.records {
			if err := rec.validate(fmt.Sprintf("%s.%s[%d]", path, s.name, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *FlagAction) validate(path string) error {
	literals := []struct {
		name string
		v    *uint8
		max  uint8
	}{
		{"qr", f.QR, 1}, {"opcode", f.Opcode, 15}, {"aa", f.AA, 1}, {"tc", f.TC, 1},
		{"ra", f.RA, 1}, {"z", f.Z, 1}, {"rcode", f.RCode, 15},
	}
	for _, l := range literals {
		if l.v != nil && *l.v > l.max {
			return invalid(path+"."+l.name, "must be between 0 and %d", l.max)
		}
	}
	moded := []struct {
		name string
		f    Field[uint8]
	}{{"rd", f.RD}, {"ad", f.AD}, {"cd", f.CD}}
	for _, m := range moded {
		if err := validateField(m.f, path+"."+m.name); err != nil {
			return err
		}
		if m.f.Value != nil && *m.f.Value > 1 {
			return invalid(path+"."+m.name, "must be 0 or 1")
		}
	}
	return nil
}

func (s RecordSpec) validate(path string) error {
	if s.Type == 0 {
		return invalid(path+".type", "type is required")
	}
	if !s.NameMode.Known() {
		return invalid(path+".name_mode", "unknown mode %q", s.NameMode)
	}
	if !s.Mode.Known() {
		return invalid(path+".mode", "unknown mode %q", s.Mode)
	}
	if s.IsOPT() {
		return nil
	}
	if s.NameMode == ModeCustom {
		if s.Name == "" {
			return invalid(path+".name", "custom mode requires a value")
		}
		if _, err := dns.EncodeName(s.Name); err != nil {
			return invalid(path+".name", "%v", err)
		}
	}

	rt := dns.RecordType(s.Type)
	switch s.Mode {
	case ModeAuto:
		if rt != dns.TypeA && rt != dns.TypeAAAA {
			return invalid(path+".mode", "auto rdata is only defined for A and AAAA records")
		}
		return nil
	case ModeCustom:
		if s.RData == "" {
			return invalid(path+".rdata", "custom mode requires a value")
		}
	}
	if s.RData != "" {
		if _, err := dns.ParseRData(rt, s.RData); err != nil {
			return invalid(path+".rdata", "%v", err)
		}
	}
	return nil
}

func validateField[T any](f Field[T], path string) error {
	if !f.Mode.Known() {
		return invalid(path+".mode", "unknown mode %q", f.Mode)
	}
	if f.Mode == ModeCustom && f.Value == nil {
		return invalid(path+".value", "custom mode requires a value")
	}
	return nil
}

func validateMACField(f *Field[string], path string) error {
	if err := validateField(*f, path); err != nil {
		return err
	}
	if f.Value == nil {
		return nil
	}
	if *f.Value == "" && f.Mode == ModeCustom {
		return invalid(path+".value", "custom mode requires a value")
	}
	return canonicalMAC(f.Value, path+".value")
}

func validateIPField(f *Field[string], path string) error {
	if err := validateField(*f, path); err != nil {
		return err
	}
	if f.Value == nil {
		return nil
	}
	if *f.Value == "" && f.Mode == ModeCustom {
		return invalid(path+".value", "custom mode requires a value")
	}
	return canonicalIP(f.Value, path+".value")
}

// canonicalMAC rewrites s to lower-case colon form. Empty means wildcard.
func canonicalMAC(s *string, path string) error {
	if *s == "" {
		return nil
	}
	hw, err := net.ParseMAC(*s)
	if err != nil || len(hw) != 6 {
		return invalid(path, "%q is not an Ethernet MAC address", *s)
	}
	*s = hw.String()
	return nil
}

func canonicalIP(s *string, path string) error {
	if *s == "" {
		return nil
	}
	addr, err := netip.ParseAddr(*s)
	if err != nil {
		return invalid(path, "%q is not an IP address", *s)
	}
	*s = addr.String()
	return nil
}
