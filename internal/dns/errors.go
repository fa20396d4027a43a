// Package dns implements the DNS wire format used to read intercepted queries
// and to encode crafted responses.
//
// Standards:
//
//   - RFC 1035: message layout, name encoding, header flags
//   - RFC 3596: AAAA records
//   - RFC 4035: AD and CD header bits
//   - RFC 6891: EDNS0 and the OPT pseudo-record
//
// The codec never compresses names on output. Every section count written to
// the wire is derived from the slice it describes, so a Packet cannot carry a
// header whose counts disagree with its sections.
//
// Errors are wrapped with fmt.Errorf("...: %w", ErrDNSError) so callers can
// test for protocol violations with errors.Is.
package dns

import "errors"

var (
	// ErrDNSError is the sentinel for malformed wire data.
	ErrDNSError = errors.New("dns wire error")
)
