package capture

import (
	"net"
	"net/netip"
	"slices"
)

// Identity is the link and network identity of a local interface.
type Identity struct {
	Name  string           `json:"name"`
	Index int              `json:"index"`
	MAC   net.HardwareAddr `json:"-"`
	Addrs []netip.Addr     `json:"addrs"`
}

// HardwareAddr returns the MAC in colon form for display.
func (id Identity) HardwareAddr() string {
	return id.MAC.String()
}

// Owns reports whether addr is assigned to the interface.
func (id Identity) Owns(addr netip.Addr) bool {
	return slices.Contains(id.Addrs, addr)
}

// AddrFor returns the first interface address of the requested family.
// IPv6 link-local addresses are only returned when nothing else is
// assigned.
func (id Identity) AddrFor(ipv6 bool) (netip.Addr, bool) {
	var fallback netip.Addr
	for _, a := range id.Addrs {
		if a.Is4() == ipv6 {
			continue
		}
		if ipv6 && a.IsLinkLocalUnicast() {
			if !fallback.IsValid() {
				fallback = a
			}
			continue
		}
		return a, true
	}
	return fallback, fallback.IsValid()
}

// Owner returns the interface among ids that owns addr.
func Owner(ids []Identity, addr netip.Addr) (Identity, bool) {
	for _, id := range ids {
		if id.Owns(addr) {
			return id, true
		}
	}
	return Identity{}, false
}
