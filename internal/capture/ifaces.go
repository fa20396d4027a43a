package capture

import (
	"fmt"
	"net"
	"net/netip"
	"slices"

	"github.com/pkg/errors"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// Interfaces enumerates the active interfaces of the host.
func Interfaces() ([]Identity, error) {
	stats, err := psnet.Interfaces()
	if err != nil {
		return nil, errors.Wrap(err, "list interfaces")
	}
	return activeFromStats(stats), nil
}

func activeFromStats(stats psnet.InterfaceStatList) []Identity {
	out := make([]Identity, 0, len(stats))
	for _, st := range stats {
		if !slices.Contains(st.Flags, "up") || slices.Contains(st.Flags, "loopback") {
			continue
		}
		id := Identity{Name: st.Name, Index: st.Index}
		if hw, err := net.ParseMAC(st.HardwareAddr); err == nil {
			id.MAC = hw
		}
		for _, a := range st.Addrs {
			p, err := netip.ParsePrefix(a.Addr)
			if err != nil {
				continue
			}
			if addr := p.Addr(); !addr.IsLoopback() {
				id.Addrs = append(id.Addrs, addr)
			}
		}
		if len(id.Addrs) == 0 {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Select narrows active to the named interfaces. No names selects all of
// them.
func Select(active []Identity, names []string) ([]Identity, error) {
	if len(active) == 0 {
		return nil, ErrNoInterfaces
	}
	if len(names) == 0 {
		return active, nil
	}
	out := make([]Identity, 0, len(names))
	for _, n := range names {
		i := slices.IndexFunc(active, func(id Identity) bool { return id.Name == n })
		if i < 0 {
			return nil, fmt.Errorf("%w: %q is not an active interface", ErrNoInterfaces, n)
		}
		out = append(out, active[i])
	}
	return out, nil
}
