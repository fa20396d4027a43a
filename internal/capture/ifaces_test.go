package capture

import (
	"testing"

	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveFromStats(t *testing.T) {
	stats := psnet.InterfaceStatList{
		{Index: 1, Name: "lo", Flags: []string{"up", "loopback"}, Addrs: psnet.InterfaceAddrList{{Addr: "127.0.0.1/8"}}},
		{Index: 2, Name: "eth0", HardwareAddr: "02:00:00:00:00:aa", Flags: []string{"up", "broadcast"},
			Addrs: psnet.InterfaceAddrList{{Addr: "192.0.2.1/24"}, {Addr: "fe80::1/64"}}},
		{Index: 3, Name: "eth1", Flags: []string{"broadcast"}, Addrs: psnet.InterfaceAddrList{{Addr: "198.51.100.1/24"}}},
		{Index: 4, Name: "wg0", Flags: []string{"up"}},
	}

	got := activeFromStats(stats)
	require.Len(t, got, 1)
	assert.Equal(t, "eth0", got[0].Name)
	assert.Equal(t, 2, got[0].Index)
	assert.Equal(t, "02:00:00:00:00:aa", got[0].MAC.String())
	require.Len(t, got[0].Addrs, 2)
	assert.Equal(t, "192.0.2.1", got[0].Addrs[0].String())
}

func TestSelect(t *testing.T) {
	active := []Identity{{Name: "eth0"}, {Name: "eth1"}}

	got, err := Select(active, nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = Select(active, []string{"eth1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "eth1", got[0].Name)

	_, err = Select(active, []string{"eth9"})
	require.ErrorIs(t, err, ErrNoInterfaces)

	_, err = Select(nil, nil)
	require.ErrorIs(t, err, ErrNoInterfaces)
}
