package packet

import (
	"errors"
	"net"
	"net/netip"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// ErrAddressFamily is returned when source and destination addresses are of
// different IP families.
var ErrAddressFamily = errors.New("source and destination address families differ")

// Frame describes an outgoing UDP datagram in an Ethernet frame, tagged
// when VLAN is set.
type Frame struct {
	SrcMAC, DstMAC   net.HardwareAddr
	VLAN             *VLAN
	SrcIP, DstIP     netip.Addr
	TTL              uint8
	SrcPort, DstPort uint16
	Payload          []byte
}

// Serialize assembles the frame bottom-up with computed lengths and
// checksums.
func (f Frame) Serialize() ([]byte, error) {
	if f.SrcIP.Is4() != f.DstIP.Is4() {
		return nil, ErrAddressFamily
	}

	udp := &layers.UDP{
		SrcPort: layers.UDPPort(f.SrcPort),
		DstPort: layers.UDPPort(f.DstPort),
	}

	var (
		network   gopacket.SerializableLayer
		etherType layers.EthernetType
	)
	if f.SrcIP.Is4() {
		ip := &layers.IPv4{
			Version:  4,
			TTL:      f.TTL,
			Protocol: layers.IPProtocolUDP,
			SrcIP:    f.SrcIP.AsSlice(),
			DstIP:    f.DstIP.AsSlice(),
		}
		if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
			return nil, err
		}
		network, etherType = ip, layers.EthernetTypeIPv4
	} else {
		ip := &layers.IPv6{
			Version:    6,
			HopLimit:   f.TTL,
			NextHeader: layers.IPProtocolUDP,
			SrcIP:      f.SrcIP.AsSlice(),
			DstIP:      f.DstIP.AsSlice(),
		}
		if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
			return nil, err
		}
		network, etherType = ip, layers.EthernetTypeIPv6
	}

	eth := &layers.Ethernet{SrcMAC: f.SrcMAC, DstMAC: f.DstMAC, EthernetType: etherType}
	stack := make([]gopacket.SerializableLayer, 0, 5)
	stack = append(stack, eth)
	if f.VLAN != nil {
		eth.EthernetType = layers.EthernetTypeDot1Q
		stack = append(stack, &layers.Dot1Q{
			Priority:       f.VLAN.Priority,
			DropEligible:   f.VLAN.DropEligible,
			VLANIdentifier: f.VLAN.ID,
			Type:           etherType,
		})
	}
	stack = append(stack, network, udp, gopacket.Payload(f.Payload))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, stack...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
