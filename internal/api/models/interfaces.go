package models

import (
	"github.com/jroosing/dnsmirage/internal/capture"
	"github.com/jroosing/dnsmirage/internal/dns"
)

// InterfaceResponse describes an active capture interface.
type InterfaceResponse struct {
	Name  string   `json:"name"`
	Index int      `json:"index"`
	MAC   string   `json:"mac"`
	Addrs []string `json:"addrs"`
}

// NewInterfaceResponse converts a capture identity.
func NewInterfaceResponse(id capture.Identity) InterfaceResponse {
	addrs := make([]string, len(id.Addrs))
	for i, a := range id.Addrs {
		addrs[i] = a.String()
	}
	return InterfaceResponse{Name: id.Name, Index: id.Index, MAC: id.HardwareAddr(), Addrs: addrs}
}

// DNSTypesResponse lists the record types rules are usually built for.
type DNSTypesResponse struct {
	Types []dns.TypeInfo `json:"types"`
}
