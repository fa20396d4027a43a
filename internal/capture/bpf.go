package capture

import "golang.org/x/net/bpf"

// dnsFilter accepts Ethernet frames carrying unfragmented UDP with source or
// destination port 53 over IPv4, or over IPv6 without extension headers.
var dnsFilter = []bpf.Instruction{
	bpf.LoadAbsolute{Off: 12, Size: 2},                                  // 0: ethertype
	bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x86dd, SkipTrue: 10},          // 1: -> 12
	bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x0800, SkipFalse: 16},         // 2: -> drop
	bpf.LoadAbsolute{Off: 23, Size: 1},                                  // 3: ipv4 protocol
	bpf.JumpIf{Cond: bpf.JumpEqual, Val: 17, SkipFalse: 14},             // 4: -> drop
	bpf.LoadAbsolute{Off: 20, Size: 2},                                  // 5: flags/fragment offset
	bpf.JumpIf{Cond: bpf.JumpBitsSet, Val: 0x1fff, SkipTrue: 12},        // 6: -> drop
	bpf.LoadMemShift{Off: 14},                                           // 7: X = ihl*4
	bpf.LoadIndirect{Off: 14, Size: 2},                                  // 8: src port
	bpf.JumpIf{Cond: bpf.JumpEqual, Val: 53, SkipTrue: 8},               // 9: -> accept
	bpf.LoadIndirect{Off: 16, Size: 2},                                  // 10: dst port
	bpf.JumpIf{Cond: bpf.JumpEqual, Val: 53, SkipTrue: 6, SkipFalse: 7}, // 11
	bpf.LoadAbsolute{Off: 20, Size: 1},                                  // 12: ipv6 next header
	bpf.JumpIf{Cond: bpf.JumpEqual, Val: 17, SkipFalse: 5},              // 13: -> drop
	bpf.LoadAbsolute{Off: 54, Size: 2},                                  // 14: src port
	bpf.JumpIf{Cond: bpf.JumpEqual, Val: 53, SkipTrue: 2},               // 15: -> accept
	bpf.LoadAbsolute{Off: 56, Size: 2},                                  // 16: dst port
	bpf.JumpIf{Cond: bpf.JumpEqual, Val: 53, SkipFalse: 1},              // 17
	bpf.RetConstant{Val: 0x40000},                                       // 18: accept
	bpf.RetConstant{Val: 0},                                             // 19: drop
}

// DNSFilter returns the assembled frame filter.
func DNSFilter() ([]bpf.RawInstruction, error) {
	return bpf.Assemble(dnsFilter)
}
