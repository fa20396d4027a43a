// Command dnsquery sends a single crafted DNS query over UDP and prints
// every header flag and section of the answer. It is meant for exercising
// interception rules from another host on the segment.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	mdns "github.com/miekg/dns"

	"github.com/jroosing/dnsmirage/internal/dns"
)

type queryOptions struct {
	name  string
	qtype uint16
	id    uint16
	rd    bool
	ad    bool
	cd    bool
	edns  int
}

func main() {
	var (
		server   = flag.String("server", "192.0.2.1:53", "DNS server HOST:PORT (the capture host's address)")
		name     = flag.String("name", "example.com", "Query name")
		qtype    = flag.String("qtype", "A", "Query type, mnemonic (AAAA) or numeric (28)")
		id       = flag.Int("id", -1, "Transaction ID (-1 picks one at random)")
		rd       = flag.Bool("rd", true, "Set RD (recursion desired)")
		ad       = flag.Bool("ad", false, "Set AD (authentic data)")
		cd       = flag.Bool("cd", false, "Set CD (checking disabled)")
		edns     = flag.Int("edns", 0, "Attach an OPT record with this UDP payload size (0 disables)")
		timeout  = flag.Duration("timeout", 2*time.Second, "Timeout")
		recvSize = flag.Int("recv-size", 4096, "UDP receive buffer size")
		quiet    = flag.Bool("quiet", false, "Suppress output (exit status indicates success)")
	)
	flag.Parse()

	t, err := parseType(*qtype)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsquery: %v\n", err)
		os.Exit(2)
	}
	opts := queryOptions{name: *name, qtype: t, rd: *rd, ad: *ad, cd: *cd, edns: *edns}
	if *id >= 0 {
		opts.id = uint16(*id)
	} else {
		opts.id = uint16(rand.N(1 << 16))
	}

	req, err := buildQuery(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsquery: %v\n", err)
		os.Exit(2)
	}

	start := time.Now()
	resp, err := exchange(*server, req, *timeout, *recvSize)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "dnsquery error: %v\n", err)
		}
		os.Exit(1)
	}
	if *quiet {
		return
	}

	fmt.Printf(";; %d bytes from %s in %s\n", len(resp), *server, time.Since(start).Round(time.Microsecond))
	if err := printResponse(os.Stdout, resp, opts.id); err != nil {
		fmt.Fprintf(os.Stderr, "dnsquery: %v\n", err)
		os.Exit(1)
	}
}

func parseType(s string) (uint16, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		return uint16(n), nil
	}
	if t, ok := mdns.StringToType[s]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown query type %q", s)
}

func buildQuery(o queryOptions) ([]byte, error) {
	name := strings.TrimSuffix(strings.TrimSpace(o.name), ".")
	if name == "" {
		return nil, errors.New("name required")
	}
	flags := dns.Flags{}
	if o.rd {
		flags.RD = 1
	}
	if o.ad {
		flags.AD = 1
	}
	if o.cd {
		flags.CD = 1
	}
	p := dns.Packet{
		Header:    dns.Header{ID: o.id, Flags: flags.Pack()},
		Questions: []dns.Question{{Name: name, Type: o.qtype, Class: uint16(dns.ClassIN)}},
	}
	if o.edns > 0 {
		p.Additionals = []dns.Record{dns.CreateOPT(o.edns).Record()}
	}
	return p.Marshal()
}

func exchange(server string, req []byte, timeout time.Duration, recvSize int) ([]byte, error) {
	addr, err := net.ResolveUDPAddr("udp", server)
	if err != nil {
		return nil, err
	}
	c, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	_ = c.SetDeadline(time.Now().Add(timeout))
	if _, err := c.Write(req); err != nil {
		return nil, err
	}
	buf := make([]byte, recvSize)
	n, err := c.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}
