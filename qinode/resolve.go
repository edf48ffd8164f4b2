package qinode

import (
	"fmt"
	"net"
	"strings"

	"github.com/miekg/dns"
)

// ResolveSRV looks up the SRV records for _qi._tcp.<domain> against
// resolver (an address:port, e.g. from /etc/resolv.conf) and returns
// them as tcp:// endpoint URLs a caller can append to a Cache.Get
// target list. This is a convenience on top of §4.8's plain endpoint
// URLs, not a protocol requirement: a deployment with no DNS SRV
// records simply gets an empty slice, and the core never calls it
// itself.
func ResolveSRV(domain, resolver string) ([]string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn("_qi._tcp."+domain), dns.TypeSRV)

	in, err := dns.Exchange(m, resolver)
	if err != nil {
		return nil, fmt.Errorf("qinode: SRV lookup for %s: %w", domain, err)
	}
	return srvTargets(in.Answer), nil
}

func srvTargets(answer []dns.RR) []string {
	var targets []string
	for _, rr := range answer {
		srv, ok := rr.(*dns.SRV)
		if !ok {
			continue
		}
		host := strings.TrimSuffix(srv.Target, ".")
		targets = append(targets, fmt.Sprintf("tcp://%s", net.JoinHostPort(host, fmt.Sprintf("%d", srv.Port))))
	}
	return targets
}
