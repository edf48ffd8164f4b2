package qinode

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// DefaultPort is the reference transport's default port (§6).
const DefaultPort = 9559

// Dial connects to a session target endpoint URL: tcp:// plaintext,
// tcps:// TLS with server authentication, tcpsm:// TLS with mutual
// authentication via clientCert. Host "localhost" is assumed when the
// URL omits one.
func Dial(target string, clientCert *tls.Certificate) (net.Conn, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("qinode: bad target %q: %w", target, err)
	}

	host := u.Hostname()
	if host == "" {
		host = "localhost"
	}
	port := u.Port()
	if port == "" {
		port = fmt.Sprintf("%d", DefaultPort)
	}
	addr := net.JoinHostPort(host, port)

	switch u.Scheme {
	case "tcp":
		return net.Dial("tcp", addr)
	case "tcps":
		return tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	case "tcpsm":
		cfg := &tls.Config{ServerName: host}
		if clientCert != nil {
			cfg.Certificates = []tls.Certificate{*clientCert}
		}
		return tls.Dial("tcp", addr, cfg)
	default:
		return nil, fmt.Errorf("qinode: unsupported scheme %q", u.Scheme)
	}
}

// IsLoopback reports whether target resolves to a loopback host, per
// §4.8's "targets to a loopback address are considered machine-local".
func IsLoopback(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "" || strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
