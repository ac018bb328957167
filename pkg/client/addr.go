package client

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ParseUniversalAddr splits an NFSv4 universal address into host and port.
//
// Per RFC 5665 Section 5.2.3.3 the last two dot-separated fields are the
// port bytes: "h1.h2.h3.h4.p1.p2" for tcp and "h1:h2::h3.p1.p2" for tcp6,
// with port = p1*256 + p2.
func ParseUniversalAddr(uaddr string) (string, int, error) {
	lastDot := strings.LastIndex(uaddr, ".")
	if lastDot < 0 {
		return "", 0, fmt.Errorf("malformed universal address %q: no dots found", uaddr)
	}
	p2Str := uaddr[lastDot+1:]
	rest := uaddr[:lastDot]

	secondLastDot := strings.LastIndex(rest, ".")
	if secondLastDot < 0 {
		return "", 0, fmt.Errorf("malformed universal address %q: need at least host.p1.p2", uaddr)
	}
	p1Str := rest[secondLastDot+1:]
	host := rest[:secondLastDot]
	if host == "" {
		return "", 0, fmt.Errorf("malformed universal address %q: empty host", uaddr)
	}

	p1, err := strconv.Atoi(p1Str)
	if err != nil {
		return "", 0, fmt.Errorf("malformed universal address %q: invalid p1 %q: %w", uaddr, p1Str, err)
	}
	p2, err := strconv.Atoi(p2Str)
	if err != nil {
		return "", 0, fmt.Errorf("malformed universal address %q: invalid p2 %q: %w", uaddr, p2Str, err)
	}
	if p1 < 0 || p1 > 255 || p2 < 0 || p2 > 255 {
		return "", 0, fmt.Errorf("malformed universal address %q: port byte out of range 0-255", uaddr)
	}

	return host, p1*256 + p2, nil
}

// FormatUniversalAddr renders a host:port address as (netid, uaddr), the
// form SETCLIENTID carries in its callback location.
func FormatUniversalAddr(addr string) (netid, uaddr string, err error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", "", fmt.Errorf("split %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return "", "", fmt.Errorf("invalid port in %q", addr)
	}

	netid = "tcp"
	if ip := net.ParseIP(host); ip != nil && ip.To4() == nil {
		netid = "tcp6"
	}
	return netid, fmt.Sprintf("%s.%d.%d", host, port>>8, port&0xff), nil
}
