package notify

import (
	"errors"
	"net"
	"net/url"
	"strings"
)

// Webhook target validation errors.
var (
	ErrInvalidURL       = errors.New("invalid URL format")
	ErrInvalidScheme    = errors.New("only HTTPS allowed")
	ErrEmptyHost        = errors.New("URL must have a host")
	ErrLocalhostBlocked = errors.New("localhost not allowed")
	ErrPrivateIP        = errors.New("private IP addresses not allowed")
)

// blockedCIDRs contains private and internal IP ranges.
var blockedCIDRs = []string{
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"0.0.0.0/8",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
}

var blockedNetworks = func() []*net.IPNet {
	out := make([]*net.IPNet, 0, len(blockedCIDRs))
	for _, cidr := range blockedCIDRs {
		if _, network, err := net.ParseCIDR(cidr); err == nil {
			out = append(out, network)
		}
	}
	return out
}()

// ValidateTargetURL checks an alert webhook URL. Unless allowPrivate is
// set it requires HTTPS and rejects localhost and private addresses.
func ValidateTargetURL(target string, allowPrivate bool) error {
	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme == "" {
		return ErrInvalidURL
	}
	host := parsed.Hostname()
	if host == "" {
		return ErrEmptyHost
	}
	if allowPrivate {
		if parsed.Scheme != "https" && parsed.Scheme != "http" {
			return ErrInvalidURL
		}
		return nil
	}

	if parsed.Scheme != "https" {
		return ErrInvalidScheme
	}
	if isLocalhostHostname(host) {
		return ErrLocalhostBlocked
	}

	if ip := net.ParseIP(host); ip != nil {
		if isBlockedIP(ip) {
			return ErrPrivateIP
		}
		return nil
	}

	// Names that do not resolve yet fail at delivery time instead.
	ips, err := net.LookupIP(host)
	if err != nil {
		return nil
	}
	for _, ip := range ips {
		if isBlockedIP(ip) {
			return ErrPrivateIP
		}
	}
	return nil
}

func isLocalhostHostname(host string) bool {
	host = strings.ToLower(host)
	return host == "localhost" ||
		strings.HasSuffix(host, ".localhost") ||
		strings.HasSuffix(host, ".local")
}

func isBlockedIP(ip net.IP) bool {
	for _, network := range blockedNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// ExtractHost returns the host of a URL for logging. Full URLs may carry
// secrets in the path or query.
func ExtractHost(target string) string {
	parsed, err := url.Parse(target)
	if err != nil {
		return "(invalid)"
	}
	return parsed.Host
}
