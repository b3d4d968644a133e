package config

import (
	"net"
	"net/url"
	"strings"
)

// BuildBaseURL is the build-time service address override, set with
// -ldflags "-X quarry/internal/config.BuildBaseURL=https://...".
var BuildBaseURL string

// devServicePorts pairs local front-end development ports with the port the
// service listens on during development.
var devServicePorts = map[string]string{
	"5173": "8000",
	"4173": "8000",
	"3000": "8000",
}

// ResolveBaseAddress determines the remote service address. An explicit
// override wins; a local development origin is paired with the service port;
// any other origin is reused as-is (reverse proxy deployment). An empty result
// means requests are relative to the current origin.
func ResolveBaseAddress(override, origin string) string {
	if value := strings.TrimRight(strings.TrimSpace(override), "/"); value != "" {
		return value
	}

	parsed, ok := parseOrigin(origin)
	if !ok {
		return ""
	}
	host := parsed.Hostname()
	port := parsed.Port()
	if isLocalHost(host) {
		if servicePort, paired := devServicePorts[port]; paired {
			return parsed.Scheme + "://" + net.JoinHostPort(host, servicePort)
		}
	}
	return parsed.Scheme + "://" + parsed.Host
}

func parseOrigin(origin string) (*url.URL, bool) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return nil, false
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, false
	}
	return parsed, true
}

func isLocalHost(host string) bool {
	switch strings.ToLower(host) {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return true
	}
	return false
}
