package stream

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// StreamPath is the fixed path of the push stream on the hosting server.
const StreamPath = "/ws"

// ErrUnsupportedScheme is returned for base URLs that are neither http(s) nor ws(s).
var ErrUnsupportedScheme = errors.New("unsupported base url scheme")

// DeriveEndpoint maps the hosting server's base URL to the stream endpoint on the
// same host and port. A secure base (https, wss) yields wss, otherwise ws.
func DeriveEndpoint(base string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	var scheme string
	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		scheme = "wss"
	case "http", "ws":
		scheme = "ws"
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base url %q has no host", base)
	}

	endpoint := url.URL{Scheme: scheme, Host: u.Host, Path: StreamPath}
	return endpoint.String(), nil
}
