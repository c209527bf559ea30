package adapter

import (
	"fmt"
	"net/url"
	"strings"
)

// normalizeBaseURL trims, defaults the scheme to http and strips trailing
// slashes so that request paths can be appended verbatim.
func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// validObjectName rejects ids that would escape the sync area of a backend.
func validObjectName(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, "/\\") {
		return fmt.Errorf("invalid object name %q", id)
	}
	return nil
}
