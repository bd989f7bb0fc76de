package shared

import (
	"net/url"
	"strings"
)

// IsHTTPURL reports whether raw is an absolute http or https URL with a host.
// Stored file references (images, documents, proofs of payment) must satisfy it.
func IsHTTPURL(raw string) bool {
	if strings.TrimSpace(raw) != raw || raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
