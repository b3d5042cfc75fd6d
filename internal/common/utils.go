package common

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// ParseSiteURL trims whitespace and wrapping quotes or brackets off raw and
// requires an absolute http(s) URL with a host. Scheme and host are
// lowercased and any fragment is dropped.
func ParseSiteURL(raw string) (*url.URL, error) {
	cleaned := strings.Trim(strings.TrimSpace(raw), `"'<>()[]`)
	if cleaned == "" {
		return nil, errors.New("empty URL")
	}
	if strings.ContainsAny(cleaned, " \t\n") {
		return nil, errors.Newf("URL %q contains whitespace", cleaned)
	}

	u, err := url.Parse(cleaned)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed URL %q", cleaned)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Newf("URL %q must use http or https", cleaned)
	}
	if u.Hostname() == "" {
		return nil, errors.Newf("URL %q has no host", cleaned)
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u, nil
}

// NormalizeBaseURL returns the site root used to resolve relative links:
// no trailing slash, no query.
func NormalizeBaseURL(raw string) (string, error) {
	u, err := ParseSiteURL(raw)
	if err != nil {
		return "", err
	}
	u.RawQuery = ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String(), nil
}

// NormalizeStartURL returns the first page to fetch. The path and query are
// kept as given; a bare host gets "/".
func NormalizeStartURL(raw string) (string, error) {
	u, err := ParseSiteURL(raw)
	if err != nil {
		return "", err
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}
