// Package pageurl classifies profile page URLs and derives canonical forms.
package pageurl

import (
	"net/url"
	"regexp"
	"strings"
)

var profilePathRe = regexp.MustCompile(`^/in/([^/]+)/?$`)

// IsSupportedProfilePage reports whether rawURL is an http(s) profile page
// ("/in/<handle>"). Callers check this before running extraction.
func IsSupportedProfilePage(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !isHTTP(u) {
		return false
	}
	return profilePathRe.MatchString(u.Path)
}

// Canonicalize drops the query string, fragment and trailing slash. Input
// that does not parse is returned trimmed with the same suffixes cut.
func Canonicalize(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	u, err := url.Parse(s)
	if err != nil {
		if i := strings.IndexAny(s, "?#"); i >= 0 {
			s = s[:i]
		}
		return strings.TrimRight(s, "/")
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String()
}

// Identifier returns the lower-cased public handle of a profile URL, or
// false when the path does not have the profile shape.
func Identifier(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !isHTTP(u) {
		return "", false
	}
	m := profilePathRe.FindStringSubmatch(u.Path)
	if m == nil || m[1] == "" {
		return "", false
	}
	return strings.ToLower(m[1]), true
}

func isHTTP(u *url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
