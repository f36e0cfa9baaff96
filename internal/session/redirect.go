package session

import (
	"net/url"
	"strings"
)

// IsLocalPath reports whether path is safe to redirect to: an absolute path
// on this host with no scheme and no protocol-relative prefix.
func IsLocalPath(path string) bool {
	if path == "" || !strings.HasPrefix(path, "/") {
		return false
	}
	if strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") {
		return false
	}
	// backslashes are treated as slashes by some browsers
	return !strings.Contains(path, "\\")
}

// SanitizeRedirectPath returns path if local, otherwise "/".
func SanitizeRedirectPath(path string) string {
	if IsLocalPath(path) {
		return path
	}
	return "/"
}

// RefererPath extracts a local redirect target from a Referer header. Only the
// path and query survive; the host is ignored.
func RefererPath(referer string) string {
	if referer == "" {
		return "/"
	}
	u, err := url.Parse(referer)
	if err != nil {
		return "/"
	}
	target := u.EscapedPath()
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return SanitizeRedirectPath(target)
}
