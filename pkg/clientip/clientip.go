package clientip

import (
	"net"
	"net/http"
	"strings"
)

var headers = []string{"CF-Connecting-IP", "DO-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// GetIP returns the client address, preferring proxy headers in the order
// CF-Connecting-IP, DO-Connecting-IP, X-Forwarded-For (leftmost entry),
// X-Real-IP, and finally RemoteAddr. Invalid or unspecified addresses are skipped.
func GetIP(r *http.Request) string {
	for _, h := range headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		if h == "X-Forwarded-For" {
			v, _, _ = strings.Cut(v, ",")
		}
		if ip := normalize(v); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return normalize(host)
}

func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
