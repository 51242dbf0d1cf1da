package response

import (
	"net/http"
	"net/url"

	"github.com/dmitrymomot/galleri/core/handler"
)

// Redirect creates a 302 Found response.
func Redirect(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusFound)
}

// RedirectSeeOther creates a 303 See Other response, the usual answer to a form POST.
func RedirectSeeOther(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusSeeOther)
}

// RedirectWithStatus redirects with a 3xx status; anything else becomes 302.
func RedirectWithStatus(url string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if status < 300 || status >= 400 {
			status = http.StatusFound
		}
		http.Redirect(w, r, url, status)
		return nil
	}
}

// RedirectBack sends the client back to the page it came from with 303.
// Only same-host Referer values are followed; otherwise fallback is used.
func RedirectBack(fallback string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return RedirectSeeOther(SafeReferer(r, fallback))(w, r)
	}
}

// SafeReferer returns the path of a same-host Referer, or fallback.
func SafeReferer(r *http.Request, fallback string) string {
	ref := r.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) || u.Path == "" || u.Path[0] != '/' {
		return fallback
	}
	// "//evil.example" parses as a host-relative path with empty Host.
	if len(u.Path) > 1 && u.Path[1] == '/' {
		return fallback
	}
	target := u.Path
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target
}
