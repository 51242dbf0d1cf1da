// Package lastviewed remembers the last categories a visitor opened.
//
// The list lives in a signed cookie, most recent first, without duplicates
// and with at most MaxEntries ids. It is only written after the visitor
// accepted optional cookies.
package lastviewed

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/galleri/core/cookie"
	"github.com/dmitrymomot/galleri/internal/settings"
)

const (
	CookieName = "last_viewed"
	MaxEntries = 3
	MaxAge     = 30 * 24 * 60 * 60
)

// Tracker reads and writes the last-viewed cookie.
type Tracker struct {
	cookies *cookie.Manager
}

func NewTracker(cookies *cookie.Manager) *Tracker {
	return &Tracker{cookies: cookies}
}

// Read returns the ids stored in the request cookie. A missing cookie or a
// bad signature yields an empty list; entries that are not integers are dropped.
func (t *Tracker) Read(r *http.Request) []int64 {
	raw, err := t.cookies.GetSigned(r, CookieName)
	if err != nil || raw == "" {
		return nil
	}

	var ids []int64
	for part := range strings.SplitSeq(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Push puts id in front of list, drops other occurrences of it and keeps
// at most MaxEntries ids. list is not modified.
func Push(list []int64, id int64) []int64 {
	out := make([]int64, 0, MaxEntries)
	out = append(out, id)
	for _, v := range list {
		if len(out) == MaxEntries {
			break
		}
		if v != id && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// Record adds categoryID to the visitor's list. Without accepted consent
// it does nothing.
func (t *Tracker) Record(w http.ResponseWriter, r *http.Request, s settings.Settings, categoryID int64) error {
	if !s.ConsentAccepted() {
		return nil
	}
	return t.write(w, Push(t.Read(r), categoryID))
}

// Clear expires the cookie.
func (t *Tracker) Clear(w http.ResponseWriter) error {
	t.cookies.Delete(w, CookieName, cookie.WithPath("/"))
	return nil
}

func (t *Tracker) write(w http.ResponseWriter, ids []int64) error {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return t.cookies.SetSigned(w, CookieName, strings.Join(parts, ","),
		cookie.WithPath("/"),
		cookie.WithMaxAge(MaxAge),
	)
}
