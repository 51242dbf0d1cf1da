package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const (
	// MaxCookieSize is the default limit for a serialized cookie.
	MaxCookieSize = 4096

	minSecretLength = 32
)

// Manager reads and writes cookies, optionally signed with HMAC-SHA256.
type Manager struct {
	secrets  []string
	defaults Options
	maxSize  int
}

// New creates a cookie manager. The first secret signs; every secret verifies,
// so old secrets can stay in the list while a new one is rolled out.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d",
				ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	defaults := applyOptions(Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Manager{
		secrets:  secrets,
		defaults: defaults,
		maxSize:  MaxCookieSize,
	}, nil
}

// Set writes a plain cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	o := applyOptions(m.defaults, opts)
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}
	if o.MaxAge < 0 {
		c.Expires = time.Unix(0, 0)
	}

	if size := len(c.String()); size > m.maxSize {
		return ErrCookieTooLarge{Name: name, Size: size, Max: m.maxSize}
	}

	http.SetCookie(w, c)
	return nil
}

// Get returns the raw value of a cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires a cookie using the manager defaults plus opts.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	o := applyOptions(m.defaults, opts)
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	})
}

// SetSigned writes value with an HMAC signature.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.Sign(value), opts...)
}

// GetSigned reads a signed cookie and returns its verified value.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.Verify(signed)
}

// Sign returns base64url(value) + "|" + base64url(hmac) using the first secret.
func (m *Manager) Sign(value string) string {
	return base64.URLEncoding.EncodeToString([]byte(value)) + "|" + mac(m.secrets[0], []byte(value))
}

// Verify checks a value produced by Sign against every configured secret.
func (m *Manager) Verify(signed string) (string, error) {
	encodedValue, signature, ok := strings.Cut(signed, "|")
	if !ok {
		return "", ErrInvalidFormat
	}

	value, err := base64.URLEncoding.DecodeString(encodedValue)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, secret := range m.secrets {
		if subtle.ConstantTimeCompare([]byte(signature), []byte(mac(secret, value))) == 1 {
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}

func mac(secret string, value []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(value)
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}
