// Package cookie writes and reads HTTP cookies with secure defaults and
// optional HMAC-SHA256 signing.
//
// Signed values have the form base64url(value) + "|" + base64url(mac).
// Several secrets may be configured for rotation: the first one signs and
// all of them are tried when verifying.
//
//	m, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")})
//	if err != nil {
//		return err // ErrNoSecret or ErrSecretTooShort
//	}
//	_ = m.SetSigned(w, "last_viewed", "3,1", cookie.WithMaxAge(2592000))
//	v, err := m.GetSigned(r, "last_viewed")
//
// Defaults are Path=/, HttpOnly, Secure and SameSite=Lax. Every Set call
// can override them with Option values.
package cookie
