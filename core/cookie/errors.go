package cookie

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSecret indicates no signing secret was configured.
	ErrNoSecret = errors.New("no secret provided for cookie manager")

	// ErrSecretTooShort indicates a secret is shorter than 32 characters.
	ErrSecretTooShort = errors.New("secret must be at least 32 characters long")

	// ErrInvalidSignature indicates a signed value did not verify under any secret.
	ErrInvalidSignature = errors.New("cookie signature verification failed")

	// ErrCookieNotFound indicates the request carries no cookie with that name.
	ErrCookieNotFound = errors.New("cookie not found in request")

	// ErrInvalidFormat indicates a signed value is not "value|mac" in base64url.
	ErrInvalidFormat = errors.New("invalid cookie format")
)

// ErrCookieTooLarge indicates the serialized cookie exceeds the size limit.
type ErrCookieTooLarge struct {
	Name string
	Size int
	Max  int
}

func (e ErrCookieTooLarge) Error() string {
	return fmt.Sprintf("cookie %q size %d exceeds maximum %d bytes", e.Name, e.Size, e.Max)
}
