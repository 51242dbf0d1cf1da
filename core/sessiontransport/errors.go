package sessiontransport

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid is the single outcome for any unusable session cookie.
	ErrInvalid = errors.New("invalid session cookie")

	// ErrNoSession is returned when the cookie is absent. It matches ErrInvalid.
	ErrNoSession = fmt.Errorf("%w: no session cookie", ErrInvalid)
)
