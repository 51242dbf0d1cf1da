package session

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"regexp"
	"strconv"
)

// IDGenerator produces new session ids.
type IDGenerator func() (int64, error)

// GenerateID reads 8 bytes from crypto/rand and returns them as a
// big-endian signed integer. Any int64 value, negative ones included, is valid.
func GenerateID() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("generate session id: %w", err)
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}

var idPattern = regexp.MustCompile(`^-?[0-9]+$`)

// ParseID parses the textual form of an id. Only an optional minus sign
// followed by decimal digits is accepted, and the value must fit in int64.
func ParseID(s string) (int64, error) {
	if !idPattern.MatchString(s) {
		return 0, ErrInvalidID
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

// FormatID returns the base-10 form of id.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
