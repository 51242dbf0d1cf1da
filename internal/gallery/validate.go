package gallery

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength = 64
	MaxArtLength  = 2048
)

func validateName(name string) (string, *ValidationError) {
	verr := &ValidationError{}
	name = strings.TrimSpace(name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		verr.add("Category name is required")
	case n > MaxNameLength:
		verr.add("Category name is too long")
	}
	return name, verr
}

func validateArt(art string) error {
	verr := &ValidationError{}
	switch n := utf8.RuneCountInString(art); {
	case strings.TrimSpace(art) == "":
		verr.add("ASCII art is required")
	case n > MaxArtLength:
		verr.add("ASCII art is too long")
	}
	return verr.orNil()
}
