package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type config struct {
	separator string
	maxLength int
}

// Option configures Make.
type Option func(*config)

// Separator sets the word separator. Default "-".
func Separator(sep string) Option {
	return func(c *config) { c.separator = sep }
}

// MaxLength truncates the slug to n bytes without leaving a trailing separator.
// Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// special letters that do not decompose into base letter plus mark.
var replacer = strings.NewReplacer(
	"ß", "ss", "ł", "l", "Ł", "l", "ø", "o", "Ø", "o",
	"æ", "ae", "Æ", "ae", "œ", "oe", "Œ", "oe", "đ", "d", "Đ", "d",
	"&", " and ",
)

// Make converts s into a lowercase ASCII slug: diacritics are removed,
// runs of anything other than letters and digits become one separator.
func Make(s string, opts ...Option) string {
	cfg := config{separator: "-"}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, replacer.Replace(s))
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteString(cfg.separator)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}

	out := b.String()
	if cfg.maxLength > 0 && len(out) > cfg.maxLength {
		out = strings.TrimRight(out[:cfg.maxLength], cfg.separator)
	}
	return out
}
