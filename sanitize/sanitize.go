// Package sanitize removes known-dangerous substrings from user-provided text
// and validates the shape of usernames, emails and free text.
//
// This is a denylist filter built from ordered regex passes, not an HTML
// parser. It catches the common injection patterns and nothing more.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reScript     = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	reJavascript = regexp.MustCompile(`(?i)javascript:`)
	reEventAttr  = regexp.MustCompile(`(?i)on\w+\s*=`)
	reDataURI    = regexp.MustCompile(`(?i)data:`)
	// data: followed by an optional raster image prefix; the prefix only
	// participates when present, so the match length tells the two apart.
	reDataURIImage = regexp.MustCompile(`(?i)data:(?:image/(?:png|jpeg|gif|webp);base64,)?`)

	reEmail    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reUsername = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)
)

// Text trims s and strips script blocks, javascript: and data: schemes and
// inline event-handler attributes. Matches are removed, not escaped.
func Text(s string) string {
	s = strings.TrimSpace(s)
	s = reScript.ReplaceAllString(s, "")
	s = reJavascript.ReplaceAllString(s, "")
	s = reEventAttr.ReplaceAllString(s, "")
	return reDataURI.ReplaceAllString(s, "")
}

// HTML applies the same passes as Text to rich-text markup without trimming.
// Base64 data URIs of raster images are kept so inserted images survive.
func HTML(s string) string {
	s = reScript.ReplaceAllString(s, "")
	s = reJavascript.ReplaceAllString(s, "")
	s = reEventAttr.ReplaceAllString(s, "")
	return reDataURIImage.ReplaceAllStringFunc(s, func(m string) string {
		if len(m) > len("data:") {
			return m
		}
		return ""
	})
}

// Kind selects the validation rule applied by ValidateInput.
type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindUsername Kind = "username"
)

const (
	maxTextLength  = 10000
	maxEmailLength = 254
)

// ValidateInput reports whether s is acceptable for kind. Unknown kinds and
// empty input are always rejected.
func ValidateInput(s string, kind Kind) bool {
	if s == "" {
		return false
	}
	switch kind {
	case KindText:
		n := utf8.RuneCountInString(s)
		return n >= 1 && n <= maxTextLength
	case KindEmail:
		return reEmail.MatchString(s) && utf8.RuneCountInString(s) <= maxEmailLength
	case KindUsername:
		return reUsername.MatchString(s)
	default:
		return false
	}
}
