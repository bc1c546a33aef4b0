package textutil

import (
	"strings"
	"unicode"
)

// DefaultBaseName is used when a title has no usable characters.
const DefaultBaseName = "narration"

// maxTokenLength keeps generated names well under common filesystem limits.
const maxTokenLength = 80

// SanitizeToken converts a title to a lowercase filesystem-safe token.
// Letters and digits are kept, runs of anything else collapse to a single
// underscore. Returns DefaultBaseName for input with no letters or digits.
func SanitizeToken(value string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(value) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		case r == '-' && b.Len() > 0 && !pendingSep:
			b.WriteRune(r)
		default:
			pendingSep = true
		}
		if b.Len() >= maxTokenLength {
			break
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return DefaultBaseName
	}
	return out
}

// AudioFileName returns the default output file for a narrated title.
func AudioFileName(title, ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = "mp3"
	}
	return SanitizeToken(title) + "." + ext
}
