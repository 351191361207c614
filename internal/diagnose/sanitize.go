package diagnose

import "strings"

// Sanitize prepares a submission for transmission: non-breaking spaces
// (the usual residue of copy-pasted code) become regular spaces and
// surrounding whitespace is trimmed. The transformation is deterministic
// and never changes what the code does.
func Sanitize(code string) string {
	code = strings.ReplaceAll(code, "\u00a0", " ")
	return strings.TrimSpace(code)
}
