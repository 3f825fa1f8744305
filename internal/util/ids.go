package util

// NanoidLength is the length of ids generated with gonanoid.New().
const NanoidLength = 21

// IsNanoid reports whether s looks like a default gonanoid id: 21 characters
// from the URL-safe alphabet.
func IsNanoid(s string) bool {
	if len(s) != NanoidLength {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
