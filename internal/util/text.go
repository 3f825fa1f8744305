package util

import (
	"regexp"
	"strings"
)

var reURL = regexp.MustCompile(`https?://[^\s]+`)

// SanitizePostgresText drops invalid UTF-8 and NUL bytes, which Postgres
// rejects in text columns.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// ExtractURLs returns the http(s) URLs found in free text, in order of appearance.
func ExtractURLs(text string) []string {
	return reURL.FindAllString(text, -1)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
