package distribution

import (
	"regexp"
	"strings"
)

// Google Drive share link shapes. The same patterns match file links,
// folder links, and the legacy open?id= form.
var linkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`/folders/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`),
}

// bareIDRegex matches a raw Drive resource ID. Real IDs are long; the
// length floor keeps ordinary words from being mistaken for one.
var bareIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{25,}$`)

// ExtractResourceID pulls a file or folder ID out of a Drive share link.
// A bare ID passes through unchanged. Returns false when no ID can be found.
func ExtractResourceID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	for _, pattern := range linkPatterns {
		if m := pattern.FindStringSubmatch(input); m != nil {
			return m[1], true
		}
	}

	if bareIDRegex.MatchString(input) {
		return input, true
	}

	return "", false
}
