package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxKeyLength bounds page keys; they end up in file names and database keys.
const maxKeyLength = 128

// pageKeyRegex matches page keys: letters, digits, dash, underscore and dot.
var pageKeyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidatePageKey validates the identifier a document is stored under.
//
// The validation rules are intentionally conservative:
//   - No empty keys
//   - Maximum length of 128 characters
//   - No path traversal sequences (..)
//   - Only [A-Za-z0-9._-], starting with a letter or digit
func ValidatePageKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "page key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidKey, "page key too long (max %d characters)", maxKeyLength)
	}
	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidKey, "page key cannot contain path traversal sequences (..)")
	}
	if !pageKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidKey, "invalid page key: %q", key)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateItemName rejects empty names and names carrying control characters.
func ValidateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "shortcut name cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "shortcut name contains invalid control characters")
		}
	}
	return nil
}
