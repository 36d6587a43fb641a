package errors

import (
	"regexp"
	"strings"
)

// maxPostIDLength is the number of digits in the largest snowflake id.
const maxPostIDLength = 19

var postIDRegex = regexp.MustCompile(`^[0-9]+$`)

// ValidatePostID validates a post identifier before it is sent upstream.
// Identifiers are decimal snowflake ids; anything else is rejected so that
// user input never reaches the lookup query unchecked.
func ValidatePostID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "post id cannot be empty")
	}
	if len(id) > maxPostIDLength {
		return New(ErrCodeInvalidInput, "post id too long (max %d digits)", maxPostIDLength)
	}
	if !postIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid post id: %q", id)
	}
	return nil
}

// ValidatePostIDs validates every id and rejects duplicates.
func ValidatePostIDs(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if err := ValidatePostID(id); err != nil {
			return err
		}
		if seen[id] {
			return New(ErrCodeInvalidInput, "duplicate post id: %s", id)
		}
		seen[id] = true
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
