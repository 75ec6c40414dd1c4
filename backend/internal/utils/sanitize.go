package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict strips every HTML element and attribute; user-authored text is
// stored and served as plain text.
var strict = bluemonday.StrictPolicy()

// SanitizeText removes any markup from user input before it is stored.
func SanitizeText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
