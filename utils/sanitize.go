package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips HTML from user supplied text. Comments are plain text,
// so the strict policy (no tags at all) applies.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
