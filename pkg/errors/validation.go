package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxIDLength   = 512
	maxViewLength = 128
)

// ValidateNodeID validates an entity id from a snapshot.
//
// Ids are opaque to the engine, but they end up in DOT files, SVG attributes
// and HTTP payloads, so they must be non-empty, reasonably short, and free of
// control characters.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSnapshot, "node id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidSnapshot, "node id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSnapshot, "node id %q contains control characters", id)
		}
	}
	return nil
}

// viewNameRegex matches view names usable as URL path segments and cache keys.
var viewNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateViewName validates the name of an animated view.
func ValidateViewName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "view name cannot be empty")
	}
	if len(name) > maxViewLength {
		return New(ErrCodeInvalidInput, "view name too long (max %d characters)", maxViewLength)
	}
	if !viewNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid view name: %q", name)
	}
	return nil
}

// ValidateURL validates a connection URL against the allowed schemes
// (for example "redis" and "rediss", or "mongodb" and "mongodb+srv").
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes %s", strings.Join(schemes, ", "))
}
