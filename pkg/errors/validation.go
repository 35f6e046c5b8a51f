package errors

import (
	"strings"
	"unicode"
)

// ValidateAssetName checks a stencil or asset name received from a client.
// It rejects names that could be used for path traversal. It does not check
// that the asset exists; missing assets are tolerated downstream.
func ValidateAssetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidName, "name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "name contains invalid characters: %q", pattern)
		}
	}
	return nil
}
