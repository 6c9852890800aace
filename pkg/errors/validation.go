package errors

import (
	"strings"
	"unicode"
)

// MaxStepIDLength bounds step identifiers accepted from untrusted input.
const MaxStepIDLength = 256

// ValidateStepID validates a step identifier read from a pipeline definition.
// Identifiers are usually UUIDs but any printable string is accepted:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of MaxStepIDLength characters
func ValidateStepID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "step id cannot be empty")
	}

	if len(id) > MaxStepIDLength {
		return New(ErrCodeInvalidInput, "step id too long (max %d characters)", MaxStepIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "step id %q contains invalid control characters", id)
		}
	}

	return nil
}

// ValidatePath validates a file path used for CLI input or output.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
