package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidateIdentifierPart validates a fragment used to build generated symbol
// names, such as the prefix and suffix of shared-subexpression variables.
//
// Rules:
//   - Maximum length of 64 characters
//   - No control characters
//   - No whitespace
//
// The empty string is valid.
func ValidateIdentifierPart(kind, s string) error {
	if len(s) > 64 {
		return New(ErrCodeInvalidArgument, "%s too long (max 64 characters)", kind)
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidArgument, "%s contains invalid character %q", kind, r)
		}
	}
	return nil
}

// ValidatePath validates an output path for rendered artifacts.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if slices.Contains(strings.Split(path, "/"), "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateFormat checks that format is one of the supported values.
func ValidateFormat(format string, supported []string) error {
	if !slices.Contains(supported, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (supported: %s)",
			format, strings.Join(supported, ", "))
	}
	return nil
}
