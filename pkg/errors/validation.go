package errors

import (
	"strings"
	"unicode"
)

// maxProjectNameLength bounds project names, which double as file names.
const maxProjectNameLength = 128

// ValidateProjectName validates a project name for use as a storage key.
// Project names become file names in the file store and document ids in the
// MongoDB store, so the rules are conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - No hidden names (leading dot)
//   - Maximum length of 128 characters
func ValidateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidProject, "project name cannot be empty")
	}

	if len(name) > maxProjectNameLength {
		return New(ErrCodeInvalidProject, "project name too long (max %d characters)", maxProjectNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidProject, "project name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidProject, "project name cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidProject, "project name contains invalid characters: %q", "..")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidProject, "project name cannot start with a dot")
	}

	return nil
}

// ValidatePersonID validates a person identifier supplied by a caller.
// Identifiers are opaque to the layout engine; they only need to be
// non-empty, printable and reasonably short.
func ValidatePersonID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "person id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "person id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "person id contains whitespace or control characters")
		}
	}

	return nil
}
