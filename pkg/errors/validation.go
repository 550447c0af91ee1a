package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds solution, project, diagram and tag names.
const maxNameLength = 256

// ValidateName validates a solution, project or diagram name.
// Names are written verbatim into the solution line format, so the
// field separator and line breaks are rejected.
//
// Validation rules:
//   - No empty names
//   - Maximum length of 256 bytes
//   - No control characters (which covers CR, LF and NUL)
//   - No ';' field separator
//   - No leading or trailing spaces
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}
	return validateField("name", name)
}

// ValidateTag validates a tag key and value pair.
// The key follows the name rules; the value may be empty.
func ValidateTag(key, value string) error {
	if key == "" {
		return New(ErrCodeInvalidName, "tag key cannot be empty")
	}
	if err := validateField("tag key", key); err != nil {
		return err
	}
	return validateField("tag value", value)
}

func validateField(what, s string) error {
	if len(s) > maxNameLength {
		return New(ErrCodeInvalidName, "%s too long (max %d characters)", what, maxNameLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "%s contains invalid control characters", what)
		}
	}
	if strings.Contains(s, ";") {
		return New(ErrCodeInvalidName, "%s cannot contain ';'", what)
	}
	if strings.TrimSpace(s) != s {
		return New(ErrCodeInvalidName, "%s cannot start or end with spaces", what)
	}
	return nil
}
