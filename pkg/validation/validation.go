package validation

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const maxFilenameLength = 120

var (
	hexColor6Regex  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	hexColor3Regex  = regexp.MustCompile(`^#[0-9a-fA-F]{3}$`)
	unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	repeatedHyphens = regexp.MustCompile(`-+`)
)

// NormalizeHexColor accepts #RGB or #RRGGBB and returns the lowercase
// #rrggbb form. ok is false for anything else.
func NormalizeHexColor(value string) (string, bool) {
	raw := strings.TrimSpace(value)
	if hexColor6Regex.MatchString(raw) {
		return strings.ToLower(raw), true
	}
	if hexColor3Regex.MatchString(raw) {
		expanded := []byte{'#', raw[1], raw[1], raw[2], raw[2], raw[3], raw[3]}
		return strings.ToLower(string(expanded)), true
	}
	return "", false
}

// IsHexColor reports whether value is a 3- or 6-digit hex color.
func IsHexColor(value string) bool {
	_, ok := NormalizeHexColor(value)
	return ok
}

// SafeFilename reduces an uploaded filename to a storage-safe ASCII form.
func SafeFilename(filename string) string {
	name := norm.NFKD.String(filename)
	name = unsafeNameChars.ReplaceAllString(name, "-")
	name = repeatedHyphens.ReplaceAllString(name, "-")
	name = strings.TrimPrefix(name, "-")
	name = strings.TrimSuffix(name, "-")
	if len(name) > maxFilenameLength {
		name = name[:maxFilenameLength]
	}
	if name == "" {
		return "file"
	}
	return name
}

// SanitizeString trims whitespace and removes null bytes.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	return strings.ReplaceAll(input, "\x00", "")
}

// HasMediaType reports whether a declared content type belongs to the given
// top-level type, e.g. HasMediaType("image/png", "image").
func HasMediaType(contentType, kind string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), kind+"/")
}
