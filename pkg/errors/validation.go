package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds fixture and manifest names. Names end up in Redis keys
// and Mongo collection names, both of which have practical limits.
const maxNameLength = 120

// ValidateFixtureName validates a fixture name for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Must start with a letter or digit
//   - Maximum length of 120 characters
func ValidateFixtureName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFixture, "fixture name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidFixture, "fixture name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidFixture, "fixture name %q contains whitespace or control characters", name)
		}
	}

	if !fixtureNameRegex.MatchString(name) {
		return New(ErrCodeInvalidFixture, "invalid fixture name: %q", name)
	}

	return nil
}

// fixtureNameRegex allows letters, digits, dot, dash, underscore and colon.
var fixtureNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateManifestFilename validates a manifest path by its extension.
// Supported manifests are TOML, YAML and JSON files.
func ValidateManifestFilename(path string) error {
	if path == "" {
		return New(ErrCodeInvalidManifest, "manifest path cannot be empty")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml", ".json":
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported manifest format %q (want .toml, .yaml, .yml or .json)", filepath.Ext(path))
}

// ValidatePath validates a records file path declared in a manifest.
// Paths are resolved relative to the manifest directory and must stay inside it.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a connection URL against the allowed schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}
