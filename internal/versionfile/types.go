// Package versionfile reads and writes the project version marker embedded
// in manifest files of various formats.
package versionfile

import "strings"

// Format identifies how the version is stored inside the file.
type Format string

const (
	// FormatRaw is for plain text files whose entire content is the version.
	FormatRaw Format = "raw"

	// FormatJSON is for JSON manifests (package.json, composer.json).
	FormatJSON Format = "json"

	// FormatYAML is for YAML manifests (Chart.yaml, pubspec.yaml).
	FormatYAML Format = "yaml"

	// FormatTOML is for TOML manifests (pyproject.toml, Cargo.toml).
	FormatTOML Format = "toml"

	// FormatRegex is for arbitrary files requiring regex extraction.
	FormatRegex Format = "regex"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid reports whether the format is one of the supported values.
func (f Format) IsValid() bool {
	switch f {
	case FormatRaw, FormatJSON, FormatYAML, FormatTOML, FormatRegex:
		return true
	default:
		return false
	}
}

// Source describes where and how the version marker is stored.
type Source struct {
	// Path is the manifest file path (absolute or relative).
	Path string

	// Format specifies the file format. When empty, DetectFormat applies.
	Format Format

	// Field is the dot-notation path to the version field for structured
	// formats. Example: "version", "project.version", "package.version".
	Field string

	// Pattern is the regex for FormatRegex. Must contain one capturing
	// group for the version.
	Pattern string
}

// DetectFormat infers the format from a file name.
func DetectFormat(filename string) Format {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lower, ".toml"):
		return FormatTOML
	default:
		return FormatRaw
	}
}

// DefaultField returns the conventional version field path for well-known
// manifest files, falling back to "version".
func DefaultField(filename string) string {
	fields := map[string]string{
		"package.json":   "version",
		"composer.json":  "version",
		"Cargo.toml":     "package.version",
		"pyproject.toml": "project.version",
		"Chart.yaml":     "version",
		"pubspec.yaml":   "version",
	}

	if field, ok := fields[filename]; ok {
		return field
	}
	parts := strings.Split(filename, "/")
	if field, ok := fields[parts[len(parts)-1]]; ok {
		return field
	}
	return "version"
}

// Normalize fills in unset Format and Field values from the file name.
func (s Source) Normalize() Source {
	out := s
	if out.Format == "" {
		out.Format = DetectFormat(out.Path)
	}
	if out.Field == "" && out.Format != FormatRaw && out.Format != FormatRegex {
		out.Field = DefaultField(out.Path)
	}
	return out
}
