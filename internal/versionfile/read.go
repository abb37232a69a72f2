package versionfile

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/relcut/relcut/internal/core"
	"github.com/relcut/relcut/internal/semver"
)

// Read extracts the version marker from the source file and parses it.
func Read(ctx context.Context, fs core.FileSystem, src Source) (semver.SemVersion, error) {
	raw, err := ReadString(ctx, fs, src)
	if err != nil {
		return semver.SemVersion{}, err
	}

	version, err := semver.Parse(raw)
	if err != nil {
		return semver.SemVersion{}, fmt.Errorf("version %q in %q: %w", raw, src.Path, err)
	}
	return version, nil
}

// ReadString extracts the raw version string without parsing it.
func ReadString(ctx context.Context, fs core.FileSystem, src Source) (string, error) {
	src = src.Normalize()
	if src.Path == "" {
		return "", fmt.Errorf("version file path is required")
	}
	if !src.Format.IsValid() {
		return "", fmt.Errorf("invalid version file format: %s", src.Format)
	}

	data, err := fs.ReadFile(ctx, src.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read version file %q: %w", src.Path, err)
	}

	switch src.Format {
	case FormatRaw:
		return strings.TrimSpace(string(data)), nil
	case FormatJSON:
		return readJSON(data, src.Path, src.Field)
	case FormatYAML:
		return readYAML(data, src.Path, src.Field)
	case FormatTOML:
		return readTOML(data, src.Path, src.Field)
	case FormatRegex:
		return readRegex(data, src.Path, src.Pattern)
	default:
		return "", fmt.Errorf("unsupported format: %s", src.Format)
	}
}

func readJSON(data []byte, path, field string) (string, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", fmt.Errorf("failed to parse JSON in %q: %w", path, err)
	}
	return lookupField(obj, path, field)
}

func readYAML(data []byte, path, field string) (string, error) {
	var obj map[string]any
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return "", fmt.Errorf("failed to parse YAML in %q: %w", path, err)
	}
	return lookupField(obj, path, field)
}

func readTOML(data []byte, path, field string) (string, error) {
	var obj map[string]any
	if err := toml.Unmarshal(data, &obj); err != nil {
		return "", fmt.Errorf("failed to parse TOML in %q: %w", path, err)
	}
	return lookupField(obj, path, field)
}

func readRegex(data []byte, path, pattern string) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("pattern is required for regex format")
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}

	matches := re.FindSubmatch(data)
	if len(matches) < 2 {
		return "", fmt.Errorf("no version match found in %q (pattern %q must have a capturing group)", path, pattern)
	}
	return string(matches[1]), nil
}

func lookupField(obj map[string]any, path, field string) (string, error) {
	value, err := getNestedValue(obj, field)
	if err != nil {
		return "", fmt.Errorf("in file %q: %w", path, err)
	}
	version, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %q in %q is not a string", field, path)
	}
	return version, nil
}

// getNestedValue retrieves a value from a nested map using dot notation.
// Example: "project.version" accesses obj["project"]["version"].
func getNestedValue(obj map[string]any, field string) (any, error) {
	if field == "" {
		return nil, fmt.Errorf("field path cannot be empty")
	}

	parts := strings.Split(field, ".")
	current := any(obj)

	for i, part := range parts {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q is not an object at path %q", strings.Join(parts[:i], "."), part)
		}
		value, exists := currentMap[part]
		if !exists {
			return nil, fmt.Errorf("field %q not found", field)
		}
		current = value
	}
	return current, nil
}
