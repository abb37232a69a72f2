package versionfile

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/relcut/relcut/internal/core"
	"github.com/relcut/relcut/internal/semver"
	"github.com/tidwall/sjson"
)

// sjsonSet is a function variable wrapping sjson.SetBytes.
// It can be overridden in tests to simulate errors.
var sjsonSet = func(data []byte, field, value string) ([]byte, error) {
	return sjson.SetBytes(data, field, value)
}

// Write stores the version marker in the source file, preserving the rest
// of the file for structured formats.
func Write(ctx context.Context, fs core.FileSystem, src Source, version semver.SemVersion) error {
	return WriteString(ctx, fs, src, version.String())
}

// WriteString stores a raw version string in the source file.
func WriteString(ctx context.Context, fs core.FileSystem, src Source, version string) error {
	src = src.Normalize()
	if src.Path == "" {
		return fmt.Errorf("version file path is required")
	}
	if !src.Format.IsValid() {
		return fmt.Errorf("invalid version file format: %s", src.Format)
	}

	switch src.Format {
	case FormatRaw:
		return writeRaw(ctx, fs, src.Path, version)
	case FormatJSON:
		return writeJSON(ctx, fs, src.Path, src.Field, version)
	case FormatYAML:
		return writeYAML(ctx, fs, src.Path, src.Field, version)
	case FormatTOML:
		return writeTOML(ctx, fs, src.Path, src.Field, version)
	case FormatRegex:
		return writeRegex(ctx, fs, src.Path, src.Pattern, version)
	default:
		return fmt.Errorf("unsupported format: %s", src.Format)
	}
}

func writeRaw(ctx context.Context, fs core.FileSystem, path, version string) error {
	content := version
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := fs.WriteFile(ctx, path, []byte(content), core.PermOwnerRW); err != nil {
		return fmt.Errorf("failed to write version file %q: %w", path, err)
	}
	return nil
}

// writeJSON updates only the version field via sjson, preserving the
// document structure and field order.
func writeJSON(ctx context.Context, fs core.FileSystem, path, field, version string) error {
	data, err := fs.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read version file %q: %w", path, err)
	}

	updated, err := sjsonSet(data, field, version)
	if err != nil {
		return fmt.Errorf("failed to set version in %q: %w", path, err)
	}

	if len(updated) > 0 && updated[len(updated)-1] != '\n' {
		updated = append(updated, '\n')
	}

	if err := fs.WriteFile(ctx, path, updated, core.PermOwnerRW); err != nil {
		return fmt.Errorf("failed to write version file %q: %w", path, err)
	}
	return nil
}

func writeYAML(ctx context.Context, fs core.FileSystem, path, field, version string) error {
	data, err := fs.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read version file %q: %w", path, err)
	}

	var obj map[string]any
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to parse YAML in %q: %w", path, err)
	}
	if err := setNestedValue(obj, field, version); err != nil {
		return fmt.Errorf("in file %q: %w", path, err)
	}

	updated, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML for %q: %w", path, err)
	}

	if err := fs.WriteFile(ctx, path, updated, core.PermOwnerRW); err != nil {
		return fmt.Errorf("failed to write version file %q: %w", path, err)
	}
	return nil
}

func writeTOML(ctx context.Context, fs core.FileSystem, path, field, version string) error {
	data, err := fs.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read version file %q: %w", path, err)
	}

	var obj map[string]any
	if err := toml.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to parse TOML in %q: %w", path, err)
	}
	if err := setNestedValue(obj, field, version); err != nil {
		return fmt.Errorf("in file %q: %w", path, err)
	}

	updated, err := toml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal TOML for %q: %w", path, err)
	}

	if err := fs.WriteFile(ctx, path, updated, core.PermOwnerRW); err != nil {
		return fmt.Errorf("failed to write version file %q: %w", path, err)
	}
	return nil
}

func writeRegex(ctx context.Context, fs core.FileSystem, path, pattern, version string) error {
	if pattern == "" {
		return fmt.Errorf("pattern is required for regex format")
	}

	data, err := fs.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read version file %q: %w", path, err)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}
	if !re.Match(data) {
		return fmt.Errorf("pattern %q does not match contents of %q", pattern, path)
	}

	updated := re.ReplaceAllFunc(data, func(match []byte) []byte {
		submatches := re.FindSubmatch(match)
		if len(submatches) < 2 {
			return match
		}
		// Replace only the first capturing group, preserving surrounding text.
		return []byte(strings.Replace(string(match), string(submatches[1]), version, 1))
	})

	if err := fs.WriteFile(ctx, path, updated, core.PermOwnerRW); err != nil {
		return fmt.Errorf("failed to write version file %q: %w", path, err)
	}
	return nil
}

// setNestedValue sets a value in a nested map using dot notation.
func setNestedValue(obj map[string]any, field string, value any) error {
	if field == "" {
		return fmt.Errorf("field path cannot be empty")
	}

	parts := strings.Split(field, ".")
	current := obj

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]

		next, exists := current[part]
		if !exists {
			newMap := make(map[string]any)
			current[part] = newMap
			current = newMap
			continue
		}

		nextMap, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("field %q is not an object at path %q", strings.Join(parts[:i+1], "."), part)
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}
