// Package config loads and validates the .relcut.yaml configuration that
// drives the release pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/relcut/relcut/internal/fragments"
	"github.com/relcut/relcut/internal/versionfile"
)

// DefaultConfigFile is the configuration file looked up in the working
// directory when RELCUT_CONFIG is not set.
const DefaultConfigFile = ".relcut.yaml"

// ConfigFilePerm is the permission used when writing config files.
const ConfigFilePerm = 0o644

// Config is the main configuration structure for relcut.
type Config struct {
	Version   VersionConfig   `yaml:"version"`
	Changelog ChangelogConfig `yaml:"changelog"`
	Sync      SyncConfig      `yaml:"sync"`
	Build     BuildConfig     `yaml:"build"`
	Publish   PublishConfig   `yaml:"publish"`
	Git       GitConfig       `yaml:"git"`
}

// VersionConfig describes where the version marker lives.
type VersionConfig struct {
	Path    string `yaml:"path"`
	Format  string `yaml:"format,omitempty"`
	Field   string `yaml:"field,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`

	// DevLabel is the pre-release label applied between releases.
	DevLabel string `yaml:"dev-label"`
}

// ChangelogConfig describes the changelog file and fragments directory.
type ChangelogConfig struct {
	Path       string               `yaml:"path"`
	Dir        string               `yaml:"dir"`
	Title      string               `yaml:"title,omitempty"`
	Categories []fragments.Category `yaml:"categories,omitempty"`
}

// SyncConfig describes the dependency sync stage. An empty command
// disables the stage entirely.
type SyncConfig struct {
	Command  []string `yaml:"command"`
	Lockfile string   `yaml:"lockfile"`
	Sentinel string   `yaml:"sentinel"`
}

// BuildConfig describes the package build command.
type BuildConfig struct {
	Command []string `yaml:"command"`
}

// PublishConfig describes the publish command and its credential source.
type PublishConfig struct {
	Command []string    `yaml:"command"`
	Vault   VaultConfig `yaml:"vault"`
}

// VaultConfig locates the publish token inside the secrets vault and names
// the environment variable the publish command receives it through.
type VaultConfig struct {
	Path  string `yaml:"path"`
	Field string `yaml:"field"`
	Env   string `yaml:"env"`
}

// GitConfig holds version-control settings.
type GitConfig struct {
	Remote    string `yaml:"remote"`
	TagPrefix string `yaml:"tag-prefix"`
	Annotate  bool   `yaml:"annotate"`

	// ReleaseMessage and PostReleaseMessage are commit message templates.
	// Placeholders: {version}, {tag}.
	ReleaseMessage     string `yaml:"release-message"`
	PostReleaseMessage string `yaml:"post-release-message"`

	// TagMessage is the annotated tag message template.
	TagMessage string `yaml:"tag-message"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version: VersionConfig{
			Path:     ".version",
			DevLabel: "dev",
		},
		Changelog: ChangelogConfig{
			Path: "CHANGELOG.md",
			Dir:  "changelog.d",
		},
		Sync: SyncConfig{
			Command:  []string{"uv", "sync"},
			Lockfile: "uv.lock",
			Sentinel: ".sync-ok",
		},
		Build: BuildConfig{
			Command: []string{"uv", "build"},
		},
		Publish: PublishConfig{
			Command: []string{"uv", "publish"},
			Vault: VaultConfig{
				Path:  "secret/release/pypi",
				Field: "token",
				Env:   "UV_PUBLISH_TOKEN",
			},
		},
		Git: GitConfig{
			Remote:             "origin",
			TagPrefix:          "v",
			Annotate:           true,
			ReleaseMessage:     "chore(release): {tag}",
			PostReleaseMessage: "chore: begin {version} development",
			TagMessage:         "Release {version}",
		},
	}
}

// LoadFn is a function variable for loading configuration.
// It defaults to Load but can be overridden in tests.
var LoadFn = Load

// Load reads the configuration file, layering it over the defaults.
// Resolution order: the RELCUT_CONFIG environment variable, then
// .relcut.yaml in the working directory, then built-in defaults.
func Load() (*Config, error) {
	path := DefaultConfigFile
	if envPath := os.Getenv("RELCUT_CONFIG"); envPath != "" {
		cleanPath := filepath.Clean(envPath)
		if strings.Contains(cleanPath, "..") {
			return nil, fmt.Errorf("invalid RELCUT_CONFIG: path traversal not allowed, use an absolute path instead")
		}
		path = cleanPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return cfg, nil
}

// VersionSource converts the version settings into a versionfile source.
func (c *Config) VersionSource() versionfile.Source {
	return versionfile.Source{
		Path:    c.Version.Path,
		Format:  versionfile.Format(c.Version.Format),
		Field:   c.Version.Field,
		Pattern: c.Version.Pattern,
	}
}

// FragmentsConfig converts the changelog settings into a fragment engine
// configuration.
func (c *Config) FragmentsConfig() fragments.Config {
	return fragments.Config{
		Dir:           c.Changelog.Dir,
		ChangelogPath: c.Changelog.Path,
		Title:         c.Changelog.Title,
		Categories:    c.Changelog.Categories,
	}
}

// FormatMessage expands the {version} and {tag} placeholders in a commit
// or tag message template.
func FormatMessage(template, version, tag string) string {
	out := strings.ReplaceAll(template, "{version}", version)
	return strings.ReplaceAll(out, "{tag}", tag)
}
