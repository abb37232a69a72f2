package config

import (
	"fmt"
	"strings"

	"github.com/relcut/relcut/internal/versionfile"
)

// Validate checks the configuration for problems a release run would
// otherwise hit midway. All findings are aggregated into one error.
func Validate(cfg *Config) error {
	var problems []string

	if cfg.Version.Path == "" {
		problems = append(problems, "version.path is required")
	}
	if cfg.Version.Format != "" && !versionfile.Format(cfg.Version.Format).IsValid() {
		problems = append(problems, fmt.Sprintf("version.format %q is not one of raw, json, yaml, toml, regex", cfg.Version.Format))
	}
	if versionfile.Format(cfg.Version.Format) == versionfile.FormatRegex && cfg.Version.Pattern == "" {
		problems = append(problems, "version.pattern is required when version.format is regex")
	}
	if cfg.Version.DevLabel == "" {
		problems = append(problems, "version.dev-label is required")
	}

	if cfg.Changelog.Path == "" {
		problems = append(problems, "changelog.path is required")
	}
	if cfg.Changelog.Dir == "" {
		problems = append(problems, "changelog.dir is required")
	}
	for _, cat := range cfg.Changelog.Categories {
		if cat.Key == "" || cat.Title == "" {
			problems = append(problems, "changelog.categories entries need both key and title")
			break
		}
	}

	if len(cfg.Sync.Command) > 0 {
		if cfg.Sync.Lockfile == "" {
			problems = append(problems, "sync.lockfile is required when sync.command is set")
		}
		if cfg.Sync.Sentinel == "" {
			problems = append(problems, "sync.sentinel is required when sync.command is set")
		}
	}

	if len(cfg.Build.Command) == 0 {
		problems = append(problems, "build.command is required")
	}
	if len(cfg.Publish.Command) == 0 {
		problems = append(problems, "publish.command is required")
	}
	if cfg.Publish.Vault.Path != "" || cfg.Publish.Vault.Field != "" {
		if cfg.Publish.Vault.Path == "" {
			problems = append(problems, "publish.vault.path is required when a vault field is set")
		}
		if cfg.Publish.Vault.Field == "" {
			problems = append(problems, "publish.vault.field is required when a vault path is set")
		}
		if cfg.Publish.Vault.Env == "" {
			problems = append(problems, "publish.vault.env is required when vault credentials are used")
		}
	}

	if cfg.Git.Remote == "" {
		problems = append(problems, "git.remote is required")
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
}
