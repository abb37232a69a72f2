// Package tui provides interactivity helpers: TTY detection, confirmation
// prompts, and spinners that degrade gracefully in CI.
package tui

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive determines if the current environment supports interactive
// prompts. It returns false when stdout is not a terminal or when a CI
// environment is detected.
func IsInteractive() bool {
	if !IsTTY() {
		return false
	}

	ciEnvs := []string{
		"CI",                     // Generic CI indicator
		"CONTINUOUS_INTEGRATION", // Generic CI indicator
		"GITHUB_ACTIONS",         // GitHub Actions
		"GITLAB_CI",              // GitLab CI
		"CIRCLECI",               // CircleCI
		"JENKINS_HOME",           // Jenkins
		"BUILDKITE",              // Buildkite
		"DRONE",                  // Drone CI
		"TF_BUILD",               // Azure Pipelines
	}

	for _, env := range ciEnvs {
		if os.Getenv(env) != "" {
			return false
		}
	}

	return true
}

// IsTTY checks if stdout is a terminal.
// This is a lower-level check than IsInteractive.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // G115: fd is a small value, no overflow risk
}
