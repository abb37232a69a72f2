// Package semver implements parsing, comparison, and the release/development
// transitions relcut performs on semantic versions.
package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SemVersion represents a semantic version (major.minor.patch-preRelease+build).
type SemVersion struct {
	Major      int
	Minor      int
	Patch      int
	PreRelease string
	Build      string
}

// versionRegex matches semantic version strings with an optional "v" prefix,
// optional pre-release (e.g., "-dev", "-rc.1"), and optional build metadata
// (e.g., "+build.123").
var versionRegex = regexp.MustCompile(
	`^v?(\d+)\.(\d+)\.(\d+)` +
		`(?:-([0-9A-Za-z\-\.]+))?` +
		`(?:\+([0-9A-Za-z\-\.]+))?$`,
)

// ErrInvalidVersion is returned when a version string does not conform
// to the expected semantic version format.
var ErrInvalidVersion = errors.New("invalid version format")

// maxVersionLength caps input length before the regex runs.
const maxVersionLength = 128

// Parse parses a semantic version string.
//
// Supported forms: "1.2.3", "v1.2.3", "1.2.3-dev", "1.2.3-rc.1+build.4".
func Parse(s string) (SemVersion, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) > maxVersionLength {
		return SemVersion{}, fmt.Errorf("%w: version string exceeds maximum length of %d", ErrInvalidVersion, maxVersionLength)
	}

	matches := versionRegex.FindStringSubmatch(trimmed)
	if matches == nil {
		return SemVersion{}, fmt.Errorf("%w: %q", ErrInvalidVersion, trimmed)
	}

	major, err := strconv.Atoi(matches[1])
	if err != nil {
		return SemVersion{}, fmt.Errorf("%w: invalid major version: %s", ErrInvalidVersion, err.Error())
	}
	minor, err := strconv.Atoi(matches[2])
	if err != nil {
		return SemVersion{}, fmt.Errorf("%w: invalid minor version: %s", ErrInvalidVersion, err.Error())
	}
	patch, err := strconv.Atoi(matches[3])
	if err != nil {
		return SemVersion{}, fmt.Errorf("%w: invalid patch version: %s", ErrInvalidVersion, err.Error())
	}

	return SemVersion{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		PreRelease: matches[4],
		Build:      matches[5],
	}, nil
}

// String returns the canonical string form of the version (no "v" prefix).
func (v SemVersion) String() string {
	var sb strings.Builder
	sb.Grow(20)
	sb.WriteString(strconv.Itoa(v.Major))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(v.Minor))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(v.Patch))
	if v.PreRelease != "" {
		sb.WriteByte('-')
		sb.WriteString(v.PreRelease)
	}
	if v.Build != "" {
		sb.WriteByte('+')
		sb.WriteString(v.Build)
	}
	return sb.String()
}

// IsDevelopment reports whether the version carries a pre-release marker.
func (v SemVersion) IsDevelopment() bool {
	return v.PreRelease != ""
}

// Promote strips the pre-release marker and build metadata, turning a
// development version into its final release form.
// Returns an error when the version is already a final release.
func (v SemVersion) Promote() (SemVersion, error) {
	if v.PreRelease == "" {
		return SemVersion{}, fmt.Errorf("version %s is not a development version", v.String())
	}
	return SemVersion{Major: v.Major, Minor: v.Minor, Patch: v.Patch}, nil
}

// NextDevelopment returns the development version that follows v:
// the minor component is advanced, patch resets to zero, and the given
// pre-release label is applied (e.g., 1.2.0 -> 1.3.0-dev).
func (v SemVersion) NextDevelopment(label string) SemVersion {
	return SemVersion{
		Major:      v.Major,
		Minor:      v.Minor + 1,
		Patch:      0,
		PreRelease: label,
	}
}

// BumpByLabel bumps the version using an explicit label.
//
// Supported labels:
//   - "patch": increments patch (1.2.3 -> 1.2.4)
//   - "minor": increments minor, resets patch (1.2.3 -> 1.3.0)
//   - "major": increments major, resets minor and patch (1.2.3 -> 2.0.0)
func BumpByLabel(v SemVersion, label string) (SemVersion, error) {
	switch label {
	case "patch":
		return SemVersion{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	case "minor":
		return SemVersion{Major: v.Major, Minor: v.Minor + 1, Patch: 0}, nil
	case "major":
		return SemVersion{Major: v.Major + 1, Minor: 0, Patch: 0}, nil
	default:
		return SemVersion{}, fmt.Errorf("invalid bump label: %s", label)
	}
}

// Compare compares two semantic versions.
// It returns -1 if v < other, 0 if v == other, and +1 if v > other.
// Pre-release versions have lower precedence than the associated normal
// version (1.0.0-dev < 1.0.0). Build metadata is ignored.
func (v SemVersion) Compare(other SemVersion) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, other.Patch); c != 0 {
		return c
	}

	switch {
	case v.PreRelease == "" && other.PreRelease == "":
		return 0
	case v.PreRelease == "":
		return 1
	case other.PreRelease == "":
		return -1
	default:
		return comparePreRelease(v.PreRelease, other.PreRelease)
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func comparePreRelease(a, b string) int {
	aIDs := strings.Split(a, ".")
	bIDs := strings.Split(b, ".")

	n := min(len(aIDs), len(bIDs))
	for i := range n {
		if c := compareIdentifier(aIDs[i], bIDs[i]); c != 0 {
			return c
		}
	}

	// Equal so far: the shorter identifier list has lower precedence.
	switch {
	case len(aIDs) < len(bIDs):
		return -1
	case len(aIDs) > len(bIDs):
		return 1
	default:
		return 0
	}
}

func compareIdentifier(a, b string) int {
	aNum, aIsNum := parseNumericIdentifier(a)
	bNum, bIsNum := parseNumericIdentifier(b)

	switch {
	case aIsNum && bIsNum:
		return compareInt(aNum, bNum)
	case aIsNum:
		return -1 // numeric < non-numeric
	case bIsNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// SemVer numeric identifiers: only digits, no leading zeros unless exactly "0".
func parseNumericIdentifier(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
