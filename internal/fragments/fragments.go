// Package fragments implements the changelog fragment engine: small
// pending-change files collected from a directory, rendered into a version
// section, and merged into the cumulative changelog at release time.
package fragments

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/relcut/relcut/internal/core"
)

// NoChangesMarker is the literal phrase a draft reports when the pending
// fragments contain nothing release-worthy. The release pipeline keys its
// early exit off this exact string.
const NoChangesMarker = "No significant changes."

// Category describes one fragment category and how it renders.
type Category struct {
	// Key is the category token used in fragment file names.
	Key string `yaml:"key"`

	// Title is the section heading in the rendered changelog.
	Title string `yaml:"title"`

	// Significant categories make a release worth cutting. Fragments in
	// insignificant categories are still rendered, but on their own they
	// do not trigger a release.
	Significant bool `yaml:"significant"`
}

// DefaultCategories returns the built-in category set.
func DefaultCategories() []Category {
	return []Category{
		{Key: "feature", Title: "Features", Significant: true},
		{Key: "bugfix", Title: "Bug fixes", Significant: true},
		{Key: "doc", Title: "Documentation", Significant: true},
		{Key: "removal", Title: "Removals and deprecations", Significant: true},
		{Key: "misc", Title: "Miscellaneous", Significant: false},
	}
}

// Fragment is one pending-change descriptor parsed from the fragments
// directory. File names follow <id>.<category>.md, where id is typically
// an issue or pull request number.
type Fragment struct {
	ID       string
	Category string
	Path     string
	Body     string
}

// Config holds the fragment engine settings.
type Config struct {
	// Dir is the directory holding pending fragment files.
	Dir string

	// ChangelogPath is the cumulative changelog file.
	ChangelogPath string

	// Title is the heading written when the changelog file is created.
	Title string

	// Categories define the recognized fragment categories, in render order.
	Categories []Category
}

// Engine collects, renders, and applies changelog fragments.
type Engine struct {
	fs  core.FileSystem
	cfg Config
	now func() time.Time
}

// NewEngine creates a fragment engine. Zero-value config fields fall back
// to defaults (changelog.d, CHANGELOG.md, the built-in categories).
func NewEngine(fs core.FileSystem, cfg Config) *Engine {
	if cfg.Dir == "" {
		cfg.Dir = "changelog.d"
	}
	if cfg.ChangelogPath == "" {
		cfg.ChangelogPath = "CHANGELOG.md"
	}
	if cfg.Title == "" {
		cfg.Title = "# Changelog"
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = DefaultCategories()
	}
	return &Engine{fs: fs, cfg: cfg, now: time.Now}
}

// Collect reads the fragments directory and parses all fragment files.
// Files that do not match the <id>.<category>.md naming scheme are ignored
// (e.g., .gitkeep, README.md). A matching file with an unknown category is
// an error.
func (e *Engine) Collect(ctx context.Context) ([]Fragment, error) {
	entries, err := e.fs.ReadDir(ctx, e.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read fragments directory %q: %w", e.cfg.Dir, err)
	}

	var frags []Fragment
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		id, category, ok := splitFragmentName(entry.Name())
		if !ok {
			continue
		}
		if !e.knownCategory(category) {
			return nil, fmt.Errorf("fragment %q uses unknown category %q", entry.Name(), category)
		}

		path := filepath.Join(e.cfg.Dir, entry.Name())
		data, err := e.fs.ReadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fragment %q: %w", path, err)
		}

		frags = append(frags, Fragment{
			ID:       id,
			Category: category,
			Path:     path,
			Body:     strings.TrimSpace(string(data)),
		})
	}

	sort.Slice(frags, func(i, j int) bool { return frags[i].Path < frags[j].Path })
	return frags, nil
}

// HasSignificant reports whether any fragment belongs to a significant
// category.
func (e *Engine) HasSignificant(frags []Fragment) bool {
	for _, f := range frags {
		if cat := e.category(f.Category); cat != nil && cat.Significant {
			return true
		}
	}
	return false
}

// Draft renders the section that a release of the given display version
// would produce, without touching any files. When nothing significant is
// pending it returns NoChangesMarker.
func (e *Engine) Draft(ctx context.Context, version string) (string, error) {
	frags, err := e.Collect(ctx)
	if err != nil {
		return "", err
	}
	if !e.HasSignificant(frags) {
		return NoChangesMarker, nil
	}
	return e.Render(version, frags), nil
}

// Render produces the changelog section for the given display version
// (e.g., "v1.2.0") from the collected fragments.
func (e *Engine) Render(version string, frags []Fragment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s (%s)\n", version, e.now().Format("2006-01-02"))

	for _, cat := range e.cfg.Categories {
		var entries []Fragment
		for _, f := range frags {
			if f.Category == cat.Key {
				entries = append(entries, f)
			}
		}
		if len(entries) == 0 {
			continue
		}

		fmt.Fprintf(&sb, "\n### %s\n\n", cat.Title)
		for _, f := range entries {
			sb.WriteString(formatEntry(f))
		}
	}

	return sb.String()
}

// Apply renders the pending fragments into the cumulative changelog,
// deletes the consumed fragment files, and returns their paths.
// It fails when nothing significant is pending.
func (e *Engine) Apply(ctx context.Context, version string) ([]string, error) {
	frags, err := e.Collect(ctx)
	if err != nil {
		return nil, err
	}
	if !e.HasSignificant(frags) {
		return nil, fmt.Errorf("no significant changes to render")
	}

	section := e.Render(version, frags)
	if err := e.prependSection(ctx, section); err != nil {
		return nil, err
	}

	consumed := make([]string, 0, len(frags))
	for _, f := range frags {
		if err := e.fs.Remove(ctx, f.Path); err != nil {
			return nil, fmt.Errorf("failed to remove fragment %q: %w", f.Path, err)
		}
		consumed = append(consumed, f.Path)
	}
	return consumed, nil
}

// prependSection inserts a rendered version section at the top of the
// changelog, just below the intro heading. The file is created with the
// configured title when missing.
func (e *Engine) prependSection(ctx context.Context, section string) error {
	existing, err := e.fs.ReadFile(ctx, e.cfg.ChangelogPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read changelog %q: %w", e.cfg.ChangelogPath, err)
		}
		existing = []byte(e.cfg.Title + "\n")
	}

	content := string(existing)
	section = strings.TrimRight(section, "\n") + "\n"

	var updated string
	if idx := strings.Index(content, "\n## "); idx >= 0 {
		updated = content[:idx+1] + section + "\n" + content[idx+1:]
	} else {
		updated = strings.TrimRight(content, "\n") + "\n\n" + section
	}

	if err := e.fs.WriteFile(ctx, e.cfg.ChangelogPath, []byte(updated), core.PermOwnerRW); err != nil {
		return fmt.Errorf("failed to write changelog %q: %w", e.cfg.ChangelogPath, err)
	}
	return nil
}

func (e *Engine) category(key string) *Category {
	for i := range e.cfg.Categories {
		if e.cfg.Categories[i].Key == key {
			return &e.cfg.Categories[i]
		}
	}
	return nil
}

func (e *Engine) knownCategory(key string) bool {
	return e.category(key) != nil
}

// splitFragmentName parses <id>.<category>.md file names.
func splitFragmentName(name string) (id, category string, ok bool) {
	if !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, ".") {
		return "", "", false
	}

	stem := strings.TrimSuffix(name, ".md")
	idx := strings.LastIndex(stem, ".")
	if idx <= 0 || idx == len(stem)-1 {
		return "", "", false
	}
	return stem[:idx], stem[idx+1:], true
}

// formatEntry renders one fragment as a bullet. Numeric IDs are treated as
// issue references and appended in parentheses.
func formatEntry(f Fragment) string {
	body := f.Body
	if body == "" {
		body = "(no description)"
	}

	if _, err := strconv.Atoi(f.ID); err == nil {
		return fmt.Sprintf("- %s (#%s)\n", body, f.ID)
	}
	return fmt.Sprintf("- %s\n", body)
}
