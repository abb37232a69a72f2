// Package pipeline implements the six-stage release pipeline: dependency
// sync, change detection, version bump, changelog commit + tag, build +
// publish, and the post-release development bump.
//
// Execution is strictly sequential and fail-fast: the first stage error
// aborts the run, leaving partially-completed state for manual inspection.
// There is deliberately no rollback or retry logic; commits are atomic and
// untagged, unpushed state has no external visibility.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/core"
	"github.com/relcut/relcut/internal/fragments"
	"github.com/relcut/relcut/internal/git"
	"github.com/relcut/relcut/internal/printer"
	"github.com/relcut/relcut/internal/runner"
	"github.com/relcut/relcut/internal/semver"
	"github.com/relcut/relcut/internal/vault"
	"github.com/relcut/relcut/internal/versionfile"
)

// SpinFunc wraps a long-running step with a progress indicator.
type SpinFunc func(title string, fn func() error) error

// Result describes the outcome of a pipeline run.
type Result struct {
	// Released is false when change detection found nothing significant
	// and the run ended early with success.
	Released bool

	// Version is the release version cut in this run.
	Version semver.SemVersion

	// Tag is the version-control tag created for the release.
	Tag string

	// Next is the development version the repository was left on.
	Next semver.SemVersion

	// Draft is the changelog section the run produced (or would produce).
	Draft string
}

// Pipeline sequences the release stages over injected collaborators.
type Pipeline struct {
	cfg   *config.Config
	fs    core.FileSystem
	run   runner.Runner
	git   git.Client
	vault vault.Reader
	frags *fragments.Engine
	spin  SpinFunc
}

// Option customizes a Pipeline, primarily for testing.
type Option func(*Pipeline)

// WithFileSystem replaces the filesystem implementation.
func WithFileSystem(fs core.FileSystem) Option {
	return func(p *Pipeline) { p.fs = fs }
}

// WithRunner replaces the external command runner.
func WithRunner(run runner.Runner) Option {
	return func(p *Pipeline) { p.run = run }
}

// WithGit replaces the git client.
func WithGit(client git.Client) Option {
	return func(p *Pipeline) { p.git = client }
}

// WithVault replaces the secrets vault reader.
func WithVault(reader vault.Reader) Option {
	return func(p *Pipeline) { p.vault = reader }
}

// WithFragments replaces the changelog fragment engine.
func WithFragments(engine *fragments.Engine) Option {
	return func(p *Pipeline) { p.frags = engine }
}

// WithSpinner sets the progress indicator used around external commands.
func WithSpinner(spin SpinFunc) Option {
	return func(p *Pipeline) { p.spin = spin }
}

// New creates a pipeline with production collaborators unless overridden.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:  cfg,
		spin: func(_ string, fn func() error) error { return fn() },
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.fs == nil {
		p.fs = core.NewOSFileSystem()
	}
	if p.run == nil {
		p.run = runner.New()
	}
	if p.git == nil {
		p.git = git.NewCLI(p.run)
	}
	if p.vault == nil {
		p.vault = vault.NewCLI(p.run)
	}
	if p.frags == nil {
		p.frags = fragments.NewEngine(p.fs, cfg.FragmentsConfig())
	}
	return p
}

// Run executes the full release pipeline. It returns a Result with
// Released set to false when change detection reports nothing significant;
// that path is a success, not an error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.SyncDependencies(ctx); err != nil {
		return nil, fmt.Errorf("stage %q: %w", "dependency sync", err)
	}

	draft, significant, err := p.DetectChanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("stage %q: %w", "change detection", err)
	}
	if !significant {
		printer.PrintFaint(fragments.NoChangesMarker + " Nothing to release.")
		return &Result{Released: false, Draft: draft}, nil
	}

	released, err := p.BumpRelease(ctx)
	if err != nil {
		return nil, fmt.Errorf("stage %q: %w", "version bump", err)
	}

	tag, err := p.CommitChangelog(ctx, released)
	if err != nil {
		return nil, fmt.Errorf("stage %q: %w", "changelog commit", err)
	}

	if err := p.BuildAndPublish(ctx); err != nil {
		return nil, fmt.Errorf("stage %q: %w", "build and publish", err)
	}

	next, err := p.PostRelease(ctx, released)
	if err != nil {
		return nil, fmt.Errorf("stage %q: %w", "post-release", err)
	}

	return &Result{
		Released: true,
		Version:  released,
		Tag:      tag,
		Next:     next,
		Draft:    draft,
	}, nil
}

// SyncDependencies runs the configured dependency sync command when the
// lockfile is newer than the sentinel file, and touches the sentinel on
// success. An empty sync command disables the stage.
func (p *Pipeline) SyncDependencies(ctx context.Context) error {
	cmd := p.cfg.Sync.Command
	if len(cmd) == 0 {
		return nil
	}

	need, err := p.needsSync(ctx)
	if err != nil {
		return err
	}
	if !need {
		printer.PrintFaint("Dependencies up to date")
		return nil
	}

	err = p.spin("Syncing dependencies", func() error {
		return p.run.Run(ctx, runner.Spec{Name: cmd[0], Args: cmd[1:]})
	})
	if err != nil {
		return err
	}

	if err := p.fs.WriteFile(ctx, p.cfg.Sync.Sentinel, nil, core.PermOwnerRW); err != nil {
		return fmt.Errorf("failed to update sentinel %q: %w", p.cfg.Sync.Sentinel, err)
	}
	printer.PrintSuccess("Dependencies synced")
	return nil
}

// needsSync compares the lockfile and sentinel modification times.
func (p *Pipeline) needsSync(ctx context.Context) (bool, error) {
	lock, err := p.fs.Stat(ctx, p.cfg.Sync.Lockfile)
	if err != nil {
		return false, fmt.Errorf("failed to stat lockfile %q: %w", p.cfg.Sync.Lockfile, err)
	}

	sentinel, err := p.fs.Stat(ctx, p.cfg.Sync.Sentinel)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to stat sentinel %q: %w", p.cfg.Sync.Sentinel, err)
	}

	return lock.ModTime().After(sentinel.ModTime()), nil
}

// DetectChanges drafts the pending changelog section without touching any
// files and reports whether a release is warranted. The draft contains the
// no-changes marker phrase when nothing significant is pending.
func (p *Pipeline) DetectChanges(ctx context.Context) (draft string, significant bool, err error) {
	current, err := versionfile.Read(ctx, p.fs, p.cfg.VersionSource())
	if err != nil {
		return "", false, err
	}

	draft, err = p.frags.Draft(ctx, p.tagName(p.targetVersion(current)))
	if err != nil {
		return "", false, err
	}
	return draft, !strings.Contains(draft, fragments.NoChangesMarker), nil
}

// BumpRelease promotes the version marker from its development form to the
// final release version and returns it.
func (p *Pipeline) BumpRelease(ctx context.Context) (semver.SemVersion, error) {
	src := p.cfg.VersionSource()

	current, err := versionfile.Read(ctx, p.fs, src)
	if err != nil {
		return semver.SemVersion{}, err
	}

	released, err := current.Promote()
	if err != nil {
		return semver.SemVersion{}, err
	}

	if err := versionfile.Write(ctx, p.fs, src, released); err != nil {
		return semver.SemVersion{}, err
	}

	printer.PrintSuccess(fmt.Sprintf("Version bumped from %s to %s", current.String(), released.String()))
	return released, nil
}

// CommitChangelog renders the pending fragments into the changelog,
// commits the version file, changelog, and fragments directory, and
// creates the release tag. Returns the tag name.
func (p *Pipeline) CommitChangelog(ctx context.Context, released semver.SemVersion) (string, error) {
	tag := p.tagName(released)

	exists, err := p.git.TagExists(ctx, tag)
	if err != nil {
		return "", fmt.Errorf("failed to check tag existence: %w", err)
	}
	if exists {
		return "", fmt.Errorf("tag %s already exists", tag)
	}

	if _, err := p.frags.Apply(ctx, tag); err != nil {
		return "", err
	}

	paths := []string{p.cfg.Version.Path, p.cfg.Changelog.Path, p.cfg.Changelog.Dir}
	if err := p.git.StageFiles(ctx, paths...); err != nil {
		return "", err
	}

	message := config.FormatMessage(p.cfg.Git.ReleaseMessage, released.String(), tag)
	if err := p.git.Commit(ctx, message); err != nil {
		return "", err
	}
	printer.PrintSuccess(fmt.Sprintf("Committed release changes for %s", released.String()))

	if p.cfg.Git.Annotate {
		tagMessage := config.FormatMessage(p.cfg.Git.TagMessage, released.String(), tag)
		err = p.git.CreateAnnotatedTag(ctx, tag, tagMessage)
	} else {
		err = p.git.CreateLightweightTag(ctx, tag)
	}
	if err != nil {
		return "", err
	}
	printer.PrintSuccess(fmt.Sprintf("Created tag: %s", tag))

	return tag, nil
}

// BuildAndPublish builds the distributable packages and uploads them,
// authenticating with a token fetched just-in-time from the vault.
func (p *Pipeline) BuildAndPublish(ctx context.Context) error {
	build := p.cfg.Build.Command
	err := p.spin("Building packages", func() error {
		return p.run.Run(ctx, runner.Spec{Name: build[0], Args: build[1:]})
	})
	if err != nil {
		return err
	}

	var env []string
	if p.cfg.Publish.Vault.Path != "" {
		token, err := p.vault.ReadField(ctx, p.cfg.Publish.Vault.Path, p.cfg.Publish.Vault.Field)
		if err != nil {
			return err
		}
		p.run.RegisterSecret(token)
		env = append(env, p.cfg.Publish.Vault.Env+"="+token)
	}

	publish := p.cfg.Publish.Command
	err = p.spin("Publishing packages", func() error {
		return p.run.Run(ctx, runner.Spec{Name: publish[0], Args: publish[1:], Env: env})
	})
	if err != nil {
		return err
	}

	printer.PrintSuccess("Packages published")
	return nil
}

// PostRelease advances the version marker to the next development version,
// commits that single change, and pushes commits and tags to the remote.
func (p *Pipeline) PostRelease(ctx context.Context, released semver.SemVersion) (semver.SemVersion, error) {
	next := released.NextDevelopment(p.cfg.Version.DevLabel)

	src := p.cfg.VersionSource()
	if err := versionfile.Write(ctx, p.fs, src, next); err != nil {
		return semver.SemVersion{}, err
	}

	if err := p.git.StageFiles(ctx, p.cfg.Version.Path); err != nil {
		return semver.SemVersion{}, err
	}
	message := config.FormatMessage(p.cfg.Git.PostReleaseMessage, next.String(), p.tagName(next))
	if err := p.git.Commit(ctx, message); err != nil {
		return semver.SemVersion{}, err
	}

	remote := p.cfg.Git.Remote
	if err := p.git.Push(ctx, remote); err != nil {
		return semver.SemVersion{}, err
	}
	if err := p.git.PushTags(ctx, remote); err != nil {
		return semver.SemVersion{}, err
	}

	printer.PrintSuccess(fmt.Sprintf("Back on development version %s", next.String()))
	return next, nil
}

// tagName formats a version as a tag using the configured prefix.
func (p *Pipeline) tagName(v semver.SemVersion) string {
	return p.cfg.Git.TagPrefix + v.String()
}

// targetVersion is the version a release cut right now would carry: the
// promoted form of a development version, or the version as-is.
func (p *Pipeline) targetVersion(current semver.SemVersion) semver.SemVersion {
	if released, err := current.Promote(); err == nil {
		return released
	}
	return current
}
