// Package core provides shared abstractions used across relcut:
// a context-aware filesystem interface and common file permissions.
package core

import (
	"context"
	"io/fs"
	"os"
)

// File permission constants used when writing files and creating directories.
const (
	// PermOwnerRW is the default permission for regular files (rw-r--r--).
	PermOwnerRW fs.FileMode = 0o644

	// PermDir is the default permission for directories (rwxr-xr-x).
	PermDir fs.FileMode = 0o755
)

// FileSystem abstracts filesystem operations for testability.
// All methods accept a context so long-running callers can be cancelled.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, perm fs.FileMode) error
	Stat(ctx context.Context, path string) (fs.FileInfo, error)
	Remove(ctx context.Context, path string) error
	ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error)
	MkdirAll(ctx context.Context, path string, perm fs.FileMode) error
}

// OSFileSystem implements FileSystem using the os package.
type OSFileSystem struct{}

// NewOSFileSystem returns the production filesystem implementation.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Verify OSFileSystem implements FileSystem.
var _ FileSystem = (*OSFileSystem)(nil)

func (o *OSFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (o *OSFileSystem) WriteFile(ctx context.Context, path string, data []byte, perm fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

func (o *OSFileSystem) Stat(ctx context.Context, path string) (fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Stat(path)
}

func (o *OSFileSystem) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Remove(path)
}

func (o *OSFileSystem) ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadDir(path)
}

func (o *OSFileSystem) MkdirAll(ctx context.Context, path string, perm fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.MkdirAll(path, perm)
}
