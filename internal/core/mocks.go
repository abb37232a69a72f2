package core

import (
	"context"
	"io/fs"
	"os"
)

// MockFileSystem is a FileSystem implementation for testing.
// Each method delegates to its Fn field when set and falls back to the
// wrapped Base filesystem (or a no-op) otherwise.
type MockFileSystem struct {
	Base FileSystem

	ReadFileFn  func(path string) ([]byte, error)
	WriteFileFn func(path string, data []byte, perm fs.FileMode) error
	StatFn      func(path string) (fs.FileInfo, error)
	RemoveFn    func(path string) error
	ReadDirFn   func(path string) ([]fs.DirEntry, error)
	MkdirAllFn  func(path string, perm fs.FileMode) error
}

// Verify MockFileSystem implements FileSystem.
var _ FileSystem = (*MockFileSystem)(nil)

func (m *MockFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if m.ReadFileFn != nil {
		return m.ReadFileFn(path)
	}
	if m.Base != nil {
		return m.Base.ReadFile(ctx, path)
	}
	return nil, os.ErrNotExist
}

func (m *MockFileSystem) WriteFile(ctx context.Context, path string, data []byte, perm fs.FileMode) error {
	if m.WriteFileFn != nil {
		return m.WriteFileFn(path, data, perm)
	}
	if m.Base != nil {
		return m.Base.WriteFile(ctx, path, data, perm)
	}
	return nil
}

func (m *MockFileSystem) Stat(ctx context.Context, path string) (fs.FileInfo, error) {
	if m.StatFn != nil {
		return m.StatFn(path)
	}
	if m.Base != nil {
		return m.Base.Stat(ctx, path)
	}
	return nil, os.ErrNotExist
}

func (m *MockFileSystem) Remove(ctx context.Context, path string) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(path)
	}
	if m.Base != nil {
		return m.Base.Remove(ctx, path)
	}
	return nil
}

func (m *MockFileSystem) ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error) {
	if m.ReadDirFn != nil {
		return m.ReadDirFn(path)
	}
	if m.Base != nil {
		return m.Base.ReadDir(ctx, path)
	}
	return nil, os.ErrNotExist
}

func (m *MockFileSystem) MkdirAll(ctx context.Context, path string, perm fs.FileMode) error {
	if m.MkdirAllFn != nil {
		return m.MkdirAllFn(path, perm)
	}
	if m.Base != nil {
		return m.Base.MkdirAll(ctx, path, perm)
	}
	return nil
}
