package git

import "context"

// Mock is a Client implementation for testing.
// Each method delegates to its Fn field when set, otherwise succeeds.
type Mock struct {
	StageFilesFn           func(paths ...string) error
	CommitFn               func(message string) error
	CreateAnnotatedTagFn   func(name, message string) error
	CreateLightweightTagFn func(name string) error
	TagExistsFn            func(name string) (bool, error)
	PushFn                 func(remote string) error
	PushTagsFn             func(remote string) error
	IsWorkTreeFn           func() bool
}

// Verify Mock implements Client.
var _ Client = (*Mock)(nil)

func (m *Mock) StageFiles(_ context.Context, paths ...string) error {
	if m.StageFilesFn != nil {
		return m.StageFilesFn(paths...)
	}
	return nil
}

func (m *Mock) Commit(_ context.Context, message string) error {
	if m.CommitFn != nil {
		return m.CommitFn(message)
	}
	return nil
}

func (m *Mock) CreateAnnotatedTag(_ context.Context, name, message string) error {
	if m.CreateAnnotatedTagFn != nil {
		return m.CreateAnnotatedTagFn(name, message)
	}
	return nil
}

func (m *Mock) CreateLightweightTag(_ context.Context, name string) error {
	if m.CreateLightweightTagFn != nil {
		return m.CreateLightweightTagFn(name)
	}
	return nil
}

func (m *Mock) TagExists(_ context.Context, name string) (bool, error) {
	if m.TagExistsFn != nil {
		return m.TagExistsFn(name)
	}
	return false, nil
}

func (m *Mock) Push(_ context.Context, remote string) error {
	if m.PushFn != nil {
		return m.PushFn(remote)
	}
	return nil
}

func (m *Mock) PushTags(_ context.Context, remote string) error {
	if m.PushTagsFn != nil {
		return m.PushTagsFn(remote)
	}
	return nil
}

func (m *Mock) IsWorkTree(_ context.Context) bool {
	if m.IsWorkTreeFn != nil {
		return m.IsWorkTreeFn()
	}
	return true
}
