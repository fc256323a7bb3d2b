package submissionmock

import (
	"context"

	domain "subsidy-intake/internal/domain/submission"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset reads return context.Canceled; unset writes succeed.
type Repo struct {
	CreateFn          func(ctx context.Context, s *domain.Submission) error
	GetByIDFn         func(ctx context.Context, id uint64) (*domain.Submission, error)
	ExistsByUIDFn     func(ctx context.Context, uid string) (bool, error)
	DeleteFn          func(ctx context.Context, id uint64) error
	SearchFn          func(ctx context.Context, q string, limit int) ([]domain.Submission, error)
	ListOldestFirstFn func(ctx context.Context) ([]domain.Submission, error)
	ListEntriesFn     func(ctx context.Context) ([]domain.BotEntry, error)
}

func (m *Repo) Create(ctx context.Context, s *domain.Submission) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Submission, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) ExistsByUID(ctx context.Context, uid string) (bool, error) {
	if m.ExistsByUIDFn != nil {
		return m.ExistsByUIDFn(ctx, uid)
	}
	return false, nil
}

func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *Repo) Search(ctx context.Context, q string, limit int) ([]domain.Submission, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, q, limit)
	}
	return nil, context.Canceled
}

func (m *Repo) ListOldestFirst(ctx context.Context) ([]domain.Submission, error) {
	if m.ListOldestFirstFn != nil {
		return m.ListOldestFirstFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) ListEntries(ctx context.Context) ([]domain.BotEntry, error) {
	if m.ListEntriesFn != nil {
		return m.ListEntriesFn(ctx)
	}
	return nil, context.Canceled
}
