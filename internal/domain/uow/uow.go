package uow

import (
	"context"

	"subsidy-intake/internal/domain/submission"
	"subsidy-intake/internal/domain/user"
)

// Repos are bound to the transaction opened by WithinTx.
type Repos struct {
	Submissions submission.Repository
	Users       user.Repository
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
