package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domain "subsidy-intake/internal/domain/submission"
	"subsidy-intake/internal/domain/uow"
)

type Usecase struct {
	repo      domain.Repository
	uow       uow.UnitOfWork
	validator *Validator
	log       logrus.FieldLogger
}

func NewUsecase(repo domain.Repository, tx uow.UnitOfWork, log logrus.FieldLogger) *Usecase {
	return &Usecase{repo: repo, uow: tx, validator: NewValidator(), log: log}
}

// Submit validates in and persists the submission with its entries atomically.
// Validation problems and uid collisions come back as *domain.ValidationError.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*SubmissionDTO, error) {
	draft, err := u.validator.Validate(in)
	if err != nil {
		return nil, err
	}
	s := draft.entity()

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		exists, err := r.Submissions.ExistsByUID(ctx, s.ExternalUID)
		if err != nil {
			return fmt.Errorf("check uid: %w", err)
		}
		if exists {
			return domain.NewDuplicateUIDError()
		}
		if err := r.Submissions.Create(ctx, s); err != nil {
			// unique index caught a concurrent insert the pre-check missed
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.NewDuplicateUIDError()
			}
			return fmt.Errorf("create submission: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUID) {
			u.log.WithField("uid", s.ExternalUID).Warn("duplicate submission rejected")
		}
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"submission_id": s.ID,
		"uid":           s.ExternalUID,
		"bot_count":     len(s.BotEntries),
	}).Info("submission created")
	dto := NewSubmissionDTO(s)
	return &dto, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*SubmissionDTO, error) {
	s, err := u.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load submission %d: %w", id, err)
	}
	dto := NewSubmissionDTO(s)
	return &dto, nil
}

// Delete removes the submission and all its bot entries.
func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	err := u.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete submission %d: %w", id, err)
	}
	u.log.WithField("submission_id", id).Info("submission deleted")
	return nil
}
