package gormrepo

import (
	"context"
	"errors"
	"strings"

	"subsidy-intake/internal/domain/submission"

	"gorm.io/gorm"
)

type SubmissionRepository struct{ db *gorm.DB }

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts the submission and its entries in one statement batch; gorm
// fills SubmissionID on every entry.
func (r *SubmissionRepository) Create(ctx context.Context, s *submission.Submission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id uint64) (*submission.Submission, error) {
	var out submission.Submission
	res := r.db.WithContext(ctx).
		Preload("BotEntries", orderEntries).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *SubmissionRepository) ExistsByUID(ctx context.Context, uid string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&submission.Submission{}).
		Where("uid = ?", uid).
		Count(&n).Error
	return n > 0, err
}

// Delete removes the children explicitly so the result does not depend on the
// driver enforcing ON DELETE CASCADE.
func (r *SubmissionRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s submission.Submission
		if err := tx.Select("id").Where("id = ?", id).First(&s).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", id).Delete(&submission.BotEntry{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&submission.Submission{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *SubmissionRepository) Search(ctx context.Context, q string, limit int) ([]submission.Submission, error) {
	var out []submission.Submission
	query := r.db.WithContext(ctx).Preload("BotEntries", orderEntries)
	if q = strings.TrimSpace(q); q != "" {
		query = query.Where("LOWER(uid) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(q))+"%")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *SubmissionRepository) ListOldestFirst(ctx context.Context) ([]submission.Submission, error) {
	var out []submission.Submission
	err := r.db.WithContext(ctx).
		Preload("BotEntries", orderEntries).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *SubmissionRepository) ListEntries(ctx context.Context) ([]submission.BotEntry, error) {
	var out []submission.BotEntry
	err := r.db.WithContext(ctx).
		Order("submission_id ASC, id ASC").
		Find(&out).Error
	return out, err
}

func orderEntries(db *gorm.DB) *gorm.DB { return db.Order("subsidy_bots.id ASC") }

// escapeLike escapes LIKE wildcards with '!' which every supported driver
// accepts as an ESCAPE character.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// IsDuplicateKey reports a unique index violation. Requires gorm.Config.TranslateError.
func IsDuplicateKey(err error) bool { return errors.Is(err, gorm.ErrDuplicatedKey) }
