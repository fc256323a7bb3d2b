package submission

import "context"

type Repository interface {
	// Create inserts s together with s.BotEntries.
	Create(ctx context.Context, s *Submission) error

	// GetByID loads a submission with its entries.
	GetByID(ctx context.Context, id uint64) (*Submission, error)

	ExistsByUID(ctx context.Context, uid string) (bool, error)

	// Delete removes the submission and its entries.
	Delete(ctx context.Context, id uint64) error

	// Search matches uid case-insensitively, newest first, at most limit rows.
	Search(ctx context.Context, q string, limit int) ([]Submission, error)

	// ListOldestFirst returns every submission with entries preloaded.
	ListOldestFirst(ctx context.Context) ([]Submission, error)

	// ListEntries returns every entry ordered by (submission_id, id).
	ListEntries(ctx context.Context) ([]BotEntry, error)
}
