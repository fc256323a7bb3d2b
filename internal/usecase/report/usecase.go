package report

import (
	"context"
	"fmt"

	domain "subsidy-intake/internal/domain/submission"
	subuc "subsidy-intake/internal/usecase/submission"
	"subsidy-intake/pkg/money"
)

const DefaultSearchLimit = 500

// Usecase serves the read side of the admin dashboard: search and exports.
type Usecase struct {
	repo  domain.Repository
	limit int
}

func NewUsecase(repo domain.Repository, limit int) *Usecase {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &Usecase{repo: repo, limit: limit}
}

// Search returns submissions whose uid contains q (case-insensitive),
// newest first. An empty q lists everything up to the limit.
func (u *Usecase) Search(ctx context.Context, q string) ([]subuc.SubmissionDTO, error) {
	list, err := u.repo.Search(ctx, q, u.limit)
	if err != nil {
		return nil, fmt.Errorf("search submissions: %w", err)
	}
	out := make([]subuc.SubmissionDTO, 0, len(list))
	for i := range list {
		out = append(out, subuc.NewSubmissionDTO(&list[i]))
	}
	return out, nil
}

func (u *Usecase) ExportSubmissions(ctx context.Context) (*Table, error) {
	list, err := u.repo.ListOldestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	t := &Table{Header: SubmissionsHeader, Rows: make([][]string, 0, len(list))}
	for i := range list {
		t.Rows = append(t.Rows, submissionRow(&list[i]))
	}
	return t, nil
}

func (u *Usecase) ExportEntries(ctx context.Context) (*Table, error) {
	entries, err := u.repo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bot entries: %w", err)
	}
	t := &Table{Header: EntriesHeader, Rows: make([][]string, 0, len(entries))}
	for i := range entries {
		t.Rows = append(t.Rows, entryRow(&entries[i]))
	}
	return t, nil
}

// ExportFlat emits one row per (submission, entry). A submission without
// entries still gets one row with the entry columns blank.
func (u *Usecase) ExportFlat(ctx context.Context) (*Table, error) {
	list, err := u.repo.ListOldestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	t := &Table{Header: FlatHeader, Rows: make([][]string, 0, len(list))}
	for i := range list {
		s := &list[i]
		if len(s.BotEntries) == 0 {
			t.Rows = append(t.Rows, append(submissionColumns(s), "", ""))
			continue
		}
		for _, b := range s.BotEntries {
			t.Rows = append(t.Rows, append(submissionColumns(s), b.BotName, money.Format(b.Amount)))
		}
	}
	return t, nil
}
