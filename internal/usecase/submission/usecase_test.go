package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"

	domain "subsidy-intake/internal/domain/submission"
	"subsidy-intake/internal/domain/uow"
	"subsidy-intake/internal/testutil/submissionmock"
	"subsidy-intake/internal/testutil/uowmock"
)

func newUsecase(repo *submissionmock.Repo) *Usecase {
	log, _ := logtest.NewNullLogger()
	return NewUsecase(repo, uowmock.Passthrough(uow.Repos{Submissions: repo}), log)
}

func TestSubmit_Success(t *testing.T) {
	var created *domain.Submission
	repo := &submissionmock.Repo{
		ExistsByUIDFn: func(ctx context.Context, uid string) (bool, error) {
			if uid != "UID-001" {
				t.Fatalf("uniqueness checked against %q", uid)
			}
			return false, nil
		},
		CreateFn: func(ctx context.Context, s *domain.Submission) error {
			s.ID = 9
			s.CreatedAt = time.Now().UTC()
			created = s
			return nil
		},
	}

	in := validInput()
	in.OwedTicket = false
	in.TicketAmount = "50.00"
	in.BotEntries = append(in.BotEntries, BotEntryInput{}, BotEntryInput{Name: "Beta", Amount: "5"})

	dto, err := newUsecase(repo).Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if dto.ID != 9 || dto.ExternalUID != "UID-001" {
		t.Fatalf("dto = %+v", dto)
	}
	if created == nil || len(created.BotEntries) != 2 {
		t.Fatalf("entries not persisted with submission: %+v", created)
	}
	if created.TicketAmount.Valid || dto.TicketAmount != "" {
		t.Fatalf("ticket amount must be cleared when not owed")
	}
	if dto.BotEntries[1].Amount != "5.00" {
		t.Fatalf("amount not fixed-point: %q", dto.BotEntries[1].Amount)
	}
}

func TestSubmit_ValidationFailureSkipsStorage(t *testing.T) {
	repo := &submissionmock.Repo{
		ExistsByUIDFn: func(context.Context, string) (bool, error) {
			t.Fatalf("storage must not be touched on invalid input")
			return false, nil
		},
	}
	in := validInput()
	in.BotEntries = []BotEntryInput{{Amount: "5.00"}}

	_, err := newUsecase(repo).Submit(context.Background(), in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestSubmit_DuplicateFromPreCheck(t *testing.T) {
	repo := &submissionmock.Repo{
		ExistsByUIDFn: func(context.Context, string) (bool, error) { return true, nil },
		CreateFn: func(context.Context, *domain.Submission) error {
			t.Fatalf("Create must not be called for a duplicate uid")
			return nil
		},
	}

	_, err := newUsecase(repo).Submit(context.Background(), validInput())
	if !errors.Is(err, domain.ErrDuplicateUID) {
		t.Fatalf("want ErrDuplicateUID, got %v", err)
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || !ve.HasField("external_uid") {
		t.Fatalf("duplicate must surface as external_uid field error: %v", err)
	}
}

func TestSubmit_DuplicateFromUniqueIndex(t *testing.T) {
	repo := &submissionmock.Repo{
		CreateFn: func(context.Context, *domain.Submission) error { return gorm.ErrDuplicatedKey },
	}
	_, err := newUsecase(repo).Submit(context.Background(), validInput())
	if !errors.Is(err, domain.ErrDuplicateUID) {
		t.Fatalf("want ErrDuplicateUID, got %v", err)
	}
}

func TestSubmit_StorageErrorIsNotValidation(t *testing.T) {
	boom := errors.New("disk full")
	repo := &submissionmock.Repo{
		CreateFn: func(context.Context, *domain.Submission) error { return boom },
	}
	_, err := newUsecase(repo).Submit(context.Background(), validInput())
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped storage error, got %v", err)
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		t.Fatalf("storage errors must not look like validation errors")
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := &submissionmock.Repo{
		GetByIDFn: func(context.Context, uint64) (*domain.Submission, error) { return nil, gorm.ErrRecordNotFound },
	}
	if _, err := newUsecase(repo).Get(context.Background(), 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDelete_MapsErrors(t *testing.T) {
	repo := &submissionmock.Repo{
		DeleteFn: func(_ context.Context, id uint64) error {
			if id == 404 {
				return gorm.ErrRecordNotFound
			}
			return nil
		},
	}
	uc := newUsecase(repo)
	if err := uc.Delete(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := uc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
