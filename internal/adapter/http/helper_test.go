package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/crypto/bcrypt"

	domain "subsidy-intake/internal/domain/submission"
	"subsidy-intake/internal/domain/uow"
	"subsidy-intake/internal/testutil/sessionmock"
	"subsidy-intake/internal/testutil/submissionmock"
	"subsidy-intake/internal/testutil/uowmock"
	"subsidy-intake/internal/testutil/usermock"
	"subsidy-intake/internal/usecase/auth"
	"subsidy-intake/internal/usecase/report"
	"subsidy-intake/internal/usecase/submission"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func jsonReq(method, path string, body any) *stdhttp.Request {
	var req *stdhttp.Request
	if s, ok := body.(string); ok {
		req = httptest.NewRequest(method, path, strings.NewReader(s))
	} else {
		req = httptest.NewRequest(method, path, mustJSON(body))
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return er
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

type fixture struct {
	repo     *submissionmock.Repo
	users    *usermock.Repo
	sessions *sessionmock.Store
	hook     *logtest.Hook

	submit *SubmissionHandler
	admin  *AdminHandler
	export *ExportHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, hook := logtest.NewNullLogger()
	f := &fixture{
		repo:     &submissionmock.Repo{},
		users:    &usermock.Repo{},
		sessions: sessionmock.New(),
		hook:     hook,
	}
	subUC := submission.NewUsecase(f.repo, uowmock.Passthrough(uow.Repos{Submissions: f.repo, Users: f.users}), log)
	repUC := report.NewUsecase(f.repo, 0)
	authUC := auth.NewUsecase(f.users, f.sessions, time.Hour, log).WithCost(bcrypt.MinCost)

	f.submit = NewSubmissionHandler(subUC, log)
	f.admin = NewAdminHandler(authUC, subUC, repUC, log, AdminHandlerConfig{SessionTTL: time.Hour})
	f.export = NewExportHandler(repUC, log)
	return f
}

func sampleSubmission(id uint64) *domain.Submission {
	return &domain.Submission{
		ID:          id,
		ExternalUID: fmt.Sprintf("UID-%d", id),
		Level:       "S1",
		CreatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}
