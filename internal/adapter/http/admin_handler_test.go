package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	mw "subsidy-intake/internal/adapter/middleware"
	domain "subsidy-intake/internal/domain/submission"
	"subsidy-intake/internal/domain/user"
)

func withAdmin(t *testing.T, f *fixture, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	f.users.GetByUsernameFn = func(_ context.Context, name string) (*user.User, error) {
		if name != "admin" {
			return nil, gorm.ErrRecordNotFound
		}
		return &user.User{ID: 1, Username: "admin", PasswordHash: string(hash)}, nil
	}
}

func sessionFrom(rec *httptest.ResponseRecorder) *stdhttp.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == mw.SessionCookie {
			return ck
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	e := newEchoWithValidator()
	f := newFixture(t)
	withAdmin(t, f, "correct-horse")

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonReq(stdhttp.MethodPost, "/admin/login", map[string]string{
		"username": "admin", "password": "correct-horse",
	}), rec)
	if err := f.admin.Login(c); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	ck := sessionFrom(rec)
	if ck == nil || ck.Value == "" || !ck.HttpOnly || ck.MaxAge != 3600 {
		t.Fatalf("session cookie = %+v", ck)
	}
	if f.sessions.Len() != 1 {
		t.Fatalf("sessions = %d", f.sessions.Len())
	}
}

func TestLogin_FormEncoded(t *testing.T) {
	e := newEchoWithValidator()
	f := newFixture(t)
	withAdmin(t, f, "correct-horse")

	form := url.Values{"username": {"admin"}, "password": {"correct-horse"}}
	req := httptest.NewRequest(stdhttp.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	if err := f.admin.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newEchoWithValidator()
	f := newFixture(t)
	withAdmin(t, f, "correct-horse")

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonReq(stdhttp.MethodPost, "/admin/login", map[string]string{
		"username": "admin", "password": "battery-staple",
	}), rec)
	if err := f.admin.Login(c); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if sessionFrom(rec) != nil || f.sessions.Len() != 0 {
		t.Fatalf("no session may be issued")
	}
}

func TestLogin_MissingFields(t *testing.T) {
	e := newEchoWithValidator()
	f := newFixture(t)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonReq(stdhttp.MethodPost, "/admin/login", map[string]string{"username": "  "}), rec)
	if err := f.admin.Login(c); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	er := decodeError(t, rec)
	if !containsFieldMsg(er.Details, "username", "required") || !containsFieldMsg(er.Details, "password", "required") {
		t.Fatalf("details = %+v", er.Details)
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	e := newEchoWithValidator()
	f := newFixture(t)
	tok, _ := f.sessions.Create(context.Background(), 1, 0)

	req := httptest.NewRequest(stdhttp.MethodPost, "/admin/logout", nil)
	req.AddCookie(&stdhttp.Cookie{Name: mw.SessionCookie, Value: tok})
	rec := httptest.NewRecorder()
	if err := f.admin.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.sessions.Len() != 0 {
		t.Fatalf("session not revoked")
	}
	if ck := sessionFrom(rec); ck == nil || ck.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", ck)
	}
}

func TestSearch_ReturnsMatches(t *testing.T) {
	e := newEchoWithValidator()
	f := newFixture(t)
	var gotQ string
	f.repo.SearchFn = func(_ context.Context, q string, _ int) ([]domain.Submission, error) {
		gotQ = q
		return []domain.Submission{*sampleSubmission(2), *sampleSubmission(1)}, nil
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(stdhttp.MethodGet, "/admin/submissions?q=+uid+", nil), rec)
	if err := f.admin.Search(c); err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got searchResp
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if gotQ != "uid" || got.Query != "uid" || got.Count != 2 || got.Submissions[0].ID != 2 {
		t.Fatalf("unexpected response: q=%q %+v", gotQ, got)
	}
}

func TestDetail(t *testing.T) {
	e := newEchoWithValidator()
	f := newFixture(t)
	f.repo.GetByIDFn = func(_ context.Context, id uint64) (*domain.Submission, error) {
		if id != 7 {
			return nil, gorm.ErrRecordNotFound
		}
		return sampleSubmission(7), nil
	}

	cases := []struct {
		id   string
		code int
	}{
		{"7", stdhttp.StatusOK},
		{"8", stdhttp.StatusNotFound},
		{"abc", stdhttp.StatusNotFound},
		{"0", stdhttp.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(stdhttp.MethodGet, "/admin/submissions/"+tc.id, nil), rec)
		c.SetPath("/admin/submissions/:id")
		c.SetParamNames("id")
		c.SetParamValues(tc.id)
		if err := f.admin.Detail(c); err != nil {
			t.Fatalf("Detail(%s) error: %v", tc.id, err)
		}
		if rec.Code != tc.code {
			t.Fatalf("Detail(%s) status = %d, want %d", tc.id, rec.Code, tc.code)
		}
		if tc.code == stdhttp.StatusNotFound {
			er := decodeError(t, rec)
			if er.Notice != noticeNotFound || er.Redirect != DashboardPath {
				t.Fatalf("Detail(%s) body = %+v", tc.id, er)
			}
		}
	}
}

func TestDelete(t *testing.T) {
	e := newEchoWithValidator()
	f := newFixture(t)
	deleted := map[uint64]bool{}
	f.repo.DeleteFn = func(_ context.Context, id uint64) error {
		if id != 3 || deleted[id] {
			return gorm.ErrRecordNotFound
		}
		deleted[id] = true
		return nil
	}

	do := func(id string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(stdhttp.MethodDelete, "/admin/submissions/"+id, nil), rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		if err := f.admin.Delete(c); err != nil {
			t.Fatalf("Delete error: %v", err)
		}
		return rec
	}

	if rec := do("3"); rec.Code != stdhttp.StatusOK {
		t.Fatalf("first delete status = %d", rec.Code)
	}
	rec := do("3")
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
	if er := decodeError(t, rec); er.Notice != noticeNotFound {
		t.Fatalf("body = %+v", er)
	}
}
