package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	mw "subsidy-intake/internal/adapter/middleware"
	"subsidy-intake/internal/usecase/auth"
	"subsidy-intake/internal/usecase/report"
	"subsidy-intake/internal/usecase/submission"
)

type AdminHandler struct {
	auth         *auth.Usecase
	submissions  *submission.Usecase
	reports      *report.Usecase
	log          logrus.FieldLogger
	cookieSecure bool
	sessionTTL   time.Duration
}

type AdminHandlerConfig struct {
	CookieSecure bool
	SessionTTL   time.Duration
}

func NewAdminHandler(a *auth.Usecase, s *submission.Usecase, r *report.Usecase, log logrus.FieldLogger, cfg AdminHandlerConfig) *AdminHandler {
	return &AdminHandler{
		auth:         a,
		submissions:  s,
		reports:      r,
		log:          log,
		cookieSecure: cfg.CookieSecure,
		sessionTTL:   cfg.SessionTTL,
	}
}

type loginReq struct {
	Username string `json:"username" form:"username" validate:"required,notblank,max=64"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	token, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password."})
	}
	if err != nil {
		return respondError(c, h.log, err)
	}

	c.SetCookie(h.sessionCookie(token, int(h.sessionTTL/time.Second)))
	return c.JSON(http.StatusOK, map[string]string{"notice": "Logged in.", "redirect": DashboardPath})
}

func (h *AdminHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(mw.SessionCookie); err == nil {
		if err := h.auth.Logout(c.Request().Context(), ck.Value); err != nil {
			return respondError(c, h.log, err)
		}
	}
	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, map[string]string{"notice": "Logged out.", "redirect": mw.LoginPath})
}

type searchResp struct {
	Query       string                     `json:"q"`
	Count       int                        `json:"count"`
	Submissions []submission.SubmissionDTO `json:"submissions"`
}

// Search is the dashboard listing: GET /admin/submissions?q=
func (h *AdminHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	list, err := h.reports.Search(c.Request().Context(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, searchResp{Query: q, Count: len(list), Submissions: list})
}

func (h *AdminHandler) Detail(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}
	dto, err := h.submissions.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}
	if err := h.submissions.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.log, err)
	}
	h.log.WithFields(logrus.Fields{"submission_id": id, "admin_id": mw.AdminID(c)}).Info("admin deleted submission")
	return c.JSON(http.StatusOK, map[string]any{
		"deleted":  id,
		"notice":   noticeDeleted,
		"redirect": DashboardPath,
	})
}

func (h *AdminHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}
