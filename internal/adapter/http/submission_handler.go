package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"subsidy-intake/internal/usecase/submission"
)

type SubmissionHandler struct {
	uc  *submission.Usecase
	log logrus.FieldLogger
}

func NewSubmissionHandler(uc *submission.Usecase, log logrus.FieldLogger) *SubmissionHandler {
	return &SubmissionHandler{uc: uc, log: log}
}

type submitResp struct {
	ID     uint64 `json:"id"`
	Notice string `json:"notice"`
}

// Submit is the public intake endpoint.
func (h *SubmissionHandler) Submit(c echo.Context) error {
	var req submission.SubmitInput
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	dto, err := h.uc.Submit(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, submitResp{ID: dto.ID, Notice: noticeCreated})
}
