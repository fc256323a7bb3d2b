package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"subsidy-intake/internal/domain/submission"
)

const (
	DashboardPath = "/admin/submissions"

	noticeNotFound = "Submission not found."
	noticeDeleted  = "Submission deleted."
	noticeCreated  = "Submission received."
)

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{
		Error:    "not found",
		Notice:   noticeNotFound,
		Redirect: DashboardPath,
	})
}

// respondError maps usecase errors onto the JSON error envelope. Anything it
// does not recognise is logged and reported as a 500 without detail.
func respondError(c echo.Context, log logrus.FieldLogger, err error) error {
	var ve *submission.ValidationError
	switch {
	case errors.As(err, &ve):
		msg := "validation failed"
		if errors.Is(err, submission.ErrDuplicateUID) {
			msg = "duplicate uid"
		}
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:      msg,
			Details:    ve.Fields,
			FormErrors: ve.Form,
		})
	case errors.Is(err, submission.ErrNotFound):
		return notFound(c)
	}

	log.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Path(),
	}).Error("request failed")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
