package http

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"subsidy-intake/internal/usecase/report"
)

type ExportHandler struct {
	uc  *report.Usecase
	log logrus.FieldLogger
}

func NewExportHandler(uc *report.Usecase, log logrus.FieldLogger) *ExportHandler {
	return &ExportHandler{uc: uc, log: log}
}

func (h *ExportHandler) Submissions(c echo.Context) error {
	return h.serve(c, "submissions.csv", h.uc.ExportSubmissions)
}

func (h *ExportHandler) Entries(c echo.Context) error {
	return h.serve(c, "subsidy_bots.csv", h.uc.ExportEntries)
}

func (h *ExportHandler) Flat(c echo.Context) error {
	return h.serve(c, "submissions_flat.csv", h.uc.ExportFlat)
}

// serve builds the table first so a storage failure still yields a JSON 500
// instead of a truncated attachment.
func (h *ExportHandler) serve(c echo.Context, filename string, build func(context.Context) (*report.Table, error)) error {
	tbl, err := build(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	res.WriteHeader(http.StatusOK)

	if err := writeCSV(res, tbl); err != nil {
		// headers are gone; all we can do is log
		h.log.WithError(err).WithField("file", filename).Error("csv write failed")
	}
	return nil
}

func writeCSV(w io.Writer, tbl *report.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(tbl.Rows); err != nil {
		return err
	}
	return cw.Error()
}
