package http

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// SubmitBodyLimit caps the public submission payload.
const SubmitBodyLimit = "64K"

// Routes bundles the handlers and guards mounted on the server.
type Routes struct {
	Health      *Handler
	Submissions *SubmissionHandler
	Admin       *AdminHandler
	Exports     *ExportHandler

	RequireAdmin  echo.MiddlewareFunc
	Idempotency   echo.MiddlewareFunc
	SubmitLimiter echo.MiddlewareFunc
	LoginLimiter  echo.MiddlewareFunc
}

func (r Routes) Register(e *echo.Echo) {
	e.GET("/health", r.Health.Health)

	e.POST("/api/submissions", r.Submissions.Submit, nonNil(r.SubmitLimiter, echomw.BodyLimit(SubmitBodyLimit), r.Idempotency)...)

	e.POST("/admin/login", r.Admin.Login, nonNil(r.LoginLimiter)...)
	e.POST("/admin/logout", r.Admin.Logout)

	admin := e.Group("/admin", nonNil(r.RequireAdmin)...)
	admin.GET("/submissions", r.Admin.Search)
	admin.GET("/submissions/:id", r.Admin.Detail)
	admin.DELETE("/submissions/:id", r.Admin.Delete)
	admin.POST("/submissions/:id/delete", r.Admin.Delete)

	admin.GET("/export/submissions.csv", r.Exports.Submissions)
	admin.GET("/export/bots.csv", r.Exports.Entries)
	admin.GET("/export/flat.csv", r.Exports.Flat)
}

func nonNil(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, m := range mws {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
