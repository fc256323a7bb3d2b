package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestRequestLogger_LevelsByStatus(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	e := echo.New()
	e.Use(RequestLogger(log))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/missing", func(c echo.Context) error { return c.NoContent(http.StatusNotFound) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError, "boom") })

	cases := []struct {
		path  string
		level logrus.Level
		code  int
	}{
		{"/ok", logrus.InfoLevel, 200},
		{"/missing", logrus.WarnLevel, 404},
		{"/boom", logrus.ErrorLevel, 500},
	}
	for _, tc := range cases {
		hook.Reset()
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

		entry := hook.LastEntry()
		if entry == nil {
			t.Fatalf("%s: no log entry", tc.path)
		}
		if entry.Level != tc.level {
			t.Fatalf("%s: level = %v, want %v", tc.path, entry.Level, tc.level)
		}
		if entry.Data["path"] != tc.path || entry.Data["status"] != tc.code {
			t.Fatalf("%s: fields = %+v", tc.path, entry.Data)
		}
	}
}
