package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "subsidy-intake/internal/adapter/http"
	mw "subsidy-intake/internal/adapter/middleware"
	"subsidy-intake/internal/adapter/repository/gormrepo"
	"subsidy-intake/internal/config"
	"subsidy-intake/internal/infrastructure/cache"
	"subsidy-intake/internal/infrastructure/db"
	"subsidy-intake/internal/infrastructure/logger"
	"subsidy-intake/internal/usecase/auth"
	"subsidy-intake/internal/usecase/report"
	"subsidy-intake/internal/usecase/submission"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	if cfg.DBDriver == db.DriverSQLite {
		if err := db.PrepareSQLite(cfg.SQLitePath); err != nil {
			log.WithError(err).Fatal("prepare sqlite dir")
		}
	}
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), log)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	if err := db.Migrate(gdb); err != nil {
		log.WithError(err).Fatal("migrate")
	}
	sqlDB, _ := gdb.DB()
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("open redis")
	}
	defer rdb.Close()

	// wiring
	subRepo := gormrepo.NewSubmissionRepository(gdb)
	userRepo := gormrepo.NewUserRepository(gdb)
	sessionTTL := time.Duration(cfg.SessionTTLSecs) * time.Second

	subUC := submission.NewUsecase(subRepo, gormrepo.NewGormUoW(gdb), log)
	repUC := report.NewUsecase(subRepo, cfg.SearchLimit)
	authUC := auth.NewUsecase(userRepo, cache.NewSessionStore(rdb), sessionTTL, log)

	proxies, err := cfg.ProxyNets()
	if err != nil {
		log.WithError(err).Fatal("trusted proxies")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = mw.ClientIP(proxies)
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.RequestID(), mw.RequestLogger(log), middleware.Recover())

	httpadp.Routes{
		Health: httpadp.NewHandler(map[string]httpadp.Pinger{
			"db":    sqlDB.PingContext,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Submissions: httpadp.NewSubmissionHandler(subUC, log),
		Admin: httpadp.NewAdminHandler(authUC, subUC, repUC, log, httpadp.AdminHandlerConfig{
			CookieSecure: cfg.CookieSecure,
			SessionTTL:   sessionTTL,
		}),
		Exports:       httpadp.NewExportHandler(repUC, log),
		RequireAdmin:  mw.RequireAdmin(authUC, log),
		Idempotency:   mw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log),
		SubmitLimiter: mw.RateLimit(cfg.SubmitRatePerSec, cfg.SubmitBurst),
		LoginLimiter:  mw.RateLimit(cfg.LoginRatePerSec, cfg.LoginBurst),
	}.Register(e)

	addr := ":" + cfg.AppPort
	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	log.Info("bye")
}
