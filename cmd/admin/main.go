package main

import (
	"context"
	"os"
	"time"

	"subsidy-intake/internal/adapter/cli"
	"subsidy-intake/internal/adapter/repository/gormrepo"
	"subsidy-intake/internal/config"
	"subsidy-intake/internal/infrastructure/db"
	"subsidy-intake/internal/infrastructure/logger"
	"subsidy-intake/internal/usecase/auth"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	factory := func() (*cli.Deps, func(), error) {
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
		if cfg.DBDriver == db.DriverSQLite {
			if err := db.PrepareSQLite(cfg.SQLitePath); err != nil {
				return nil, nil, err
			}
		}
		gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), log)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, _ := gdb.DB()

		// account commands never touch sessions
		accounts := auth.NewUsecase(gormrepo.NewUserRepository(gdb), nil, time.Duration(cfg.SessionTTLSecs)*time.Second, log)
		return &cli.Deps{
			Migrate:      func(context.Context) error { return db.Migrate(gdb) },
			Accounts:     accounts,
			ReadPassword: cli.TerminalPasswordReader(os.Stdin, os.Stderr),
		}, func() { _ = sqlDB.Close() }, nil
	}

	if err := cli.NewRootCmd(factory).ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Error("admin command failed")
		os.Exit(1)
	}
}
