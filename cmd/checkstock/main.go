package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/distributech/distributech-backend/internal/notify"
	stocksvc "github.com/distributech/distributech-backend/internal/stock"
	"github.com/distributech/distributech-backend/pkg/config"
	"github.com/distributech/distributech-backend/pkg/db"
	"github.com/distributech/distributech-backend/pkg/logger"
	"github.com/distributech/distributech-backend/pkg/mail"
	"github.com/distributech/distributech-backend/pkg/metrics"
)

// One-shot scan of the stock table. Every snapshot at or below its threshold
// gets a low stock alert, mirroring what the write path does on updates.
func main() {
	logg := logger.New(logger.Options{ServiceName: "checkstock"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "checkstock",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	smtpSender, err := mail.NewSMTPSender(cfg.SMTP)
	if err != nil {
		logg.Error(ctx, "failed to configure smtp sender", err)
		os.Exit(1)
	}
	dispatcher, err := notify.NewDispatcher(smtpSender, logg, metrics.NewMailMetrics(nil), cfg.Mail)
	if err != nil {
		logg.Error(ctx, "failed to create mail dispatcher", err)
		os.Exit(1)
	}

	repo := stocksvc.NewRepository(dbClient.DB())
	svc, err := stocksvc.NewService(repo, dispatcher, logg, cfg.Mail)
	if err != nil {
		logg.Error(ctx, "failed to create stock service", err)
		os.Exit(1)
	}

	rows, err := repo.ListBelowThreshold(ctx)
	if err != nil {
		logg.Error(ctx, "failed to scan stock levels", err)
		os.Exit(1)
	}

	var scanErr error
	var sent, failed int
	for _, row := range rows {
		rowCtx := logg.WithField(ctx, "stock_id", row.ID.String())
		ok, err := svc.Alert(rowCtx, row.ID, "")
		if err != nil {
			scanErr = multierr.Append(scanErr, err)
			failed++
			continue
		}
		if ok {
			sent++
		} else {
			failed++
		}
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"scanned": len(rows),
		"sent":    sent,
		"failed":  failed,
	})
	if scanErr != nil {
		logg.Error(ctx, "stock scan finished with errors", scanErr)
	} else {
		logg.Info(ctx, "stock scan complete")
	}

	if failed > 0 {
		os.Exit(1)
	}
}
