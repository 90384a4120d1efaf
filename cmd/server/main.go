package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/maximahome/garage/internal/config"
	"github.com/maximahome/garage/internal/repository/localstore"
	"github.com/maximahome/garage/internal/repository/mongodb"
	"github.com/maximahome/garage/internal/repository/sheets"
	"github.com/maximahome/garage/internal/scheduler"
	"github.com/maximahome/garage/internal/server/handlers"
	"github.com/maximahome/garage/internal/server/router"
	admissionsvc "github.com/maximahome/garage/internal/service/admissions"
	bookingsvc "github.com/maximahome/garage/internal/service/bookings"
	contentsvc "github.com/maximahome/garage/internal/service/content"
	invoicesvc "github.com/maximahome/garage/internal/service/invoices"
	reportingsvc "github.com/maximahome/garage/internal/service/reporting"
	"github.com/maximahome/garage/internal/store"
	"github.com/maximahome/garage/pkg/clients/sms"
	"github.com/maximahome/garage/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	local, err := localstore.New(cfg.Local.DataDir, baseLogger.Named("repo.localstore"))
	if err != nil {
		baseLogger.Fatal("failed to open local store", zap.Error(err))
	}

	// The remote store connects in the background. The gate resolves exactly
	// once, with either the connected repository or the connection error, and
	// the shim's first operation awaits that resolution.
	var gate *store.ReadyGate
	if !cfg.LocalOnly() {
		gate = store.NewReadyGate()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			repo, err := mongodb.New(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
			if err != nil {
				baseLogger.Error("remote store connection failed", zap.Error(err))
				gate.Resolve(nil, err)
				return
			}
			gate.Resolve(repo, nil)
			baseLogger.Info("remote store connected", zap.String("db", cfg.MongoDB.DBName))
		}()
	} else {
		baseLogger.Info("MONGODB_URI not set, serving from local data directory",
			zap.String("dir", cfg.Local.DataDir))
	}

	shim := store.New(gate, local, baseLogger.Named("store"))

	var smsClient sms.Client
	if cfg.SMS.APIKey != "" {
		smsClient = sms.NewClient(sms.Config{
			BaseURL: cfg.SMS.BaseURL,
			APIKey:  cfg.SMS.APIKey,
			Sender:  cfg.SMS.Sender,
		})
		baseLogger.Info("sms gateway enabled")
	}

	admissionSvc := admissionsvc.NewService(shim, baseLogger.Named("svc.admissions"))
	invoiceSvc := invoicesvc.NewService(shim, admissionSvc, baseLogger.Named("svc.invoices"))
	bookingSvc := bookingsvc.NewService(shim, smsClient, baseLogger.Named("svc.bookings"))
	contentSvc := contentsvc.NewService(shim, baseLogger.Named("svc.content"))

	// Sample bookings exist for fresh local installs only; a configured
	// remote store is never seeded with demo data.
	if cfg.LocalOnly() {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := bookingSvc.SeedSamples(seedCtx); err != nil {
			baseLogger.Warn("failed to seed sample bookings", zap.Error(err))
		}
		seedCancel()
	}

	var sheetsRepo sheets.Repository
	if cfg.SheetsEnabled() {
		sheetsRepo, err = sheets.New(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	}
	reportingSvc := reportingsvc.NewService(admissionSvc, invoiceSvc, bookingSvc, sheetsRepo, baseLogger.Named("svc.reporting"))

	authHandler, err := handlers.NewAuthHandler(cfg.Auth, baseLogger.Named("handlers.auth"))
	if err != nil {
		baseLogger.Fatal("failed to init auth", zap.Error(err))
	}

	engine := router.New(router.Handlers{
		Auth:       authHandler,
		Admissions: handlers.NewAdmissionHandler(admissionSvc, invoiceSvc, baseLogger.Named("handlers.admissions")),
		Invoices:   handlers.NewInvoiceHandler(invoiceSvc, baseLogger.Named("handlers.invoices")),
		Bookings:   handlers.NewBookingHandler(bookingSvc, baseLogger.Named("handlers.bookings")),
		Content:    handlers.NewContentHandler(contentSvc, baseLogger.Named("handlers.content")),
		Stats:      handlers.NewStatsHandler(admissionSvc, invoiceSvc, reportingSvc, baseLogger.Named("handlers.stats")),
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}

	if gate != nil {
		if remote, err := gate.Await(shutdownCtx); err == nil && remote != nil {
			if repo, ok := remote.(*mongodb.Repository); ok {
				if err := repo.Close(shutdownCtx); err != nil {
					baseLogger.Error("failed to close mongodb connection", zap.Error(err))
				}
			}
		}
	}
}
