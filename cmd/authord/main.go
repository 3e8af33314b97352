package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/mind-engage/mindengage-authoring/internal/api/http"
	auth "github.com/mind-engage/mindengage-authoring/internal/auth/middleware"
	"github.com/mind-engage/mindengage-authoring/internal/config"
	"github.com/mind-engage/mindengage-authoring/internal/content"
	"github.com/mind-engage/mindengage-authoring/internal/db"
	"github.com/mind-engage/mindengage-authoring/internal/draft"
	"github.com/mind-engage/mindengage-authoring/internal/logger"
	"github.com/mind-engage/mindengage-authoring/internal/media"
	"github.com/mind-engage/mindengage-authoring/internal/publish"
	"github.com/mind-engage/mindengage-authoring/internal/storage"
	syncx "github.com/mind-engage/mindengage-authoring/internal/sync"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	policy, err := content.ParseCorrectPolicy(cfg.CorrectPolicy)
	if err != nil {
		log.Fatal("config", "error", err)
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatal("db open failed", "driver", cfg.DBDriver, "error", err)
	}
	defer dbh.Close()

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatal("blob store", "error", err)
	}

	events := syncx.NewEventRepo(dbh)
	submitter := publish.New(publish.Config{
		Endpoint:     cfg.SubmitURL,
		TokenURL:     cfg.SubmitTokenURL,
		ClientID:     cfg.SubmitClientID,
		ClientSecret: cfg.SubmitClientSecret,
		Timeout:      cfg.SubmitTimeout,
	})
	svc := draft.NewService(draft.Options{
		Store:     draft.NewSQLStore(dbh, cfg.DBDriver),
		Editor:    content.Editor{Policy: policy},
		Images:    media.Encoder{MaxBytes: cfg.ImageMaxBytes},
		Submitter: submitter,
		Events:    events,
		Log:       log.With("component", "drafts"),
		SiteID:    cfg.SiteID,
	})

	accounts, err := cfg.Accounts()
	if err != nil {
		log.Fatal("config", "error", err)
	}
	logins := make([]auth.Account, 0, len(accounts))
	for _, a := range accounts {
		logins = append(logins, auth.Account{Username: a.Username, PassHash: a.PassHash, Role: a.Role})
	}

	handler := api.NewRouter(api.RouterConfig{
		Auth:        auth.NewAuthService(cfg.AuthHMACSecret),
		Accounts:    logins,
		CORSOrigins: cfg.CORSOrigins,
		Drafts: &api.DraftAPI{
			Service:       svc,
			Blobs:         bs,
			Events:        events,
			Log:           log.With("component", "api"),
			ImageMaxBytes: cfg.ImageMaxBytes,
		},
		Ready: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return dbh.PingContext(ctx)
		},
	})

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	}()

	log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver,
		"submit_url", submitter.Endpoint(), "correct_policy", policy.String())
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server", "error", err)
	}
}
