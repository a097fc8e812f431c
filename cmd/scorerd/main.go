package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auth "github.com/mind-engage/mindengage-scorer/internal/auth/middleware"
	"github.com/mind-engage/mindengage-scorer/internal/config"
	"github.com/mind-engage/mindengage-scorer/internal/db"
	"github.com/mind-engage/mindengage-scorer/internal/evaluation"
	"github.com/mind-engage/mindengage-scorer/internal/grading"
	"github.com/mind-engage/mindengage-scorer/internal/nlp"
	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

func main() {
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Scoring policy ---
	policy, err := config.NewPolicyHolder(cfg.PolicyFile, cfg.Composer)
	if err != nil {
		log.Fatalf("scoring policy: %v", err)
	}
	if cfg.WatchPolicy && cfg.PolicyFile != "" {
		if err := policy.Watch(ctx); err != nil {
			log.Printf("policy watch disabled: %v", err)
		}
	}

	// --- NLP capabilities (resolved once) ---
	caps, closeCaps, err := nlp.Build(cfg)
	if err != nil {
		log.Fatalf("nlp capabilities: %v", err)
	}
	defer closeCaps()

	ev, err := scoring.NewEvaluator(caps, policy)
	if err != nil {
		log.Fatalf("evaluator: %v", err)
	}

	deps := serverDeps{
		cfg:       cfg,
		evaluator: ev,
		grader:    grading.NewDefaultGrader(grading.WithEvaluator(ev)),
		policy:    policy,
	}

	// --- History DB ---
	if cfg.EnableHistory {
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		cancel()
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		defer dbh.Close()
		deps.store = evaluation.NewSQLStore(dbh)
		deps.events = evaluation.NewEventRepo(dbh)
	}

	// --- Auth (local JWT) ---
	if cfg.EnableAuth {
		deps.auth = auth.NewAuthService(cfg.AuthHMACSecret)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s (mode=%s, history=%t, auth=%t, composer=%s)",
		cfg.HTTPAddr, cfg.Mode, cfg.EnableHistory, cfg.EnableAuth, policy.Current().Composer)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
