package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"math-quiz/internal/auth"
	"math-quiz/internal/config"
	"math-quiz/internal/db"
	"math-quiz/internal/httpapi"
	"math-quiz/internal/quiz"
	"math-quiz/internal/quiz/sqlstore"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (overrides QUIZ_CONFIG)")
	addr := flag.String("addr", "", "HTTP listen address (overrides QUIZ_HTTP_ADDR)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	var (
		quizRepo quiz.Repository
		userRepo auth.UserRepository
	)
	switch cfg.DBDriver {
	case "memory":
		quizRepo = quiz.NewMemoryStore()
		userRepo = auth.NewMemoryUserStore()
		log.Printf("using in-memory storage; data is lost on exit")
	default:
		store, err := sqlstore.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatalf("open %s store: %v", cfg.DBDriver, err)
		}
		defer store.Close()
		quizRepo = store
		userRepo = store
		log.Printf("using %s storage", cfg.DBDriver)
	}

	tokens := auth.NewTokenIssuer(cfg.AuthSecret, cfg.TokenTTL)
	users := auth.NewService(userRepo, tokens, auth.Lockout{
		MaxFailures: cfg.LockoutMaxFailures,
		Duration:    cfg.LockoutDuration,
	}, logger)
	quizzes := quiz.NewService(quizRepo, quiz.OwnerPolicy{}, logger,
		quiz.WithMaxQuestionCount(cfg.MaxQuestionCount))

	api := httpapi.NewAPI(quizzes, users, logger)
	api.SetDefaultQuestionCount(cfg.DefaultQuestionCount)

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(api, tokens, httpapi.RouterOptions{
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("quiz-service listening on %s", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}
