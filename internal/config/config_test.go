package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsWithSecretFromEnv(t *testing.T) {
	t.Setenv("QUIZ_AUTH_SECRET", "s3cret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.DBDriver != "sqlite" || cfg.DBDSN != "quiz.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 8*time.Hour || cfg.LockoutDuration != 2*time.Minute || cfg.LockoutMaxFailures != 3 {
		t.Fatalf("unexpected auth defaults: %+v", cfg)
	}
	if cfg.DefaultQuestionCount != 10 || cfg.MaxQuestionCount != 50 {
		t.Fatalf("unexpected question defaults: %+v", cfg)
	}
	if cfg.AuthSecret != "s3cret" {
		t.Fatalf("expected secret from env, got %q", cfg.AuthSecret)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("QUIZ_AUTH_SECRET", "s3cret")
	t.Setenv("QUIZ_DB_DRIVER", "Memory")
	t.Setenv("QUIZ_TOKEN_TTL", "30m")
	t.Setenv("QUIZ_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("QUIZ_MAX_QUESTION_COUNT", "20")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DBDriver != "memory" {
		t.Fatalf("expected memory driver, got %q", cfg.DBDriver)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %v", cfg.TokenTTL)
	}
	if cfg.MaxQuestionCount != 20 {
		t.Fatalf("expected max question count 20, got %d", cfg.MaxQuestionCount)
	}
	if strings.Join(cfg.CORSOrigins, "|") != "http://a.test|http://b.test" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.yaml")
	content := "http_addr: \":9090\"\nauth_secret: from-file\ndb_driver: postgres\ndb_dsn: postgres://db/quiz\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.AuthSecret != "from-file" || cfg.DBDriver != "postgres" || cfg.DBDSN != "postgres://db/quiz" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "auth_secret") {
		t.Fatalf("expected missing secret error, got %v", err)
	}

	t.Setenv("QUIZ_AUTH_SECRET", "s3cret")
	t.Setenv("QUIZ_DB_DRIVER", "oracle")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "db_driver") {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Config{
		HTTPAddr:             ":8080",
		DBDriver:             "sqlite",
		AuthSecret:           "s3cret",
		TokenTTL:             time.Hour,
		DefaultQuestionCount: 60,
		MaxQuestionCount:     50,
		LockoutMaxFailures:   0,
		LockoutDuration:      -time.Second,
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{
		"default_question_count must not exceed max_question_count",
		"lockout_max_failures must be at least 1",
		"lockout_duration must be positive",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %q", err.Error(), want)
		}
	}

	cfg.DefaultQuestionCount = 10
	cfg.LockoutMaxFailures = 3
	cfg.LockoutDuration = time.Minute
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
