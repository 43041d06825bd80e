package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "QUIZ"

// Config field tags name the viper key each field is loaded from; validation
// messages use the same names.
type Config struct {
	HTTPAddr    string   `key:"http_addr" validate:"required"`
	CORSOrigins []string `key:"cors_origins"`

	DBDriver string `key:"db_driver" validate:"oneof=sqlite postgres memory"`
	DBDSN    string `key:"db_dsn"`

	AuthSecret string        `key:"auth_secret" validate:"required"`
	TokenTTL   time.Duration `key:"token_ttl" validate:"gt=0"`

	DefaultQuestionCount int `key:"default_question_count" validate:"gte=1,ltefield=MaxQuestionCount"`
	MaxQuestionCount     int `key:"max_question_count" validate:"gte=1"`

	LockoutMaxFailures int           `key:"lockout_max_failures" validate:"gte=1"`
	LockoutDuration    time.Duration `key:"lockout_duration" validate:"gt=0"`
}

// Load reads configuration from defaults, an optional file and QUIZ_*
// environment variables, in increasing order of precedence.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = v.GetString("config")
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	cfg := &Config{
		HTTPAddr:             strings.TrimSpace(v.GetString("http_addr")),
		CORSOrigins:          splitList(v.GetStringSlice("cors_origins")),
		DBDriver:             strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
		DBDSN:                v.GetString("db_dsn"),
		AuthSecret:           strings.TrimSpace(v.GetString("auth_secret")),
		TokenTTL:             v.GetDuration("token_ttl"),
		DefaultQuestionCount: v.GetInt("default_question_count"),
		MaxQuestionCount:     v.GetInt("max_question_count"),
		LockoutMaxFailures:   v.GetInt("lockout_max_failures"),
		LockoutDuration:      v.GetDuration("lockout_duration"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config", "")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "quiz.db")
	v.SetDefault("auth_secret", "")
	v.SetDefault("token_ttl", 8*time.Hour)
	v.SetDefault("default_question_count", 10)
	v.SetDefault("max_question_count", 50)
	v.SetDefault("lockout_max_failures", 3)
	v.SetDefault("lockout_duration", 2*time.Minute)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("key")
	})
	return v
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return errors.New("invalid config: " + strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %q", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be positive", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", fe.Field(), keyOf(fe.Param()))
	}
	return fmt.Sprintf("%s failed the %q check", fe.Field(), fe.Tag())
}

func keyOf(fieldName string) string {
	if field, ok := reflect.TypeOf(Config{}).FieldByName(fieldName); ok {
		return field.Tag.Get("key")
	}
	return fieldName
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
