// Package config reads the service configuration from the environment.
//
// Variables use the DEADLINES_ prefix and the first underscore after it
// separates the section from the key, so DEADLINES_SERVER_PORT maps to
// server.port and DEADLINES_FIRESTORE_PROJECT_ID to firestore.project_id.
// A .env file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "DEADLINES_"

const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Firestore FirestoreConfig `koanf:"firestore"`
	Postgres  PostgresConfig  `koanf:"postgres"`
	Auth      AuthConfig      `koanf:"auth"`
	Log       LogConfig       `koanf:"log"`
}

// ServerConfig timeouts are in seconds.
type ServerConfig struct {
	Port               string `koanf:"port" validate:"required,numeric"`
	ReadTimeout        int    `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout       int    `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout        int    `koanf:"idle_timeout" validate:"gt=0"`
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
}

type StoreConfig struct {
	Backend string `koanf:"backend" validate:"required,oneof=firestore postgres memory"`
}

type FirestoreConfig struct {
	ProjectID       string `koanf:"project_id"`
	CredentialsPath string `koanf:"credentials_path"`
	Collection      string `koanf:"collection" validate:"required"`
}

type PostgresConfig struct {
	DSN   string `koanf:"dsn"`
	Table string `koanf:"table" validate:"required"`
}

type AuthConfig struct {
	Required bool `koanf:"required"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Pretty bool   `koanf:"pretty"`
}

func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

func (s ServerConfig) IdleTimeoutDuration() time.Duration {
	return time.Duration(s.IdleTimeout) * time.Second
}

// AllowedOrigins splits the comma-separated CORS list. Empty means "*".
func (s ServerConfig) AllowedOrigins() []string {
	if strings.TrimSpace(s.CORSAllowedOrigins) == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(s.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  15,
			WriteTimeout: 15,
			IdleTimeout:  60,
		},
		Store:     StoreConfig{Backend: BackendFirestore},
		Firestore: FirestoreConfig{Collection: "deadlines"},
		Postgres:  PostgresConfig{Table: "deadlines"},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads .env (if any) and the process environment on top of Default.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv is Load without the .env file.
func FromEnv() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config: loading env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}
	switch c.Store.Backend {
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("config: DEADLINES_POSTGRES_DSN is required for the postgres backend")
		}
	case BackendFirestore:
		if c.Firestore.ProjectID == "" && c.Firestore.CredentialsPath == "" {
			return errors.New("config: DEADLINES_FIRESTORE_PROJECT_ID or DEADLINES_FIRESTORE_CREDENTIALS_PATH is required for the firestore backend")
		}
	}
	if c.Auth.Required && c.Store.Backend != BackendFirestore && c.Firestore.ProjectID == "" && c.Firestore.CredentialsPath == "" {
		return errors.New("config: auth requires a firebase project (DEADLINES_FIRESTORE_PROJECT_ID or DEADLINES_FIRESTORE_CREDENTIALS_PATH)")
	}
	return nil
}
