// Package config loads the process-wide configuration for memorydoc.
//
// Configuration comes from environment variables, optionally seeded from a
// .env file in the working directory. It is loaded once at startup and
// passed by value into every component that needs it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvCredentialsPath = "GOOGLE_CREDENTIALS_PATH"
	EnvDocumentID      = "DOCUMENT_ID"
	EnvDataDir         = "MEMORYDOC_DATA_DIR"
	EnvLogFormat       = "MEMORYDOC_LOG_FORMAT"
	EnvVerbose         = "MEMORYDOC_VERBOSE"
	EnvActivity        = "MEMORYDOC_ACTIVITY"
)

// LogFormat selects the log handler.
type LogFormat string

const (
	LogConsole LogFormat = "console"
	LogJSON    LogFormat = "json"
)

var (
	// ErrMissingEnv is returned when a required variable is unset or blank.
	ErrMissingEnv = errors.New("required environment variable not set")

	// ErrCredentials is returned when the credential file cannot be used.
	ErrCredentials = errors.New("credentials file unusable")
)

// Config is the immutable runtime configuration.
type Config struct {
	CredentialsPath string
	DocumentID      string
	DataDir         string
	LogFormat       LogFormat
	Verbose         bool
	Activity        bool
}

// LookupFunc mirrors os.LookupEnv so tests can inject an environment.
type LookupFunc func(key string) (string, bool)

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds and validates a Config from the given lookup.
func FromLookup(lookup LookupFunc) (Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := Config{
		CredentialsPath: get(EnvCredentialsPath),
		DocumentID:      get(EnvDocumentID),
		DataDir:         get(EnvDataDir),
		LogFormat:       LogFormat(strings.ToLower(get(EnvLogFormat))),
		Verbose:         parseBool(get(EnvVerbose), false),
		Activity:        parseBool(get(EnvActivity), true),
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	if cfg.LogFormat != LogJSON {
		cfg.LogFormat = LogConsole
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required fields and that the credential file is readable.
func (c Config) Validate() error {
	if c.CredentialsPath == "" {
		return fmt.Errorf("%w: %s", ErrMissingEnv, EnvCredentialsPath)
	}
	if c.DocumentID == "" {
		return fmt.Errorf("%w: %s", ErrMissingEnv, EnvDocumentID)
	}

	info, err := os.Stat(c.CredentialsPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCredentials, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrCredentials, c.CredentialsPath)
	}
	f, err := os.Open(c.CredentialsPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCredentials, err)
	}
	return f.Close()
}

// ActivityDBPath returns where the activity ledger lives.
func (c Config) ActivityDBPath() string {
	return filepath.Join(c.DataDir, "activity.db")
}

// DefaultDataDir returns ~/.memorydoc, or a relative .memorydoc when the
// home directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".memorydoc"
	}
	return filepath.Join(home, ".memorydoc")
}

func parseBool(s string, def bool) bool {
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}
