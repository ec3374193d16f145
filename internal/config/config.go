// Package config loads server settings from defaults, an optional YAML file,
// a .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr       string        `yaml:"addr"`
	APIBaseURL string        `yaml:"api_base_url"`
	APITimeout time.Duration `yaml:"api_timeout"`
	LogLevel   string        `yaml:"log_level"`

	// SessionTTL is how long an idle workspace survives. Zero keeps
	// workspaces until shutdown.
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`

	FetchDelay      time.Duration `yaml:"fetch_delay"`
	GrowDelay       time.Duration `yaml:"grow_delay"`
	ProcessingDelay time.Duration `yaml:"processing_delay"`

	CORSOrigins string `yaml:"cors_origins"`
}

func Default() Config {
	return Config{
		Addr:            ":8080",
		APIBaseURL:      "http://localhost:5000/api",
		APITimeout:      10 * time.Second,
		LogLevel:        "info",
		SessionTTL:      2 * time.Hour,
		SweepInterval:   time.Minute,
		FetchDelay:      400 * time.Millisecond,
		GrowDelay:       400 * time.Millisecond,
		ProcessingDelay: 2 * time.Second,
		CORSOrigins:     "*",
	}
}

// Load reads the configuration. envFiles default to ".env"; a missing file is
// not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	dotenv := map[string]string{}
	for _, f := range envFiles {
		vals, err := godotenv.Read(f)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range vals {
			if _, ok := dotenv[k]; !ok {
				dotenv[k] = v
			}
		}
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}

	cfg := Default()
	if path := lookup("LEYUM_CONFIG"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) string) error {
	strs := map[string]*string{
		"LEYUM_ADDR":         &c.Addr,
		"LEYUM_API_BASE_URL": &c.APIBaseURL,
		"LEYUM_LOG_LEVEL":    &c.LogLevel,
		"LEYUM_CORS_ORIGINS": &c.CORSOrigins,
	}
	for key, dst := range strs {
		if v := lookup(key); v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"LEYUM_API_TIMEOUT":      &c.APITimeout,
		"LEYUM_SESSION_TTL":      &c.SessionTTL,
		"LEYUM_SWEEP_INTERVAL":   &c.SweepInterval,
		"LEYUM_FETCH_DELAY":      &c.FetchDelay,
		"LEYUM_GROW_DELAY":       &c.GrowDelay,
		"LEYUM_PROCESSING_DELAY": &c.ProcessingDelay,
	}
	for key, dst := range durations {
		v := lookup(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api base url %q must be an absolute http(s) url", c.APIBaseURL))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	for name, d := range map[string]time.Duration{
		"api timeout":      c.APITimeout,
		"session ttl":      c.SessionTTL,
		"fetch delay":      c.FetchDelay,
		"grow delay":       c.GrowDelay,
		"processing delay": c.ProcessingDelay,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s is negative", name))
		}
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, errors.New("sweep interval must be positive"))
	}
	return errors.Join(errs...)
}
