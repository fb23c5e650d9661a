// Package config loads goalplan settings from a YAML file, an optional .env
// file and GOALPLAN_* environment variables, in that order of precedence
// (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alexanderramin/goalplan/internal/dedupe"
	"github.com/alexanderramin/goalplan/internal/interview"
	"github.com/alexanderramin/goalplan/internal/planclient"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "GOALPLAN_"

type Config struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	DBPath   string `yaml:"db_path"`
	Timezone string `yaml:"timezone"`

	Interview   InterviewConfig   `yaml:"interview"`
	Dedupe      DedupeConfig      `yaml:"dedupe"`
	PlanService PlanServiceConfig `yaml:"plan_service"`
}

type InterviewConfig struct {
	MaxSessionMinutes int `yaml:"max_session_minutes"`
}

type DedupeConfig struct {
	Window     time.Duration `yaml:"window"`
	MaxEntries int           `yaml:"max_entries"`
}

// PlanServiceConfig points at the remote plan-creation service. An empty
// endpoint keeps plans in the local store.
type PlanServiceConfig struct {
	Endpoint   string `yaml:"endpoint"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	MaxRetries int    `yaml:"max_retries"`
}

// Default returns the built-in configuration.
func Default() *Config {
	pc := planclient.DefaultConfig()
	return &Config{
		Env:      "development",
		LogLevel: "warn",
		DBPath:   defaultDBPath(),
		Interview: InterviewConfig{
			MaxSessionMinutes: interview.DefaultMaxSessionMinutes,
		},
		Dedupe: DedupeConfig{
			Window:     dedupe.DefaultWindow,
			MaxEntries: dedupe.DefaultMaxEntries,
		},
		PlanService: PlanServiceConfig{
			Endpoint:   pc.Endpoint,
			TimeoutMs:  pc.TimeoutMs,
			MaxRetries: pc.MaxRetries,
		},
	}
}

// DefaultPath is ~/.goalplan/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "goalplan.yaml"
	}
	return filepath.Join(home, ".goalplan", "config.yaml")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "goalplan.db"
	}
	return filepath.Join(home, ".goalplan", "goalplan.db")
}

// Load reads path (a missing file means defaults), loads .env from the
// working directory if present, applies environment overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	// .env is optional; real environment variables still win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(envPrefix + "ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(envPrefix + "DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(envPrefix + "TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(envPrefix + "PLAN_ENDPOINT"); v != "" {
		c.PlanService.Endpoint = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"MAX_SESSION_MINUTES", &c.Interview.MaxSessionMinutes},
		{"DEDUPE_MAX_ENTRIES", &c.Dedupe.MaxEntries},
		{"PLAN_TIMEOUT_MS", &c.PlanService.TimeoutMs},
		{"PLAN_MAX_RETRIES", &c.PlanService.MaxRetries},
	}
	for _, in := range ints {
		v := os.Getenv(envPrefix + in.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, in.name, err)
		}
		*in.dst = n
	}

	if v := os.Getenv(envPrefix + "DEDUPE_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sDEDUPE_WINDOW: %w", envPrefix, err)
		}
		c.Dedupe.Window = d
	}
	return nil
}

// Validate checks ranges and that the timezone, if set, is known.
func (c *Config) Validate() error {
	if c.Interview.MaxSessionMinutes <= 0 {
		return fmt.Errorf("interview.max_session_minutes must be positive, got %d", c.Interview.MaxSessionMinutes)
	}
	if c.Dedupe.Window <= 0 {
		return fmt.Errorf("dedupe.window must be positive, got %s", c.Dedupe.Window)
	}
	if c.Dedupe.MaxEntries <= 0 {
		return fmt.Errorf("dedupe.max_entries must be positive, got %d", c.Dedupe.MaxEntries)
	}
	if c.PlanService.MaxRetries < 0 {
		return fmt.Errorf("plan_service.max_retries must not be negative, got %d", c.PlanService.MaxRetries)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; empty means the system local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// PlanClient converts the plan service settings for planclient.
func (c *Config) PlanClient() planclient.Config {
	return planclient.Config{
		Endpoint:   c.PlanService.Endpoint,
		TimeoutMs:  c.PlanService.TimeoutMs,
		MaxRetries: c.PlanService.MaxRetries,
	}
}
