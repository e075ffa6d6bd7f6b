// Package config provides configuration for the pipeline orchestrator.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the orchestrator configuration.
type Config struct {
	// Server settings
	HTTPPort int `yaml:"http_port"`

	// Snippet database (context search backend)
	DatabaseURL string `yaml:"database_url"`

	// Collaborator endpoints
	ScriptServiceURL string        `yaml:"script_service_url"`
	ScriptAPIKey     string        `yaml:"-"`
	VoiceServiceURL  string        `yaml:"voice_service_url"`
	VoiceAPIKey      string        `yaml:"-"`
	VoiceID          string        `yaml:"voice_id"`
	RenderServiceURL string        `yaml:"render_service_url"`
	RenderAPIKey     string        `yaml:"-"`
	NotifyURL        string        `yaml:"notify_url"`
	NotifyTimeout    time.Duration `yaml:"notify_timeout"`

	// Session store
	SessionTTL        time.Duration `yaml:"session_ttl"`
	SweepInterval     time.Duration `yaml:"sweep_interval"`
	MaxActiveSessions int           `yaml:"max_active_sessions"`

	// Polling engine
	SettleDelay      time.Duration `yaml:"settle_delay"`
	InitialPollDelay time.Duration `yaml:"initial_poll_delay"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	MaxPollAttempts  int           `yaml:"max_poll_attempts"`

	// Call-level timeout for every collaborator call, independent of the
	// polling budget so one hung call cannot stall the poll loop.
	CallTimeout time.Duration `yaml:"call_timeout"`

	// Local paths
	PresentersDir string `yaml:"presenters_dir"`
	ArtifactsDir  string `yaml:"artifacts_dir"`

	// Search
	SearchLimit int `yaml:"search_limit"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Load loads configuration from environment variables, then applies the
// optional YAML overlay named by CONFIG_FILE.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:       getEnv("DATABASE_URL", "file:reelcast.db?cache=shared&mode=rwc"),
		ScriptServiceURL:  getEnv("SCRIPT_SERVICE_URL", "http://localhost:8181"),
		ScriptAPIKey:      getEnv("SCRIPT_API_KEY", ""),
		VoiceServiceURL:   getEnv("VOICE_SERVICE_URL", "http://localhost:8182"),
		VoiceAPIKey:       getEnv("VOICE_API_KEY", ""),
		VoiceID:           getEnv("VOICE_ID", "default"),
		RenderServiceURL:  getEnv("RENDER_SERVICE_URL", "http://localhost:8183"),
		RenderAPIKey:      getEnv("RENDER_API_KEY", ""),
		NotifyURL:         getEnv("NOTIFY_URL", ""),
		NotifyTimeout:     getEnvDuration("NOTIFY_TIMEOUT_MS", 5*time.Second),
		SessionTTL:        getEnvDuration("SESSION_TTL_MS", 30*time.Minute),
		SweepInterval:     getEnvDuration("SWEEP_INTERVAL_MS", 10*time.Minute),
		MaxActiveSessions: getEnvInt("MAX_ACTIVE_SESSIONS", 5),
		SettleDelay:       getEnvDuration("SETTLE_DELAY_MS", 30*time.Second),
		InitialPollDelay:  getEnvDuration("INITIAL_POLL_DELAY_MS", 5*time.Minute),
		PollInterval:      getEnvDuration("POLL_INTERVAL_MS", 30*time.Second),
		MaxPollAttempts:   getEnvInt("MAX_POLL_ATTEMPTS", 15),
		CallTimeout:       getEnvDuration("CALL_TIMEOUT_MS", 2*time.Minute),
		PresentersDir:     getEnv("PRESENTERS_DIR", "assets/presenters"),
		ArtifactsDir:      getEnv("ARTIFACTS_DIR", "assets/artifacts"),
		SearchLimit:       getEnvInt("SEARCH_LIMIT", 3),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}
