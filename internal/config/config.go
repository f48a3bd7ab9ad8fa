// Package config loads service configuration from the environment with an
// optional YAML file overlay.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderBedrock   Provider = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// Call provider (Gong-style conversation intelligence API)
	CallAPIBaseURL string
	CallAPIKey     string
	CallAPISecret  string

	// Salesforce (optional; CRM features degrade when unset)
	SalesforceInstanceURL string
	SalesforceAccessToken string
	SalesforceAPIVersion  string

	// LLM
	LLMProvider     Provider
	LLMModel        string
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	BedrockRegion   string
	MaxAnswerTokens int

	// Server
	ServerPort      string
	UpstreamTimeout time.Duration

	// Async jobs
	JobTTL            time.Duration
	JobSweepInterval  time.Duration
	MaxConcurrentJobs int

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables. If CALLSEARCH_CONFIG
// points at a YAML file, its values override the environment.
func Load() (Config, error) {
	cfg := Config{
		CallAPIBaseURL: getEnv("CALL_API_BASE_URL", "https://api.gong.io"),
		CallAPIKey:     getEnv("CALL_API_KEY", ""),
		CallAPISecret:  getEnv("CALL_API_SECRET", ""),

		SalesforceInstanceURL: getEnv("SALESFORCE_INSTANCE_URL", ""),
		SalesforceAccessToken: getEnv("SALESFORCE_ACCESS_TOKEN", ""),
		SalesforceAPIVersion:  getEnv("SALESFORCE_API_VERSION", "v59.0"),

		LLMProvider:     Provider(getEnv("CALLSEARCH_LLM_PROVIDER", string(ProviderAnthropic))),
		LLMModel:        getEnv("CALLSEARCH_LLM_MODEL", "claude-sonnet-4-5"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		BedrockRegion:   getEnv("AWS_REGION", "us-east-1"),
		MaxAnswerTokens: getEnvInt("CALLSEARCH_MAX_ANSWER_TOKENS", 2048),

		ServerPort:      getEnv("CALLSEARCH_SERVER_PORT", "8484"),
		UpstreamTimeout: getEnvDuration("CALLSEARCH_UPSTREAM_TIMEOUT", 60*time.Second),

		JobTTL:            getEnvDuration("CALLSEARCH_JOB_TTL", 30*time.Minute),
		JobSweepInterval:  getEnvDuration("CALLSEARCH_JOB_SWEEP_INTERVAL", time.Minute),
		MaxConcurrentJobs: getEnvInt("CALLSEARCH_MAX_CONCURRENT_JOBS", 4),

		LogFile:  getEnv("CALLSEARCH_LOG_FILE", "/tmp/callsearch.log"),
		LogLevel: parseLogLevel(getEnv("CALLSEARCH_LOG_LEVEL", "INFO")),
	}

	if path := os.Getenv("CALLSEARCH_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, fmt.Errorf("apply config file %s: %w", path, err)
		}
	}

	return cfg, nil
}

// fileConfig is the YAML overlay shape. Pointer fields so absent keys leave
// the environment-derived value untouched.
type fileConfig struct {
	CallAPIBaseURL        *string `yaml:"call_api_base_url"`
	SalesforceInstanceURL *string `yaml:"salesforce_instance_url"`
	SalesforceAPIVersion  *string `yaml:"salesforce_api_version"`
	LLMProvider           *string `yaml:"llm_provider"`
	LLMModel              *string `yaml:"llm_model"`
	MaxAnswerTokens       *int    `yaml:"max_answer_tokens"`
	ServerPort            *string `yaml:"server_port"`
	UpstreamTimeoutSec    *int    `yaml:"upstream_timeout_sec"`
	JobTTLMin             *int    `yaml:"job_ttl_min"`
	MaxConcurrentJobs     *int    `yaml:"max_concurrent_jobs"`
	LogFile               *string `yaml:"log_file"`
	LogLevel              *string `yaml:"log_level"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	if fc.CallAPIBaseURL != nil {
		cfg.CallAPIBaseURL = *fc.CallAPIBaseURL
	}
	if fc.SalesforceInstanceURL != nil {
		cfg.SalesforceInstanceURL = *fc.SalesforceInstanceURL
	}
	if fc.SalesforceAPIVersion != nil {
		cfg.SalesforceAPIVersion = *fc.SalesforceAPIVersion
	}
	if fc.LLMProvider != nil {
		cfg.LLMProvider = Provider(*fc.LLMProvider)
	}
	if fc.LLMModel != nil {
		cfg.LLMModel = *fc.LLMModel
	}
	if fc.MaxAnswerTokens != nil {
		cfg.MaxAnswerTokens = *fc.MaxAnswerTokens
	}
	if fc.ServerPort != nil {
		cfg.ServerPort = *fc.ServerPort
	}
	if fc.UpstreamTimeoutSec != nil {
		cfg.UpstreamTimeout = time.Duration(*fc.UpstreamTimeoutSec) * time.Second
	}
	if fc.JobTTLMin != nil {
		cfg.JobTTL = time.Duration(*fc.JobTTLMin) * time.Minute
	}
	if fc.MaxConcurrentJobs != nil {
		cfg.MaxConcurrentJobs = *fc.MaxConcurrentJobs
	}
	if fc.LogFile != nil {
		cfg.LogFile = *fc.LogFile
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = parseLogLevel(*fc.LogLevel)
	}

	return nil
}

// HasSalesforce reports whether a CRM client can be constructed.
// CRM-dependent filters and context fetching are skipped when false.
func (c Config) HasSalesforce() bool {
	return c.SalesforceInstanceURL != "" && c.SalesforceAccessToken != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
