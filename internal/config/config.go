// Package config holds all voxpilot configuration. Settings are loaded once
// at startup from a YAML file, credentials may be overridden from the
// environment, and the resulting Config is read-only for the rest of the
// process lifetime.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingCredential marks a required API credential that is absent after
// file load and env overrides. It is fatal at startup.
var ErrMissingCredential = errors.New("missing credential")

// Config holds all voxpilot configuration.
type Config struct {
	// Identity of the assistant and its user
	Identity IdentityConfig `yaml:"identity"`

	// External API credentials
	APIKeys APIKeysConfig `yaml:"api_keys"`

	// LLM completion parameters
	LLM LLMConfig `yaml:"llm"`

	// Research pipeline / scraping parameters
	Scraping ScrapingConfig `yaml:"scraping"`

	// Speech input parameters
	Speech SpeechConfig `yaml:"speech"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// IdentityConfig names the assistant, its user, and where notes live.
type IdentityConfig struct {
	AssistantName string `yaml:"assistant_name"`
	UserName      string `yaml:"user_name"`
	UserHobby     string `yaml:"user_hobby"`
	DeveloperName string `yaml:"developer_name"`
	NotesFile     string `yaml:"notes_file"`
}

// APIKeysConfig holds external service credentials.
type APIKeysConfig struct {
	Groq           string `yaml:"groq"`
	OpenWeatherMap string `yaml:"openweathermap"`
}

// LLMConfig configures the chat-completion client.
type LLMConfig struct {
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	BaseURL     string  `yaml:"base_url"`
	Timeout     string  `yaml:"timeout"`
}

// ScrapingConfig configures the research pipeline.
type ScrapingConfig struct {
	MaxChars          int    `yaml:"max_chars"`
	NavigationTimeout string `yaml:"navigation_timeout"`
	SearchTimeout     string `yaml:"search_timeout"`
	Headless          bool   `yaml:"headless"`
}

// SpeechConfig configures the listening front-end.
type SpeechConfig struct {
	ListenTimeout   string  `yaml:"listen_timeout"`
	PhraseLimit     string  `yaml:"phrase_limit"`
	PauseThreshold  float64 `yaml:"pause_threshold"`
	TTSBinary       string  `yaml:"tts_binary"`
	DisablePlayback bool    `yaml:"disable_playback"`
}

// LoggingConfig configures zap and the session event log.
type LoggingConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error
	File       string `yaml:"file"`  // application log, empty = stderr only
	SessionLog string `yaml:"session_log"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Identity: IdentityConfig{
			AssistantName: "Voxpilot",
			UserName:      "User",
			UserHobby:     "exploring",
			DeveloperName: "Developer",
			NotesFile:     "notes.txt",
		},
		LLM: LLMConfig{
			Model:       "llama3-8b-8192",
			MaxTokens:   200,
			Temperature: 0.7,
			BaseURL:     "https://api.groq.com/openai/v1",
			Timeout:     "60s",
		},
		Scraping: ScrapingConfig{
			MaxChars:          6000,
			NavigationTimeout: "15s",
			SearchTimeout:     "15s",
			Headless:          true,
		},
		Speech: SpeechConfig{
			ListenTimeout:  "5s",
			PhraseLimit:    "10s",
			PauseThreshold: 0.8,
		},
		Logging: LoggingConfig{
			Level:      "info",
			SessionLog: "session.log",
		},
	}
}

// Load reads YAML from path over the defaults, applies env overrides, and
// validates. A missing file is not an error when allowMissing is set; the
// defaults plus env are used instead.
func Load(path string, allowMissing bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			cfg.applyEnvOverrides()
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, cfg.Validate()
}

// Env override names for credentials. Env wins over the file so keys can stay
// out of checked-in configs.
const (
	EnvGroqKey    = "VOXPILOT_GROQ_API_KEY"
	EnvWeatherKey = "VOXPILOT_OPENWEATHER_API_KEY"
)

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvGroqKey); v != "" {
		c.APIKeys.Groq = v
	}
	if v := os.Getenv(EnvWeatherKey); v != "" {
		c.APIKeys.OpenWeatherMap = v
	}
}

// Validate reports startup-fatal configuration problems. The Groq key is
// required: without it neither the fallback handler nor summarization can
// work. The weather key is optional; its absence only disables that handler.
func (c *Config) Validate() error {
	if c.APIKeys.Groq == "" {
		return fmt.Errorf("%w: Groq API key (set api_keys.groq or %s)", ErrMissingCredential, EnvGroqKey)
	}
	if c.Identity.NotesFile == "" {
		return errors.New("identity.notes_file must not be empty")
	}
	if c.Scraping.MaxChars <= 0 {
		return fmt.Errorf("scraping.max_chars must be positive, got %d", c.Scraping.MaxChars)
	}
	return nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// LLMTimeout returns the completion request timeout.
func (c *Config) LLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 60*time.Second)
}

// NavigationTimeout returns the browser navigation budget.
func (c *Config) NavigationTimeout() time.Duration {
	return parseDuration(c.Scraping.NavigationTimeout, 15*time.Second)
}

// SearchTimeout returns the search stage budget.
func (c *Config) SearchTimeout() time.Duration {
	return parseDuration(c.Scraping.SearchTimeout, 15*time.Second)
}

// ListenTimeout returns how long one listening cycle may block.
func (c *Config) ListenTimeout() time.Duration {
	return parseDuration(c.Speech.ListenTimeout, 5*time.Second)
}
