package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Provider default models.
var defaultModels = map[string]string{
	"openai":    "gpt-4.1-mini",
	"anthropic": "claude-3-5-haiku-latest",
	"ollama":    "llama3.1:latest",
	"gemini":    "gemini-2.0-flash-001",
}

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	return defaultModels[strings.ToLower(provider)]
}

type Config struct {
	DataDir  string `json:"data_dir"`
	LogLevel string `json:"log_level"`
	LLM      struct {
		Provider       string `json:"provider"`
		BaseURL        string `json:"base_url"`
		APIKey         string `json:"api_key" secret:"true"`
		Model          string `json:"model"`
		MaxTokens      int    `json:"max_tokens"`
		TimeoutSeconds int    `json:"timeout_seconds"`
	} `json:"llm"`
	HTTP struct {
		Addr string `json:"addr"`
	} `json:"http"`
	Auth struct {
		JWTSecret     string `json:"jwt_secret" secret:"true"`
		TokenTTLHours int    `json:"token_ttl_hours"`
	} `json:"auth"`
	Storage struct {
		Driver     string `json:"driver"`
		SQLitePath string `json:"sqlite_path"`
	} `json:"storage"`
	Sessions struct {
		TTLHours      int    `json:"ttl_hours"`
		SweepSchedule string `json:"sweep_schedule"`
	} `json:"sessions"`
	Tools struct {
		ExtraFile string `json:"extra_file"`
	} `json:"tools"`
	Telegram struct {
		Token string `json:"token" secret:"true"`
	} `json:"telegram"`
}

// environment holds the variables that override the config file.
type environment struct {
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	AnthropicKey  string `env:"ANTHROPIC_API_KEY"`
	GeminiKey     string `env:"GEMINI_API_KEY"`
	OllamaHost    string `env:"OLLAMA_HOST"`
	Provider      string `env:"NEXTGEN_LLM_PROVIDER"`
	JWTSecret     string `env:"NEXTGEN_JWT_SECRET"`
	TelegramToken string `env:"TELEGRAM_BOT_TOKEN"`
	Port          string `env:"PORT"`
}

// Defaults returns the configuration written on first run.
func Defaults() *Config {
	cfg := &Config{
		DataDir:  filepath.Join(os.Getenv("HOME"), ".nextgen"),
		LogLevel: "info",
	}
	cfg.LLM.Provider = "openai"
	cfg.LLM.MaxTokens = 1024
	cfg.LLM.TimeoutSeconds = 15
	cfg.HTTP.Addr = ":8080"
	cfg.Auth.TokenTTLHours = 24
	cfg.Storage.Driver = "file"
	cfg.Sessions.TTLHours = 72
	cfg.Sessions.SweepSchedule = "@every 10m"
	return cfg
}

// Load reads the config at path, writing defaults if the file does not
// exist, then applies .env and environment overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env"), ".env"); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultModel(cfg.LLM.Provider)
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = filepath.Join(cfg.DataDir, "nextgen.db")
	}
	return cfg, nil
}

// loadDotEnv loads each existing .env file. Variables already set in the
// process environment win.
func loadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var e environment
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	if e.Provider != "" {
		if !strings.EqualFold(e.Provider, cfg.LLM.Provider) {
			cfg.LLM.Model = ""
			cfg.LLM.BaseURL = ""
			cfg.LLM.APIKey = ""
		}
		cfg.LLM.Provider = strings.ToLower(e.Provider)
	}

	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		if e.OpenAIKey != "" {
			cfg.LLM.APIKey = e.OpenAIKey
		}
		if e.OpenAIModel != "" {
			cfg.LLM.Model = e.OpenAIModel
		}
		if e.OpenAIBaseURL != "" {
			cfg.LLM.BaseURL = e.OpenAIBaseURL
		}
	case "anthropic":
		if e.AnthropicKey != "" {
			cfg.LLM.APIKey = e.AnthropicKey
		}
	case "gemini":
		if e.GeminiKey != "" {
			cfg.LLM.APIKey = e.GeminiKey
		}
	case "ollama":
		if e.OllamaHost != "" {
			cfg.LLM.BaseURL = e.OllamaHost
		}
	}

	if e.JWTSecret != "" {
		cfg.Auth.JWTSecret = e.JWTSecret
	}
	if e.TelegramToken != "" {
		cfg.Telegram.Token = e.TelegramToken
	}
	if e.Port != "" {
		cfg.HTTP.Addr = ":" + strings.TrimPrefix(e.Port, ":")
	}
	return nil
}

// Save writes cfg to path atomically.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return writeRaw(path, data)
}

func writeRaw(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// ToMap converts cfg into a nested map keyed by JSON field names.
func ToMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return m, nil
}

// Entry is a config key with its value.
type Entry struct {
	Key
	Value any
}

// String renders the entry as "name = value" with secrets masked.
func (e Entry) String() string {
	return e.Name + " = " + e.Display(e.Value)
}

// Entries returns every key of cfg with its value, sorted by name.
func Entries(cfg *Config) ([]Entry, error) {
	m, err := ToMap(cfg)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(schema))
	for _, k := range schema {
		v, _ := lookupPath(m, k.Name)
		entries = append(entries, Entry{Key: k, Value: v})
	}
	return entries, nil
}

func readRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	m := make(map[string]any)
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return m, nil
}

// GetValue returns the entry for the dotted key as stored in the config file
// at path. A key missing from the file reports its default.
func GetValue(path, name string) (Entry, error) {
	k, err := LookupKey(name)
	if err != nil {
		return Entry{}, err
	}
	m, err := readRaw(path)
	if err != nil {
		return Entry{}, err
	}
	if v, ok := lookupPath(m, name); ok {
		return Entry{Key: k, Value: v}, nil
	}

	defaults, err := ToMap(Defaults())
	if err != nil {
		return Entry{}, err
	}
	v, _ := lookupPath(defaults, name)
	return Entry{Key: k, Value: v}, nil
}

// SetValue stores raw under the dotted key in the config file at path,
// converted to the key's type. Other content of the file is kept as is.
// Unknown keys and badly typed values leave the file untouched.
func SetValue(path, name, raw string) (Entry, error) {
	k, err := LookupKey(name)
	if err != nil {
		return Entry{}, err
	}
	v, err := k.Parse(raw)
	if err != nil {
		return Entry{}, err
	}
	m, err := readRaw(path)
	if err != nil {
		return Entry{}, err
	}
	setPath(m, name, v)

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return Entry{}, fmt.Errorf("marshal config: %w", err)
	}
	if err := writeRaw(path, data); err != nil {
		return Entry{}, err
	}
	return Entry{Key: k, Value: v}, nil
}
