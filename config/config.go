package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Supported model providers
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint
const GroqBaseURL = "https://api.groq.com/openai/v1"

// DefaultPath is the config file read when no explicit path is given
const DefaultPath = "config.yaml"

// ErrNoAPIKey is returned when no provider credential can be resolved
var ErrNoAPIKey = errors.New("no API key found: set GROQ_API_KEY, OPENAI_API_KEY or GEMINI_API_KEY")

// Config aggregates all application configuration
type Config struct {
	AI       AIConfig       `yaml:"ai"`
	Database DatabaseConfig `yaml:"database"`
	Tools    ToolsConfig    `yaml:"tools"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

type AIConfig struct {
	// Provider is groq, openai or gemini. Empty means resolve from the available keys.
	Provider      string       `yaml:"provider" env:"AI_PROVIDER"`
	Model         string       `yaml:"model" env:"AI_MODEL"`
	Temperature   float64      `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.7"`
	MaxIterations int          `yaml:"max_iterations" env:"AI_MAX_ITERATIONS" env-default:"5"`
	MaxTokens     int          `yaml:"max_tokens" env:"AI_MAX_TOKENS" env-default:"2000"`
	HistoryWindow int          `yaml:"history_window" env:"AI_HISTORY_WINDOW" env-default:"8"`
	Timeout       int          `yaml:"timeout" env:"AI_TIMEOUT" env-default:"60"`
	Groq          GroqConfig   `yaml:"groq"`
	OpenAI        OpenAIConfig `yaml:"openai"`
	Gemini        GeminiConfig `yaml:"gemini"`
}

type GroqConfig struct {
	APIKey  string `yaml:"api_key" env:"GROQ_API_KEY"`
	BaseURL string `yaml:"base_url" env:"GROQ_BASE_URL" env-default:"https://api.groq.com/openai/v1"`
	Model   string `yaml:"model" env:"GROQ_MODEL" env-default:"llama-3.3-70b-versatile"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL"`
	Model   string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"GEMINI_MODEL" env-default:"gemini-2.5-flash"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DATABASE_DRIVER" env-default:"sqlite"`
	DSN    string `yaml:"dsn" env:"DATABASE_DSN" env-default:"database/agentforge.db"`
}

type ToolsConfig struct {
	WeatherBaseURL    string `yaml:"weather_base_url" env:"WEATHER_BASE_URL" env-default:"https://wttr.in"`
	WeatherCacheTTL   int    `yaml:"weather_cache_ttl" env:"WEATHER_CACHE_TTL" env-default:"600"`
	SearchBaseURL     string `yaml:"search_base_url" env:"SEARCH_BASE_URL" env-default:"https://html.duckduckgo.com"`
	TavilyAPIKey      string `yaml:"tavily_api_key" env:"TAVILY_API_KEY"`
	TavilyBaseURL     string `yaml:"tavily_base_url" env:"TAVILY_BASE_URL" env-default:"https://api.tavily.com"`
	HTTPTimeout       int    `yaml:"http_timeout" env:"TOOLS_HTTP_TIMEOUT" env-default:"10"`
	CalculatorTimeout int    `yaml:"calculator_timeout_ms" env:"CALCULATOR_TIMEOUT_MS" env-default:"500"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT" env-default:"8000"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Provider is the resolved model provider selection handed to bootstrap.
type Provider struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
}

// Load reads configuration from config.yaml and environment variables
// Priority: Env Vars > Config File > Defaults
func Load() (*Config, error) {
	return LoadFrom(DefaultPath)
}

// LoadFrom reads configuration from the given file when it exists, then env vars.
func LoadFrom(path string) (*Config, error) {
	var cfg Config

	if _, statErr := os.Stat(path); statErr == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env config: %w", err)
	}
	return &cfg, nil
}

// ResolveProvider picks the model provider. An explicit ai.provider wins;
// otherwise Groq is preferred, then OpenAI, then Gemini.
func (c *Config) ResolveProvider() (*Provider, error) {
	name := c.AI.Provider
	if name == "" {
		switch {
		case c.AI.Groq.APIKey != "":
			name = ProviderGroq
		case c.AI.OpenAI.APIKey != "":
			name = ProviderOpenAI
		case c.AI.Gemini.APIKey != "":
			name = ProviderGemini
		default:
			return nil, ErrNoAPIKey
		}
	}

	var p Provider
	switch name {
	case ProviderGroq:
		p = Provider{Name: name, APIKey: c.AI.Groq.APIKey, BaseURL: c.AI.Groq.BaseURL, Model: c.AI.Groq.Model}
	case ProviderOpenAI:
		p = Provider{Name: name, APIKey: c.AI.OpenAI.APIKey, BaseURL: c.AI.OpenAI.BaseURL, Model: c.AI.OpenAI.Model}
	case ProviderGemini:
		p = Provider{Name: name, APIKey: c.AI.Gemini.APIKey, Model: c.AI.Gemini.Model}
	default:
		return nil, fmt.Errorf("unknown ai provider %q", name)
	}

	if p.APIKey == "" {
		return nil, fmt.Errorf("provider %s selected: %w", name, ErrNoAPIKey)
	}
	if c.AI.Model != "" {
		p.Model = c.AI.Model
	}
	return &p, nil
}

// RequestTimeout is the per-model-call timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.AI.Timeout) * time.Second
}

// ToolHTTPTimeout bounds each outbound request made by a tool.
func (c *Config) ToolHTTPTimeout() time.Duration {
	return time.Duration(c.Tools.HTTPTimeout) * time.Second
}

// CalculatorTimeout bounds a single expression evaluation.
func (c *Config) CalculatorTimeout() time.Duration {
	return time.Duration(c.Tools.CalculatorTimeout) * time.Millisecond
}

// WeatherCacheTTL returns how long weather lookups are cached, zero disables the cache.
func (c *Config) WeatherCacheTTL() time.Duration {
	return time.Duration(c.Tools.WeatherCacheTTL) * time.Second
}
