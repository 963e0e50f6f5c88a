package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

const (
	defaultModel         = "gpt-4o-mini"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultTelegramURL   = "https://api.telegram.org"
	defaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage and source
	DBPath string `long:"db" env:"DB_PATH" default:"habr.db" description:"SQLite database path"`
	Source string `long:"source" env:"SOURCE_PROFILE" description:"Source profile YAML file (default: built-in Habr profile)"`
	Limit  int    `long:"limit" env:"FEED_LIMIT" default:"10" description:"Number of feed items to process, 0 for all"`
	TopK   int    `long:"top-k" env:"TOP_K" default:"3" description:"Number of posts to generate"`

	// Page fetching
	UserAgent           string        `long:"user-agent" env:"USER_AGENT" description:"User agent string for HTTP requests (default: desktop Chrome)"`
	FetchTimeout        time.Duration `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30s" description:"Timeout for feed and article requests"`
	FetchInterval       time.Duration `long:"fetch-interval" env:"FETCH_INTERVAL" default:"0s" description:"Minimum pause between page requests"`
	ReadabilityFallback bool          `long:"readability-fallback" env:"READABILITY_FALLBACK" description:"Extract content with readability when no selector matches"`

	// Text generation
	OpenAIKey         string        `long:"openai-api-key" env:"OPENAI_API_KEY" description:"API key for the chat completions service (required for run)"`
	OpenAIModel       string        `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o-mini" description:"Model name"`
	OpenAIBaseURL     string        `long:"openai-base-url" env:"OPENAI_BASE_URL" default:"https://api.openai.com/v1" description:"Chat completions base URL"`
	OpenAITimeout     time.Duration `long:"openai-timeout" env:"OPENAI_TIMEOUT" default:"60s" description:"Timeout for generation requests"`
	OpenAITemperature float64       `long:"openai-temperature" env:"OPENAI_TEMPERATURE" default:"0.6" description:"Sampling temperature"`

	// Delivery
	TelegramToken   string        `long:"tg-bot-token" env:"TG_BOT_TOKEN" description:"Telegram bot token (optional)"`
	TelegramChatID  string        `long:"tg-chat-id" env:"TG_CHAT_ID" description:"Telegram chat id (optional)"`
	TelegramBaseURL string        `long:"tg-base-url" env:"TG_BASE_URL" default:"https://api.telegram.org" description:"Telegram Bot API base URL"`
	TelegramTimeout time.Duration `long:"tg-timeout" env:"TG_TIMEOUT" default:"30s" description:"Timeout for delivery requests"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Run    struct{} `command:"run" description:"Ingest the feed, generate posts and deliver them (default)"`
	Ingest struct{} `command:"ingest" description:"Ingest the feed into the database only"`
	Dump   struct {
		OutDir string `long:"out" env:"DUMP_DIR" default:"artifacts" description:"Directory for saved pages"`
	} `command:"dump" description:"Save the raw feed page and the first article page"`
	Serve struct {
		Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
		BaseURL      string `long:"base-url" env:"BASE_URL" description:"Public base URL used as the posts feed channel link"`
		APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for /api endpoints (optional)"`
	} `command:"serve" description:"Serve stored articles and posts over HTTP"`
}

// Load reads .env, then parses args and the environment. It returns nil, nil
// when help was requested.
func Load(args []string) (*Cfg, error) {
	loadDotEnv(".env")

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	parser.SubcommandsOptional = true

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	command := CommandRun
	if parser.Active != nil {
		command = Command(parser.Active.Name)
	}

	cfg := &Cfg{
		Command:             command,
		DBPath:              raw.DBPath,
		Source:              raw.Source,
		Limit:               raw.Limit,
		TopK:                raw.TopK,
		UserAgent:           cmp.Or(raw.UserAgent, defaultUserAgent),
		FetchTimeout:        raw.FetchTimeout,
		FetchInterval:       raw.FetchInterval,
		ReadabilityFallback: raw.ReadabilityFallback,
		OpenAIKey:           strings.TrimSpace(raw.OpenAIKey),
		OpenAIModel:         cmp.Or(strings.TrimSpace(raw.OpenAIModel), defaultModel),
		OpenAIBaseURL:       cmp.Or(strings.TrimSpace(raw.OpenAIBaseURL), defaultOpenAIBaseURL),
		OpenAITimeout:       raw.OpenAITimeout,
		OpenAITemperature:   raw.OpenAITemperature,
		TelegramToken:       strings.TrimSpace(raw.TelegramToken),
		TelegramChatID:      strings.TrimSpace(raw.TelegramChatID),
		TelegramBaseURL:     cmp.Or(strings.TrimSpace(raw.TelegramBaseURL), defaultTelegramURL),
		TelegramTimeout:     raw.TelegramTimeout,
		OutDir:              raw.Dump.OutDir,
		Port:                raw.Serve.Port,
		BaseURL:             raw.Serve.BaseURL,
		APIAccessKey:        raw.Serve.APIAccessKey,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if cfg.DBPath == "" {
		return &ConfigError{Field: "db", Message: "must not be empty"}
	}
	if cfg.Limit < 0 {
		return &ConfigError{Field: "limit", Message: "must not be negative"}
	}
	if cfg.TopK < 0 {
		return &ConfigError{Field: "top-k", Message: "must not be negative"}
	}
	if cfg.Command == CommandRun && cfg.OpenAIKey == "" {
		return &ConfigError{Field: "OPENAI_API_KEY", Message: "is required for run"}
	}
	return nil
}

// loadDotEnv exports variables from a dotenv file without overriding the
// ones already set. A missing file is not an error.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load env file", "path", path, "error", err)
	}
}
