package cfg

import (
	"fmt"
	"time"
)

type Command string

const (
	CommandRun    Command = "run"
	CommandIngest Command = "ingest"
	CommandDump   Command = "dump"
	CommandServe  Command = "serve"
)

type Cfg struct {
	Command Command

	// Storage and source
	DBPath string
	Source string
	Limit  int
	TopK   int

	// Page fetching
	UserAgent           string
	FetchTimeout        time.Duration
	FetchInterval       time.Duration
	ReadabilityFallback bool

	// Text generation
	OpenAIKey         string
	OpenAIModel       string
	OpenAIBaseURL     string
	OpenAITimeout     time.Duration
	OpenAITemperature float64

	// Delivery
	TelegramToken   string
	TelegramChatID  string
	TelegramBaseURL string
	TelegramTimeout time.Duration

	// dump
	OutDir string

	// serve
	Port         string
	BaseURL      string
	APIAccessKey string

	Debug   bool
	Version string
}

// TelegramEnabled reports whether both delivery credentials are set.
func (c *Cfg) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}

type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}
