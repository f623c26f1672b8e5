package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// ConfigFileName is resolved relative to the working directory so a bot
// deployment can keep its config next to the binary.
const ConfigFileName = "config.json"

// Config mirrors the on-disk config.json. The key set is a compatibility
// contract: missing keys are backfilled with defaults and the file rewritten.
type Config struct {
	DownloadDirectory string `json:"download_directory"`
	MP3Quality        string `json:"mp3_quality"`
	HistoryFile       string `json:"history_file"`
	DefaultFormat     string `json:"default_format"`
}

// validMP3Qualities are the bitrates the audio path accepts.
var validMP3Qualities = map[string]bool{
	"64": true, "128": true, "192": true, "256": true, "320": true,
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DownloadDirectory: "media",
		MP3Quality:        "192",
		HistoryFile:       "download_history.csv",
		DefaultFormat:     "show_all",
	}
}

// Exists checks if the config file exists.
func Exists() bool {
	_, err := os.Stat(ConfigFileName)
	return err == nil
}

// Load reads config.json, backfilling any missing or invalid keys with
// defaults. A backfill also triggers a rewrite so the file stays complete.
func Load() (*Config, error) {
	data, err := os.ReadFile(ConfigFileName)
	if err != nil {
		return nil, fmt.Errorf("config file not readable: %w", err)
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	defaults := DefaultConfig()
	missing := false
	if cfg.DownloadDirectory == "" {
		cfg.DownloadDirectory = defaults.DownloadDirectory
		missing = true
	}
	if cfg.MP3Quality == "" {
		cfg.MP3Quality = defaults.MP3Quality
		missing = true
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = defaults.HistoryFile
		missing = true
	}
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = defaults.DefaultFormat
		missing = true
	}

	if !validMP3Qualities[cfg.MP3Quality] {
		slog.Warn("invalid mp3_quality in config, using default", "value", cfg.MP3Quality)
		cfg.MP3Quality = defaults.MP3Quality
		missing = true
	}

	if missing {
		if err := Save(cfg); err != nil {
			slog.Warn("failed to rewrite config with backfilled defaults", "error", err)
		}
	}

	return cfg, nil
}

// Save writes the config to config.json.
func Save(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return os.WriteFile(ConfigFileName, data, 0644)
}

// Init creates a new config.json with default values.
func Init() error {
	if Exists() {
		return fmt.Errorf("%s already exists", ConfigFileName)
	}
	return Save(DefaultConfig())
}

// LoadOrDefault loads the config if it is readable, otherwise replaces it
// with defaults so the next startup starts clean.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Error("invalid or unreadable config file, resetting to defaults", "error", err)
		}
		cfg = DefaultConfig()
		if saveErr := Save(cfg); saveErr != nil {
			slog.Error("failed to reset config file", "error", saveErr)
		}
	}
	return cfg
}

// Env holds the process environment the bot needs at startup.
type Env struct {
	BotToken   string
	OwnerID    int64 // 0 when unset or invalid
	IGUsername string
	IGPassword string
}

// LoadEnv reads the bot's environment variables. BOT_TOKEN is required and
// its absence is the caller's fatal condition. An unparsable BOT_OWNER_ID is
// logged and dropped rather than aborting startup.
func LoadEnv() Env {
	env := Env{
		BotToken:   os.Getenv("BOT_TOKEN"),
		IGUsername: os.Getenv("IG_USERNAME"),
		IGPassword: os.Getenv("IG_PASSWORD"),
	}

	if raw := os.Getenv("BOT_OWNER_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			slog.Error("invalid BOT_OWNER_ID, owner notifications disabled", "value", raw)
		} else {
			env.OwnerID = id
		}
	}

	return env
}

// InstagramEnabled reports whether Instagram credentials are configured.
func (e Env) InstagramEnabled() bool {
	return e.IGUsername != "" && e.IGPassword != ""
}
