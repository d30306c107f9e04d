// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath     string
	LogLevel         string
	TelegramBotToken string
	AllowedUsers     []int64
	MetricsAddr      string
	ResultLimit      int
}

// Defaults applied when a variable is unset.
const (
	DefaultDatabasePath = "./Databases/YKS.sqlite"
	DefaultLogLevel     = "info"
	DefaultResultLimit  = 20
)

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory. Variables already set in
// the environment win over the file.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	return fromEnv()
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func fromEnv() (*Config, error) {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = DefaultDatabasePath
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = DefaultLogLevel
	}

	var allowedUsers []int64
	if raw := os.Getenv("ALLOWED_USERS"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			uid, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid user ID %q in ALLOWED_USERS: %w", s, err)
			}
			allowedUsers = append(allowedUsers, uid)
		}
	}

	limit := DefaultResultLimit
	if raw := os.Getenv("RESULT_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid RESULT_LIMIT %q: %w", raw, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("RESULT_LIMIT must be positive, got %d", n)
		}
		limit = n
	}

	return &Config{
		DatabasePath:     dbPath,
		LogLevel:         logLevel,
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		AllowedUsers:     allowedUsers,
		MetricsAddr:      os.Getenv("METRICS_ADDR"),
		ResultLimit:      limit,
	}, nil
}

// RequireBotToken fails when no Telegram bot token is configured.
func (c *Config) RequireBotToken() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

// IsUserAllowed checks whether a user ID is in the allow list.
// Returns true if the allow list is empty (all users permitted).
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	return slices.Contains(c.AllowedUsers, userID)
}
