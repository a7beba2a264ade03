package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	TelegramToken       string
	AdminUserIDs        []int64
	GroupID             int64 // community group receiving group analyses
	DatabasePath        string
	LogLevel            string
	Timezone            *time.Location
	HTTPAddr            string
	ConversationTimeout time.Duration
	SweepInterval       time.Duration
	BroadcastInterval   time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN environment variable is required")
	}

	groupIDStr := os.Getenv("GROUP_ID")
	if groupIDStr == "" {
		return nil, fmt.Errorf("GROUP_ID environment variable is required")
	}
	groupID, err := strconv.ParseInt(groupIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GROUP_ID: %w", err)
	}

	adminIDsStr := os.Getenv("ADMIN_USER_IDS")
	if adminIDsStr == "" {
		return nil, fmt.Errorf("ADMIN_USER_IDS environment variable is required")
	}
	adminIDs, err := parseAdminIDs(adminIDsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_USER_IDS: %w", err)
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/bot.db" // default value
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO" // default value
	}

	// Load timezone (default to the community's local time)
	timezoneStr := os.Getenv("TIMEZONE")
	if timezoneStr == "" {
		timezoneStr = "America/Sao_Paulo" // default value
	}
	timezone, err := time.LoadLocation(timezoneStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE '%s': %w", timezoneStr, err)
	}

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":8080" // default value
	}

	conversationTimeout, err := parseDuration("CONVERSATION_TIMEOUT", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	sweepInterval, err := parseDuration("SWEEP_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	broadcastInterval, err := parseDuration("BROADCAST_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}

	return &Config{
		TelegramToken:       token,
		AdminUserIDs:        adminIDs,
		GroupID:             groupID,
		DatabasePath:        dbPath,
		LogLevel:            logLevel,
		Timezone:            timezone,
		HTTPAddr:            httpAddr,
		ConversationTimeout: conversationTimeout,
		SweepInterval:       sweepInterval,
		BroadcastInterval:   broadcastInterval,
	}, nil
}

// parseAdminIDs parses comma-separated admin user IDs
func parseAdminIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin ID '%s': %w", part, err)
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one admin ID is required")
	}

	return ids, nil
}

func parseDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': %w", key, val, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s '%s': must be positive", key, val)
	}
	return d, nil
}

// IsAdmin reports whether a user ID is in the admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
