package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port              int
	NatsURL           string
	NatsToken         string
	DatabaseURL       string
	LogLevel          string
	SlackBotToken     string
	SlackChannel      string
	APIToken          string
	HistoryLimit      int
	ScheduleOnMessage bool
}

func Load() Config {
	return Config{
		Port:              envInt("HUDDLE_PORT", 8760),
		NatsURL:           envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:         envStr("NATS_TOKEN", ""),
		DatabaseURL:       envStr("DATABASE_URL", ""),
		LogLevel:          envStr("LOG_LEVEL", "info"),
		SlackBotToken:     envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:      envStr("SLACK_MEETINGS_CHANNEL", ""),
		APIToken:          envStr("HUDDLE_API_TOKEN", ""),
		HistoryLimit:      envInt("HUDDLE_HISTORY_LIMIT", 50),
		ScheduleOnMessage: envBool("HUDDLE_SCHEDULE_ON_MESSAGE", false),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
