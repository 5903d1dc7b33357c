package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata" // zone database for slim containers

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv   string
	LogLevel string
	Bot      BotConfig
	Sheets   SheetsConfig
	Fleet    FleetConfig
	Reminder ReminderConfig
}

// BotConfig describes how the bot talks to Telegram.
type BotConfig struct {
	Token   string
	Mode    string // "polling" or "webhook"
	Polling PollingConfig
	Webhook WebhookConfig
}

type PollingConfig struct {
	WorkerPoolSize int
}

type WebhookConfig struct {
	URL        string
	ListenPort int
}

// SheetsConfig points at the spreadsheet that backs all three stores.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsPath string
	IdentitySheet   string // empty means the first sheet
	FleetSheet      string
	ChangesSheet    string
}

type FleetConfig struct {
	PageSize int
	Timezone string
}

// ReminderConfig holds the daily reminder window as "HH:MM:SS" clock times.
type ReminderConfig struct {
	Enabled       bool
	WindowStart   string
	WindowEnd     string
	RolloverStart string
	Interval      time.Duration
}

// env bindings: viper key -> environment variable
var bindings = map[string]string{
	"app.env":                 "APP_ENV",
	"log.level":               "LOG_LEVEL",
	"bot.token":               "BOT_TOKEN",
	"bot.mode":                "BOT_MODE",
	"bot.workers":             "BOT_WORKERS",
	"bot.webhook.url":         "BOT_WEBHOOK_URL",
	"bot.webhook.port":        "BOT_WEBHOOK_PORT",
	"sheets.spreadsheet_id":   "SPREADSHEET_ID",
	"sheets.credentials_path": "GOOGLE_CREDENTIALS_PATH",
	"sheets.identity":         "SHEET_IDENTITY",
	"sheets.fleet":            "SHEET_FLEET",
	"sheets.changes":          "SHEET_CHANGES",
	"fleet.page_size":         "FLEET_PAGE_SIZE",
	"fleet.timezone":          "TIMEZONE",
	"reminder.enabled":        "REMINDER_ENABLED",
	"reminder.start":          "REMINDER_START",
	"reminder.end":            "REMINDER_END",
	"reminder.rollover_start": "REMINDER_ROLLOVER_START",
	"reminder.interval":       "REMINDER_INTERVAL",
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// A missing .env is fine; the process environment is used instead.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("bot.mode", "polling")
	v.SetDefault("bot.workers", 4)
	v.SetDefault("bot.webhook.port", 8443)
	v.SetDefault("sheets.credentials_path", "credentials.json")
	v.SetDefault("sheets.identity", "")
	v.SetDefault("sheets.fleet", "Состояние машины")
	v.SetDefault("sheets.changes", "Изменения")
	v.SetDefault("fleet.page_size", 5)
	v.SetDefault("fleet.timezone", "Europe/Moscow")
	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.start", "23:05:15")
	v.SetDefault("reminder.end", "23:59:00")
	v.SetDefault("reminder.rollover_start", "19:00:00")
	v.SetDefault("reminder.interval", "30s")

	cfg := Config{
		AppEnv:   v.GetString("app.env"),
		LogLevel: v.GetString("log.level"),
		Bot: BotConfig{
			Token:   v.GetString("bot.token"),
			Mode:    v.GetString("bot.mode"),
			Polling: PollingConfig{WorkerPoolSize: v.GetInt("bot.workers")},
			Webhook: WebhookConfig{
				URL:        v.GetString("bot.webhook.url"),
				ListenPort: v.GetInt("bot.webhook.port"),
			},
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   v.GetString("sheets.spreadsheet_id"),
			CredentialsPath: v.GetString("sheets.credentials_path"),
			IdentitySheet:   v.GetString("sheets.identity"),
			FleetSheet:      v.GetString("sheets.fleet"),
			ChangesSheet:    v.GetString("sheets.changes"),
		},
		Fleet: FleetConfig{
			PageSize: v.GetInt("fleet.page_size"),
			Timezone: v.GetString("fleet.timezone"),
		},
		Reminder: ReminderConfig{
			Enabled:       v.GetBool("reminder.enabled"),
			WindowStart:   v.GetString("reminder.start"),
			WindowEnd:     v.GetString("reminder.end"),
			RolloverStart: v.GetString("reminder.rollover_start"),
			Interval:      v.GetDuration("reminder.interval"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Bot.Token == "" {
		return errors.New("BOT_TOKEN is not set in environment or .env file")
	}
	if c.Sheets.SpreadsheetID == "" {
		return errors.New("SPREADSHEET_ID is not set in environment or .env file")
	}
	if c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_CREDENTIALS_PATH must not be empty")
	}

	switch c.Bot.Mode {
	case "polling":
	case "webhook":
		if c.Bot.Webhook.URL == "" {
			return errors.New("BOT_WEBHOOK_URL is required in webhook mode")
		}
	default:
		return fmt.Errorf("unknown BOT_MODE %q (want polling or webhook)", c.Bot.Mode)
	}

	if c.Bot.Polling.WorkerPoolSize < 1 {
		return fmt.Errorf("BOT_WORKERS must be positive, got %d", c.Bot.Polling.WorkerPoolSize)
	}
	if c.Fleet.PageSize < 1 {
		return fmt.Errorf("FLEET_PAGE_SIZE must be positive, got %d", c.Fleet.PageSize)
	}
	if _, err := time.LoadLocation(c.Fleet.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Fleet.Timezone, err)
	}

	end, err := ParseClock(c.Reminder.WindowEnd)
	if err != nil {
		return fmt.Errorf("REMINDER_END: %w", err)
	}
	// Both window starts share the end; a start at or after it means no scan ever runs
	for _, start := range []struct{ name, clock string }{
		{"REMINDER_START", c.Reminder.WindowStart},
		{"REMINDER_ROLLOVER_START", c.Reminder.RolloverStart},
	} {
		d, err := ParseClock(start.clock)
		if err != nil {
			return fmt.Errorf("%s: %w", start.name, err)
		}
		if d >= end {
			return fmt.Errorf("%s %s must be before REMINDER_END %s", start.name, start.clock, c.Reminder.WindowEnd)
		}
	}
	if c.Reminder.Interval <= 0 {
		return fmt.Errorf("REMINDER_INTERVAL must be positive, got %s", c.Reminder.Interval)
	}
	return nil
}

// ParseClock parses an "HH:MM:SS" time of day into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}
