package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAttendanceTab = "Davomat"
	DefaultAccessTab     = "Xodimlar"
	DefaultCalcTab       = "Hisobot"
	defaultTimeout       = 10
	defaultDigestAt      = "18:00"
)

type BotConfig struct {
	Token       string `yaml:"token"`
	AdminChatID int64  `yaml:"admin_chat_id"`
}

type SheetsConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	AttendanceTab   string `yaml:"attendance_tab"`
	AccessTab       string `yaml:"access_tab"`
	CalcTab         string `yaml:"calc_tab"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

func (s SheetsConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

type AdminConfig struct {
	Addr         string `yaml:"addr"` // empty disables the admin API
	JWTSecret    string `yaml:"jwt_secret"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

type DigestConfig struct {
	Enabled bool   `yaml:"enabled"`
	At      string `yaml:"at"` // "HH:MM" wall clock in Timezone
}

type Config struct {
	Mode     string       `yaml:"mode"` // "dev" | "release"
	Timezone string       `yaml:"timezone"`
	Bot      BotConfig    `yaml:"bot"`
	Sheets   SheetsConfig `yaml:"sheets"`
	Admin    AdminConfig  `yaml:"admin"`
	Digest   DigestConfig `yaml:"digest"`
}

// LoadConfig reads the YAML config and validates everything the process
// cannot run without. A missing required value is a startup error, never a
// runtime one. BOT_TOKEN from the environment overrides the file.
func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = "release"
	}
	if c.Sheets.AttendanceTab == "" {
		c.Sheets.AttendanceTab = DefaultAttendanceTab
	}
	if c.Sheets.AccessTab == "" {
		c.Sheets.AccessTab = DefaultAccessTab
	}
	if c.Sheets.CalcTab == "" {
		c.Sheets.CalcTab = DefaultCalcTab
	}
	if c.Sheets.TimeoutSeconds <= 0 {
		c.Sheets.TimeoutSeconds = defaultTimeout
	}
	if c.Digest.At == "" {
		c.Digest.At = defaultDigestAt
	}
}

func (c *Config) validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot token is required (config bot.token or BOT_TOKEN)")
	}
	if c.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("sheets.spreadsheet_id is required")
	}
	if c.Sheets.CredentialsFile == "" {
		return fmt.Errorf("sheets.credentials_file is required")
	}
	if c.Timezone == "" {
		return fmt.Errorf("timezone is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if c.Admin.Addr != "" {
		if c.Admin.JWTSecret == "" {
			return fmt.Errorf("admin.jwt_secret is required when admin.addr is set")
		}
		if c.Admin.PasswordHash == "" {
			return fmt.Errorf("admin.password_hash is required when admin.addr is set")
		}
	}
	if c.Digest.Enabled {
		if _, err := time.Parse("15:04", c.Digest.At); err != nil {
			return fmt.Errorf("digest.at must be HH:MM: %w", err)
		}
		if c.Bot.AdminChatID == 0 {
			return fmt.Errorf("bot.admin_chat_id is required when digest is enabled")
		}
	}
	return nil
}

// Location resolves the configured timezone. validate already proved it
// loads, so this never fails after LoadConfig.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
