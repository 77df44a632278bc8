package config

import (
	"fmt"
	"monthsheet/internal/logger"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	BackendXLSX   = "xlsx"
	BackendSheets = "sheets"

	VariantExtended = "extended"
	VariantBasic    = "basic"

	HolidaySourceGoogle = "google"
	HolidaySourceNRW    = "nrw"
	HolidaySourceNone   = "none"
)

type Config struct {
	Workbook  WorkbookConfig  `toml:"workbook"`
	Timesheet TimesheetConfig `toml:"timesheet"`
	Overview  OverviewConfig  `toml:"overview"`
	Holidays  HolidaysConfig  `toml:"holidays"`
	Lock      LockConfig      `toml:"lock"`
	Log       LogConfig       `toml:"log"`
}

type WorkbookConfig struct {
	Backend         string `toml:"backend"`
	Path            string `toml:"path"`
	SpreadsheetID   string `toml:"spreadsheet_id"`
	CredentialsFile string `toml:"credentials_file"`
}

type TimesheetConfig struct {
	Variant           string  `toml:"variant"`
	Locale            string  `toml:"locale"`
	TargetHoursPerDay float64 `toml:"target_hours_per_day"`
	WeekendColor      string  `toml:"weekend_color"`
	HolidayColor      string  `toml:"holiday_color"`
}

type OverviewConfig struct {
	SheetName string `toml:"sheet_name"`
}

type HolidaysConfig struct {
	Source     string   `toml:"source"`
	CalendarID string   `toml:"calendar_id"`
	APIKey     string   `toml:"api_key"`
	Accept     []string `toml:"accept"`
}

type LockConfig struct {
	Path           string `toml:"path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LogConfig struct {
	Directory string `toml:"directory"`
	Level     string `toml:"level"`
}

// Timeout returns the bounded wait for the run lock.
func (l LockConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		Workbook: WorkbookConfig{
			Backend: BackendXLSX,
			Path:    "data/timesheet.xlsx",
		},
		Timesheet: TimesheetConfig{
			Variant:           VariantExtended,
			Locale:            "de_DE",
			TargetHoursPerDay: 8,
			WeekendColor:      "#D9D9D9",
			HolidayColor:      "#CFE2F3",
		},
		Overview: OverviewConfig{
			SheetName: "Overview",
		},
		Holidays: HolidaysConfig{
			Source:     HolidaySourceNRW,
			CalendarID: "de.german#holiday@group.v.calendar.google.com",
			Accept:     []string{"Gesetzlicher Feiertag"},
		},
		Lock: LockConfig{
			Path:           "data/monthsheet.db",
			TimeoutSeconds: 10,
		},
		Log: LogConfig{
			Directory: "logs",
			Level:     "info",
		},
	}
}

// LoadConfig loads configuration from the specified config file path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		defaultConfig := Default()
		if err := SaveConfig(configPath, defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		logger.Info("Created default config file", "path", configPath)
		return defaultConfig, nil
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	config.applyDefaults()

	logger.Info("Loaded configuration", "path", configPath)
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := Default()

	if c.Workbook.Backend == "" {
		c.Workbook.Backend = def.Workbook.Backend
	}
	if c.Workbook.Path == "" {
		c.Workbook.Path = def.Workbook.Path
	}
	if c.Timesheet.Variant == "" {
		c.Timesheet.Variant = def.Timesheet.Variant
	}
	if c.Timesheet.Locale == "" {
		c.Timesheet.Locale = def.Timesheet.Locale
	}
	if c.Timesheet.TargetHoursPerDay == 0 {
		c.Timesheet.TargetHoursPerDay = def.Timesheet.TargetHoursPerDay
	}
	if c.Timesheet.WeekendColor == "" {
		c.Timesheet.WeekendColor = def.Timesheet.WeekendColor
	}
	if c.Timesheet.HolidayColor == "" {
		c.Timesheet.HolidayColor = def.Timesheet.HolidayColor
	}
	if c.Overview.SheetName == "" {
		c.Overview.SheetName = def.Overview.SheetName
	}
	if c.Holidays.Source == "" {
		c.Holidays.Source = def.Holidays.Source
	}
	if c.Holidays.CalendarID == "" {
		c.Holidays.CalendarID = def.Holidays.CalendarID
	}
	if len(c.Holidays.Accept) == 0 {
		c.Holidays.Accept = def.Holidays.Accept
	}
	if c.Lock.Path == "" {
		c.Lock.Path = def.Lock.Path
	}
	if c.Lock.TimeoutSeconds == 0 {
		c.Lock.TimeoutSeconds = def.Lock.TimeoutSeconds
	}
	if c.Log.Directory == "" {
		c.Log.Directory = def.Log.Directory
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// ApplyEnv overrides secrets and identifiers from the environment.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); v != "" {
		c.Holidays.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID")); v != "" {
		c.Workbook.SpreadsheetID = v
	}
	if v := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); v != "" {
		c.Workbook.CredentialsFile = v
	}
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Workbook.Backend {
	case BackendXLSX:
	case BackendSheets:
		if c.Workbook.SpreadsheetID == "" {
			return fmt.Errorf("workbook.spreadsheet_id is required for the %q backend", BackendSheets)
		}
	default:
		return fmt.Errorf("unknown workbook.backend %q", c.Workbook.Backend)
	}

	switch c.Timesheet.Variant {
	case VariantExtended, VariantBasic:
	default:
		return fmt.Errorf("unknown timesheet.variant %q", c.Timesheet.Variant)
	}

	switch c.Holidays.Source {
	case HolidaySourceGoogle, HolidaySourceNRW, HolidaySourceNone:
	default:
		return fmt.Errorf("unknown holidays.source %q", c.Holidays.Source)
	}

	if c.Timesheet.TargetHoursPerDay < 0 || c.Timesheet.TargetHoursPerDay > 24 {
		return fmt.Errorf("timesheet.target_hours_per_day out of range: %v", c.Timesheet.TargetHoursPerDay)
	}
	return nil
}

// SaveConfig saves configuration to the specified config file path
func SaveConfig(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}
