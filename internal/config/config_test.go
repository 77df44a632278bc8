package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "config.toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config should be written to disk")

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadConfigBackfillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[timesheet]
variant = "basic"
locale = "en_US"

[overview]
sheet_name = "Summary"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, VariantBasic, cfg.Timesheet.Variant)
	assert.Equal(t, "en_US", cfg.Timesheet.Locale)
	assert.Equal(t, "Summary", cfg.Overview.SheetName)
	assert.Equal(t, BackendXLSX, cfg.Workbook.Backend)
	assert.Equal(t, 8.0, cfg.Timesheet.TargetHoursPerDay)
	assert.Equal(t, []string{"Gesetzlicher Feiertag"}, cfg.Holidays.Accept)
	assert.Equal(t, 10*time.Second, cfg.Lock.Timeout())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigRejectsBrokenToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[timesheet\nvariant="), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Workbook.Backend = "csv" }, wantErr: true},
		{name: "sheets without id", mutate: func(c *Config) { c.Workbook.Backend = BackendSheets }, wantErr: true},
		{name: "sheets with id", mutate: func(c *Config) {
			c.Workbook.Backend = BackendSheets
			c.Workbook.SpreadsheetID = "abc"
		}},
		{name: "unknown variant", mutate: func(c *Config) { c.Timesheet.Variant = "full" }, wantErr: true},
		{name: "unknown holiday source", mutate: func(c *Config) { c.Holidays.Source = "ical" }, wantErr: true},
		{name: "target hours too large", mutate: func(c *Config) { c.Timesheet.TargetHoursPerDay = 25 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", " key ")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-id")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/creds.json")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "key", cfg.Holidays.APIKey)
	assert.Equal(t, "sheet-id", cfg.Workbook.SpreadsheetID)
	assert.Equal(t, "/tmp/creds.json", cfg.Workbook.CredentialsFile)
}
