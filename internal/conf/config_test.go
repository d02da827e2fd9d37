package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTestSettings() *Settings {
	s := &Settings{}
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = "cardscout.db"
	s.Scraper.BaseURL = "https://www.psacard.com"
	s.Scraper.Delay = 2.0
	s.Scraper.MinValue = 100.0
	s.WebServer.Enabled = true
	s.WebServer.Port = "8080"
	return s
}

func TestValidateSettingsAcceptsDefaults(t *testing.T) {
	require.NoError(t, ValidateSettings(defaultTestSettings()))
}

func TestValidateSettingsRejectsDualDatabase(t *testing.T) {
	s := defaultTestSettings()
	s.Output.MySQL.Enabled = true
	s.Output.MySQL.Host = "localhost"
	s.Output.MySQL.Database = "cardscout"

	err := ValidateSettings(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one database output")
}

func TestValidateSettingsRequiresDatabase(t *testing.T) {
	s := defaultTestSettings()
	s.Output.SQLite.Enabled = false

	err := ValidateSettings(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one database output")
}

func TestValidateSettingsRejectsBadPort(t *testing.T) {
	s := defaultTestSettings()
	s.WebServer.Port = "notaport"

	err := ValidateSettings(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestValidateSettingsRejectsNegativeDelay(t *testing.T) {
	s := defaultTestSettings()
	s.Scraper.Delay = -1

	err := ValidateSettings(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delay")
}

func TestGetDefaultConfigPaths(t *testing.T) {
	paths, err := GetDefaultConfigPaths()
	require.NoError(t, err)
	assert.NotEmpty(t, paths)
}
