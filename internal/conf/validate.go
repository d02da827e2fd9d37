package conf

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a collection of validation failures for the
// loaded settings.
type ValidationError struct {
	Errors []string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %s", strings.Join(ve.Errors, "; "))
}

// ValidateSettings checks a settings struct for inconsistent or unusable
// values before the rest of the application starts using it.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	validateOutputSettings(&settings.Output, &ve)
	validateScraperSettings(&settings.Scraper, &ve)
	validateWebServerSettings(&settings.WebServer, &ve)
	validateAnalysisSettings(&settings.Analysis, &ve)

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateOutputSettings(settings *OutputSettings, ve *ValidationError) {
	if settings.SQLite.Enabled && settings.MySQL.Enabled {
		ve.Errors = append(ve.Errors, "only one database output can be enabled at a time")
	}
	if !settings.SQLite.Enabled && !settings.MySQL.Enabled {
		ve.Errors = append(ve.Errors, "at least one database output must be enabled")
	}
	if settings.SQLite.Enabled && settings.SQLite.Path == "" {
		ve.Errors = append(ve.Errors, "SQLite database path is required")
	}
	if settings.MySQL.Enabled {
		if settings.MySQL.Host == "" {
			ve.Errors = append(ve.Errors, "MySQL host is required")
		}
		if settings.MySQL.Database == "" {
			ve.Errors = append(ve.Errors, "MySQL database name is required")
		}
	}
}

func validateScraperSettings(settings *ScraperSettings, ve *ValidationError) {
	if settings.Delay < 0 {
		ve.Errors = append(ve.Errors, "scraper delay cannot be negative")
	}
	if settings.MinValue < 0 {
		ve.Errors = append(ve.Errors, "scraper minimum value cannot be negative")
	}
	if settings.BaseURL == "" {
		ve.Errors = append(ve.Errors, "scraper base URL is required")
	}
}

func validateWebServerSettings(settings *WebServerSettings, ve *ValidationError) {
	if !settings.Enabled {
		return
	}
	port, err := strconv.Atoi(settings.Port)
	if err != nil || port < 1 || port > 65535 {
		ve.Errors = append(ve.Errors, "web server port must be a number between 1 and 65535")
	}
}

func validateAnalysisSettings(settings *AnalysisSettings, ve *ValidationError) {
	if settings.MinPlayerCards < 0 {
		ve.Errors = append(ve.Errors, "minimum player card count cannot be negative")
	}
	if settings.MinSetCards < 0 {
		ve.Errors = append(ve.Errors, "minimum set card count cannot be negative")
	}
}
