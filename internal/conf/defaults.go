// defaults.go viper defaults for the application settings
package conf

import (
	"github.com/spf13/viper"
)

// setDefaultConfig sets the default values for the viper configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Main settings
	viper.SetDefault("main.name", "CardScout")
	viper.SetDefault("main.loglevel", "info")

	// Input settings
	viper.SetDefault("input.path", "collection.csv")

	// Output settings
	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "cardscout.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "cardscout")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")
	viper.SetDefault("output.mysql.database", "cardscout")

	// Analysis settings
	viper.SetDefault("analysis.minplayercards", 1)
	viper.SetDefault("analysis.minsetcards", 1)

	// Scraper settings
	viper.SetDefault("scraper.baseurl", "https://www.psacard.com")
	viper.SetDefault("scraper.delay", 2.0)
	viper.SetDefault("scraper.minvalue", 100.0)
	viper.SetDefault("scraper.export.enabled", false)
	viper.SetDefault("scraper.export.path", "high_value_cards.csv")

	// Marketplace settings
	viper.SetDefault("marketplace.gradingcost", 18.99)
	viper.SetDefault("marketplace.minprice", 25.0)

	// Web server settings
	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.log.enabled", true)
	viper.SetDefault("webserver.log.path", "webui.log")
}
