// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/filmgrain/reviewpipe/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. This function is designed to be called
// once at application startup.
func InitConfig() {
	// --- Set Search Paths ---
	viper.SetConfigName("config")
	viper.AddConfigPath(".")                 // Current working directory
	viper.AddConfigPath("/etc/reviewpipe/")  // System-wide configuration
	viper.AddConfigPath("$HOME/.reviewpipe") // User-specific configuration

	// --- Set Defaults ---
	const defaultUA = "reviewpipe/1.0 (+https://github.com/filmgrain/reviewpipe)"
	viper.SetDefault("scraper.base_url", "https://letterboxd.com/hulls1/films/reviews/page/%d")
	viper.SetDefault("scraper.site_root", "https://letterboxd.com")
	viper.SetDefault("scraper.pages", "1-3")
	viper.SetDefault("scraper.user_agent", defaultUA)
	viper.SetDefault("scraper.request_timeout", "15s")
	viper.SetDefault("scraper.target_language", "en")
	viper.SetDefault("scraper.phrase_file", "")
	viper.SetDefault("scraper.output", "reviews.json")

	viper.SetDefault("loader.dsn", "")
	viper.SetDefault("loader.cache_path", "movies.json")

	viper.SetDefault("metadata.base_url", "https://www.omdbapi.com")
	viper.SetDefault("metadata.api_key", "")

	// Metrics serving is off unless an address is configured.
	viper.SetDefault("metrics.listen_addr", "")

	// --- Environment Variables ---
	viper.SetEnvPrefix("REVIEWPIPE") // e.g., REVIEWPIPE_LOADER_DSN=...
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// The metadata key historically lived in OMDB_KEY; honor both.
	_ = viper.BindEnv("metadata.api_key", "REVIEWPIPE_METADATA_API_KEY", "OMDB_KEY")

	// --- Read Config File ---
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
