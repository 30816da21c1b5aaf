package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Rubrik   RubrikConfig
	Monitor  MonitorConfig
	LogLevel string
}

type ServerConfig struct {
	Port string
}

type RubrikConfig struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration
}

type MonitorConfig struct {
	PollInterval  time.Duration
	MaxDatapoints int
}

func NewConfig() (*Config, error) {
	// Configure Viper to read .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Enable automatic environment variable loading
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("POLL_INTERVAL", 60) // seconds
	viper.SetDefault("MAX_DATAPOINTS", 30)
	viper.SetDefault("HTTP_TIMEOUT", "15s")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config
	config.Server.Port = viper.GetString("SERVER_PORT")

	// --- Rubrik ---
	config.Rubrik.URL = viper.GetString("RUBRIK_URL")
	config.Rubrik.Username = viper.GetString("RUBRIK_USERNAME")
	config.Rubrik.Password = viper.GetString("RUBRIK_PASSWORD")
	config.Rubrik.Timeout = viper.GetDuration("HTTP_TIMEOUT")

	// --- Monitor ---
	config.Monitor.PollInterval = time.Duration(viper.GetInt("POLL_INTERVAL")) * time.Second
	config.Monitor.MaxDatapoints = viper.GetInt("MAX_DATAPOINTS")

	config.LogLevel = viper.GetString("LOG_LEVEL")

	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("rubrik_url", config.Rubrik.URL).
		Dur("poll_interval", config.Monitor.PollInterval).
		Int("max_datapoints", config.Monitor.MaxDatapoints).
		Str("server_port", config.Server.Port).
		Msg("Config loaded")
	return &config, nil
}

// validate rejects configurations the process cannot start with.
// These are the only errors that terminate the process.
func (c *Config) validate() error {
	if c.Rubrik.URL == "" {
		return fmt.Errorf("RUBRIK_URL is required")
	}
	if c.Rubrik.Username == "" || c.Rubrik.Password == "" {
		return fmt.Errorf("RUBRIK_USERNAME and RUBRIK_PASSWORD are required")
	}
	if c.Monitor.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.Monitor.PollInterval)
	}
	if c.Monitor.MaxDatapoints < 1 {
		return fmt.Errorf("MAX_DATAPOINTS must be at least 1, got %d", c.Monitor.MaxDatapoints)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}
