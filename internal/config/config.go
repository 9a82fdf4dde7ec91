package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Economy  EconomyConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// AdminConfig holds settings for the admin maintenance endpoints.
// KeyHash is a bcrypt hash of the shared admin key; requests present the
// plain key in the X-Admin-Key header.
type AdminConfig struct {
	KeyHash string
}

// EconomyConfig holds every tunable constant of the points economy.
// Defaults match the reference behavior; all can be overridden through
// config.yaml or environment variables.
type EconomyConfig struct {
	// Base awards per qualifying action, before the earn multiplier.
	PostPoints          int
	ReviewPoints        int
	ReceiveReviewPoints int

	// Daily caps, enforced before any earning mutation.
	DailyEarnCap   int
	DailyPostCap   int
	DailyReviewCap int

	// Level-up and streak bonuses.
	LevelUpBonus     int
	DailyStreakBonus int

	// New-account starter grant.
	StarterBalance            int
	NewAccountProtectionBonus int

	// Boost / dampen pricing.
	BoostBaseCost     int
	TransferRatio     float64
	BaseDampenPenalty int
	MaxDampenPenalty  int

	// Dampen abuse controls.
	MaxDampenPerDay          int
	ExcessiveDampenThreshold int
	MinProtectedPoints       int
	NewUserProtectionDays    int

	// Fire-and-forget follower fan-out is capped at this many recipients.
	NotificationFanOutLimit int

	// Per-user rate limit on boost/dampen endpoints (events/sec, burst).
	TransferRateLimit float64
	TransferRateBurst int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "vibechecc-points")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")

	viper.SetDefault("Economy.PostPoints", 10)
	viper.SetDefault("Economy.ReviewPoints", 5)
	viper.SetDefault("Economy.ReceiveReviewPoints", 3)
	viper.SetDefault("Economy.DailyEarnCap", 100)
	viper.SetDefault("Economy.DailyPostCap", 5)
	viper.SetDefault("Economy.DailyReviewCap", 10)
	viper.SetDefault("Economy.LevelUpBonus", 50)
	viper.SetDefault("Economy.DailyStreakBonus", 15)
	viper.SetDefault("Economy.StarterBalance", 50)
	viper.SetDefault("Economy.NewAccountProtectionBonus", 30)
	viper.SetDefault("Economy.BoostBaseCost", 5)
	viper.SetDefault("Economy.TransferRatio", 0.5)
	viper.SetDefault("Economy.BaseDampenPenalty", 10)
	viper.SetDefault("Economy.MaxDampenPenalty", 50)
	viper.SetDefault("Economy.MaxDampenPerDay", 10)
	viper.SetDefault("Economy.ExcessiveDampenThreshold", 5)
	viper.SetDefault("Economy.MinProtectedPoints", 20)
	viper.SetDefault("Economy.NewUserProtectionDays", 7)
	viper.SetDefault("Economy.NotificationFanOutLimit", 50)
	viper.SetDefault("Economy.TransferRateLimit", 1)
	viper.SetDefault("Economy.TransferRateBurst", 5)
}
