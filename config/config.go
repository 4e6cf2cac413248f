package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking parameters.
	BookingWindowDays        int     `mapstructure:"BOOKING_WINDOW_DAYS"`
	AvailabilityGraceMinutes int     `mapstructure:"AVAILABILITY_GRACE_MINUTES"`
	CheckInEarlyMinutes      int     `mapstructure:"CHECKIN_EARLY_MINUTES"`
	CheckInLateMinutes       int     `mapstructure:"CHECKIN_LATE_MINUTES"`
	SweepIntervalSeconds     int     `mapstructure:"SWEEP_INTERVAL_SECONDS"`
	CancelPolicy             string  `mapstructure:"CANCEL_POLICY"` // "mark" or "delete"
	BuildingLatitude         float64 `mapstructure:"BUILDING_LATITUDE"`
	BuildingLongitude        float64 `mapstructure:"BUILDING_LONGITUDE"`
	ProximityThresholdMeters float64 `mapstructure:"PROXIMITY_THRESHOLD_METERS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "deskhub")

	viper.SetDefault("BOOKING_WINDOW_DAYS", 8)
	viper.SetDefault("AVAILABILITY_GRACE_MINUTES", 15)
	viper.SetDefault("CHECKIN_EARLY_MINUTES", 5)
	viper.SetDefault("CHECKIN_LATE_MINUTES", 15)
	viper.SetDefault("SWEEP_INTERVAL_SECONDS", 60)
	viper.SetDefault("CANCEL_POLICY", "mark")
	viper.SetDefault("BUILDING_LATITUDE", 0.0)
	viper.SetDefault("BUILDING_LONGITUDE", 0.0)
	viper.SetDefault("PROXIMITY_THRESHOLD_METERS", 1000.0)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
