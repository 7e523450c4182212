package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"creditrisk/predictor/internal/inference"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Assets   AssetsConfig
	History  HistoryConfig
	Database DatabaseConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AssetsConfig struct {
	Dir               string
	ModelFile         string
	EncoderFileFormat string
	GoodClassID       int
}

type HistoryConfig struct {
	Enabled       bool
	DefaultLimit  int
	Retention     time.Duration
	PruneInterval time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			Env:          getEnv("ENV", "development"),
			ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", "10s"),
			WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", "10s"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Assets: AssetsConfig{
			Dir:               getEnv("ASSETS_DIR", "./assets"),
			ModelFile:         getEnv("MODEL_FILE", "extra_trees_credit_model.json"),
			EncoderFileFormat: getEnv("ENCODER_FILE_FORMAT", inference.DefaultEncoderFileFormat),
			GoodClassID:       getEnvAsInt("GOOD_CLASS_ID", inference.DefaultGoodClassID),
		},
		History: HistoryConfig{
			Enabled:       getEnvAsBool("HISTORY_ENABLED", false),
			DefaultLimit:  getEnvAsInt("HISTORY_DEFAULT_LIMIT", 20),
			Retention:     getEnvAsDuration("HISTORY_RETENTION", "0s"),
			PruneInterval: getEnvAsDuration("HISTORY_PRUNE_INTERVAL", "1h"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "credit_risk"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}
}

// AssetConfig converts the asset settings for inference.LoadAssets.
func (c *Config) AssetConfig() inference.AssetConfig {
	return inference.AssetConfig{
		Dir:               c.Assets.Dir,
		ModelFile:         c.Assets.ModelFile,
		EncoderFileFormat: c.Assets.EncoderFileFormat,
		GoodClassID:       c.Assets.GoodClassID,
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
