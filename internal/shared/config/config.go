package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr string

	KafkaBroker  string
	KafkaGroupID string

	JWTSecret string

	OutboxPollInterval time.Duration

	RBACModelPath  string
	RBACPolicyPath string
}

// Load reads configuration from the environment, with a .env file as
// fallback. Missing values fall back to development defaults.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "leaveflow")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("KAFKA_BROKER", "localhost:9092")
	viper.SetDefault("KAFKA_GROUP_ID", "leave-notifier")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("OUTBOX_POLL_INTERVAL", "3s")
	viper.SetDefault("RBAC_MODEL_PATH", "internal/rbac/model.conf")
	viper.SetDefault("RBAC_POLICY_PATH", "internal/rbac/policy.csv")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:           viper.GetString("PORT"),
		DBHost:         viper.GetString("DB_HOST"),
		DBUser:         viper.GetString("DB_USER"),
		DBPassword:     viper.GetString("DB_PASSWORD"),
		DBName:         viper.GetString("DB_NAME"),
		DBPort:         viper.GetString("DB_PORT"),
		DBSSLMode:      viper.GetString("DB_SSLMODE"),
		RedisAddr:      viper.GetString("REDIS_ADDR"),
		KafkaBroker:    viper.GetString("KAFKA_BROKER"),
		KafkaGroupID:   viper.GetString("KAFKA_GROUP_ID"),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		RBACModelPath:  viper.GetString("RBAC_MODEL_PATH"),
		RBACPolicyPath: viper.GetString("RBAC_POLICY_PATH"),
	}

	pollStr := viper.GetString("OUTBOX_POLL_INTERVAL")
	poll, err := time.ParseDuration(pollStr)
	if err != nil {
		poll = 3 * time.Second
		log.Printf("invalid OUTBOX_POLL_INTERVAL %q, defaulting to %s", pollStr, poll)
	}
	cfg.OutboxPollInterval = poll

	if cfg.JWTSecret == "" {
		log.Println("warning: JWT_SECRET not set, tokens cannot be verified")
	}

	return cfg, nil
}
