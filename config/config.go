package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	GRPCPort string `mapstructure:"GRPC_PORT"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBPath     string `mapstructure:"DB_PATH"`

	RedisAddr string `mapstructure:"REDIS_ADDR"`

	SessionSecret  string `mapstructure:"SESSION_SECRET"`
	WebhookSecret  string `mapstructure:"WEBHOOK_SECRET"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	SendgridAPIKey string `mapstructure:"SENDGRID_API_KEY"`
	SenderEmail    string `mapstructure:"SENDER_EMAIL"`
	FrontendURL    string `mapstructure:"FRONTEND_URL"`

	GCSBucket       string `mapstructure:"GCS_BUCKET"`
	GCSEmulatorHost string `mapstructure:"GCS_EMULATOR_HOST"`

	LogMode      string `mapstructure:"LOG_MODE"`
	OtelEnabled  bool   `mapstructure:"OTEL_ENABLED"`
	OtelEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

var keys = []string{
	"PORT", "GRPC_PORT",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_PATH",
	"REDIS_ADDR",
	"SESSION_SECRET", "WEBHOOK_SECRET", "ALLOWED_ORIGINS",
	"SENDGRID_API_KEY", "SENDER_EMAIL", "FRONTEND_URL",
	"GCS_BUCKET", "GCS_EMULATOR_HOST",
	"LOG_MODE", "OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
}

// LoadConfig reads app.env from path when present; environment variables
// always win.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("PORT", ":8080")
	v.SetDefault("GRPC_PORT", ":9090")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_PATH", "coursehub.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_MODE", "dev")

	v.AutomaticEnv()
	for _, k := range keys {
		if err = v.BindEnv(k); err != nil {
			return
		}
	}

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return errors.New("SESSION_SECRET is required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBPath
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
