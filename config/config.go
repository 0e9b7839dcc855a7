package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr     string `mapstructure:"LISTEN_ADDR"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// Cloudflare R2 (optional — avatar/cover uploads are disabled when unset)
	R2AccountID       string `mapstructure:"CLOUDFLARE_ACCOUNT_ID"`
	R2AccessKeyID     string `mapstructure:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret string `mapstructure:"R2_ACCESS_KEY_SECRET"`
	R2Bucket          string `mapstructure:"R2_BUCKET_NAME"`
	CDNBaseURL        string `mapstructure:"CDN_BASE_URL"`
}

// Load reads configuration from the environment, optionally seeded from a
// .env file in the working directory.
func Load() (Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("LISTEN_ADDR", ":5300")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	for _, key := range []string{
		"LISTEN_ADDR", "DATABASE_URL", "JWT_SECRET", "ALLOWED_ORIGINS",
		"CLOUDFLARE_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_ACCESS_KEY_SECRET",
		"R2_BUCKET_NAME", "CDN_BASE_URL",
	} {
		_ = viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is not set")
	}

	return cfg, nil
}
