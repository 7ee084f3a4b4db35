package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort            string   `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL         string   `env:"DATABASE_URL,required"`
	JWTSecret           string   `env:"JWT_SECRET,required"`
	JWTAccessTTLMinutes int      `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"60"`
	RedisAddr           string   `env:"REDIS_ADDR"`
	RedisPassword       string   `env:"REDIS_PASSWORD"`
	RedisDB             int      `env:"REDIS_DB" envDefault:"0"`
	QuestionnaireID     string   `env:"QUESTIONNAIRE_ID" envDefault:"sport"`
	CatalogFile         string   `env:"CATALOG_FILE"`
	IdentityPalette     []string `env:"IDENTITY_PALETTE" envSeparator:","`
	SimilarLimit        int      `env:"SIMILAR_LIMIT" envDefault:"5"`
	SubmitRateWindowSec int      `env:"SUBMIT_RATE_WINDOW_SECONDS" envDefault:"60"`
	SubmitRateMax       int      `env:"SUBMIT_RATE_MAX" envDefault:"10"`
	LogLevel            string   `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
