package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort             string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL          string `env:"DATABASE_URL,required"`
	DBMaxConns           int    `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns           int    `env:"DB_MIN_CONNS" envDefault:"1"`
	DBConnectTimeoutSecs int    `env:"DB_CONNECT_TIMEOUT_SECONDS" envDefault:"5"`
	JWTSecret            string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`
	RedisAddr            string `env:"REDIS_ADDR"`
	RedisPassword        string `env:"REDIS_PASSWORD"`
	RedisDB              int    `env:"REDIS_DB" envDefault:"0"`
	MatchCacheTTLSeconds int    `env:"MATCH_CACHE_TTL_SECONDS" envDefault:"300"`
	MatchWorkers         int    `env:"MATCH_WORKERS" envDefault:"4"`
	// Vacio usa el cuestionario incluido en el binario.
	QuestionnairePath string `env:"QUESTIONNAIRE_PATH"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) MatchCacheTTL() time.Duration {
	return time.Duration(c.MatchCacheTTLSeconds) * time.Second
}
