package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config armazena todas as configurações da API.
type Config struct {
	// Geral
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Banco de Dados (PostgreSQL)
	DatabaseURL string        `envconfig:"DATABASE_URL" required:"true"`
	DBTimeout   time.Duration `envconfig:"DB_TIMEOUT" default:"5s"`

	// Cache (Redis)
	RedisAddr string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	// Segurança (JWT)
	JWTSecretKey string        `envconfig:"JWT_SECRET_KEY" required:"true"`
	TokenExpiry  time.Duration `envconfig:"JWT_EXPIRY" default:"60m"`

	// Rate Limiting
	RateLimitMaxRequests int           `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"100"`
	RateLimitPeriod      time.Duration `envconfig:"RATE_LIMIT_PERIOD" default:"1m"`

	// CORS: lista separada por vírgulas; "*" libera qualquer origem.
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// O .env (se existir) já deve ter sido carregado pelo main via godotenv.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("erro de configuração: %w", err)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("erro de configuração: DATABASE_URL deve ser definida")
	}
	if len(strings.TrimSpace(cfg.JWTSecretKey)) < 16 {
		return nil, fmt.Errorf("erro de configuração: JWT_SECRET_KEY deve ter pelo menos 16 caracteres")
	}
	if cfg.RateLimitMaxRequests <= 0 {
		return nil, fmt.Errorf("erro de configuração: RATE_LIMIT_MAX_REQUESTS deve ser positivo")
	}
	return &cfg, nil
}

// IsProduction informa se a API roda em produção.
func (c *Config) IsProduction() bool {
	return c != nil && c.Environment == "production"
}
