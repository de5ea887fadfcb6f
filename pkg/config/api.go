package config

import "time"

// APIConfig holds runtime configuration for the account service.
type APIConfig struct {
	Environment        string
	Addr               string
	DatabaseURL        string
	MigrationsDir      string
	AdminSessionSecret string
	AdminSessionTTL    time.Duration
	RateLimitRedisAddr string
	RateLimitRedisPass string
	RateLimitRedisDB   int
	RateLimitCreate    int
	RateLimitToken     int
	RateLimitProfile   int
}

// LoadAPIConfig constructs an APIConfig from environment variables.
func LoadAPIConfig() APIConfig {
	return APIConfig{
		Environment:        GetString("APP_ENV", "development"),
		Addr:               GetString("API_ADDR", ":8000"),
		DatabaseURL:        GetString("DATABASE_URL", "postgres://accountd:accountd@db:5432/accountd?sslmode=disable"),
		MigrationsDir:      GetString("DB_MIGRATIONS_DIR", "db/migrations"),
		AdminSessionSecret: GetString("ADMIN_SESSION_SECRET", "supersecuresecret"),
		AdminSessionTTL:    time.Duration(GetInt("ADMIN_SESSION_TTL_HOURS", 12)) * time.Hour,
		RateLimitRedisAddr: GetString("RATE_LIMIT_REDIS_ADDR", ""),
		RateLimitRedisPass: GetString("RATE_LIMIT_REDIS_PASSWORD", ""),
		RateLimitRedisDB:   GetInt("RATE_LIMIT_REDIS_DB", 0),
		RateLimitCreate:    GetInt("RATE_LIMIT_CREATE", 10),
		RateLimitToken:     GetInt("RATE_LIMIT_TOKEN", 12),
		RateLimitProfile:   GetInt("RATE_LIMIT_PROFILE", 120),
	}
}
