package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	StoreDriver string // "postgres" or "memory"
	DatabaseURL string

	JWTSecret     string
	JWTTTL        time.Duration
	SessionSecret string

	RedisAddr         string
	CommentRateLimit  int64
	CommentRateWindow time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	AuthorCacheSize int
	AuthorCacheTTL  time.Duration

	DefaultPageLimit int
	MaxPageLimit     int
	ValidateParent   bool

	LogLevel  string
	LogFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("STORE_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=lifora port=5432 sslmode=disable TimeZone=UTC")
	v.SetDefault("JWT_SECRET", "lifora_jwt_secret_change_me")
	v.SetDefault("JWT_TTL", "72h")
	v.SetDefault("SESSION_SECRET", "lifora_session_secret_change_me")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("COMMENT_RATE_LIMIT", 10)
	v.SetDefault("COMMENT_RATE_WINDOW", "1m")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "comment-events")
	v.SetDefault("AUTHOR_CACHE_SIZE", 500)
	v.SetDefault("AUTHOR_CACHE_TTL", "5m")
	v.SetDefault("COMMENTS_DEFAULT_LIMIT", 50)
	v.SetDefault("COMMENTS_MAX_LIMIT", 200)
	v.SetDefault("COMMENTS_VALIDATE_PARENT", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, reading configuration from environment")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:              v.GetString("PORT"),
		GinMode:           v.GetString("GIN_MODE"),
		CORSOrigins:       splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		StoreDriver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTTTL:            v.GetDuration("JWT_TTL"),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		CommentRateLimit:  v.GetInt64("COMMENT_RATE_LIMIT"),
		CommentRateWindow: v.GetDuration("COMMENT_RATE_WINDOW"),
		KafkaBrokers:      splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
		AuthorCacheSize:   v.GetInt("AUTHOR_CACHE_SIZE"),
		AuthorCacheTTL:    v.GetDuration("AUTHOR_CACHE_TTL"),
		DefaultPageLimit:  v.GetInt("COMMENTS_DEFAULT_LIMIT"),
		MaxPageLimit:      v.GetInt("COMMENTS_MAX_LIMIT"),
		ValidateParent:    v.GetBool("COMMENTS_VALIDATE_PARENT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
	}

	if cfg.DefaultPageLimit <= 0 {
		cfg.DefaultPageLimit = 50
	}
	if cfg.MaxPageLimit < cfg.DefaultPageLimit {
		cfg.MaxPageLimit = cfg.DefaultPageLimit
	}
	if cfg.AuthorCacheSize <= 0 {
		cfg.AuthorCacheSize = 500
	}
	return cfg
}

// splitList turns "a:9092, b:9092" into a clean slice; empty input yields nil.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
