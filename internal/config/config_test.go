package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, 50, cfg.DefaultPageLimit)
	assert.Equal(t, 200, cfg.MaxPageLimit)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, time.Minute, cfg.CommentRateWindow)
	assert.Equal(t, int64(10), cfg.CommentRateLimit)
	assert.False(t, cfg.ValidateParent)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("STORE_DRIVER", "MEMORY")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("COMMENTS_DEFAULT_LIMIT", 0)
	v.Set("COMMENTS_MAX_LIMIT", 10)
	v.Set("COMMENTS_VALIDATE_PARENT", "true")

	cfg := fromViper(v)

	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 50, cfg.DefaultPageLimit)
	assert.Equal(t, 50, cfg.MaxPageLimit)
	assert.True(t, cfg.ValidateParent)
}
