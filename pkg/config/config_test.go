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

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.True(t, cfg.Performance.CacheEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Performance.CacheTTL)
	assert.Equal(t, 5, cfg.Performance.DefaultTopN)
	assert.Equal(t, 3, cfg.Recommendation.AbsenceLimit)
	assert.Equal(t, 75.0, cfg.Recommendation.AttendanceFloor)
	assert.Equal(t, 2*time.Second, cfg.Warmup.RetryDelay)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("PERFORMANCE_CACHE_TTL", "90s")
	v.Set("RECOMMEND_MENTOR_AVERAGE", "92.5")
	v.Set("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	v.Set("JWT_EXPIRATION", "not-a-duration")
	cfg := fromViper(v)

	assert.Equal(t, 90*time.Second, cfg.Performance.CacheTTL)
	assert.Equal(t, 92.5, cfg.Recommendation.MentorAverage)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
}
