package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "schedule-events", cfg.Kafka.TopicSchedule)
	assert.InDelta(t, 0.10, cfg.Business.ServiceFeeRate, 0.0001)
	assert.Equal(t, "VND", cfg.Business.Currency)
	assert.Equal(t, 30*time.Second, cfg.Business.SummaryCacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("SERVICE_FEE_RATE", "0.15")
	t.Setenv("SUMMARY_CACHE_TTL_SECONDS", "60")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.InDelta(t, 0.15, cfg.Business.ServiceFeeRate, 0.0001)
	assert.Equal(t, 60*time.Second, cfg.Business.SummaryCacheTTL)
}

func TestLoadRejectsBadFeeRate(t *testing.T) {
	t.Setenv("SERVICE_FEE_RATE", "1.5")
	cfg := Load()
	assert.InDelta(t, 0.10, cfg.Business.ServiceFeeRate, 0.0001)

	t.Setenv("SERVICE_FEE_RATE", "-0.2")
	cfg = Load()
	assert.InDelta(t, 0.10, cfg.Business.ServiceFeeRate, 0.0001)
}
