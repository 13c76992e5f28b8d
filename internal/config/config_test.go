package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, ":8082", cfg.OrderSvcAddr)
	assert.Equal(t, "order-pdfs", cfg.Storage.Bucket)
	assert.Equal(t, "ORD", cfg.OrderNumberPrefix)
	assert.Equal(t, 3, cfg.OrderCreateMaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BUCKET", "pdfs-test")
	t.Setenv("STORAGE_ENDPOINT", "http://minio:9000")
	t.Setenv("WEBHOOK_TIMEOUT", "2s")
	t.Setenv("ORDER_CREATE_MAX_ATTEMPTS", "5")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "pdfs-test", cfg.Storage.Bucket)
	assert.Equal(t, "http://minio:9000", cfg.Storage.Endpoint)
	assert.Equal(t, 2*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 5, cfg.OrderCreateMaxAttempts)
}

func TestParse_BadValue(t *testing.T) {
	t.Setenv("WEBHOOK_TIMEOUT", "soon")
	_, err := Parse()
	assert.Error(t, err)
}
