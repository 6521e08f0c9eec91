// internal/common/camunda/client_test.go
package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"festival-matcher/internal/common/config"
	"festival-matcher/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		err       string
		retryable bool
	}{
		{"rpc error: code = Unavailable desc = connection refused", true},
		{"context deadline exceeded", true},
		{"read: connection reset by peer", true},
		{"write: broken pipe", true},
		{"rpc error: code = PermissionDenied", false},
		{"invalid gateway address", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryableZeebeError(errors.New(tt.err)))
		})
	}
}

func TestBackoff(t *testing.T) {
	rc := &RetryConfig{BaseDelay: time.Second, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, backoff(rc, 0))
	assert.Equal(t, 2*time.Second, backoff(rc, 1))
	assert.Equal(t, 4*time.Second, backoff(rc, 2))
	assert.Equal(t, 5*time.Second, backoff(rc, 3))
	assert.Equal(t, 5*time.Second, backoff(rc, 62))
}

func TestConfigFromApp(t *testing.T) {
	c := ConfigFromApp(config.CamundaConfig{BrokerAddress: "zeebe:26500", UsePlaintext: true, RequestTimeout: 2500})
	assert.Equal(t, "zeebe:26500", c.GatewayAddress)
	assert.True(t, c.UsePlaintextConnection)
	assert.Equal(t, 2500*time.Millisecond, c.ConnectionTimeout)
	assert.Same(t, DefaultRetryConfig, c.RetryConfig)

	assert.Equal(t, 10*time.Second, ConfigFromApp(config.CamundaConfig{}).ConnectionTimeout)
}

func TestConnect_CancelledWhileRetrying(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	cfg := &ClientConfig{
		GatewayAddress:         "127.0.0.1:1",
		UsePlaintextConnection: true,
		ConnectionTimeout:      50 * time.Millisecond,
		RetryConfig:            &RetryConfig{MaxRetries: 100, BaseDelay: 20 * time.Millisecond, MaxDelay: 50 * time.Millisecond},
	}

	_, err := Connect(ctx, cfg, logger.NewTestLogger(t))
	require.Error(t, err)
}
