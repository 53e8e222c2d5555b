package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext_WithTimeout(t *testing.T) {
	cfg := &Config{Timeout: 50 * time.Millisecond}

	ctx, cancel := NewContext(context.Background(), cfg)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(cfg.Timeout), deadline, 20*time.Millisecond)
}

func TestNewContext_ZeroTimeoutNeverExpires(t *testing.T) {
	cfg := &Config{Timeout: 0}

	ctx, cancel := NewContext(context.Background(), cfg)
	defer cancel()

	_, ok := ctx.Deadline()
	assert.False(t, ok)
}

func TestNewContext_NilConfigNeverExpires(t *testing.T) {
	ctx, cancel := NewContext(context.Background(), nil)
	defer cancel()

	_, ok := ctx.Deadline()
	assert.False(t, ok)
}

func TestNewContext_NilParentDefaultsToBackground(t *testing.T) {
	ctx, cancel := NewContext(nil, &Config{Timeout: time.Second})
	defer cancel()

	require.NotNil(t, ctx)
	_, ok := ctx.Deadline()
	assert.True(t, ok)
}

func TestNewContext_CancelStopsContext(t *testing.T) {
	ctx, cancel := NewContext(context.Background(), &Config{Timeout: time.Minute})
	cancel()

	select {
	case <-ctx.Done():
	default:
		t.Fatal("expected context to be done after cancel")
	}
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
