package discord

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-bot/internal/common/config"
)

func TestRecordsContextUsesConfiguredTimeout(t *testing.T) {
	cfg := &config.Config{}
	cfg.Records.TimeoutMillis = 5000
	b := &Bot{cfg: cfg}

	ctx, cancel := b.recordsContext()
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
}

func TestRecordsContextDefaultsWhenUnset(t *testing.T) {
	b := &Bot{cfg: &config.Config{}}

	ctx, cancel := b.recordsContext()
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(15*time.Second), deadline, time.Second)
}
