package scheduler

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_RejectsBadSpec(t *testing.T) {
	s := New(zerolog.Nop(), time.UTC)

	err := s.Add("broken", "every now and then", time.Second, func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	assert.NoError(t, s.Add("tick", "*/15 * * * *", time.Second, func(context.Context) error { return nil }))
}

func TestWrap_LogsFailuresAndBoundsContext(t *testing.T) {
	var buf bytes.Buffer
	s := New(zerolog.New(&buf), time.UTC)

	var deadline bool
	s.wrap("recurring", time.Minute, func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return errors.New("db down")
	})()

	assert.True(t, deadline)
	assert.Contains(t, buf.String(), "cron job failed")
	assert.Contains(t, buf.String(), "db down")
}

func TestStartStop(t *testing.T) {
	s := New(zerolog.Nop(), time.UTC)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
