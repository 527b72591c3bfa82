package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRunUntilDeadline(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewController(Options{
		Mode:  IndependentSource,
		Rates: []float64{200, 0},
		Seed:  3,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	var got []int
	err := Run(ctx, c, func(panel int, chunk string) {
		got = append(got, panel)
		assert.NotEmpty(t, chunk)
	})
	require.NoError(t, err)

	assert.False(t, c.Running())
	assert.NotEmpty(t, got)
	for _, panel := range got {
		assert.Equal(t, 0, panel, "the paused panel never ticks")
	}
	assert.NotEmpty(t, c.Panel(0).Output(), "output survives the stop")
	assert.Empty(t, c.Panel(1).Output())
}

func TestRunCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewController(Options{Rates: []float64{50, 50}})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := Run(ctx, c, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunAllPaused(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewController(Options{Rates: []float64{0, -2}})
	err := Run(context.Background(), c, nil)
	assert.ErrorIs(t, err, ErrAllPaused)
	assert.False(t, c.Running())
}
