package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, ModeLinear, p.Mode)
	assert.Equal(t, time.Second, p.Initial)
	assert.Equal(t, 30*time.Second, p.Max)
	assert.Zero(t, p.MaxRetries)
	require.NoError(t, p.Validate())
}

func TestNewPolicy_OverridesAndClamping(t *testing.T) {
	p := NewPolicy(ModeFixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial, "initial above max is clamped")
	assert.Equal(t, 2*time.Second, p.Max)
	assert.Equal(t, ModeFixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)

	p = NewPolicy("bogus", 0, 0, -1)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestDelay(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name  string
		mode  Mode
		delay []time.Duration
	}{
		{"fixed", ModeFixed, []time.Duration{100 * ms, 100 * ms, 100 * ms, 100 * ms}},
		{"linear", ModeLinear, []time.Duration{100 * ms, 200 * ms, 250 * ms, 250 * ms}},
		{"exponential", ModeExponential, []time.Duration{100 * ms, 200 * ms, 250 * ms, 250 * ms}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPolicy(tt.mode, 100*ms, 250*ms, 4)
			assert.Zero(t, p.Delay(0))
			for i, want := range tt.delay {
				assert.Equal(t, want, p.Delay(i+1), "retry %d", i+1)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Exponential ")
	require.NoError(t, err)
	assert.Equal(t, ModeExponential, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeLinear, m)

	_, err = ParseMode("random")
	require.Error(t, err)
}

func TestDo(t *testing.T) {
	transient := errors.New("transient")
	permanent := errors.New("permanent")
	retryable := func(err error) bool { return errors.Is(err, transient) }
	p := NewPolicy(ModeFixed, time.Millisecond, time.Millisecond, 2)

	t.Run("succeeds after retry", func(t *testing.T) {
		calls := 0
		err := p.Do(context.Background(), func(int) error {
			calls++
			if calls < 2 {
				return transient
			}
			return nil
		}, retryable)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var attempts []int
		err := p.Do(context.Background(), func(attempt int) error {
			attempts = append(attempts, attempt)
			return transient
		}, retryable)
		require.ErrorIs(t, err, transient)
		assert.Equal(t, []int{0, 1, 2}, attempts)
	})

	t.Run("permanent error stops", func(t *testing.T) {
		calls := 0
		err := p.Do(context.Background(), func(int) error {
			calls++
			return permanent
		}, retryable)
		require.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := NewPolicy(ModeFixed, time.Hour, time.Hour, 3)
		calls := 0
		err := slow.Do(ctx, func(int) error {
			calls++
			return transient
		}, retryable)
		require.ErrorIs(t, err, transient)
		assert.Equal(t, 1, calls)
	})
}
