package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/decorate"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.Equal(t, 3, cfg.MaxTries)
	assert.Equal(t, 1*time.Second, cfg.Delay)
}

func TestConfig_GetMaxTries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      *Config
		expected int
	}{
		{"nil config", nil, 3},
		{"zero value", &Config{MaxTries: 0}, 3},
		{"custom value", &Config{MaxTries: 5}, 5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.cfg.GetMaxTries())
		})
	}
}

func TestConfig_GetDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      *Config
		expected time.Duration
	}{
		{"nil config", nil, 1 * time.Second},
		{"negative value", &Config{Delay: -1}, 1 * time.Second},
		{"zero value", &Config{Delay: 0}, 0},
		{"custom value", &Config{Delay: 50 * time.Millisecond}, 50 * time.Millisecond},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.cfg.GetDelay())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (*Config)(nil).Validate())
	assert.NoError(t, (&Config{MaxTries: 3}).Validate())
	assert.ErrorIs(t, (&Config{MaxTries: -1}).Validate(), ErrInvalidMaxTries)
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), DefaultConfig(), func() error {
		calls++
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	cfg := &Config{MaxTries: 5, Delay: time.Millisecond}
	calls := 0
	err := Do(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	cfg := &Config{MaxTries: 3, Delay: time.Millisecond}
	wantErr := errors.New("always fails")
	calls := 0
	err := Do(context.Background(), cfg, func() error {
		calls++
		return wantErr
	}, nil)

	assert.Equal(t, 3, calls)
	assert.Equal(t, wantErr, err)
}

func TestDo_DelayBetweenAttempts(t *testing.T) {
	t.Parallel()

	cfg := &Config{MaxTries: 3, Delay: 20 * time.Millisecond}
	start := time.Now()
	err := Do(context.Background(), cfg, func() error {
		return errors.New("fail")
	}, nil)
	elapsed := time.Since(start)

	require.Error(t, err)
	// Two pauses between three attempts.
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestDo_InvalidMaxTries(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), &Config{MaxTries: -1}, func() error {
		calls++
		return nil
	}, nil)

	assert.ErrorIs(t, err, ErrInvalidMaxTries)
	assert.Equal(t, 0, calls)
}

func TestDo_ShouldRetryStopsEarly(t *testing.T) {
	t.Parallel()

	fatal := errors.New("fatal")
	cfg := &Config{MaxTries: 5, Delay: time.Millisecond}
	calls := 0
	err := Do(context.Background(), cfg, func() error {
		calls++
		return fatal
	}, &Options{
		ShouldRetry: func(err error) bool { return !errors.Is(err, fatal) },
	})

	assert.Equal(t, fatal, err)
	assert.Equal(t, 1, calls)
}

func TestDo_OnRetryCallback(t *testing.T) {
	t.Parallel()

	cfg := &Config{MaxTries: 3, Delay: time.Millisecond}
	var attempts []int
	_ = Do(context.Background(), cfg, func() error {
		return errors.New("fail")
	}, &Options{
		OnRetry: func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
			assert.Error(t, err)
			assert.Equal(t, time.Millisecond, delay)
		},
	})

	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, DefaultConfig(), func() error {
		t.Fatal("should not be called")
		return nil
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoValue(t *testing.T) {
	t.Parallel()

	cfg := &Config{MaxTries: 3, Delay: time.Millisecond}
	calls := 0
	value, err := DoValue(context.Background(), cfg, func(_ context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("transient")
		}
		return "ok", nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, 2, calls)
}

func TestDoValue_ReturnsZeroOnFailure(t *testing.T) {
	t.Parallel()

	cfg := &Config{MaxTries: 2, Delay: time.Millisecond}
	value, err := DoValue(context.Background(), cfg, func(_ context.Context) (int, error) {
		return 42, errors.New("fail")
	}, nil)

	assert.Error(t, err)
	assert.Zero(t, value)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	mw, err := Middleware[int](&Config{MaxTries: 3, Delay: time.Millisecond}, nil)
	require.NoError(t, err)

	calls := 0
	fn := decorate.Chain(func(_ context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 7, nil
	}, mw)

	value, err := fn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, value)
	assert.Equal(t, 3, calls)
}

func TestMiddleware_InvalidConfig(t *testing.T) {
	t.Parallel()

	mw, err := Middleware[int](&Config{MaxTries: -2}, nil)
	assert.ErrorIs(t, err, ErrInvalidMaxTries)
	assert.Nil(t, mw)
}
