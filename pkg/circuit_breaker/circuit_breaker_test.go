package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Astemirdum/lending-service/pkg/circuit_breaker"
	"github.com/stretchr/testify/require"
)

func Test_circuitBreaker_Call(t *testing.T) {
	t.Parallel()
	errService := errors.New("service error")
	successfulService := func() error { return nil }
	failingService := func() error { return errService }

	type fields struct {
		recordLength     int
		timeout          time.Duration
		percentile       float64
		recoveryRequests int
	}
	tests := []struct {
		name   string
		fields fields
	}{
		{
			name: "opens on failures, recovers through half-open",
			fields: fields{
				recordLength:     10,
				timeout:          50 * time.Millisecond,
				percentile:       0.30,
				recoveryRequests: 2,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cb := circuit_breaker.New(tt.fields.recordLength, tt.fields.timeout, tt.fields.percentile, tt.fields.recoveryRequests)
			for i := 0; i < 20; i++ {
				require.NoError(t, cb.Call(successfulService))
			}
			require.Equal(t, circuit_breaker.Closed, cb.State())

			for i := 0; i < 3; i++ {
				require.ErrorIs(t, cb.Call(failingService), errService)
			}
			require.Equal(t, circuit_breaker.Open, cb.State())

			called := false
			err := cb.Call(func() error { called = true; return nil })
			require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
			require.False(t, called)

			time.Sleep(tt.fields.timeout + 20*time.Millisecond)
			require.NoError(t, cb.Call(successfulService))
			require.Equal(t, circuit_breaker.HalfOpen, cb.State())
			require.NoError(t, cb.Call(successfulService))
			require.Equal(t, circuit_breaker.Closed, cb.State())

			for i := 0; i < 3; i++ {
				require.ErrorIs(t, cb.Call(failingService), errService)
			}
			require.Equal(t, circuit_breaker.Open, cb.State())

			time.Sleep(tt.fields.timeout + 20*time.Millisecond)
			require.ErrorIs(t, cb.Call(failingService), errService)
			require.Equal(t, circuit_breaker.Open, cb.State())
		})
	}
}

func Test_circuitBreaker_Reset(t *testing.T) {
	t.Parallel()
	cb := circuit_breaker.New(2, time.Hour, 0.5, 1)
	_ = cb.Call(func() error { return errors.New("boom") })
	require.Equal(t, circuit_breaker.Open, cb.State())

	cb.Reset()
	require.Equal(t, circuit_breaker.Closed, cb.State())
	require.NoError(t, cb.Call(func() error { return nil }))
}
