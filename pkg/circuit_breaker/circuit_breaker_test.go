package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/svazquez/biblioteca-service/pkg/circuit_breaker"
)

func Test_circuitBreaker_Call(t *testing.T) {
	ok := func() error { return nil }
	fail := func() error { return errors.New("service error") }

	t.Run("stays closed on successes", func(t *testing.T) {
		cb := circuit_breaker.New(10, time.Second, 0.5, 2)
		for i := 0; i < 30; i++ {
			require.NoError(t, cb.Call(ok))
		}
	})

	t.Run("opens after failure rate exceeded", func(t *testing.T) {
		cb := circuit_breaker.New(10, time.Minute, 0.5, 2)
		for i := 0; i < 5; i++ {
			require.Error(t, cb.Call(fail))
		}
		err := cb.Call(ok)
		require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
	})

	t.Run("half-open recovers after timeout", func(t *testing.T) {
		cb := circuit_breaker.New(4, 50*time.Millisecond, 0.5, 1)
		for i := 0; i < 2; i++ {
			require.Error(t, cb.Call(fail))
		}
		require.ErrorIs(t, cb.Call(ok), circuit_breaker.ErrOpenCB)

		time.Sleep(60 * time.Millisecond)

		// probes succeed until recovery threshold, then closed again
		require.NoError(t, cb.Call(ok))
		require.NoError(t, cb.Call(ok))
		require.NoError(t, cb.Call(ok))
	})

	t.Run("half-open failure reopens", func(t *testing.T) {
		cb := circuit_breaker.New(4, 50*time.Millisecond, 0.5, 2)
		for i := 0; i < 2; i++ {
			require.Error(t, cb.Call(fail))
		}
		time.Sleep(60 * time.Millisecond)

		require.Error(t, cb.Call(fail))
		require.ErrorIs(t, cb.Call(ok), circuit_breaker.ErrOpenCB)
	})
}
