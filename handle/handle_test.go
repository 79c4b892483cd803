package handle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider(t *testing.T) {
	t.Run("opens lazily and closes with last handle", func(t *testing.T) {
		log := []string{}
		p := NewProvider(
			func() (int, error) { log = append(log, "open"); return 42, nil },
			func(v int) { log = append(log, "close") },
		)

		a := p.Acquire()
		b := p.Acquire()
		assert.Empty(t, log)
		assert.Equal(t, 2, p.Refs())

		v, err := a.Resource()
		require.NoError(t, err)
		assert.Equal(t, 42, v)

		v, err = b.Resource()
		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, []string{"open"}, log)

		a.Dispose()
		assert.True(t, p.IsOpen())
		b.Dispose()
		assert.False(t, p.IsOpen())
		assert.Equal(t, []string{"open", "close"}, log)
	})

	t.Run("never opened is never closed", func(t *testing.T) {
		closed := false
		p := NewProvider(func() (int, error) { return 1, nil }, func(int) { closed = true })

		p.Acquire().Dispose()
		assert.False(t, closed)
	})

	t.Run("failed open is retried", func(t *testing.T) {
		calls := 0
		p := NewProvider(func() (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("busy")
			}
			return "device", nil
		}, nil)

		h := p.Acquire()
		_, err := h.Resource()
		require.Error(t, err)

		v, err := h.Resource()
		require.NoError(t, err)
		assert.Equal(t, "device", v)
		assert.Equal(t, 2, calls)
	})

	t.Run("dispose is idempotent", func(t *testing.T) {
		p := Static("x")
		a := p.Acquire()
		b := p.Acquire()

		a.Dispose()
		a.Dispose()
		assert.Equal(t, 1, p.Refs())

		_, err := a.Resource()
		assert.ErrorIs(t, err, ErrDisposed)

		v, err := b.Resource()
		require.NoError(t, err)
		assert.Equal(t, "x", v)
	})
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable[int](nil).Resource()
	assert.ErrorIs(t, err, ErrUnavailable)

	custom := errors.New("no device configured")
	_, err = Unavailable[int](custom).Resource()
	assert.ErrorIs(t, err, custom)
}
