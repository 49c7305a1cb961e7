package loader

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadCaches(t *testing.T) {
	calls := 0
	l := New(func(ctx context.Context, key string) ([]string, error) {
		calls++
		return []string{"form-" + key}, nil
	})
	l.SetKey("1")
	assert.Equal(t, Idle, l.State())

	data, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"form-1"}, data)
	assert.Equal(t, Loaded, l.State())

	_, err = l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = l.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestLoader_FailureThenRetry(t *testing.T) {
	fail := true
	l := New(func(ctx context.Context, key string) (int, error) {
		if fail {
			return 0, errors.New("network down")
		}
		return 7, nil
	})

	_, err := l.Load(context.Background())
	require.Error(t, err)
	snap := l.Snapshot()
	assert.Equal(t, Failed, snap.State)
	assert.EqualError(t, snap.Err, "network down")

	fail = false
	v, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Nil(t, l.Snapshot().Err)
}

func TestLoader_KeyChangeResets(t *testing.T) {
	l := New(func(ctx context.Context, key string) (string, error) {
		return "detail " + key, nil
	})
	l.SetKey("a")
	_, err := l.Load(context.Background())
	require.NoError(t, err)

	l.SetKey("a")
	assert.Equal(t, Loaded, l.State())

	l.SetKey("b")
	assert.Equal(t, Idle, l.State())
	assert.Empty(t, l.Snapshot().Data)

	v, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "detail b", v)
}

func TestLoader_StaleResultDiscarded(t *testing.T) {
	var l *Loader[string]
	l = New(func(ctx context.Context, key string) (string, error) {
		if key == "old" {
			// the user navigated away while this request was in flight
			l.SetKey("new")
		}
		return "result for " + key, nil
	})
	l.SetKey("old")

	_, err := l.Load(context.Background())

	assert.ErrorIs(t, err, context.Canceled)
	snap := l.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Equal(t, "new", snap.Key)
	assert.Empty(t, snap.Data)
}
