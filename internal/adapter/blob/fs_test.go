package blob

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store, err := NewFS(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, store.Driver())

	obj, err := store.Put(ctx, "exports/history-1.csv", []byte("a,b\n"), "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "exports/history-1.csv", obj.Key)
	assert.Equal(t, int64(4), obj.Size)
	assert.FileExists(t, obj.URL)

	data, err := store.Get(ctx, "exports/history-1.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	_, err = store.Put(ctx, "exports/history-1.csv", []byte("x"), "text/csv")
	assert.True(t, errors.Is(err, ErrExists))

	_, err = store.Get(ctx, "exports/missing.csv")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFSStore_RejectsUnsafeKeys(t *testing.T) {
	store, err := NewFS(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape.csv", "/etc/passwd", "a/../../b"} {
		_, err := store.Put(context.Background(), key, []byte("x"), "")
		assert.Error(t, err, key)
	}
}
