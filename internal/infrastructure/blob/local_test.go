package blob

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivetsoft/filedock/internal/domain/repository"
)

func TestStorageKey(t *testing.T) {
	key := StorageKey("filedock", "my summer photo.jpg")

	assert.True(t, strings.HasPrefix(key, "filedock/files/"))
	assert.True(t, strings.HasSuffix(key, "-my_summer_photo.jpg"))

	// the middle segment is a real uuid
	middle := strings.TrimPrefix(key, "filedock/files/")
	middle = strings.TrimSuffix(middle, "-my_summer_photo.jpg")
	_, err := uuid.Parse(middle)
	assert.NoError(t, err)

	// keys are unique per upload even for identical filenames
	assert.NotEqual(t, key, StorageKey("filedock", "my summer photo.jpg"))
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "filedock/files/abc-report.pdf"
	require.NoError(t, store.Put(ctx, key, []byte("content"), "application/pdf"))

	data, contentType, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)
	assert.Equal(t, "application/pdf", contentType)
}

func TestLocalStoreGetMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "filedock/files/nope")
	assert.ErrorIs(t, err, repository.ErrBlobNotFound)
}

func TestLocalStoreDeleteIdempotent(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "filedock/files/abc-doc.txt"
	require.NoError(t, store.Put(ctx, key, []byte("x"), "text/plain"))
	require.NoError(t, store.Delete(ctx, key))

	_, _, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, repository.ErrBlobNotFound)

	// deleting an absent blob is not an error
	assert.NoError(t, store.Delete(ctx, key))
}

func TestLocalStorePutOverwrites(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "filedock/files/abc-doc.txt"
	require.NoError(t, store.Put(ctx, key, []byte("one"), "text/plain"))
	require.NoError(t, store.Put(ctx, key, []byte("two"), "text/plain"))

	data, _, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}
