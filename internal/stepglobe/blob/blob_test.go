package blob_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/blob"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func TestFS_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := blob.NewFS(root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key := "01JACCOUNT/01JSHOT.png"
	require.NoError(t, s.Put(ctx, key, "image/png", []byte("first")))
	require.NoError(t, s.Put(ctx, key, "image/png", []byte("second")))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "second", string(got))

	_, err = os.Stat(filepath.Join(root, "01JACCOUNT", "01JSHOT.png"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key), "deleting a missing object is fine")

	_, err = s.Get(ctx, key)
	require.ErrorIs(t, err, blob.ErrNotFound)
}

func TestBucket_Memory(t *testing.T) {
	ctx := context.Background()
	s := blob.New(memblob.OpenBucket(nil))
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Put(ctx, "a/b.jpg", "image/jpeg", []byte("jpeg")))
	got, err := s.Get(ctx, "a/b.jpg")
	require.NoError(t, err)
	require.Equal(t, "jpeg", string(got))

	require.NoError(t, s.Delete(ctx, "a/b.jpg"))
	_, err = s.Get(ctx, "a/b.jpg")
	require.ErrorIs(t, err, blob.ErrNotFound)
}

func TestFS_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, err := blob.NewFS(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	for _, key := range []string{"", "/etc/passwd", "../x.png", "a/../../x.png", "a//b.png", `a\b.png`, "."} {
		require.ErrorIs(t, s.Put(ctx, key, "", []byte("x")), blob.ErrInvalidKey, key)
	}
}

func TestNewFS_RequiresRoot(t *testing.T) {
	_, err := blob.NewFS("")
	require.Error(t, err)
}
