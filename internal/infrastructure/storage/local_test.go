package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalBlobStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalBlobStore(dir, "/uploads/", zap.NewNop())
	require.NoError(t, err)

	content := "fake pdf bytes"
	blob, err := store.Save(context.Background(), "statement.pdf", "application/pdf", int64(len(content)), strings.NewReader(content))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(blob.Key, "/statement.pdf"))
	assert.Equal(t, "/uploads/"+blob.Key, blob.URL)

	written, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(blob.Key)))
	require.NoError(t, err)
	assert.Equal(t, content, string(written))
}

func TestLocalBlobStore_KeysNeverCollide(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir(), "/uploads", zap.NewNop())
	require.NoError(t, err)

	first, err := store.Save(context.Background(), "w2.pdf", "application/pdf", 1, strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Save(context.Background(), "w2.pdf", "application/pdf", 1, strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
}

func TestLocalBlobStore_RequiresDirectory(t *testing.T) {
	_, err := NewLocalBlobStore("", "/uploads", zap.NewNop())
	assert.Error(t, err)
}

func TestBlobKey_StripsPathTraversal(t *testing.T) {
	key := blobKey("../../etc/passwd")
	assert.True(t, strings.HasSuffix(key, "/passwd"))
	assert.NotContains(t, key, "..")

	key = blobKey(`..\..\windows\system32\config`)
	assert.True(t, strings.HasSuffix(key, "/config"))
	assert.NotContains(t, key, `\`)

	key = blobKey("")
	assert.True(t, strings.HasSuffix(key, "/upload"))
}
