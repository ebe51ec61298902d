package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalMediaStorage_Store(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	storage, err := NewLocalMediaStorage(dir, "/uploads")
	require.NoError(t, err)

	ref, err := storage.Store(context.Background(), "Room Photo.JPG", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/"))
	assert.True(t, strings.HasSuffix(ref, ".jpg"))

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(ref, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	other, err := storage.Store(context.Background(), "Room Photo.JPG", "image/jpeg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)
}
