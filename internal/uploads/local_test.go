package uploads

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"achihouse/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProviderUpload(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.New(io.Discard)
	provider, err := NewLocalProvider(config.LocalUploadsConfig{
		Dir:     dir,
		BaseURL: "/uploads/",
	}, &logger)
	require.NoError(t, err)

	data := []byte("fake image bytes")
	item, err := provider.Upload(context.Background(), "photo.JPG", "image/jpeg", data)
	require.NoError(t, err)

	assert.NotEmpty(t, item.PublicID)
	assert.Equal(t, "/uploads/"+item.PublicID+".jpg", item.URL)
	assert.EqualValues(t, len(data), item.Bytes)
	assert.Equal(t, "jpg", item.Format)
	assert.Equal(t, "image/jpeg", item.ContentType)

	stored, err := os.ReadFile(filepath.Join(dir, item.PublicID+".jpg"))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestLocalProviderCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	logger := zerolog.New(io.Discard)
	_, err := NewLocalProvider(config.LocalUploadsConfig{Dir: dir, BaseURL: "/files"}, &logger)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalProviderUniquePublicIDs(t *testing.T) {
	logger := zerolog.New(io.Discard)
	provider, err := NewLocalProvider(config.LocalUploadsConfig{
		Dir:     t.TempDir(),
		BaseURL: "/uploads",
	}, &logger)
	require.NoError(t, err)

	first, err := provider.Upload(context.Background(), "a.png", "image/png", []byte("one"))
	require.NoError(t, err)
	second, err := provider.Upload(context.Background(), "a.png", "image/png", []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first.PublicID, second.PublicID)
}
