package service_test

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/service"
)

func TestSaveDataURIWritesLocalFile(t *testing.T) {
	root := t.TempDir()
	images := service.NewImageService(service.NewLocalImageStorage(root))

	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
	url, err := images.SaveDataURI(context.Background(), "data:image/png;base64,"+payload)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/media/images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(root, "images", filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "fake png bytes", string(data))
}

func TestSaveDataURIPassesThroughURLs(t *testing.T) {
	images := service.NewImageService(service.NewLocalImageStorage(t.TempDir()))

	url, err := images.SaveDataURI(context.Background(), "https://cdn.example.com/pic.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/pic.jpg", url)
}

func TestSaveDataURIRejectsBadPayloads(t *testing.T) {
	images := service.NewImageService(service.NewLocalImageStorage(t.TempDir()))
	ctx := context.Background()

	var verr *service.ValidationError

	_, err := images.SaveDataURI(ctx, "data:text/plain;base64,aGVsbG8=")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "image", verr.Field)

	_, err = images.SaveDataURI(ctx, "data:image/png;base64,%%%not-base64%%%")
	require.ErrorAs(t, err, &verr)
}
