package storage

import (
	"bytes"
	"context"
	"testing"

	"brokerage/internal/config"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Put(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := NewLocalStore(fs, "/data/uploads", "/media")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), Object{
		Bucket:      "images",
		Key:         "properties/1700000000000-abcd1234.png",
		ContentType: "image/png",
		Size:        3,
		Body:        bytes.NewReader([]byte("png")),
	})
	require.NoError(t, err)
	assert.Equal(t, "/media/images/properties/1700000000000-abcd1234.png", url)

	data, err := afero.ReadFile(fs, "/data/uploads/images/properties/1700000000000-abcd1234.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.NoError(t, store.Ping(context.Background()))
}

func TestLocalStore_RefusesOverwriteAndEscape(t *testing.T) {
	store, err := NewLocalStore(afero.NewMemMapFs(), "/data", "/media")
	require.NoError(t, err)
	ctx := context.Background()

	obj := func(key string) Object {
		return Object{Bucket: "images", Key: key, Body: bytes.NewReader([]byte("x"))}
	}

	_, err = store.Put(ctx, obj("a/b.png"))
	require.NoError(t, err)
	_, err = store.Put(ctx, obj("a/b.png"))
	assert.Error(t, err, "existing objects are never overwritten")

	_, err = store.Put(ctx, obj("../../etc/passwd"))
	assert.Error(t, err)
}

func TestNew_SelectsDriver(t *testing.T) {
	store, err := New(context.Background(), &config.Config{StorageDriver: "local", StorageDir: t.TempDir(), StoragePublicURL: "/media"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	s3, err := New(context.Background(), &config.Config{
		StorageDriver: "s3",
		S3Endpoint:    "https://s3.example.com",
		S3AccessKey:   "key",
		S3SecretKey:   "secret",
		S3UseSSL:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com", s3.(*S3Store).publicURL)

	_, err = New(context.Background(), &config.Config{StorageDriver: "ftp"})
	assert.Error(t, err)
}
