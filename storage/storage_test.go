package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDisk(filepath.Join(dir, "videos"), "http://localhost:9000/videos/")
	require.NoError(t, err)

	url, err := d.Store(context.Background(), strings.NewReader("fake video bytes"), "video/mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/videos/"))
	assert.True(t, strings.HasSuffix(url, ".mp4"))

	name := url[strings.LastIndex(url, "/")+1:]
	data, err := os.ReadFile(filepath.Join(d.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "fake video bytes", string(data))
}

func TestDiskStoreUniqueNames(t *testing.T) {
	d, err := NewDisk(t.TempDir(), "http://x/v")
	require.NoError(t, err)

	a, err := d.Store(context.Background(), strings.NewReader("one"), "video/webm")
	require.NoError(t, err)
	b, err := d.Store(context.Background(), strings.NewReader("two"), "video/webm")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".mp4", extensionFor("video/mp4"))
	assert.Equal(t, ".mp4", extensionFor(""))
	assert.Equal(t, ".mov", extensionFor("video/quicktime"))
	assert.Equal(t, ".webm", extensionFor("video/webm"))
	assert.Equal(t, ".bin", extensionFor("application/x-unknown"))
}
