package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk_SaveRemove(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "images")
	d, err := NewLocalDisk(root, "/images/")
	require.NoError(t, err)

	url, err := d.Save("../../Cover.JPG", strings.NewReader("jpeg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/images/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	data, err := os.ReadFile(filepath.Join(root, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	require.NoError(t, d.Remove(url))
	_, err = os.Stat(filepath.Join(root, filepath.Base(url)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, d.Remove(url))
}
