package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsVideoExt(t *testing.T) {
	assert.True(t, IsVideoExt(".mp4"))
	assert.True(t, IsVideoExt(".mkv"))
	assert.False(t, IsVideoExt(".MP4")) // callers lowercase first
	assert.False(t, IsVideoExt(".txt"))
	assert.False(t, IsVideoExt(""))
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp4")
	dst := filepath.Join(dir, "dst.mp4")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	require.NoError(t, moveFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestMoveFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := moveFile(filepath.Join(dir, "absent.mp4"), filepath.Join(dir, "dst.mp4"))
	assert.Error(t, err)
}
