package diskspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	logger, _ := test.NewNullLogger()

	usage, err := Check(logger, t.TempDir())
	require.NoError(t, err)
	assert.Greater(t, usage.TotalBytes, uint64(0))
	assert.LessOrEqual(t, usage.AvailableBytes, usage.TotalBytes)
}

func TestCheckMissingPath(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, err := Check(logger, filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestDirSize(t *testing.T) {
	logger, _ := test.NewNullLogger()
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(root, "a"), make([]byte, 100), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b"), make([]byte, 250), 0644))

	assert.Equal(t, int64(350), DirSize(logger, root))
}

func TestDirSizeEmptyFolder(t *testing.T) {
	logger, _ := test.NewNullLogger()
	assert.Zero(t, DirSize(logger, t.TempDir()))
}
