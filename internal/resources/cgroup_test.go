package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLimitFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content+"\n"), 0644))
	return path
}

func TestCgroupMemoryLimitBytes(t *testing.T) {
	const total = 16 * gb

	t.Run("no candidate files", func(t *testing.T) {
		logger, _ := test.NewNullLogger()
		_, ok := cgroupMemoryLimitBytes(logger, total, nil)
		assert.False(t, ok)
	})

	t.Run("missing file falls through to the next candidate", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		good := writeLimitFile(t, "memory.max", "4294967296")

		limit, ok := cgroupMemoryLimitBytes(logger, total, []string{filepath.Join(t.TempDir(), "absent"), good})
		require.True(t, ok)
		assert.Equal(t, 4*gb, limit)
		assert.Equal(t, logrus.DebugLevel, hook.Entries[0].Level)
	})

	t.Run("unparsable content is skipped", func(t *testing.T) {
		logger, _ := test.NewNullLogger()
		sentinel := writeLimitFile(t, "memory.max", "max")
		good := writeLimitFile(t, "memory.limit_in_bytes", "2147483648")

		limit, ok := cgroupMemoryLimitBytes(logger, total, []string{sentinel, good})
		require.True(t, ok)
		assert.Equal(t, 2*gb, limit)
	})

	t.Run("limit above the host total is skipped", func(t *testing.T) {
		logger, _ := test.NewNullLogger()
		huge := writeLimitFile(t, "memory.max", "9223372036854771712")

		_, ok := cgroupMemoryLimitBytes(logger, total, []string{huge})
		assert.False(t, ok)
	})

	t.Run("limit below 1 MiB is skipped and surfaced at info", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		tiny := writeLimitFile(t, "memory.max", "500000")

		_, ok := cgroupMemoryLimitBytes(logger, total, []string{tiny})
		assert.False(t, ok)
		require.Len(t, hook.Entries, 1)
		assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
		assert.Contains(t, hook.LastEntry().Message, "below the 1 MiB minimum")
	})

	t.Run("first usable candidate wins over a tighter later one", func(t *testing.T) {
		logger, _ := test.NewNullLogger()
		v1 := writeLimitFile(t, "memory.limit_in_bytes", "4294967296")
		v2 := writeLimitFile(t, "memory.max", "1073741824")

		limit, ok := cgroupMemoryLimitBytes(logger, total, []string{v1, v2})
		require.True(t, ok)
		assert.Equal(t, 4*gb, limit)
	})

	t.Run("usable limit is logged at info", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		good := writeLimitFile(t, "memory.max", "4294967296")

		limit, ok := cgroupMemoryLimitBytes(logger, total, []string{good})
		require.True(t, ok)
		assert.LessOrEqual(t, limit, total)
		assert.GreaterOrEqual(t, limit, uint64(minCgroupMemoryLimitBytes))
		require.Len(t, hook.Entries, 1)
		assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
		assert.Contains(t, hook.LastEntry().Message, "Using cgroup memory limit of 4096 MB")
	})
}
