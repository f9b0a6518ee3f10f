package resources

import (
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Cgroup memory limit locations, in preference order. Different container and
// cgroup versions expose the limit at different paths, but only one version is
// active in practice, so the first usable file wins.
var cgroupMemoryLimitPaths = []string{
	"/sys/fs/cgroup/memory/memory.limit_in_bytes", // cgroup v1
	"/sys/fs/cgroup/memory.max",                   // cgroup v2
}

// minCgroupMemoryLimitBytes is the smallest limit treated as real. A sub-1MiB
// value means the limit is absent or meaningless, not a tiny budget.
const minCgroupMemoryLimitBytes = 1024 * 1024

// cgroupMemoryLimitBytes returns the container memory limit from the first
// usable file in paths. Missing files are expected on non-containerised hosts.
// Unparsable content (including the cgroup v2 "max" sentinel), values above
// the host total, and values below the 1 MiB floor are all skipped.
func cgroupMemoryLimitBytes(logger *logrus.Logger, totalBytes uint64, paths []string) (uint64, bool) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Debugf("No cgroup memory limit at %s", path)
			continue
		}
		content := strings.TrimSpace(string(data))
		limit, err := strconv.ParseUint(content, 10, 64)
		if err != nil {
			logger.Debugf("Ignoring cgroup memory limit %q at %s: not an integer", content, path)
			continue
		}
		if limit > totalBytes {
			logger.Debugf("Ignoring cgroup memory limit of %d bytes at %s: exceeds the %d bytes of system memory", limit, path, totalBytes)
			continue
		}
		if limit < minCgroupMemoryLimitBytes {
			logger.Infof("Ignoring cgroup memory limit of %d bytes at %s: below the 1 MiB minimum", limit, path)
			continue
		}
		logger.Infof("Using cgroup memory limit of %d MB from %s", limit/bytesPerMB, path)
		return limit, true
	}
	return 0, false
}
