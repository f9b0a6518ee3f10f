// Package diskspace reports available disk space and folder sizes so callers
// can warn before the CodeQL CLI runs out of room mid-analysis.
package diskspace

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/sirupsen/logrus"
)

// minAvailableBytes is the free-space floor below which a warning is logged.
// Database finalisation can easily need this much scratch space.
const minAvailableBytes = 2 * 1024 * 1024 * 1024

// Usage describes the filesystem holding a path.
type Usage struct {
	AvailableBytes uint64
	TotalBytes     uint64
}

// Check returns the disk usage for the filesystem containing path and warns
// when the available space is below the 2 GiB floor.
func Check(logger *logrus.Logger, path string) (Usage, error) {
	stat, err := disk.Usage(path)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to check disk usage for %s: %w", path, err)
	}
	usage := Usage{AvailableBytes: stat.Free, TotalBytes: stat.Total}
	if usage.AvailableBytes < minAvailableBytes {
		logger.Warnf("Only %d MB available on the filesystem containing %s, the CodeQL CLI may run out of disk space", usage.AvailableBytes/(1024*1024), path)
	}
	return usage, nil
}

// DirSize returns the total size in bytes of the regular files under root.
// Unreadable entries are skipped rather than failing the whole walk, since a
// partial measurement is still useful for a warning.
func DirSize(logger *logrus.Logger, root string) int64 {
	var size int64
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debugf("Skipping %s while measuring folder size: %v", path, err)
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				size += info.Size()
			}
		}
		return nil
	})
	return size
}
