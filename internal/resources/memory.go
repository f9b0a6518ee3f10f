// Package resources derives safe memory and thread budgets for the CodeQL
// CLI from host introspection, container limits, and user overrides. The CLI
// over-commits when left to its own defaults, so the values produced here are
// passed to it explicitly via --ram and --threads.
package resources

import (
	"fmt"
	"math"
	"runtime"
	"strconv"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"

	"github.com/KingFrozMulti/codeql-action/internal/envvars"
)

const bytesPerMB = 1024 * 1024

const (
	// fixedReserveMB is withheld from every budget to leave headroom for the
	// OS and sibling processes.
	fixedReserveMB = 1024

	// fixedReserveWindowsMB replaces fixedReserveMB on Windows, where OS
	// overhead for heavyweight analysis processes is empirically larger.
	fixedReserveWindowsMB = 1536

	// scaledReserveThresholdMB is the point above which reservation scales
	// with memory size. Kernel overhead that grows with physical memory, such
	// as page-table bookkeeping, is negligible below 8 GiB.
	scaledReserveThresholdMB = 8192

	// defaultReserveScale is the fraction of memory above the threshold that
	// is withheld in addition to the fixed reserve.
	defaultReserveScale = 0.05
)

// ResolveMemoryMB returns the memory budget in MB to pass to the CodeQL CLI.
// A non-empty override wins over every heuristic but must be a positive
// finite number, otherwise a ConfigurationError is returned. Without an
// override the budget is the effective host total minus a platform reserve.
func ResolveMemoryMB(logger *logrus.Logger, override string) (int, error) {
	total, err := effectiveTotalMemoryBytes(logger)
	if err != nil {
		return 0, err
	}
	return memoryBudgetMB(logger, override, total, runtime.GOOS)
}

// effectiveTotalMemoryBytes returns the tightest memory ceiling that applies
// to this process: the OS-reported total, or a lower container cgroup limit
// when one exists. The host is probed fresh on every call rather than cached,
// since a cgroup limit can be adjusted externally between invocations.
func effectiveTotalMemoryBytes(logger *logrus.Logger) (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("failed to read total system memory: %w", err)
	}
	total := vm.Total
	if runtime.GOOS == "linux" {
		if limit, ok := cgroupMemoryLimitBytes(logger, total, cgroupMemoryLimitPaths); ok && limit < total {
			total = limit
		}
	}
	logger.Debugf("Effective total memory: %d MB", total/bytesPerMB)
	return total, nil
}

func memoryBudgetMB(logger *logrus.Logger, override string, totalBytes uint64, goos string) (int, error) {
	if override != "" {
		value, err := strconv.ParseFloat(override, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
			return 0, &ConfigurationError{Setting: "memory", Value: override, Reason: "must be a positive number of megabytes"}
		}
		return int(math.Round(value)), nil
	}

	totalMB := float64(totalBytes) / bytesPerMB
	fixed := float64(fixedReserveMB)
	if goos == "windows" {
		fixed = fixedReserveWindowsMB
	}
	scaled := reserveScale() * math.Max(totalMB-scaledReserveThresholdMB, 0)

	budget := math.Floor(totalMB - fixed - scaled)
	if budget < 0 {
		// Callers must treat a zero budget as "do not expect this to succeed".
		budget = 0
	}
	logger.Debugf("Memory budget: %d MB of %d MB total", int(budget), int(totalMB))
	return int(budget), nil
}

// reserveScale returns the fraction of memory above the scaling threshold to
// withhold. Tunable via CODEQL_RESERVED_RAM_SCALE_PERCENTAGE; anything
// unparsable or outside [0, 100] silently falls back to the default, since
// this is a tuning knob rather than configuration worth failing over.
func reserveScale() float64 {
	raw := envvars.Get(envvars.ReservedRAMScalePercentage)
	if raw == "" {
		return defaultReserveScale
	}
	pct, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(pct) || pct < 0 || pct > 100 {
		return defaultReserveScale
	}
	return pct / 100
}
