// Package envvars centralises the environment variables the helper reads so
// callers and documentation agree on their names.
package envvars

import (
	"os"
	"strings"
)

const (
	// RAM is an explicit memory budget in MB for the CodeQL CLI. When set it
	// wins over every heuristic; when unset a budget is derived from the host.
	RAM = "CODEQL_RAM"

	// Threads is an explicit thread count for the CodeQL CLI. Negative values
	// mean "use all but that many cores".
	Threads = "CODEQL_THREADS"

	// ReservedRAMScalePercentage tunes the fraction of memory above 8 GiB
	// withheld from the derived budget. Accepts values in [0, 100].
	ReservedRAMScalePercentage = "CODEQL_RESERVED_RAM_SCALE_PERCENTAGE"

	// LogLevel controls logger verbosity (debug, info, warn, error).
	LogLevel = "LOG_LEVEL"
)

// Get returns the trimmed value of the named environment variable, or the
// empty string when it is unset.
func Get(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}
