package resources

import (
	"math"
	"strconv"

	"github.com/sirupsen/logrus"
)

// ResolveThreads returns the thread count to pass to the CodeQL CLI. Without
// an override every available core is used. Overrides are clamped into
// [-maxThreads, maxThreads]; negative values mean "use all but that many
// cores" and pass through unchanged for the CLI to interpret.
func ResolveThreads(logger *logrus.Logger, override string, maxThreads int) (int, error) {
	if override == "" {
		return maxThreads, nil
	}
	value, err := strconv.ParseFloat(override, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &ConfigurationError{Setting: "threads", Value: override, Reason: "must be a number of threads"}
	}
	threads := int(math.Round(value))
	if threads > maxThreads {
		logger.Infof("Clamping requested thread count %d to the %d available cores", threads, maxThreads)
		return maxThreads, nil
	}
	if threads < -maxThreads {
		logger.Infof("Clamping requested thread count %d to -%d: cannot reserve more cores than exist", threads, maxThreads)
		return -maxThreads, nil
	}
	return threads, nil
}
