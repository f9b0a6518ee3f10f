// Package version checks a CodeQL CLI version against the range this helper
// is known to work with.
package version

import (
	"fmt"

	goversion "github.com/hashicorp/go-version"
	"github.com/sirupsen/logrus"
)

const (
	// MinimumSupported is the oldest CodeQL CLI version this helper supports.
	MinimumSupported = "2.15.5"

	// LatestTested is the newest CodeQL CLI version this helper has been
	// tested against.
	LatestTested = "2.20.3"
)

// CheckSupported warns when cliVersion falls outside the supported range.
// Compatibility problems are surfaced as warnings, never as failures: an
// untested CLI usually still works. An error is returned only when the
// version string itself cannot be parsed.
func CheckSupported(logger *logrus.Logger, cliVersion string) error {
	v, err := goversion.NewVersion(cliVersion)
	if err != nil {
		return fmt.Errorf("unparsable CodeQL CLI version %q: %w", cliVersion, err)
	}
	minimum := goversion.Must(goversion.NewVersion(MinimumSupported))
	latest := goversion.Must(goversion.NewVersion(LatestTested))
	switch {
	case v.LessThan(minimum):
		logger.Warnf("CodeQL CLI %s is older than the minimum supported version %s, please upgrade", cliVersion, MinimumSupported)
	case v.GreaterThan(latest):
		logger.Warnf("CodeQL CLI %s is newer than %s, the latest version this helper has been tested with", cliVersion, LatestTested)
	}
	return nil
}
