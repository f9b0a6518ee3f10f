package resources

import "fmt"

// ConfigurationError reports an explicit user override that is not a usable
// number. It is always surfaced to the caller: there is no safe default to
// silently substitute for garbled explicit input.
type ConfigurationError struct {
	Setting string
	Value   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s value %q: %s", e.Setting, e.Value, e.Reason)
}
