// Package sarif applies small post-processing fixes to SARIF files produced
// by the CodeQL CLI before they are uploaded.
package sarif

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// InjectCategory sets the automation details id on every run that does not
// already carry one. The category distinguishes multiple analyses uploaded
// for the same commit; the CLI only writes it when asked, so it is filled in
// here when the pipeline supplies one.
func InjectCategory(data []byte, category string) ([]byte, error) {
	doc, runs, err := parseRuns(data)
	if err != nil {
		return nil, err
	}
	for _, r := range runs {
		run, ok := r.(map[string]any)
		if !ok {
			continue
		}
		details, _ := run["automationDetails"].(map[string]any)
		if details == nil {
			details = map[string]any{}
		}
		if _, exists := details["id"]; !exists {
			details["id"] = category + "/"
		}
		run["automationDetails"] = details
	}
	return json.Marshal(doc)
}

// RemoveDuplicateNotifications drops exact-duplicate tool execution
// notifications from every invocation. Some CLI versions emit the same
// notification once per worker thread, which bloats uploads for no benefit.
func RemoveDuplicateNotifications(logger *logrus.Logger, data []byte) ([]byte, error) {
	doc, runs, err := parseRuns(data)
	if err != nil {
		return nil, err
	}
	removed := 0
	for _, r := range runs {
		run, ok := r.(map[string]any)
		if !ok {
			continue
		}
		invocations, _ := run["invocations"].([]any)
		for _, i := range invocations {
			invocation, ok := i.(map[string]any)
			if !ok {
				continue
			}
			notifications, _ := invocation["toolExecutionNotifications"].([]any)
			if len(notifications) == 0 {
				continue
			}
			seen := make(map[string]bool, len(notifications))
			deduped := make([]any, 0, len(notifications))
			for _, n := range notifications {
				key, err := json.Marshal(n)
				if err != nil {
					deduped = append(deduped, n)
					continue
				}
				if seen[string(key)] {
					removed++
					continue
				}
				seen[string(key)] = true
				deduped = append(deduped, n)
			}
			invocation["toolExecutionNotifications"] = deduped
		}
	}
	if removed > 0 {
		logger.Infof("Removed %d duplicate tool execution notifications from the SARIF file", removed)
	}
	return json.Marshal(doc)
}

func parseRuns(data []byte) (map[string]any, []any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse SARIF: %w", err)
	}
	runs, ok := doc["runs"].([]any)
	if !ok {
		return nil, nil, fmt.Errorf("SARIF file has no runs array")
	}
	return doc, runs, nil
}
