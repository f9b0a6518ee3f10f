package sarif

import (
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjectCategory(t *testing.T) {
	input := []byte(`{"version":"2.1.0","runs":[{},{"automationDetails":{"id":"existing/"}}]}`)

	out, err := InjectCategory(input, "java-analysis")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	runs := doc["runs"].([]any)

	first := runs[0].(map[string]any)["automationDetails"].(map[string]any)
	assert.Equal(t, "java-analysis/", first["id"])

	// An existing id must never be overwritten.
	second := runs[1].(map[string]any)["automationDetails"].(map[string]any)
	assert.Equal(t, "existing/", second["id"])
}

func TestInjectCategoryRejectsNonSarif(t *testing.T) {
	_, err := InjectCategory([]byte(`{"no":"runs"}`), "c")
	assert.Error(t, err)

	_, err = InjectCategory([]byte(`not json`), "c")
	assert.Error(t, err)
}

func TestRemoveDuplicateNotifications(t *testing.T) {
	logger, hook := test.NewNullLogger()
	input := []byte(`{"runs":[{"invocations":[{"toolExecutionNotifications":[
		{"message":{"text":"out of disk"}},
		{"message":{"text":"out of disk"}},
		{"message":{"text":"something else"}}
	]}]}]}`)

	out, err := RemoveDuplicateNotifications(logger, input)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	invocation := doc["runs"].([]any)[0].(map[string]any)["invocations"].([]any)[0].(map[string]any)
	notifications := invocation["toolExecutionNotifications"].([]any)
	assert.Len(t, notifications, 2)
	require.Len(t, hook.Entries, 1)
	assert.Contains(t, hook.LastEntry().Message, "Removed 1 duplicate")
}

func TestRemoveDuplicateNotificationsNoChanges(t *testing.T) {
	logger, hook := test.NewNullLogger()
	input := []byte(`{"runs":[{"invocations":[{"toolExecutionNotifications":[{"message":{"text":"once"}}]}]}]}`)

	_, err := RemoveDuplicateNotifications(logger, input)
	require.NoError(t, err)
	assert.Empty(t, hook.Entries)
}
