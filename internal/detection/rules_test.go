package detection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/haven/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultRules_Valid(t *testing.T) {
	assert.NoError(t, DefaultRules().Validate())
}

func TestLoadRules_EmptyPathReturnsDefaults(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRules().Weights, rules.Weights)
}

func TestLoadRules_OverridesOnlyPresentKeys(t *testing.T) {
	path := writeRules(t, `
weights:
  mood: 0.5
chat:
  buckets:
    - level: high
      confidence: 0.9
      indicator: "custom doom"
      patterns: ['\bdoom\b']
`)

	rules, err := LoadRules(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, rules.Weights.Mood, 1e-9)
	assert.InDelta(t, 1.0, rules.Weights.Chat, 1e-9)
	assert.Equal(t, 10, rules.Chat.Window)
	require.Len(t, rules.Chat.Buckets, 1)
	assert.Equal(t, domain.RiskHigh, rules.Chat.Buckets[0].Level)

	d, err := NewDetector(rules)
	require.NoError(t, err)
	result := d.AnalyzeChat(messages("a sense of DOOM today"))
	assert.Equal(t, domain.RiskHigh, result.Level)
	assert.Equal(t, []string{"custom doom"}, result.Indicators)
	assert.Equal(t, domain.RiskNone, d.AnalyzeChat(messages("I want to die")).Level)
}

func TestLoadRules_InvalidPattern(t *testing.T) {
	path := writeRules(t, `
chat:
  buckets:
    - level: LOW
      confidence: 0.5
      indicator: broken
      patterns: ['(unclosed']
`)

	_, err := LoadRules(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unclosed")
}

func TestLoadRules_UnknownLevel(t *testing.T) {
	path := writeRules(t, "report_above: SEVERE\n")
	_, err := LoadRules(path)
	assert.Error(t, err)
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	rules := DefaultRules()
	rules.Weights.Chat = 1.5
	rules.Mood.Window = 0
	rules.Engagement.DisengagementConfidence = -0.1

	err := rules.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights.chat")
	assert.Contains(t, err.Error(), "mood.window")
	assert.Contains(t, err.Error(), "engagement.disengagement_confidence")
}

func TestNewDetector_RejectsInvalidRules(t *testing.T) {
	rules := DefaultRules()
	rules.Chat.Buckets = nil
	_, err := NewDetector(rules)
	assert.Error(t, err)
}
