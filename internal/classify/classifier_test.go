package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemo-sh/mnemo/pkg/models"
)

func TestClassify_Categories(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		memory   models.Memory
		expected models.Category
	}{
		{
			"task type tag wins",
			models.Memory{Type: "task_completion", Content: "shipped the importer"},
			models.CategoryWork,
		},
		{
			"task marker in content",
			models.Memory{Content: "Task completed: migrated the settings loader"},
			models.CategoryWork,
		},
		{
			"subagent type tag",
			models.Memory{Type: "subagent_result", Content: "found the retry loop"},
			models.CategoryDiscovery,
		},
		{
			"decision markers",
			models.Memory{Content: "We chose sqlite instead of a server database"},
			models.CategoryDecision,
		},
		{
			"warning markers",
			models.Memory{Content: "There is a tricky workaround in the session loader"},
			models.CategoryWarning,
		},
		{
			"convention markers",
			models.Memory{Content: "The team prefers table-driven tests everywhere"},
			models.CategoryConvention,
		},
		{
			"default bucket",
			models.Memory{Content: "The importer reads feeds every morning"},
			models.CategoryKnowledge,
		},
		{
			"matching is case-insensitive",
			models.Memory{Content: "GOTCHA: the cache is shared between workers"},
			models.CategoryWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.memory))
		})
	}
}

// Rule order encodes priority: a record matching both a warning marker and
// a convention marker is a warning.
func TestClassify_PriorityIsDeterministic(t *testing.T) {
	c := Default()

	m := models.Memory{Content: "gotcha: this pattern breaks under load"}
	assert.Equal(t, models.CategoryWarning, c.Classify(m))
}

func TestClassify_TaskBeatsEverything(t *testing.T) {
	c := Default()

	m := models.Memory{
		Type:    "task_completion",
		Content: "gotcha: we chose a workaround pattern because of a bug",
	}
	assert.Equal(t, models.CategoryWork, c.Classify(m))
}

func TestLoad_MissingFileFallsBackToEmbedded(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, models.CategoryKnowledge, c.Classify(models.Memory{Content: "plain fact"}))
	assert.Equal(t, models.CategoryWarning, c.Classify(models.Memory{Content: "a gotcha"}))
}

func TestLoad_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := `rules:
  - category: decision
    markers: [banana]
default: knowledge
`
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o644))

	c := Load(path)
	assert.Equal(t, models.CategoryDecision, c.Classify(models.Memory{Content: "banana split"}))
	// The embedded warning markers are gone in the override.
	assert.Equal(t, models.CategoryKnowledge, c.Classify(models.Memory{Content: "a gotcha"}))
}

func TestLoad_MalformedFileFallsBackToEmbedded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\nnot yaml: [unbalanced"), 0o644))

	c := Load(path)
	assert.Equal(t, models.CategoryWarning, c.Classify(models.Memory{Content: "a gotcha"}))
}
