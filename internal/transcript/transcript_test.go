package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Roles(t *testing.T) {
	log := `{"role":"user","content":"hello"}
{"role":"assistant","content":"hi there"}
{"role":"tool_use","tool_name":"Bash","tool_input":{"command":"ls"},"tool_output":"a.go"}
{"type":"system","content":"housekeeping"}`

	events := Parse(log)
	require.Len(t, events, 4)

	assert.Equal(t, RoleUser, events[0].Role)
	assert.Equal(t, "hello", events[0].Content)
	assert.Equal(t, RoleAssistant, events[1].Role)
	assert.Equal(t, RoleToolUse, events[2].Role)
	assert.Equal(t, "Bash", events[2].ToolName)
	assert.Equal(t, "ls", events[2].ToolInput["command"])
	assert.Equal(t, RoleText, events[3].Role)
}

func TestParse_IndicesSkipBlankLines(t *testing.T) {
	log := "\n{\"role\":\"user\",\"content\":\"a\"}\n\n\n{\"role\":\"assistant\",\"content\":\"b\"}\n"

	events := Parse(log)
	require.Len(t, events, 2)
	assert.Equal(t, 0, events[0].Index)
	assert.Equal(t, 1, events[1].Index)
}

func TestParse_MalformedLineBecomesFreeText(t *testing.T) {
	log := `{"role":"user","content":"ok"}
this line is not json {
{"role":"assistant","content":"fine"}`

	events := Parse(log)
	require.Len(t, events, 3)
	assert.Equal(t, RoleText, events[1].Role)
	assert.Equal(t, "this line is not json {", events[1].Content)
	// Index continuity is never broken by a parse failure.
	assert.Equal(t, 1, events[1].Index)
	assert.Equal(t, 2, events[2].Index)
}

func TestParse_NestedMessageFormat(t *testing.T) {
	log := `{"type":"message","message":{"role":"user","content":"nested"}}`

	events := Parse(log)
	require.Len(t, events, 1)
	assert.Equal(t, RoleUser, events[0].Role)
	assert.Equal(t, "nested", events[0].Content)
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		content  any
		expected string
	}{
		{"plain string", "hello", "hello"},
		{"nil", nil, ""},
		{"number", 42.0, ""},
		{
			"text blocks joined",
			[]any{
				map[string]any{"type": "text", "text": "one"},
				map[string]any{"type": "tool_use", "name": "Bash"},
				map[string]any{"type": "text", "text": "two"},
			},
			"one\ntwo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractText(tt.content))
		})
	}
}

func TestGroup_Basic(t *testing.T) {
	events := Parse(`{"role":"user","content":"first question"}
{"role":"assistant","content":"first answer"}
{"role":"tool_use","tool_name":"Edit","tool_input":{"file_path":"a.go"},"tool_output":"ok"}
{"role":"user","content":"second question"}
{"role":"assistant","content":"second answer"}`)

	turns := Group(events, 500)
	require.Len(t, turns, 2)

	assert.Equal(t, "first question", turns[0].UserText)
	assert.Equal(t, "first answer\n", turns[0].AssistantText)
	require.Len(t, turns[0].Tools, 1)
	assert.Equal(t, "Edit", turns[0].Tools[0].Name)
	assert.Equal(t, 0, turns[0].StartIndex)
	assert.Equal(t, 2, turns[0].EndIndex)

	assert.Equal(t, "second question", turns[1].UserText)
	assert.Equal(t, 3, turns[1].StartIndex)
	assert.Equal(t, 4, turns[1].EndIndex)
}

func TestGroup_LeadingNonUserEventsDropped(t *testing.T) {
	events := Parse(`{"role":"assistant","content":"orphan"}
{"role":"tool_use","tool_name":"Bash","tool_input":{"command":"ls"}}
{"role":"user","content":"start"}
{"role":"assistant","content":"reply"}`)

	turns := Group(events, 500)
	require.Len(t, turns, 1)
	assert.Equal(t, "start", turns[0].UserText)
	assert.Empty(t, turns[0].Tools)
	assert.NotContains(t, turns[0].AssistantText, "orphan")
}

func TestGroup_ToolOutputCapped(t *testing.T) {
	long := strings.Repeat("x", 2000)
	events := []Event{
		{Index: 0, Role: RoleUser, Content: "go"},
		{Index: 1, Role: RoleToolUse, ToolName: "Bash", ToolOutput: long},
	}

	turns := Group(events, 500)
	require.Len(t, turns, 1)
	out, ok := turns[0].Tools[0].Output.(string)
	require.True(t, ok)
	assert.Len(t, out, 500)
}

// Turns partition the event stream: every event from the first user event
// onward lands in exactly one turn, with no gaps and no overlaps.
func TestGroup_PartitionProperty(t *testing.T) {
	var lines []string
	lines = append(lines,
		`{"role":"assistant","content":"pre"}`,
		`{"role":"user","content":"q1"}`,
		`{"role":"assistant","content":"a1"}`,
		`{"role":"tool_use","tool_name":"Read","tool_input":{"file_path":"x.go"}}`,
		`{"role":"user","content":"q2"}`,
		`{"role":"tool_use","tool_name":"Bash","tool_input":{"command":"ls"}}`,
		`{"role":"assistant","content":"a2"}`,
		`{"role":"user","content":"q3"}`,
	)
	events := Parse(strings.Join(lines, "\n"))
	turns := Group(events, 500)

	require.NotEmpty(t, turns)
	assert.Equal(t, 1, turns[0].StartIndex)

	for i := 1; i < len(turns); i++ {
		assert.Equal(t, turns[i-1].EndIndex+1, turns[i].StartIndex,
			"turn %d must start right after turn %d ends", i, i-1)
	}
	assert.Equal(t, events[len(events)-1].Index, turns[len(turns)-1].EndIndex)
}
