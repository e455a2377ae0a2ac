// Package transcript parses append-only session logs into structured
// events and groups them into conversational turns.
//
// The log is JSONL: one JSON object per line. Lines carry role and content
// either at the top level or nested under a "message" object (both formats
// appear in the wild). A line that fails to parse is preserved as a
// free-text event rather than dropped, so event indices stay continuous.
package transcript

import (
	"strings"

	json "github.com/goccy/go-json"
)

// Event roles. Anything unrecognized is kept as RoleText.
const (
	RoleUser       = "user"
	RoleAssistant  = "assistant"
	RoleToolUse    = "tool_use"
	RoleToolResult = "tool_result"
	RoleText       = "text"
)

// Event is one parsed line of the log. Index is assigned by position among
// non-blank lines, zero-based, strictly increasing.
type Event struct {
	Index      int
	Role       string
	Content    string
	ToolName   string
	ToolInput  map[string]any
	ToolOutput any
}

// IsTool reports whether the event carries tool activity.
func (e Event) IsTool() bool {
	return e.Role == RoleToolUse || e.Role == RoleToolResult
}

type rawMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type rawLine struct {
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    any            `json:"content"`
	MessageRaw any            `json:"message"`
	ToolName   string         `json:"tool_name"`
	ToolInput  map[string]any `json:"tool_input"`
	ToolOutput any            `json:"tool_output"`
}

// Parse splits log text into events. Blank lines are skipped; malformed
// lines become free-text events. Parse never fails.
func Parse(text string) []Event {
	var events []Event
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		idx := len(events)
		var raw rawLine
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			events = append(events, Event{Index: idx, Role: RoleText, Content: line})
			continue
		}

		events = append(events, parseEvent(idx, raw))
	}
	return events
}

func parseEvent(idx int, raw rawLine) Event {
	role := raw.Role
	content := raw.Content

	// Some transcript formats nest role/content under "message".
	if nested, ok := raw.MessageRaw.(map[string]any); ok {
		var msg rawMessage
		if data, err := json.Marshal(nested); err == nil {
			_ = json.Unmarshal(data, &msg)
		}
		if role == "" {
			role = msg.Role
		}
		if content == nil {
			content = msg.Content
		}
	}
	if role == "" {
		role = raw.Type
	}

	ev := Event{Index: idx, Content: ExtractText(content)}
	switch role {
	case RoleUser, RoleAssistant, RoleToolUse, RoleToolResult:
		ev.Role = role
	default:
		ev.Role = RoleText
		if ev.Content == "" {
			// Absent content falls back to a plain-string message field.
			if s, ok := raw.MessageRaw.(string); ok {
				ev.Content = s
			}
		}
	}

	if raw.ToolName != "" {
		if ev.Role != RoleToolResult {
			ev.Role = RoleToolUse
		}
		ev.ToolName = raw.ToolName
		ev.ToolInput = raw.ToolInput
		ev.ToolOutput = raw.ToolOutput
	}
	return ev
}

// ExtractText extracts text from a mixed-type content value: a plain string
// is used as-is, a slice of typed blocks is filtered to "text"-typed blocks
// joined with newlines, anything else yields an empty string.
func ExtractText(content any) string {
	switch v := content.(type) {
	case string:
		return v
	case []any:
		var texts []string
		for _, item := range v {
			block, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if block["type"] != "text" {
				continue
			}
			if text, ok := block["text"].(string); ok {
				texts = append(texts, text)
			}
		}
		return strings.Join(texts, "\n")
	}
	return ""
}
