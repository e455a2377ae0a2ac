package transcript

// ToolActivity is one tool invocation recorded inside a turn. Output is
// the raw tool output with string forms capped at outputLimit characters;
// further compression happens downstream.
type ToolActivity struct {
	Name   string
	Input  map[string]any
	Output any
}

// Turn is one user message plus all assistant/tool activity up to the next
// user message. Turns partition the event stream without gaps or overlaps,
// except for a leading run of events before the first user message, which
// is discarded.
type Turn struct {
	UserText      string
	AssistantText string
	Tools         []ToolActivity
	StartIndex    int
	EndIndex      int
}

// Group folds events into turns. outputLimit caps tool output strings
// recorded on the turn (<=0 means no cap).
func Group(events []Event, outputLimit int) []Turn {
	var turns []Turn
	var current *Turn

	for _, ev := range events {
		switch {
		case ev.Role == RoleUser:
			if current != nil {
				turns = append(turns, *current)
			}
			current = &Turn{
				UserText:   ev.Content,
				StartIndex: ev.Index,
				EndIndex:   ev.Index,
			}

		case ev.IsTool():
			if current == nil {
				continue
			}
			current.Tools = append(current.Tools, ToolActivity{
				Name:   ev.ToolName,
				Input:  ev.ToolInput,
				Output: capOutput(ev.ToolOutput, outputLimit),
			})
			current.EndIndex = ev.Index

		default:
			// Assistant content; unrecognized roles accumulate the same way.
			if current == nil {
				continue
			}
			current.AssistantText += ev.Content + "\n"
			current.EndIndex = ev.Index
		}
	}

	if current != nil {
		turns = append(turns, *current)
	}
	return turns
}

func capOutput(output any, limit int) any {
	s, ok := output.(string)
	if !ok || limit <= 0 || len(s) <= limit {
		return output
	}
	return s[:limit]
}
