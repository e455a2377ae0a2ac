package capture

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/mnemo-sh/mnemo/internal/config"
	"github.com/mnemo-sh/mnemo/internal/observe"
	"github.com/mnemo-sh/mnemo/internal/privacy"
	"github.com/mnemo-sh/mnemo/internal/signal"
	"github.com/mnemo-sh/mnemo/internal/transcript"
)

// Capture modes.
const (
	ModeSignal = "signal"
	ModeFull   = "full"
)

// Result is a successful capture: the formatted payload and the mode that
// produced it.
type Result struct {
	Text string
	Mode string
}

// Selector composes the two extraction strategies with fallback: signal
// capture first, full capture second, nil when neither clears its
// thresholds. A nil result is a legitimate "nothing to capture", not an
// error.
type Selector struct {
	cursors CursorStore
	cfg     *config.Config
	log     zerolog.Logger
}

// NewSelector returns a selector using the given cursor store and config.
func NewSelector(cursors CursorStore, cfg *config.Config, log zerolog.Logger) *Selector {
	return &Selector{cursors: cursors, cfg: cfg, log: log}
}

// Capture runs smart capture over logText for project. On any successful
// capture the cursor advances to one past the maximum index in the entire
// parsed log, so turns filtered out by signal mode are never re-considered
// as new.
func (s *Selector) Capture(project, logText string) (*Result, error) {
	cursor, err := s.cursors.Get(project)
	if err != nil {
		s.log.Debug().Err(err).Str("project", project).Msg("cursor read failed, assuming 0")
		cursor = 0
	}

	events := transcript.Parse(logText)
	fresh := newEvents(events, cursor)

	result := s.signalCapture(fresh)
	if result == nil {
		result = s.fullCapture(fresh)
	}
	if result == nil {
		return nil, nil
	}

	next := events[len(events)-1].Index + 1
	if err := s.cursors.Set(project, next); err != nil {
		s.log.Debug().Err(err).Str("project", project).Msg("cursor advance failed")
	}
	return result, nil
}

// signalCapture extracts only turns around keyword signals. Yields nil
// when there are too few new events, no signals, or the formatted payload
// is under the minimum length.
func (s *Selector) signalCapture(events []transcript.Event) *Result {
	if len(events) < s.cfg.MinSignalEvents {
		return nil
	}

	turns := transcript.Group(events, s.cfg.ToolOutputLimit)
	hits := signal.Detect(turns, s.cfg.SignalKeywords)
	if len(hits) == 0 {
		return nil
	}

	var selected []transcript.Turn
	for _, idx := range signal.Window(hits, s.cfg.TurnsBefore) {
		selected = append(selected, turns[idx])
	}

	return s.finish(selected, ModeSignal)
}

// fullCapture formats every new turn, used when nothing was flagged.
func (s *Selector) fullCapture(events []transcript.Event) *Result {
	if len(events) < s.cfg.MinFullEvents {
		return nil
	}
	return s.finish(transcript.Group(events, s.cfg.ToolOutputLimit), ModeFull)
}

func (s *Selector) finish(turns []transcript.Turn, mode string) *Result {
	text := s.formatTurns(turns)
	if len(text) < s.cfg.MinPayload {
		return nil
	}
	if len(text) > s.cfg.MaxPayload {
		text = text[:s.cfg.MaxPayload]
	}
	return &Result{Text: text, Mode: mode}
}

// formatTurns renders turns for submission: bounded user/assistant
// fragments plus compressed, allow-listed tool activity, turns joined by
// a --- separator.
func (s *Selector) formatTurns(turns []transcript.Turn) string {
	var blocks []string
	for _, turn := range turns {
		var lines []string
		if user := privacy.Clean(turn.UserText); user != "" {
			lines = append(lines, "User: "+truncate(user, s.cfg.FragmentLimit))
		}
		if tools := s.formatTools(turn.Tools); tools != "" {
			lines = append(lines, "Tools: "+tools)
		}
		if assistant := privacy.Clean(turn.AssistantText); assistant != "" {
			lines = append(lines, "Assistant: "+truncate(assistant, s.cfg.FragmentLimit))
		}
		if len(lines) > 0 {
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(blocks, "\n---\n")
}

func (s *Selector) formatTools(tools []transcript.ToolActivity) string {
	var parts []string
	for _, tool := range tools {
		if !allowedTool(tool.Name, s.cfg.ToolAllowList) {
			continue
		}
		parts = append(parts, observe.Compress(tool.Name, tool.Input, tool.Output))
	}
	return strings.Join(parts, "; ")
}

func allowedTool(name string, allowList []string) bool {
	lower := strings.ToLower(name)
	for _, allowed := range allowList {
		if strings.Contains(lower, strings.ToLower(allowed)) {
			return true
		}
	}
	return false
}

// newEvents returns the suffix of events at or past the cursor.
func newEvents(events []transcript.Event, cursor int) []transcript.Event {
	for i, ev := range events {
		if ev.Index >= cursor {
			return events[i:]
		}
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
