package store

// Source identifies where a submission came from; it selects the
// extraction context the store uses to interpret the payload.
type Source string

const (
	SourcePersonalSession Source = "personal_session"
	SourceProjectSession  Source = "project_session"
	SourceTaskCompletion  Source = "task_completion"
	SourceSubagentSummary Source = "subagent_summary"
	SourceManualNote      Source = "manual_note"
)

// extractionContexts maps each submission source to the instruction string
// the external store's extraction logic consumes. The values are opaque
// configuration here: never interpreted locally, only carried as metadata.
var extractionContexts = map[Source]string{
	SourcePersonalSession: "Extract durable personal preferences and working habits from this " +
		"coding session excerpt. Keep only what would help in future sessions; drop " +
		"session-specific details.",
	SourceProjectSession: "Extract durable project knowledge from this coding session excerpt: " +
		"decisions and their rationale, conventions, warnings, and discoveries about how the " +
		"codebase works. Drop transient task chatter.",
	SourceTaskCompletion: "This is a completed-task record. Store what was accomplished and any " +
		"notable outcome, phrased so future sessions can tell this work is already done.",
	SourceSubagentSummary: "This is a subagent run summary. Extract findings and discoveries the " +
		"main session should remember; drop the subagent's procedural narration.",
	SourceManualNote: "This note was written by the user explicitly for storage. Preserve its " +
		"meaning faithfully; do not reinterpret or condense aggressively.",
}

// ExtractionContext returns the instruction string for a submission
// source, defaulting to the project-session context for unknown sources.
func ExtractionContext(source Source) string {
	if ctx, ok := extractionContexts[source]; ok {
		return ctx
	}
	return extractionContexts[SourceProjectSession]
}
