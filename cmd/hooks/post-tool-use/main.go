// Package main provides the post-tool-use hook: every tool invocation is
// compressed to one line and tracked locally; completed todos are
// submitted as task-completion records.
package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/mnemo-sh/mnemo/internal/config"
	"github.com/mnemo-sh/mnemo/internal/observe"
	"github.com/mnemo-sh/mnemo/internal/scope"
	"github.com/mnemo-sh/mnemo/internal/store"
	"github.com/mnemo-sh/mnemo/pkg/hooks"
	"github.com/mnemo-sh/mnemo/pkg/models"
)

// Input is the hook input from the host.
type Input struct {
	hooks.BaseInput
	ToolName     string         `json:"tool_name"`
	ToolInput    map[string]any `json:"tool_input"`
	ToolResponse any            `json:"tool_response"`
	ToolUseID    string         `json:"tool_use_id"`
}

func main() {
	hooks.Run("PostToolUse", handlePostToolUse)
}

func handlePostToolUse(ctx *hooks.Context, input *Input) (string, error) {
	if input.ToolName == "" {
		return "", nil
	}

	summary := observe.Compress(input.ToolName, input.ToolInput, input.ToolResponse)
	ctx.Log.Debug().Str("tool", input.ToolName).Str("summary", summary).Msg("observed")

	tracker, err := observe.NewTracker(config.SessionsDir())
	if err != nil {
		return "", err
	}
	if err := tracker.RecordActivity(ctx.SessionID, input.ToolName, summary); err != nil {
		ctx.Log.Debug().Err(err).Msg("activity record failed")
	}
	if path, ok := input.ToolInput["file_path"].(string); ok {
		if err := tracker.RecordChange(ctx.SessionID, input.ToolName, path); err != nil {
			ctx.Log.Debug().Err(err).Msg("change record failed")
		}
	}

	if strings.EqualFold(input.ToolName, "todowrite") {
		submitCompletedTasks(ctx, input)
	}
	return "", nil
}

// submitCompletedTasks turns completed todos into task-completion records.
// The host has no dedicated task hook, so task state is observed through
// TodoWrite traffic. Best-effort: any failure is swallowed.
func submitCompletedTasks(ctx *hooks.Context, input *Input) {
	completed := completedTodos(input.ToolInput)
	if len(completed) == 0 {
		return
	}

	client := store.NewClient(ctx.Config.StoreURL, store.APIKey(), ctx.Log)
	if !client.Configured() {
		return
	}

	scopeID, _ := scope.Session(ctx.CWD)
	text := "Tasks completed:\n- " + strings.Join(completed, "\n- ")

	meta := store.BaseMetadata(projectName(ctx.CWD), scopeID, store.SourceTaskCompletion)
	meta["session_id"] = ctx.SessionID
	meta["event"] = "task_completion"
	meta["task_id"] = input.ToolUseID

	store.Try(ctx.Log, "submit task completion", (*models.SubmitResult)(nil), func() (*models.SubmitResult, error) {
		return client.Submit(context.Background(), text, meta)
	})
}

func completedTodos(toolInput map[string]any) []string {
	todos, ok := toolInput["todos"].([]any)
	if !ok {
		return nil
	}

	var completed []string
	for _, item := range todos {
		todo, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if todo["status"] != "completed" {
			continue
		}
		if content, ok := todo["content"].(string); ok && content != "" {
			completed = append(completed, content)
		}
	}
	return completed
}

func projectName(cwd string) string {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		absPath = cwd
	}
	return filepath.Base(absPath)
}
