// Package main provides the subagent-stop hook: when a subagent run
// completes, capture its transcript and submit it as a subagent summary.
package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mnemo-sh/mnemo/internal/capture"
	"github.com/mnemo-sh/mnemo/internal/config"
	"github.com/mnemo-sh/mnemo/internal/scope"
	"github.com/mnemo-sh/mnemo/internal/store"
	"github.com/mnemo-sh/mnemo/pkg/hooks"
	"github.com/mnemo-sh/mnemo/pkg/models"
)

// Input is the hook input from the host.
type Input struct {
	hooks.BaseInput
	StopHookActive bool   `json:"stop_hook_active"`
	AgentID        string `json:"agent_id"`
	AgentType      string `json:"agent_type"`
}

func main() {
	hooks.Run("SubagentStop", handleSubagentStop)
}

func handleSubagentStop(ctx *hooks.Context, input *Input) (string, error) {
	if input.TranscriptPath == "" {
		return "", nil
	}

	logText, err := os.ReadFile(expandHome(input.TranscriptPath))
	if err != nil {
		ctx.Log.Debug().Err(err).Msg("subagent transcript unreadable")
		return "", nil
	}

	selector := capture.NewSelector(
		capture.NewFileCursorStore(config.CursorsPath()),
		ctx.Config,
		ctx.Log,
	)
	// Subagent transcripts are separate logs with their own indices, so
	// they get their own cursor key under the project.
	cursorKey := ctx.ProjectScope + ":subagent:" + ctx.SessionID
	result, err := selector.Capture(cursorKey, string(logText))
	if err != nil || result == nil {
		return "", err
	}

	client := store.NewClient(ctx.Config.StoreURL, store.APIKey(), ctx.Log)
	if !client.Configured() {
		return "", nil
	}

	scopeID, _ := scope.Session(ctx.CWD)
	meta := store.BaseMetadata(filepath.Base(ctx.CWD), scopeID, store.SourceSubagentSummary)
	meta["session_id"] = ctx.SessionID
	meta["capture_mode"] = result.Mode
	meta["event"] = "subagent_stop"
	if input.AgentID != "" {
		meta["agent_id"] = input.AgentID
	}
	if input.AgentType != "" {
		meta["agent_type"] = input.AgentType
	}

	store.Try(ctx.Log, "submit subagent summary", (*models.SubmitResult)(nil), func() (*models.SubmitResult, error) {
		return client.Submit(context.Background(), result.Text, meta)
	})
	return "", nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
