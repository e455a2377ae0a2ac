// Package main provides the stop hook: when a session pauses, capture the
// new portion of its transcript and submit it to the memory store.
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
	StopHookActive bool `json:"stop_hook_active"`
}

func main() {
	hooks.Run("Stop", handleStop)
}

func handleStop(ctx *hooks.Context, input *Input) (string, error) {
	if input.TranscriptPath == "" {
		return "", nil
	}

	logText, err := os.ReadFile(expandHome(input.TranscriptPath))
	if err != nil {
		// Missing or unreadable transcript is "nothing new", not a failure.
		ctx.Log.Debug().Err(err).Msg("transcript unreadable")
		return "", nil
	}

	selector := capture.NewSelector(
		capture.NewFileCursorStore(config.CursorsPath()),
		ctx.Config,
		ctx.Log,
	)
	result, err := selector.Capture(ctx.ProjectScope, string(logText))
	if err != nil {
		return "", err
	}
	if result == nil {
		ctx.Log.Debug().Msg("nothing to capture")
		return "", nil
	}
	ctx.Log.Debug().Str("mode", result.Mode).Int("chars", len(result.Text)).Msg("captured")

	client := store.NewClient(ctx.Config.StoreURL, store.APIKey(), ctx.Log)
	if !client.Configured() {
		ctx.Log.Debug().Msg("store not configured, capture not submitted")
		return "", nil
	}

	scopeID, shared := scope.Session(ctx.CWD)
	source := store.SourcePersonalSession
	if shared {
		source = store.SourceProjectSession
	}

	meta := store.BaseMetadata(projectName(ctx.CWD), scopeID, source)
	meta["session_id"] = ctx.SessionID
	meta["capture_mode"] = result.Mode
	meta["event"] = "session_stop"

	store.Try(ctx.Log, "submit capture", (*models.SubmitResult)(nil), func() (*models.SubmitResult, error) {
		return client.Submit(context.Background(), result.Text, meta)
	})
	return "", nil
}

func projectName(cwd string) string {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		absPath = cwd
	}
	return filepath.Base(absPath)
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
