// Package main provides the session-start hook: fetch the project's
// memory profile from the store and inject it as additional context.
package main

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mnemo-sh/mnemo/internal/assemble"
	"github.com/mnemo-sh/mnemo/internal/classify"
	"github.com/mnemo-sh/mnemo/internal/config"
	"github.com/mnemo-sh/mnemo/internal/store"
	"github.com/mnemo-sh/mnemo/pkg/hooks"
	"github.com/mnemo-sh/mnemo/pkg/models"
)

// Input is the hook input from the host.
type Input struct {
	hooks.BaseInput
	Source string `json:"source"` // "startup", "resume", "clear", "compact"
}

func main() {
	hooks.Run("SessionStart", handleSessionStart)
}

func handleSessionStart(ctx *hooks.Context, input *Input) (string, error) {
	client := store.NewClient(ctx.Config.StoreURL, store.APIKey(), ctx.Log)
	if !client.Configured() {
		// No credential: inject nothing rather than an error.
		ctx.Log.Debug().Msg("store not configured, skipping context injection")
		return "", nil
	}

	var (
		personal, project, recent []models.Memory
		personalErr, projectErr   error
	)

	// The three fetches run concurrently and join regardless of failure:
	// a failed branch contributes an empty slice, never cancels a sibling.
	var g errgroup.Group
	g.Go(func() error {
		res, err := client.Search(context.Background(), "", ctx.Config.SearchLimit, "profile", ctx.PersonalScope)
		personalErr = err
		if err == nil {
			personal = res.Memories
		}
		return nil
	})
	g.Go(func() error {
		res, err := client.Search(context.Background(), "", ctx.Config.SearchLimit, "profile", ctx.ProjectScope)
		projectErr = err
		if err == nil {
			project = res.Memories
		}
		return nil
	})
	g.Go(func() error {
		res, err := client.Search(context.Background(), "", ctx.Config.RecentCount, "recent", ctx.ProjectScope)
		if err == nil {
			recent = res.Memories
		}
		return nil
	})
	_ = g.Wait()

	classifier := classify.Load(config.RulesPath())

	// Both profile fetches down: fall back to a flat relevance search
	// before giving up on injection entirely.
	if personalErr != nil && projectErr != nil {
		flat := store.Try(ctx.Log, "fallback search", (*models.SearchResult)(nil), func() (*models.SearchResult, error) {
			return client.Search(context.Background(), "project knowledge", ctx.Config.SearchLimit, "", ctx.ProjectScope)
		})
		if flat == nil || len(flat.Memories) == 0 {
			return "", nil
		}
		return assemble.RenderSearchResults(flat.Memories), nil
	}

	return assemble.RenderProfile(classifier, assemble.Profile{
		Personal: personal,
		Project:  project,
		Recent:   recent,
	}), nil
}
