// Package main provides the mnemo operator CLI: save a note, search
// memories, preview the injected profile, and check store status.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/mnemo-sh/mnemo/internal/assemble"
	"github.com/mnemo-sh/mnemo/internal/classify"
	"github.com/mnemo-sh/mnemo/internal/config"
	"github.com/mnemo-sh/mnemo/internal/scope"
	"github.com/mnemo-sh/mnemo/internal/store"
	"github.com/mnemo-sh/mnemo/pkg/models"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "mnemo:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "mnemo",
		Usage:   "Long-term memory for coding agents",
		Version: store.Version,
		Commands: []*cli.Command{
			saveCmd(),
			searchCmd(),
			profileCmd(),
			statusCmd(),
		},
	}
}

func saveCmd() *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "Save a manually authored note",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "personal", Usage: "Save under the personal scope instead of the project scope"},
		},
		Action: func(c *cli.Context) error {
			text := c.Args().First()
			if text == "" {
				return cli.Exit("usage: mnemo save <text>", 1)
			}

			client, cwd, err := newClient()
			if err != nil {
				return err
			}

			scopeID, _ := scope.Session(cwd)
			if c.Bool("personal") {
				scopeID = scope.Personal(cwd)
			}

			meta := store.BaseMetadata(projectName(cwd), scopeID, store.SourceManualNote)
			meta["event"] = "manual_note"

			result, err := client.Submit(c.Context, text, meta)
			if err != nil {
				return err
			}
			fmt.Printf("Saved (%d memories created)\n", result.MemoriesSaved)
			return nil
		},
	}
}

func searchCmd() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search stored memories",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: config.DefaultSearchLimit, Usage: "Maximum results"},
			&cli.BoolFlag{Name: "personal", Usage: "Restrict to the personal scope"},
		},
		Action: func(c *cli.Context) error {
			query := c.Args().First()
			if query == "" {
				return cli.Exit("usage: mnemo search <query>", 1)
			}

			client, cwd, err := newClient()
			if err != nil {
				return err
			}

			scopeID, _ := scope.Session(cwd)
			if c.Bool("personal") {
				scopeID = scope.Personal(cwd)
			}

			result, err := client.Search(c.Context, query, c.Int("limit"), "", scopeID)
			if err != nil {
				return err
			}
			fmt.Println(assemble.RenderSearchResults(result.Memories))
			return nil
		},
	}
}

func profileCmd() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Render the memory profile injected at session start",
		Action: func(c *cli.Context) error {
			client, cwd, err := newClient()
			if err != nil {
				return err
			}
			cfg := config.Get()

			personal := searchOrEmpty(c, client, cfg.SearchLimit, "profile", scope.Personal(cwd))
			project := searchOrEmpty(c, client, cfg.SearchLimit, "profile", scope.Project(cwd))
			recent := searchOrEmpty(c, client, cfg.RecentCount, "recent", scope.Project(cwd))

			fmt.Println(assemble.RenderProfile(classify.Load(config.RulesPath()), assemble.Profile{
				Personal: personal,
				Project:  project,
				Recent:   recent,
			}))
			return nil
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show store reachability and resolved scopes",
		Action: func(c *cli.Context) error {
			cfg := config.Get()
			cwd, _ := os.Getwd()

			fmt.Println("store url:     ", cfg.StoreURL)
			fmt.Println("personal scope:", scope.Personal(cwd))
			fmt.Println("project scope: ", scope.Project(cwd))

			key := store.APIKey()
			if key == "" {
				fmt.Println("credential:     not configured")
				return nil
			}
			fmt.Println("credential:     configured")

			client := store.NewClient(cfg.StoreURL, key, logger())
			if err := client.Health(c.Context); err != nil {
				fmt.Println("store health:   unreachable:", err)
				return nil
			}
			fmt.Println("store health:   ok")
			return nil
		},
	}
}

func newClient() (*store.Client, string, error) {
	key := store.APIKey()
	if key == "" {
		return nil, "", cli.Exit("mnemo is not configured: set MNEMO_API_KEY or write ~/.mnemo/credentials", 1)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	return store.NewClient(config.Get().StoreURL, key, logger()), cwd, nil
}

func searchOrEmpty(c *cli.Context, client *store.Client, limit int, mode, scopeID string) []models.Memory {
	result, err := client.Search(c.Context, "", limit, mode, scopeID)
	if err != nil {
		return nil
	}
	return result.Memories
}

func projectName(cwd string) string {
	return filepath.Base(cwd)
}

func logger() zerolog.Logger {
	level := zerolog.Disabled
	if config.Get().Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
