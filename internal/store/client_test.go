package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemo-sh/mnemo/pkg/models"
)

// fakeStore runs a minimal memory-store API for client tests.
func fakeStore(t *testing.T) (*httptest.Server, *[]models.SubmitRequest) {
	t.Helper()

	var submissions []models.SubmitRequest
	router := chi.NewRouter()

	router.Post("/api/memories", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req models.SubmitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		submissions = append(submissions, req)

		_ = json.NewEncoder(w).Encode(models.SubmitResult{
			MemoryID:      "mem-1",
			MemoriesSaved: 2,
			Success:       true,
		})
	})

	router.Get("/api/memories/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("scope") == "project_empty" {
			_ = json.NewEncoder(w).Encode(models.SearchResult{})
			return
		}
		_ = json.NewEncoder(w).Encode(models.SearchResult{
			Count: 1,
			Memories: []models.Memory{
				{Content: "query=" + q.Get("query") + " limit=" + q.Get("limit") + " mode=" + q.Get("mode")},
			},
		})
	})

	router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, &submissions
}

func TestClient_Submit(t *testing.T) {
	server, submissions := fakeStore(t)
	client := NewClient(server.URL, "test-key", zerolog.Nop())

	meta := BaseMetadata("widgets", "project_acme_widgets", SourceProjectSession)
	meta["session_id"] = "sess-1"

	result, err := client.Submit(context.Background(), "captured text", meta)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.MemoriesSaved)

	require.Len(t, *submissions, 1)
	got := (*submissions)[0]
	assert.Equal(t, "captured text", got.Text)
	assert.Equal(t, SourceTag, got.Metadata["source"])
	assert.Equal(t, Version, got.Metadata["source_version"])
	assert.Equal(t, "widgets", got.Metadata["project"])
	assert.Equal(t, "project_acme_widgets", got.Metadata["scope"])
	assert.Equal(t, "sess-1", got.Metadata["session_id"])
	assert.NotEmpty(t, got.Metadata["generated_at"])
	assert.Equal(t, ExtractionContext(SourceProjectSession), got.Metadata["extraction_context"])
}

func TestClient_SubmitRejectedWithoutCredential(t *testing.T) {
	server, submissions := fakeStore(t)
	client := NewClient(server.URL, "wrong-key", zerolog.Nop())

	_, err := client.Submit(context.Background(), "text", nil)
	assert.Error(t, err)
	assert.Empty(t, *submissions)
}

func TestClient_SearchPassesParameters(t *testing.T) {
	server, _ := fakeStore(t)
	client := NewClient(server.URL, "test-key", zerolog.Nop())

	result, err := client.Search(context.Background(), "auth flow", 5, "profile", "project_x")
	require.NoError(t, err)
	require.Len(t, result.Memories, 1)
	assert.Equal(t, "query=auth flow limit=5 mode=profile", result.Memories[0].Content)
}

func TestClient_SearchEmptyScope(t *testing.T) {
	server, _ := fakeStore(t)
	client := NewClient(server.URL, "test-key", zerolog.Nop())

	result, err := client.Search(context.Background(), "x", 3, "", "project_empty")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Memories)
}

func TestClient_Health(t *testing.T) {
	server, _ := fakeStore(t)

	assert.NoError(t, NewClient(server.URL, "test-key", zerolog.Nop()).Health(context.Background()))
	assert.Error(t, NewClient("http://127.0.0.1:1", "k", zerolog.Nop()).Health(context.Background()))
}

func TestClient_Configured(t *testing.T) {
	assert.True(t, NewClient("http://x", "key", zerolog.Nop()).Configured())
	assert.False(t, NewClient("http://x", "", zerolog.Nop()).Configured())
}

func TestTry(t *testing.T) {
	got := Try(zerolog.Nop(), "works", -1, func() (int, error) { return 7, nil })
	assert.Equal(t, 7, got)

	got = Try(zerolog.Nop(), "fails", -1, func() (int, error) { return 0, errors.New("boom") })
	assert.Equal(t, -1, got)
}

func TestExtractionContext(t *testing.T) {
	sources := []Source{
		SourcePersonalSession,
		SourceProjectSession,
		SourceTaskCompletion,
		SourceSubagentSummary,
		SourceManualNote,
	}

	seen := map[string]bool{}
	for _, source := range sources {
		ctx := ExtractionContext(source)
		assert.NotEmpty(t, ctx, string(source))
		assert.False(t, seen[ctx], "contexts must differ per source")
		seen[ctx] = true
	}

	// Unknown sources get the project-session context.
	assert.Equal(t, ExtractionContext(SourceProjectSession), ExtractionContext(Source("mystery")))
}

func TestAPIKey(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MNEMO_API_KEY", "")

	assert.Empty(t, APIKey())

	// Credential file second.
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".mnemo"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".mnemo", "credentials"), []byte("file-key\n"), 0o600))
	assert.Equal(t, "file-key", APIKey())

	// Environment first.
	t.Setenv("MNEMO_API_KEY", "env-key")
	assert.Equal(t, "env-key", APIKey())
}
