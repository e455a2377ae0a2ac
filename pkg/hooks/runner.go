// Package hooks provides the shared envelope handling for mnemo hook
// binaries: one JSON object in on stdin, one JSON object out on stdout,
// and no way for a hook failure to interrupt the agent session.
package hooks

import (
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/mnemo-sh/mnemo/internal/config"
	"github.com/mnemo-sh/mnemo/internal/scope"
)

// StdinTimeout bounds how long a hook waits for its input object.
const StdinTimeout = 5 * time.Second

// Response is the envelope sent back to the host.
type Response struct {
	Continue           bool            `json:"continue"`
	HookSpecificOutput *SpecificOutput `json:"hookSpecificOutput,omitempty"`
}

// SpecificOutput nests a rendered document under the host-recognized
// additionalContext field.
type SpecificOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

// BaseInput contains the fields shared by all hook inputs.
type BaseInput struct {
	SessionID      string `json:"session_id"`
	CWD            string `json:"cwd"`
	HookEventName  string `json:"hook_event_name"`
	TranscriptPath string `json:"transcript_path"`
}

// Context is what a hook handler gets to work with.
type Context struct {
	HookName      string
	SessionID     string
	CWD           string
	ProjectScope  string
	PersonalScope string
	Config        *config.Config
	Log           zerolog.Logger
}

// Handler is the hook-specific logic. A returned context string is nested
// under additionalContext; an error is logged but still acknowledged with
// a well-formed response.
type Handler[T any] func(ctx *Context, input *T) (additionalContext string, err error)

// Run executes a hook end to end: deadline-bounded stdin read, JSON
// parse (absent or invalid input resolves to an empty object), scope
// resolution, handler dispatch under recover, and response emission.
// The process always exits zero with a valid envelope; this is the last
// line of defense against interrupting the host session.
func Run[T any](hookName string, handler Handler[T]) {
	log := newLogger(hookName)

	defer func() {
		if r := recover(); r != nil {
			log.Debug().Interface("panic", r).Msg("hook handler panicked")
			writeResponse(Response{Continue: true})
		}
	}()

	inputData := readInput(os.Stdin, StdinTimeout)

	var input T
	_ = json.Unmarshal(inputData, &input)

	var base BaseInput
	_ = json.Unmarshal(inputData, &base)

	ctx := &Context{
		HookName:      hookName,
		SessionID:     base.SessionID,
		CWD:           base.CWD,
		ProjectScope:  scope.Project(base.CWD),
		PersonalScope: scope.Personal(base.CWD),
		Config:        config.Get(),
		Log:           log,
	}

	additionalContext, err := handler(ctx, &input)
	if err != nil {
		log.Debug().Err(err).Msg("hook handler failed")
		fmt.Fprintf(os.Stderr, "[mnemo:%s] %v\n", hookName, err)
	}

	resp := Response{Continue: true}
	if additionalContext != "" {
		resp.HookSpecificOutput = &SpecificOutput{
			HookEventName:     hookName,
			AdditionalContext: additionalContext,
		}
	}
	writeResponse(resp)
}

// readInput reads the input object from r, giving up after timeout and on
// any read failure. Whatever happens, the caller gets bytes that
// unmarshal to at worst an empty object.
func readInput(r io.Reader, timeout time.Duration) []byte {
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(r)
		ch <- result{data, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil || len(res.data) == 0 {
			return []byte("{}")
		}
		return res.data
	case <-time.After(timeout):
		return []byte("{}")
	}
}

func writeResponse(resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		data = []byte(`{"continue":true}`)
	}
	fmt.Println(string(data))
}

func newLogger(hookName string) zerolog.Logger {
	level := zerolog.Disabled
	if config.Get().Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Str("hook", hookName).Logger()
}
