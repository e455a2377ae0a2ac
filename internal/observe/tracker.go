package observe

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ActivityEntry is one compressed observation appended to the per-session
// activity log.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"ts"`
	Tool      string    `json:"tool"`
	Summary   string    `json:"summary"`
}

// FileChange tallies edits and writes against one file within a session.
type FileChange struct {
	Edits     int       `json:"edits"`
	Writes    int       `json:"writes"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// Tracker persists per-session activity and file-change state under dir,
// keyed by session id. Files use whole-file read-modify-write with no
// locking; concurrent writers on the same session id are last-write-wins,
// an accepted limitation.
type Tracker struct {
	dir string
}

// NewTracker returns a tracker rooted at dir, creating it if needed.
func NewTracker(dir string) (*Tracker, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Tracker{dir: dir}, nil
}

// RecordActivity appends one compressed observation to the session's
// activity log (one JSON object per line).
func (t *Tracker) RecordActivity(sessionID, tool, summary string) error {
	entry := ActivityEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Tool:      tool,
		Summary:   summary,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(t.activityPath(sessionID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(data, '\n'))
	return err
}

// Activity reads back the session's activity log. Malformed lines are
// skipped, a missing file yields an empty slice.
func (t *Tracker) Activity(sessionID string) []ActivityEntry {
	data, err := os.ReadFile(t.activityPath(sessionID))
	if err != nil {
		return nil
	}
	var entries []ActivityEntry
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry ActivityEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// RecordChange updates the session's file-change tally for a tool touching
// path. Edit-family tools count as edits, write/create-family as writes;
// anything else is ignored.
func (t *Tracker) RecordChange(sessionID, tool, path string) error {
	if path == "" {
		return nil
	}
	kind := strings.ToLower(tool)
	isEdit := strings.Contains(kind, "edit")
	isWrite := strings.Contains(kind, "write") || strings.Contains(kind, "create")
	if !isEdit && !isWrite {
		return nil
	}

	changes := t.Changes(sessionID)
	if changes == nil {
		changes = map[string]*FileChange{}
	}

	now := time.Now()
	change := changes[path]
	if change == nil {
		change = &FileChange{FirstSeen: now}
		changes[path] = change
	}
	change.LastSeen = now
	if isEdit {
		change.Edits++
	} else {
		change.Writes++
	}

	data, err := json.Marshal(changes)
	if err != nil {
		return err
	}
	return os.WriteFile(t.changesPath(sessionID), data, 0o644)
}

// Changes reads the session's file-change tally. Missing or malformed
// state yields nil.
func (t *Tracker) Changes(sessionID string) map[string]*FileChange {
	data, err := os.ReadFile(t.changesPath(sessionID))
	if err != nil {
		return nil
	}
	var changes map[string]*FileChange
	if err := json.Unmarshal(data, &changes); err != nil {
		return nil
	}
	return changes
}

func (t *Tracker) activityPath(sessionID string) string {
	return filepath.Join(t.dir, sanitizeID(sessionID)+".activity.jsonl")
}

func (t *Tracker) changesPath(sessionID string) string {
	return filepath.Join(t.dir, sanitizeID(sessionID)+".changes.json")
}

func sanitizeID(id string) string {
	if id == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
}
