// Package scope derives the stable identifiers partitioning memories into
// personal (private to one working directory) and project (shared across
// everyone on the same repository) scopes.
package scope

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// remoteTimeout bounds the git subprocess call; on timeout the project
// scope degrades to the folder-name fallback.
const remoteTimeout = 3 * time.Second

// Personal returns the personal scope id for a working directory:
// "personal_" plus the first 16 hex characters of the SHA-256 of the
// absolute path. The same directory always yields the same id.
func Personal(cwd string) string {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		absPath = cwd
	}
	hash := sha256.Sum256([]byte(absPath))
	return "personal_" + hex.EncodeToString(hash[:8])
}

// Project returns the project scope id for a working directory, preferring
// the version-control remote so that every clone of the same repository
// shares one scope. Falls back to the sanitized folder name when the
// remote lookup fails for any reason.
func Project(cwd string) string {
	if remote := originRemote(cwd); remote != "" {
		return "project_" + sanitize(repoPath(remote))
	}
	return "project_" + sanitize(filepath.Base(cleanAbs(cwd)))
}

// Session returns the scope a session's captures belong to: the project
// scope when a version-control remote resolves (shared across clones),
// otherwise the personal scope. shared reports which one was chosen.
func Session(cwd string) (scopeID string, shared bool) {
	if remote := originRemote(cwd); remote != "" {
		return FromRemote(remote), true
	}
	return Personal(cwd), false
}

// FromRemote derives the project scope id from a remote URL directly,
// independent of protocol prefix or .git suffix.
func FromRemote(remoteURL string) string {
	return "project_" + sanitize(repoPath(remoteURL))
}

func originRemote(cwd string) string {
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	cmd.Dir = cwd
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// repoPath reduces a remote URL to its owner/repo path: protocol and host
// are stripped, as is a trailing .git, so https and ssh forms of the same
// repository agree.
func repoPath(remote string) string {
	remote = strings.TrimSpace(remote)
	remote = strings.TrimSuffix(remote, ".git")

	if idx := strings.Index(remote, "://"); idx >= 0 {
		remote = remote[idx+3:]
		if slash := strings.Index(remote, "/"); slash >= 0 {
			remote = remote[slash+1:]
		}
	} else if at := strings.Index(remote, "@"); at >= 0 {
		if colon := strings.Index(remote[at:], ":"); colon >= 0 {
			remote = remote[at+colon+1:]
		}
	}

	return strings.Trim(remote, "/")
}

// sanitize lower-cases and replaces every character outside
// [a-z0-9-_] with an underscore.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '_'
	}, s)
}

func cleanAbs(cwd string) string {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return cwd
	}
	return absPath
}
