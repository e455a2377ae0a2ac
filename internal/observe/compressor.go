// Package observe compresses raw tool observations into bounded one-line
// summaries and tracks per-session activity on disk.
package observe

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Compress reduces one tool invocation to a single human-readable line,
// practically under ~150 characters. It never panics and never returns an
// error: a crash here must not abort the surrounding capture pipeline, so
// any formatting failure degrades to a minimal "Used <tool>" line.
func Compress(toolName string, input map[string]any, output any) (summary string) {
	defer func() {
		if r := recover(); r != nil {
			summary = "Used " + toolName
		}
	}()

	name := strings.ToLower(toolName)
	out := normalizeOutput(output)

	switch {
	case strings.Contains(name, "grep"):
		return compressGrep(input)
	case strings.Contains(name, "edit"):
		return compressEdit(input)
	case strings.Contains(name, "write") || strings.Contains(name, "create"):
		return compressWrite(input)
	case strings.Contains(name, "read"):
		return "Read " + shortPath(stringField(input, "file_path", "path"))
	case strings.Contains(name, "bash") || strings.Contains(name, "shell") || strings.Contains(name, "exec"):
		return compressCommand(input, out)
	case strings.Contains(name, "search") || strings.Contains(name, "glob") || strings.Contains(name, "list"):
		return compressSearch(input, out)
	}

	if out != "" {
		return toolName + ": " + truncate(out, 60)
	}
	return toolName + " (completed)"
}

func compressEdit(input map[string]any) string {
	file := shortPath(stringField(input, "file_path", "path"))
	oldText := collapse(stringField(input, "old_string", "old_text"))
	newText := collapse(stringField(input, "new_string", "new_text"))
	if oldText != "" && newText != "" {
		return fmt.Sprintf("Edited %s: %s → %s", file, truncate(oldText, 40), truncate(newText, 40))
	}
	return "Edited " + file
}

func compressWrite(input map[string]any) string {
	file := shortPath(stringField(input, "file_path", "path"))
	content := stringField(input, "content", "text")
	return fmt.Sprintf("Wrote %s (%d chars)", file, len(content))
}

func compressCommand(input map[string]any, out string) string {
	cmd := stringField(input, "command")
	if cmd == "" {
		cmd = stringField(input, "description")
	}
	line := "Ran: " + truncate(collapse(cmd), 60)
	if out != "" {
		line += " → " + truncate(collapse(out), 60)
	}
	return line
}

func compressSearch(input map[string]any, out string) string {
	pattern := stringField(input, "pattern", "query")
	count := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return fmt.Sprintf("Searched '%s' (%d results)", truncate(pattern, 30), count)
}

func compressGrep(input map[string]any) string {
	query := stringField(input, "pattern", "query")
	path := shortPath(stringField(input, "path", "file_path"))
	if path == "" {
		return "Grep '" + truncate(query, 30) + "'"
	}
	return fmt.Sprintf("Grep '%s' in %s", truncate(query, 30), path)
}

// stringField returns the first non-empty string value among keys.
func stringField(input map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := input[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// shortPath keeps only the last two path segments, for brevity and privacy.
func shortPath(path string) string {
	if path == "" {
		return ""
	}
	dir, base := filepath.Split(filepath.Clean(path))
	parent := filepath.Base(filepath.Clean(dir))
	if parent == "." || parent == string(filepath.Separator) || parent == "" {
		return base
	}
	return parent + string(filepath.Separator) + base
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// collapse folds runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
