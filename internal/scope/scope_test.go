package scope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersonal_StableAndDistinct(t *testing.T) {
	a := Personal("/home/dev/projects/widgets")
	b := Personal("/home/dev/projects/widgets")
	c := Personal("/home/dev/projects/gadgets")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "personal_"))
	assert.Len(t, strings.TrimPrefix(a, "personal_"), 16)
}

func TestFromRemote_ProtocolAndSuffixIndependent(t *testing.T) {
	tests := []struct {
		name     string
		remote   string
		expected string
	}{
		{"https with .git", "https://github.com/acme/widgets.git", "project_acme_widgets"},
		{"ssh scp form", "git@github.com:acme/widgets.git", "project_acme_widgets"},
		{"https without .git", "https://github.com/acme/widgets", "project_acme_widgets"},
		{"ssh url form", "ssh://git@github.com/acme/widgets.git", "project_acme_widgets"},
		{"mixed case lowered", "https://github.com/Acme/Widgets.git", "project_acme_widgets"},
		{"dots sanitized", "https://gitlab.com/team/svc.api.git", "project_team_svc_api"},
		{"hyphen and underscore kept", "git@github.com:a-b/c_d.git", "project_a-b_c_d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromRemote(tt.remote))
		})
	}
}

func TestProject_FallsBackToFolderName(t *testing.T) {
	// A temp dir is never a git repository, so the remote lookup degrades
	// to the sanitized folder name.
	dir := t.TempDir()
	id := Project(dir)
	assert.True(t, strings.HasPrefix(id, "project_"), id)
	assert.NotContains(t, id, "/")
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "acme_widgets", sanitize("Acme/Widgets"))
	assert.Equal(t, "a-b_c_d_e", sanitize("a-b c.d@e"))
}
