package store

import (
	"os"
	"strings"

	"github.com/mnemo-sh/mnemo/internal/config"
)

// APIKey resolves the store credential: the MNEMO_API_KEY environment
// variable first, the local credentials file second. Returns an empty
// string when neither is set; callers degrade to no-ops.
func APIKey() string {
	if key := strings.TrimSpace(os.Getenv("MNEMO_API_KEY")); key != "" {
		return key
	}
	data, err := os.ReadFile(config.CredentialsPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
