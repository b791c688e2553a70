package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// MaxDocumentSize bounds inline content and files read from disk.
	MaxDocumentSize int

	// GitLab access for include entries. Fetching is disabled without a host.
	GitLabHost  string
	GitLabToken string
	CacheSize   int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from CICOMPAT_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		MaxDocumentSize: envInt("CICOMPAT_MAX_DOCUMENT_SIZE", 1<<20),
		GitLabHost:      strings.TrimSpace(os.Getenv("CICOMPAT_GITLAB_HOST")),
		GitLabToken:     strings.TrimSpace(os.Getenv("GITLAB_TOKEN")),
		CacheSize:       envInt("CICOMPAT_CACHE_SIZE", 64),
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}
