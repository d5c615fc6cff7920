package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all server configuration loaded from environment variables and CLI flags.
type Config struct {
	Server struct {
		Transport string
		Port      int
		Host      string
	}
	DBPath          string
	ToolTier        string
	EnabledServices []string
	ReadOnly        bool
	LogLevel        string
}

// Load reads configuration from environment variables and CLI flags.
// CLI flags take precedence over environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DBPath = envOrDefault("JUIZ_MCP_DB_PATH", "./juiz.db")
	cfg.Server.Host = envOrDefault("JUIZ_MCP_HOST", "0.0.0.0")
	cfg.Server.Transport = envOrDefault("MCP_TRANSPORT", "stdio")
	cfg.LogLevel = envOrDefault("LOG_LEVEL", "info")
	cfg.ToolTier = envOrDefault("TOOL_TIER", "complete")
	cfg.ReadOnly = envBool("JUIZ_MCP_READ_ONLY")

	// Enabled services (comma-separated, empty = all)
	if svcEnv := os.Getenv("ENABLED_SERVICES"); svcEnv != "" {
		cfg.EnabledServices = splitList(svcEnv)
	}

	// Port
	portStr := os.Getenv("MCP_PORT")
	if portStr == "" {
		portStr = os.Getenv("PORT")
	}
	if portStr == "" {
		portStr = "8000"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", portStr, err)
	}
	cfg.Server.Port = port

	// CLI flags override env vars
	flag.StringVar(&cfg.Server.Transport, "transport", cfg.Server.Transport, "Transport mode: stdio or streamable-http")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	var toolsFlag string
	flag.StringVar(&toolsFlag, "tools", "", "Services to enable (comma-separated): todo,event,oauth")
	flag.StringVar(&cfg.ToolTier, "tool-tier", cfg.ToolTier, "Load tools by tier: core, extended, or complete")
	flag.BoolVar(&cfg.ReadOnly, "read-only", cfg.ReadOnly, "Register only read-only tools")
	flag.Parse()

	// CLI --tools flag overrides (not appends to) the ENABLED_SERVICES env var.
	if toolsFlag != "" {
		cfg.EnabledServices = splitList(toolsFlag)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}
