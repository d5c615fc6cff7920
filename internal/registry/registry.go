// Package registry wires the tool packages onto the MCP server, applying
// tier, service, and read-only filters from configuration.
package registry

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okihara/juiz-mcp/internal/auth"
	"github.com/okihara/juiz-mcp/internal/config"
	"github.com/okihara/juiz-mcp/internal/service"
	"github.com/okihara/juiz-mcp/internal/tools/event"
	oauthtools "github.com/okihara/juiz-mcp/internal/tools/oauth"
	"github.com/okihara/juiz-mcp/internal/tools/todo"
)

// toolNameRE enforces SEP-986: tool names must match ^[a-zA-Z0-9_-]{1,64}$
var toolNameRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidateToolName checks that a tool name complies with SEP-986.
func ValidateToolName(name string) error {
	if !toolNameRE.MatchString(name) {
		return fmt.Errorf("tool name %q does not match SEP-986 pattern ^[a-zA-Z0-9_-]{1,64}$", name)
	}
	return nil
}

// serviceEnabled returns true if the service is enabled (or no filter is set).
func serviceEnabled(cfg *config.Config, svc string) bool {
	if len(cfg.EnabledServices) == 0 {
		return true
	}
	for _, s := range cfg.EnabledServices {
		if s == svc {
			return true
		}
	}
	return false
}

// RegisterAll registers all tool packages with the server. Each tool package
// exposes Register(server, ..., include) which adds the tools the filter
// admits; the filter applies the tier, service, and read-only rules from
// ShouldIncludeTool.
func RegisterAll(
	server *mcp.Server,
	todoSvc *service.TodoService,
	eventSvc *service.EventService,
	oauthMgr *auth.OAuthManager,
	creds *auth.CredentialStore,
	cfg *config.Config,
	tierMap map[string]config.ToolInfo,
) {
	slog.Info("registering tools",
		"tier", cfg.ToolTier,
		"services", cfg.EnabledServices,
		"readOnly", cfg.ReadOnly,
	)

	include := func(name string, annotations *mcp.ToolAnnotations) bool {
		ok := ShouldIncludeTool(name, cfg, tierMap, annotations)
		if !ok {
			slog.Debug("tool filtered out", "tool", name)
		}
		return ok
	}

	todo.Register(server, todoSvc, include)
	event.Register(server, eventSvc, include)
	oauthtools.Register(server, oauthMgr, creds, include)
}

// ShouldIncludeTool checks whether a tool should be registered based on the current config.
func ShouldIncludeTool(toolName string, cfg *config.Config, tierMap map[string]config.ToolInfo, annotations *mcp.ToolAnnotations) bool {
	info, ok := tierMap[toolName]
	if !ok {
		slog.Warn("tool not found in tier config, skipping", "tool", toolName)
		return false
	}

	// Filter by tier level
	if config.TierLevel(info.Tier) > config.TierLevel(cfg.ToolTier) {
		return false
	}

	// Filter by enabled services
	if !serviceEnabled(cfg, info.Service) {
		return false
	}

	// Filter by read-only mode: exclude tools that are not read-only
	if cfg.ReadOnly && annotations != nil && !annotations.ReadOnlyHint {
		return false
	}

	return true
}
