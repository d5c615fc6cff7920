package registry

import (
	"context"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okihara/juiz-mcp/internal/config"
)

// testTierMap mirrors configs/tool_tiers.yaml.
func testTierMap() map[string]config.ToolInfo {
	tools := map[string]string{
		"add_todo":           "todo",
		"get_all_todos":      "todo",
		"get_todo":           "todo",
		"update_todo_status": "todo",
		"add_event":          "event",
		"get_event":          "event",
		"get_all_events":     "event",
		"start_oauth":        "oauth",
		"complete_oauth":     "oauth",
		"check_credentials":  "oauth",
	}
	tierMap := make(map[string]config.ToolInfo, len(tools))
	for name, svc := range tools {
		tierMap[name] = config.ToolInfo{Tier: "core", Service: svc}
	}
	return tierMap
}

// registeredTools registers everything under cfg and lists the tools the
// server actually exposes over an in-memory session. The services behind the
// handlers are never invoked during listing, so nil services are fine.
func registeredTools(t *testing.T, cfg *config.Config) []string {
	t.Helper()

	server := mcp.NewServer(&mcp.Implementation{Name: "juiz-mcp-test", Version: "test"}, nil)
	RegisterAll(server, nil, nil, nil, nil, cfg, testTierMap())

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("connecting server: %v", err)
	}
	t.Cleanup(func() { serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connecting client: %v", err)
	}
	t.Cleanup(func() { clientSession.Close() })

	result, err := clientSession.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("listing tools: %v", err)
	}

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	return names
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

func TestRegisterAllExposesEveryTool(t *testing.T) {
	names := registeredTools(t, &config.Config{ToolTier: "complete"})

	if len(names) != 10 {
		t.Fatalf("expected 10 tools, got %d: %v", len(names), names)
	}
}

func TestRegisterAllReadOnlyMode(t *testing.T) {
	names := registeredTools(t, &config.Config{ToolTier: "complete", ReadOnly: true})

	writeTools := []string{"add_todo", "update_todo_status", "add_event", "start_oauth", "complete_oauth"}
	for _, name := range writeTools {
		if contains(names, name) {
			t.Errorf("write tool %q registered in read-only mode", name)
		}
	}

	readOnlyTools := []string{"get_all_todos", "get_todo", "get_event", "get_all_events", "check_credentials"}
	for _, name := range readOnlyTools {
		if !contains(names, name) {
			t.Errorf("read-only tool %q missing in read-only mode", name)
		}
	}
}

func TestRegisterAllServiceFiltering(t *testing.T) {
	names := registeredTools(t, &config.Config{
		ToolTier:        "complete",
		EnabledServices: []string{"todo"},
	})

	want := []string{"add_todo", "get_all_todos", "get_todo", "update_todo_status"}
	if len(names) != len(want) {
		t.Fatalf("expected %d tools, got %d: %v", len(want), len(names), names)
	}
	for _, name := range want {
		if !contains(names, name) {
			t.Errorf("todo tool %q missing when todo service is enabled", name)
		}
	}
}

func TestValidateToolName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"add_todo", false},
		{"check-credentials", false},
		{"", true},
		{"bad name", true},
		{"tool/with/slash", true},
	}
	for _, tt := range tests {
		err := ValidateToolName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateToolName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
