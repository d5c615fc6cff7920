package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// fakeToolRequest builds a CallToolRequest for the named tool with the given
// arguments JSON.
func fakeToolRequest(tool, argsJSON string) mcp.Request {
	return &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      tool,
			Arguments: json.RawMessage(argsJSON),
		},
	}
}

// errorNext returns a handler that always yields a tool error with the given
// text.
func errorNext(text string) mcp.MethodHandler {
	return func(_ context.Context, _ string, _ mcp.Request) (mcp.Result, error) {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	}
}

func resultText(t *testing.T, result mcp.Result) string {
	t.Helper()
	toolResult, ok := result.(*mcp.CallToolResult)
	if !ok {
		t.Fatalf("expected *mcp.CallToolResult, got %T", result)
	}
	return toolResult.Content[0].(*mcp.TextContent).Text
}

func TestAuthEnhancerAppendsHint(t *testing.T) {
	errText := "authentication_required — no Google credentials found for user alice"
	handler := AuthEnhancerMiddleware()(errorNext(errText))

	req := fakeToolRequest("get_all_todos", `{"user_id":"alice"}`)
	result, err := handler(context.Background(), "tools/call", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, errText) {
		t.Errorf("original error text missing, got: %s", text)
	}
	if !strings.Contains(text, "call start_oauth with the user's") {
		t.Errorf("recovery hint missing, got: %s", text)
	}
	if !strings.Contains(text, "complete_oauth") {
		t.Errorf("hint should mention complete_oauth, got: %s", text)
	}
}

func TestAuthEnhancerSkipsStartOAuth(t *testing.T) {
	// A failing start_oauth is not a missing-credential problem; pointing
	// the caller back at start_oauth would loop.
	errText := "validation_error — client_id is required to start_oauth"
	handler := AuthEnhancerMiddleware()(errorNext(errText))

	req := fakeToolRequest("start_oauth", `{"user_id":"alice"}`)
	result, _ := handler(context.Background(), "tools/call", req)

	if text := resultText(t, result); text != errText {
		t.Errorf("start_oauth error should be unchanged, got: %s", text)
	}
}

func TestAuthEnhancerNonAuthErrorUnchanged(t *testing.T) {
	errText := "Todo with ID 7 not found for user alice"
	handler := AuthEnhancerMiddleware()(errorNext(errText))

	req := fakeToolRequest("get_todo", `{"user_id":"alice","todo_id":"7"}`)
	result, _ := handler(context.Background(), "tools/call", req)

	if text := resultText(t, result); text != errText {
		t.Errorf("non-auth error should be unchanged, got: %s", text)
	}
}

func TestAuthEnhancerMissingUserIDUnchanged(t *testing.T) {
	errText := "authentication_required — no Google credentials found"
	handler := AuthEnhancerMiddleware()(errorNext(errText))

	req := fakeToolRequest("get_all_todos", `{"filter_status":"all"}`)
	result, _ := handler(context.Background(), "tools/call", req)

	if text := resultText(t, result); text != errText {
		t.Errorf("error without user_id should be unchanged, got: %s", text)
	}
}

func TestAuthEnhancerSuccessUnchanged(t *testing.T) {
	handler := AuthEnhancerMiddleware()(func(_ context.Context, _ string, _ mcp.Request) (mcp.Result, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "3 todos"}},
		}, nil
	})

	req := fakeToolRequest("get_all_todos", `{"user_id":"alice"}`)
	result, _ := handler(context.Background(), "tools/call", req)

	if text := resultText(t, result); text != "3 todos" {
		t.Errorf("successful result should be unchanged, got: %s", text)
	}
}

func TestAuthEnhancerNonToolCallUnchanged(t *testing.T) {
	handler := AuthEnhancerMiddleware()(func(_ context.Context, _ string, _ mcp.Request) (mcp.Result, error) {
		return &mcp.ListToolsResult{}, nil
	})

	req := &mcp.ServerRequest[*mcp.ListToolsParams]{Params: &mcp.ListToolsParams{}}
	result, err := handler(context.Background(), "tools/list", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := result.(*mcp.ListToolsResult); !ok {
		t.Errorf("expected ListToolsResult, got %T", result)
	}
}

func TestAuthEnhancerNilResultNoPanic(t *testing.T) {
	// The SDK hands a typed-nil *CallToolResult plus an error when input
	// validation fails before the handler runs.
	handler := AuthEnhancerMiddleware()(func(_ context.Context, _ string, _ mcp.Request) (mcp.Result, error) {
		var r *mcp.CallToolResult
		return r, fmt.Errorf("missing required field user_id")
	})

	req := fakeToolRequest("get_all_todos", `{}`)
	_, err := handler(context.Background(), "tools/call", req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
