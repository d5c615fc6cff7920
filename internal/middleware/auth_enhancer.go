package middleware

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// authErrorMarkers are substrings that identify auth-related tool errors.
var authErrorMarkers = []string{
	"authentication_required",
	"no google credentials",
	"start_oauth",
}

// authHint is appended to auth-related tool errors so the caller knows how
// to recover without an extra round-trip.
const authHint = "\n\nTo connect this user's Google account: call start_oauth with the user's " +
	"OAuth client ID and secret, have the user visit the returned auth_url, then call " +
	"complete_oauth with the authorization code."

// AuthEnhancerMiddleware returns MCP SDK middleware that detects
// auth-related tool errors and appends re-authentication guidance.
func AuthEnhancerMiddleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			result, err := next(ctx, method, req)

			// Only enhance tools/call responses.
			if method != "tools/call" {
				return result, err
			}

			toolResult, ok := result.(*mcp.CallToolResult)
			if !ok || toolResult == nil || !toolResult.IsError || len(toolResult.Content) == 0 {
				return result, err
			}

			textContent, ok := toolResult.Content[0].(*mcp.TextContent)
			if !ok || !isAuthRelatedError(textContent.Text) {
				return result, err
			}

			// start_oauth failing is not a missing-credential problem.
			if toolName(req) == "start_oauth" {
				return result, err
			}

			if userID := extractUserID(req); userID != "" {
				textContent.Text += authHint
			}

			return result, err
		}
	}
}

// isAuthRelatedError returns true if the text contains any auth-error marker.
func isAuthRelatedError(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range authErrorMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// extractUserID tries to read user_id from the raw tool arguments.
func extractUserID(req mcp.Request) string {
	params, ok := req.GetParams().(*mcp.CallToolParamsRaw)
	if !ok {
		return ""
	}

	var args struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(params.Arguments, &args); err != nil {
		return ""
	}
	return args.UserID
}
