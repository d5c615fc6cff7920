// Package oauth implements the credential management MCP tools: starting and
// completing the Google OAuth 2.0 flow, and checking a user's stored
// credentials.
package oauth

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	iauth "github.com/okihara/juiz-mcp/internal/auth"
	"github.com/okihara/juiz-mcp/internal/pkg/ptr"
)

var serviceIcons = []mcp.Icon{{
	Source:   "https://www.gstatic.com/images/branding/product/1x/googleg_48dp.png",
	MIMEType: "image/png",
	Sizes:    []string{"48x48"},
}}

// Register registers the OAuth tools that pass the include filter with the
// MCP server.
func Register(server *mcp.Server, oauthMgr *iauth.OAuthManager, creds *iauth.CredentialStore, include func(name string, annotations *mcp.ToolAnnotations) bool) {
	startOAuth := &mcp.Tool{
		Name:        "start_oauth",
		Icons:       serviceIcons,
		Description: "Start the Google OAuth 2.0 flow for a user. Returns an authorization URL the user must visit to grant access to Google Tasks and Google Calendar. Complete the flow with complete_oauth, or let the HTTP callback capture the code automatically.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Start Google OAuth",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(startOAuth.Name, startOAuth.Annotations) {
		mcp.AddTool(server, startOAuth, createStartOAuthHandler(oauthMgr))
	}

	completeOAuth := &mcp.Tool{
		Name:        "complete_oauth",
		Icons:       serviceIcons,
		Description: "Complete the Google OAuth 2.0 flow with the authorization code the user received after visiting the auth URL. Stores the resulting credentials for the user.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Complete Google OAuth",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(completeOAuth.Name, completeOAuth.Annotations) {
		mcp.AddTool(server, completeOAuth, createCompleteOAuthHandler(oauthMgr))
	}

	checkCredentials := &mcp.Tool{
		Name:        "check_credentials",
		Icons:       serviceIcons,
		Description: "Check whether a user has Google credentials stored, and report the granted scopes and timestamps.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Check Google Credentials",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(checkCredentials.Name, checkCredentials.Annotations) {
		mcp.AddTool(server, checkCredentials, createCheckCredentialsHandler(creds))
	}
}
