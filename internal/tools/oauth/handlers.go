package oauth

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	iauth "github.com/okihara/juiz-mcp/internal/auth"
	"github.com/okihara/juiz-mcp/internal/middleware"
	"github.com/okihara/juiz-mcp/internal/pkg/response"
)

// --- start_oauth ---

type StartOAuthInput struct {
	UserID       string `json:"user_id" jsonschema:"required" jsonschema_description:"Identifier of the user to authenticate"`
	ClientID     string `json:"client_id" jsonschema:"required" jsonschema_description:"Google OAuth client ID"`
	ClientSecret string `json:"client_secret" jsonschema:"required" jsonschema_description:"Google OAuth client secret"`
	RedirectURI  string `json:"redirect_uri,omitempty" jsonschema_description:"Redirect URI registered with the OAuth client. Defaults to the out-of-band URI"`
}

type StartOAuthOutput struct {
	AuthURL string `json:"auth_url"`
}

func createStartOAuthHandler(oauthMgr *iauth.OAuthManager) mcp.ToolHandlerFor[StartOAuthInput, StartOAuthOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StartOAuthInput) (*mcp.CallToolResult, StartOAuthOutput, error) {
		authURL, err := oauthMgr.StartFlow(input.UserID, input.ClientID, input.ClientSecret, input.RedirectURI)
		if err != nil {
			return nil, StartOAuthOutput{}, middleware.HandleServiceError(err)
		}

		rb := response.New()
		rb.Header("Google Authorization")
		rb.Line("Have the user visit the following URL to grant access:")
		rb.Blank()
		rb.Raw(authURL)
		rb.Blank()
		rb.Blank()
		rb.Line("Then call complete_oauth with the authorization code the user receives.")
		rb.Line("Authenticating as: %s", input.UserID)

		return rb.TextResult(), StartOAuthOutput{AuthURL: authURL}, nil
	}
}

// --- complete_oauth ---

type CompleteOAuthInput struct {
	UserID       string `json:"user_id" jsonschema:"required" jsonschema_description:"Identifier of the user being authenticated"`
	ClientID     string `json:"client_id" jsonschema:"required" jsonschema_description:"Google OAuth client ID used for start_oauth"`
	ClientSecret string `json:"client_secret" jsonschema:"required" jsonschema_description:"Google OAuth client secret used for start_oauth"`
	AuthCode     string `json:"auth_code" jsonschema:"required" jsonschema_description:"Authorization code returned to the user"`
	RedirectURI  string `json:"redirect_uri,omitempty" jsonschema_description:"Redirect URI used for start_oauth, if any"`
}

type CompleteOAuthOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func createCompleteOAuthHandler(oauthMgr *iauth.OAuthManager) mcp.ToolHandlerFor[CompleteOAuthInput, CompleteOAuthOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CompleteOAuthInput) (*mcp.CallToolResult, CompleteOAuthOutput, error) {
		err := oauthMgr.CompleteFlow(ctx, input.UserID, input.ClientID, input.ClientSecret, input.AuthCode, input.RedirectURI)
		if err != nil {
			return nil, CompleteOAuthOutput{}, middleware.HandleServiceError(err)
		}

		rb := response.New()
		rb.Header("Google Account Connected")
		rb.KeyValue("User", input.UserID)
		rb.Line("Credentials stored. Todo and event tools can now sync with Google.")

		return rb.TextResult(), CompleteOAuthOutput{
			Success: true,
			Message: "Google credentials stored for user " + input.UserID,
		}, nil
	}
}

// --- check_credentials ---

type CheckCredentialsInput struct {
	UserID string `json:"user_id" jsonschema:"required" jsonschema_description:"Identifier of the user to check"`
}

type CheckCredentialsOutput struct {
	Connected bool     `json:"connected"`
	Scopes    []string `json:"scopes,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty"`
	Message   string   `json:"message,omitempty"`
}

func createCheckCredentialsHandler(creds *iauth.CredentialStore) mcp.ToolHandlerFor[CheckCredentialsInput, CheckCredentialsOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CheckCredentialsInput) (*mcp.CallToolResult, CheckCredentialsOutput, error) {
		cred, err := creds.Status(ctx, input.UserID)
		if err != nil {
			return nil, CheckCredentialsOutput{}, middleware.HandleServiceError(err)
		}

		rb := response.New()
		rb.Header("Google Credentials")
		rb.KeyValue("User", input.UserID)

		if cred == nil {
			rb.KeyValue("Connected", false)
			rb.Line("No Google credentials stored. Run start_oauth to connect this user's Google account.")

			return rb.TextResult(), CheckCredentialsOutput{
				Connected: false,
				Message:   "No Google credentials found for user " + input.UserID,
			}, nil
		}

		out := CheckCredentialsOutput{
			Connected: true,
			Scopes:    cred.Scopes,
			CreatedAt: cred.CreatedAt.Format(time.RFC3339),
			UpdatedAt: cred.UpdatedAt.Format(time.RFC3339),
		}

		rb.KeyValue("Connected", true)
		for _, scope := range cred.Scopes {
			rb.Item("%s", scope)
		}
		rb.KeyValue("Created", out.CreatedAt)
		rb.KeyValue("Updated", out.UpdatedAt)

		return rb.TextResult(), out, nil
	}
}
