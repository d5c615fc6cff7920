package auth

import (
	"fmt"
	"log/slog"
	"net/http"
)

// OAuthCallbackHandler returns an http.HandlerFunc for the OAuth 2.0
// redirect endpoint used on the streamable-http transport. The state
// parameter carries the nonce issued by start_oauth.
func OAuthCallbackHandler(oauthMgr *OAuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")
		errMsg := r.URL.Query().Get("error")

		if errMsg != "" {
			slog.Error("OAuth callback error", "error", errMsg)
			writeCallbackPage(w, http.StatusBadRequest, "Authentication Failed", errMsg)
			return
		}
		if code == "" || state == "" {
			slog.Error("OAuth callback missing code or state")
			writeCallbackPage(w, http.StatusBadRequest, "Authentication Failed",
				"Missing authorization code or state. Restart the flow with the start_oauth tool.")
			return
		}

		userID, err := oauthMgr.CompleteCallback(r.Context(), state, code)
		if err != nil {
			slog.Error("OAuth token exchange failed", "error", err)
			writeCallbackPage(w, http.StatusInternalServerError, "Authentication Failed",
				fmt.Sprintf("Token exchange failed: %v", err))
			return
		}

		slog.Info("OAuth authentication successful", "user_id", userID)
		writeCallbackPage(w, http.StatusOK, "Authentication Successful",
			fmt.Sprintf("Google account connected for user %s. You can close this window.", userID))
	}
}

func writeCallbackPage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>%s</title>
  <style>
    body { font-family: system-ui, sans-serif; background: #1a1a1a; color: #e0e0e0;
           display: flex; align-items: center; justify-content: center; min-height: 100vh; }
    .card { background: #2d2d2d; border: 1px solid #444; border-radius: 12px;
            padding: 40px; max-width: 440px; text-align: center; }
    h1 { font-size: 22px; color: #fff; margin-bottom: 12px; }
    p { font-size: 14px; color: #aaa; line-height: 1.6; }
  </style>
</head>
<body>
  <div class="card">
    <h1>%s</h1>
    <p>%s</p>
  </div>
</body>
</html>`, title, title, message)
}
