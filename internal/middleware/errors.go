package middleware

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"

	"github.com/okihara/juiz-mcp/internal/apperr"
)

// HandleServiceError translates a service-layer error into the
// agent-actionable message surfaced as the tool error. Taxonomy errors keep
// their code as the message prefix so callers can branch without parsing
// prose; anything else falls through to the raw Google API mapping.
func HandleServiceError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.Validation:
			return fmt.Errorf("validation_error — %s", appErr.Message)
		case apperr.NotFound:
			// The message already reads "X with ID n not found for user u"
			// and is identical whether the row is absent or owned by
			// someone else.
			return errors.New(appErr.Message)
		case apperr.AuthRequired:
			return fmt.Errorf(
				"authentication_required — %s. Action: re-authenticate by calling the start_oauth tool",
				appErr.Message)
		case apperr.RemoteProvider:
			if appErr.Status != 0 {
				return fmt.Errorf("remote_provider_error — %s (provider status %d: %s)",
					appErr.Message, appErr.Status, appErr.Reason)
			}
			return fmt.Errorf("remote_provider_error — %s", appErr.Message)
		case apperr.Database:
			return fmt.Errorf("database_error — %s", appErr.Message)
		}
	}

	return HandleGoogleAPIError(err)
}

// HandleGoogleAPIError translates raw Google API errors into messages that
// tell the AI what to do next, not the end user.
func HandleGoogleAPIError(err error) error {
	if err == nil {
		return nil
	}

	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		switch googleErr.Code {
		case 400:
			return fmt.Errorf(
				"bad request — check that all required parameters are provided and valid. Detail: %s",
				googleErr.Message)
		case 401:
			return errors.New(
				"authentication_required — the access token was rejected. Action: re-authenticate by calling the start_oauth tool")
		case 403:
			return fmt.Errorf(
				"permission denied — the required OAuth scope may not be granted. "+
					"Suggest the user re-authenticate with start_oauth. Detail: %s", googleErr.Message)
		case 404:
			return errors.New(
				"resource not found — verify the ID is correct and the user has access to it")
		case 429:
			return errors.New(
				"rate limit exceeded for this Google API — wait 30-60 seconds before retrying this tool call")
		case 500, 502, 503:
			return fmt.Errorf(
				"Google API server error (%d) — this is a transient issue, retry after a few seconds. Detail: %s",
				googleErr.Code, googleErr.Message)
		default:
			return fmt.Errorf("Google API error (%d): %s", googleErr.Code, googleErr.Message)
		}
	}

	return err
}
