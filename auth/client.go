package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/tutorqa/sheets-sync/gsheet"
)

const (
	SHEETS          = "https://www.googleapis.com/auth/spreadsheets"
	SHEETS_READONLY = "https://www.googleapis.com/auth/spreadsheets.readonly"
	DRIVE           = "https://www.googleapis.com/auth/drive.metadata.readonly"
)

// Kind returns the 'type' of a Google credentials file: 'service_account' for service
// accounts and 'installed' or 'web' for OAuth2 client credentials.
func Kind(credentials []byte) (string, error) {
	var blob map[string]json.RawMessage

	if err := json.Unmarshal(credentials, &blob); err != nil {
		return "", fmt.Errorf("invalid credentials (%w)", err)
	}

	if v, ok := blob["type"]; ok {
		var kind string
		if err := json.Unmarshal(v, &kind); err == nil && kind != "" {
			return kind, nil
		}
	}

	for _, k := range []string{"installed", "web"} {
		if _, ok := blob[k]; ok {
			return k, nil
		}
	}

	return "", fmt.Errorf("unrecognised credentials - expected a service account or OAuth client credentials")
}

// TokenSource returns a token source for the credentials. Service accounts use a signed JWT,
// OAuth2 client credentials use the refresh token saved by 'authorise' in the tokens file.
// Token refreshes are retried according to the policy.
func TokenSource(ctx context.Context, credentials []byte, tokens string, policy gsheet.Policy, scopes ...string) (oauth2.TokenSource, error) {
	kind, err := Kind(credentials)
	if err != nil {
		return nil, err
	}

	var source oauth2.TokenSource

	switch kind {
	case "service_account":
		config, err := google.JWTConfigFromJSON(credentials, scopes...)
		if err != nil {
			return nil, fmt.Errorf("invalid service account credentials (%w)", err)
		}

		source = config.TokenSource(ctx)

	case "installed", "web":
		config, err := google.ConfigFromJSON(credentials, scopes...)
		if err != nil {
			return nil, fmt.Errorf("invalid OAuth client credentials (%w)", err)
		}

		token, err := tokenFromFile(tokens)
		if err != nil {
			return nil, fmt.Errorf("unable to read OAuth token from %v - run 'authorise' first (%w)", tokens, err)
		}

		source = config.TokenSource(ctx, token)

	default:
		return nil, fmt.Errorf("unsupported credentials type '%v'", kind)
	}

	return oauth2.ReuseTokenSource(nil, &retrying{ctx: ctx, source: source, policy: policy}), nil
}

// NewClient returns an HTTP client that authorises requests with the credentials.
func NewClient(ctx context.Context, credentials []byte, tokens string, policy gsheet.Policy, scopes ...string) (*http.Client, error) {
	source, err := TokenSource(ctx, credentials, tokens, policy, scopes...)
	if err != nil {
		return nil, err
	}

	return oauth2.NewClient(ctx, source), nil
}

type retrying struct {
	ctx    context.Context
	source oauth2.TokenSource
	policy gsheet.Policy
}

func (r *retrying) Token() (*oauth2.Token, error) {
	token, err := gsheet.Retry(r.ctx, r.policy, "token refresh", r.source.Token)
	if err != nil && gsheet.IsTransient(err) {
		return nil, &gsheet.ExhaustedError{Err: err}
	}

	return token, err
}
