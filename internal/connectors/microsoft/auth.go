package microsoft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/graphsnap/graphsnap/internal/core/domain"
	"github.com/graphsnap/graphsnap/internal/logger"
)

// Microsoft Entra ID constants.
const (
	defaultAuthorityBase = "https://login.microsoftonline.com"
	defaultScope         = "https://graph.microsoft.com/.default"
)

// Authenticator exchanges credentials for a bearer token at the tenant's
// token endpoint. One acquisition per run; no caching, no refresh.
type Authenticator struct {
	creds         domain.Credentials
	authorityBase string
}

// NewAuthenticator creates an authenticator for the given credentials.
func NewAuthenticator(creds domain.Credentials) *Authenticator {
	return &Authenticator{
		creds:         creds,
		authorityBase: defaultAuthorityBase,
	}
}

// NewAuthenticatorWithAuthority creates an authenticator against a custom
// authority base URL. Used by tests to target a mock token endpoint.
func NewAuthenticatorWithAuthority(creds domain.Credentials, authorityBase string) *Authenticator {
	a := NewAuthenticator(creds)
	a.authorityBase = authorityBase
	return a
}

// TokenURL returns the tenant's v2.0 token endpoint.
func (a *Authenticator) TokenURL() string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", a.authorityBase, a.creds.TenantID)
}

// Authenticate acquires an access token. Username/password credentials use
// the resource-owner password grant; otherwise the client-credentials grant
// with the client secret is used. Failures are returned as *domain.AuthError
// carrying the provider's error payload. No retry is attempted.
func (a *Authenticator) Authenticate(ctx context.Context) (domain.AccessToken, error) {
	if err := a.creds.Validate(); err != nil {
		return domain.AccessToken{}, err
	}

	tokenURL := a.TokenURL()

	var (
		token *oauth2.Token
		err   error
	)
	if a.creds.UsesPasswordGrant() {
		logger.Debug("microsoft: acquiring token via password grant for %s", a.creds.Username)
		cfg := &oauth2.Config{
			ClientID: a.creds.ClientID,
			// The v2.0 endpoint takes credentials in the request body
			Endpoint: oauth2.Endpoint{TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams},
			Scopes:   []string{defaultScope},
		}
		token, err = cfg.PasswordCredentialsToken(ctx, a.creds.Username, a.creds.Password)
	} else {
		logger.Debug("microsoft: acquiring token via client credentials grant")
		cfg := &clientcredentials.Config{
			ClientID:     a.creds.ClientID,
			ClientSecret: a.creds.ClientSecret,
			TokenURL:     tokenURL,
			Scopes:       []string{defaultScope},
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		token, err = cfg.Token(ctx)
	}
	if err != nil {
		return domain.AccessToken{}, wrapAuthError(err)
	}

	logger.Debug("microsoft: token acquired")

	return domain.AccessToken{
		Value:      token.AccessToken,
		AcquiredAt: time.Now(),
	}, nil
}

// wrapAuthError converts a token retrieval failure into a *domain.AuthError,
// preserving the provider's error payload when present.
func wrapAuthError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		authErr := &domain.AuthError{
			Body: string(retrieveErr.Body),
			Err:  err,
		}
		if retrieveErr.Response != nil {
			authErr.StatusCode = retrieveErr.Response.StatusCode
		}
		return authErr
	}
	return &domain.AuthError{Err: err}
}
