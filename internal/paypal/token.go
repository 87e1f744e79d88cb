package paypal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"fjacquet/paypal-sync/internal/resilience"
	"fjacquet/paypal-sync/internal/syncerror"
)

// TokenSource yields a bearer credential for the transaction listing
// endpoint. The pipeline consumes it as an opaque capability and does not
// manage refresh or storage.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed token. Useful for tests and for
// callers that manage their own token lifecycle.
type StaticTokenSource struct {
	AccessToken string
}

// Token returns the fixed token.
func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	return s.AccessToken, nil
}

// ClientCredentials acquires tokens via the OAuth client-credentials
// grant. Token requests are retried with backoff; this is the transport
// collaborator the fetcher's no-retry rule defers to.
type ClientCredentials struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string

	// Retry controls the backoff policy for token requests.
	Retry resilience.Config
}

// NewClientCredentials creates a client-credentials token source.
func NewClientCredentials(httpClient *http.Client, baseURL, clientID, secret string) *ClientCredentials {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ClientCredentials{
		httpClient: httpClient,
		baseURL:    baseURL,
		clientID:   clientID,
		secret:     secret,
		Retry:      resilience.DefaultConfig,
	}
}

// Token POSTs the oauth2 token endpoint with Basic auth and returns the
// access token.
func (c *ClientCredentials) Token(ctx context.Context) (string, error) {
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.secret))
	form := url.Values{"grant_type": {"client_credentials"}}

	var token string
	err := resilience.RetryWithBackoff(ctx, c.Retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Basic "+basic)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")

		log.WithField("url", c.baseURL+"/v1/oauth2/token").Debug("Requesting OAuth token")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				log.WithError(err).Warn("Failed to close response body")
			}
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &syncerror.AuthError{
				Status: resp.StatusCode,
				Err:    fmt.Errorf("%s", strings.TrimSpace(string(body))),
			}
		}

		var payload struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return fmt.Errorf("error decoding OAuth response: %w", err)
		}
		if payload.AccessToken == "" {
			return &syncerror.AuthError{Err: fmt.Errorf("no access_token in OAuth response")}
		}
		token = payload.AccessToken
		return nil
	})
	if err != nil {
		log.WithError(err).Error("OAuth token acquisition failed")
		return "", err
	}
	return token, nil
}
