// internal/auth/authenticator.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"reddit-autopost/internal/config"
)

// expirySkew is subtracted from the server-reported lifetime so a token is
// refreshed before Reddit actually rejects it.
const expirySkew = 60 * time.Second

// Authenticator performs the OAuth2 password grant against Reddit and caches
// the resulting bearer token until it expires. Safe for concurrent use.
type Authenticator struct {
	client    *http.Client
	clientID  string
	secret    string
	userAgent string
	tokenURL  *url.URL
	formData  url.Values

	mu        sync.Mutex
	token     string
	tokenType string
	expiresAt time.Time
}

func NewAuthenticator(httpClient *http.Client, cfg *config.Config) (*Authenticator, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsedURL, err := url.Parse(cfg.TokenURL)
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("failed to parse token URL: %w", err)}
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", cfg.Username)
	form.Set("password", cfg.Password)

	return &Authenticator{
		client:    httpClient,
		clientID:  cfg.ClientID,
		secret:    cfg.ClientSecret,
		userAgent: cfg.UserAgent,
		tokenURL:  parsedURL,
		formData:  form,
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Token returns the cached access token, re-authenticating first when the
// cache is empty or expired.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && time.Now().Before(a.expiresAt) {
		return a.token, nil
	}

	return a.fetchToken(ctx)
}

// Invalidate drops the cached token so the next Token call re-authenticates.
// Called when the API answers 401 despite an apparently valid token.
func (a *Authenticator) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = ""
	a.expiresAt = time.Time{}
}

// TokenType reports the type of the cached token, defaulting to "bearer".
func (a *Authenticator) TokenType() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tokenType == "" {
		return "bearer"
	}
	return a.tokenType
}

// fetchToken performs the password grant flow. Caller must hold a.mu.
func (a *Authenticator) fetchToken(ctx context.Context) (string, error) {
	data := a.formData.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL.String(), strings.NewReader(data))
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("failed to create token request: %w", err)}
	}

	req.SetBasicAuth(a.clientID, a.secret)
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("failed to execute token request: %w", err)}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AuthError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(bodyBytes, &tokenResp); err != nil {
		return "", &AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        fmt.Errorf("failed to unmarshal token response: %w", err),
		}
	}

	if tokenResp.AccessToken == "" {
		return "", &AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        fmt.Errorf("access token was empty in response"),
		}
	}

	a.token = tokenResp.AccessToken
	a.tokenType = tokenResp.TokenType
	a.expiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - expirySkew)

	return a.token, nil
}

// AuthError represents an error that occurred during authentication.
type AuthError struct {
	StatusCode int
	// Body contains the raw response body from the server, which may hold more details.
	Body string
	// Err is the underlying error, e.g. a network or JSON parsing error.
	Err error
}

func (e *AuthError) Error() string {
	var sb strings.Builder
	sb.WriteString("auth error")

	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, ": status code %d", e.StatusCode)
	}

	if e.Body != "" {
		fmt.Fprintf(&sb, ", body: %q", e.Body)
	}

	if e.Err != nil {
		fmt.Fprintf(&sb, ", err: %v", e.Err)
	}

	return sb.String()
}

func (e *AuthError) Unwrap() error { return e.Err }
