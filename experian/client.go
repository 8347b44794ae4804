package experian

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// ProductionBasePath is the production API origin
	ProductionBasePath = "https://us-api.experian.com"
	// SandboxBasePath is the sandbox API origin
	SandboxBasePath = "https://sandbox-us-api.experian.com"
	// DefaultAPIVersion is the version segment used in the token path
	DefaultAPIVersion = "v1"
	// DefaultTimeout is the per-request timeout used when none is configured
	DefaultTimeout = 120 * time.Second
)

// Client holds the credentials, origin and bearer token of a single API session.
// It is safe for concurrent use; a call reads the token once, so a Login running
// alongside in-flight calls does not affect them.
type Client struct {
	clientID     string
	clientSecret string
	basePath     string
	httpClient   *http.Client
	logger       zerolog.Logger

	mu      sync.RWMutex
	version string
	timeout time.Duration
	token   string
}

// NewClient creates a new Experian client. No request is made until Login.
func NewClient(clientID, clientSecret string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: no client id provided", ErrConfiguration)
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: no client secret provided", ErrConfiguration)
	}

	options := clientOptions{
		version: DefaultAPIVersion,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}

	basePath := ProductionBasePath
	if options.sandbox {
		basePath = SandboxBasePath
	}
	if options.baseURL != "" {
		basePath = options.baseURL
	}

	httpClient := options.httpClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: !options.verifyTLS, //nolint:gosec // opt-in via WithTLSVerification
		}
		httpClient = &http.Client{Transport: transport}

		if !options.verifyTLS {
			logger.Warn().
				Str("base_path", basePath).
				Msg("TLS certificate verification is disabled for the Experian API")
		}
	}

	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		basePath:     basePath,
		httpClient:   httpClient,
		logger:       logger,
		version:      options.version,
	}
	c.SetTimeout(options.timeout)

	return c, nil
}

// ClientID returns the application client id
func (c *Client) ClientID() string {
	return c.clientID
}

// ClientSecret returns the application client secret
func (c *Client) ClientSecret() string {
	return c.clientSecret
}

// BasePath returns the API origin selected at construction
func (c *Client) BasePath() string {
	return c.basePath
}

// Version returns the API version used in the token path
func (c *Client) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// SetVersion changes the API version. An empty version is ignored.
func (c *Client) SetVersion(version string) {
	if version == "" {
		return
	}
	c.mu.Lock()
	c.version = version
	c.mu.Unlock()
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeout
}

// SetTimeout changes the per-request timeout. Zero or negative restores DefaultTimeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c.mu.Lock()
	c.timeout = timeout
	c.mu.Unlock()
}

// Token returns the current bearer token, or "" before a successful login.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken installs a bearer token obtained elsewhere. An empty token is ignored.
func (c *Client) SetToken(token string) {
	if token == "" {
		return
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Logout forgets the current token
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// Authenticated reports whether a token is present
func (c *Client) Authenticated() bool {
	return c.Token() != ""
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges user credentials for a bearer token and stores it on the client.
// Argument errors are returned before any request is made.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: no username provided", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: no password provided", ErrValidation)
	}

	payload, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode credentials: %v", ErrValidation, err)
	}

	tokenURL := fmt.Sprintf("%s/oauth2/%s/token", c.basePath, c.Version())
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "application/json")
	// Experian expects these exact lower-case names
	header["client_id"] = []string{c.clientID}
	header["client_secret"] = []string{c.clientSecret}
	header["grant_type"] = []string{"password"}

	c.logger.Debug().Str("url", tokenURL).Msg("Requesting Experian access token")

	status, body, err := c.do(ctx, http.MethodPost, tokenURL, header, payload)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		c.logger.Error().Int("status", status).Msg("Experian login rejected")
		return nil, &AuthenticationError{StatusCode: status, Body: body}
	}

	token, err := parseTokenResponse(body)
	if err != nil || token.AccessToken == "" {
		c.logger.Error().Int("status", status).Msg("Experian login response carried no access token")
		return nil, &AuthenticationError{StatusCode: status, Body: body}
	}

	c.mu.Lock()
	c.token = token.AccessToken
	c.mu.Unlock()

	c.logger.Info().Str("expires_in", token.ExpiresIn).Msg("Logged in to Experian API")
	return token, nil
}

// parseTokenResponse tolerates issued_at and expires_in arriving as numbers or strings
func parseTokenResponse(body []byte) (*TokenResponse, error) {
	var fields struct {
		IssuedAt     json.RawMessage `json:"issued_at"`
		ExpiresIn    json.RawMessage `json:"expires_in"`
		TokenType    string          `json:"token_type"`
		AccessToken  string          `json:"access_token"`
		RefreshToken string          `json:"refresh_token"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}

	return &TokenResponse{
		IssuedAt:     rawString(fields.IssuedAt),
		ExpiresIn:    rawString(fields.ExpiresIn),
		TokenType:    fields.TokenType,
		AccessToken:  fields.AccessToken,
		RefreshToken: fields.RefreshToken,
		Raw:          json.RawMessage(body),
	}, nil
}

func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// do performs one HTTP exchange bounded by the client timeout and returns the
// status code and the full body.
func (c *Client) do(ctx context.Context, method, url string, header http.Header, payload []byte) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, &TransportError{Method: method, URL: url, Err: err}
	}
	for key, values := range header {
		req.Header[key] = values
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("url", url).Msg("Experian request failed")
		return 0, nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return resp.StatusCode, body, nil
}
