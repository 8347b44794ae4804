package experian

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name         string
		clientID     string
		clientSecret string
		opts         []Option
		wantErr      string
		wantBase     string
		wantVersion  string
	}{
		{
			name:         "production by default",
			clientID:     "id",
			clientSecret: "secret",
			wantBase:     ProductionBasePath,
			wantVersion:  DefaultAPIVersion,
		},
		{
			name:         "sandbox",
			clientID:     "id",
			clientSecret: "secret",
			opts:         []Option{WithSandbox(true)},
			wantBase:     SandboxBasePath,
			wantVersion:  DefaultAPIVersion,
		},
		{
			name:         "sandbox false",
			clientID:     "id",
			clientSecret: "secret",
			opts:         []Option{WithSandbox(false)},
			wantBase:     ProductionBasePath,
			wantVersion:  DefaultAPIVersion,
		},
		{
			name:         "custom version",
			clientID:     "id",
			clientSecret: "secret",
			opts:         []Option{WithVersion("v2")},
			wantBase:     ProductionBasePath,
			wantVersion:  "v2",
		},
		{
			name:         "empty version keeps default",
			clientID:     "id",
			clientSecret: "secret",
			opts:         []Option{WithVersion("")},
			wantBase:     ProductionBasePath,
			wantVersion:  DefaultAPIVersion,
		},
		{
			name:         "base url overrides sandbox",
			clientID:     "id",
			clientSecret: "secret",
			opts:         []Option{WithSandbox(true), WithBaseURL("http://localhost:8080/")},
			wantBase:     "http://localhost:8080",
			wantVersion:  DefaultAPIVersion,
		},
		{
			name:         "missing client id",
			clientSecret: "secret",
			wantErr:      "no client id provided",
		},
		{
			name:     "missing client secret",
			clientID: "id",
			wantErr:  "no client secret provided",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.clientID, tt.clientSecret, logger, tt.opts...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrConfiguration)
				assert.True(t, IsPrecondition(err))
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, client)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantBase, client.BasePath())
			assert.Equal(t, tt.wantVersion, client.Version())
			assert.Equal(t, DefaultTimeout, client.Timeout())
			assert.Equal(t, tt.clientID, client.ClientID())
			assert.Equal(t, tt.clientSecret, client.ClientSecret())
			assert.Empty(t, client.Token())
			assert.False(t, client.Authenticated())
		})
	}
}

func TestClientAccessors(t *testing.T) {
	client, err := NewClient("id", "secret", zerolog.Nop(), WithTimeout(5*time.Second))
	require.NoError(t, err)

	t.Run("timeout", func(t *testing.T) {
		assert.Equal(t, 5*time.Second, client.Timeout())

		client.SetTimeout(10 * time.Second)
		assert.Equal(t, 10*time.Second, client.Timeout())

		client.SetTimeout(0)
		assert.Equal(t, DefaultTimeout, client.Timeout())
	})

	t.Run("version", func(t *testing.T) {
		client.SetVersion("v3")
		assert.Equal(t, "v3", client.Version())

		client.SetVersion("")
		assert.Equal(t, "v3", client.Version())
	})

	t.Run("token", func(t *testing.T) {
		client.SetToken("")
		assert.False(t, client.Authenticated())

		client.SetToken("abc")
		assert.Equal(t, "abc", client.Token())
		assert.True(t, client.Authenticated())

		client.Logout()
		assert.Empty(t, client.Token())
	})
}

func TestLoginValidation(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client, err := NewClient("id", "secret", zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		errMsg   string
	}{
		{name: "missing username", password: "pw", errMsg: "no username provided"},
		{name: "missing password", username: "user", errMsg: "no password provided"},
		{name: "missing both", errMsg: "no username provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Login(context.Background(), tt.username, tt.password)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrValidation)
			assert.True(t, IsPrecondition(err))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	assert.Zero(t, calls.Load())
}

func TestLogin(t *testing.T) {
	t.Run("stores token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/oauth2/v1/token", r.URL.Path)
			assert.Equal(t, "id", r.Header.Get("client_id"))
			assert.Equal(t, "secret", r.Header.Get("client_secret"))
			assert.Equal(t, "password", r.Header.Get("grant_type"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Empty(t, r.Header.Get("Authorization"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "user", body["username"])
			assert.Equal(t, "pw", body["password"])

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"issued_at":"1700000000000","expires_in":"1800","token_type":"Bearer","access_token":"T","refresh_token":"R"}`))
		}))
		defer server.Close()

		client, err := NewClient("id", "secret", zerolog.Nop(), WithBaseURL(server.URL))
		require.NoError(t, err)

		resp, err := client.Login(context.Background(), "user", "pw")
		require.NoError(t, err)
		assert.Equal(t, "T", resp.AccessToken)
		assert.Equal(t, "R", resp.RefreshToken)
		assert.Equal(t, "1800", resp.ExpiresIn)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.JSONEq(t, `{"issued_at":"1700000000000","expires_in":"1800","token_type":"Bearer","access_token":"T","refresh_token":"R"}`, string(resp.Raw))
		assert.Equal(t, "T", client.Token())
	})

	t.Run("uses configured version", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/oauth2/v2/token", r.URL.Path)
			w.Write([]byte(`{"access_token":"T2","expires_in":1800}`))
		}))
		defer server.Close()

		client, err := NewClient("id", "secret", zerolog.Nop(), WithBaseURL(server.URL), WithVersion("v2"))
		require.NoError(t, err)

		resp, err := client.Login(context.Background(), "user", "pw")
		require.NoError(t, err)
		assert.Equal(t, "1800", resp.ExpiresIn)
		assert.Equal(t, "T2", client.Token())
	})

	t.Run("overwrites previous token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"access_token":"fresh"}`))
		}))
		defer server.Close()

		client, err := NewClient("id", "secret", zerolog.Nop(), WithBaseURL(server.URL))
		require.NoError(t, err)
		client.SetToken("stale")

		_, err = client.Login(context.Background(), "user", "pw")
		require.NoError(t, err)
		assert.Equal(t, "fresh", client.Token())
	})
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		priorToken string
	}{
		{name: "missing access token", status: http.StatusOK, body: `{"token_type":"Bearer"}`},
		{name: "empty access token", status: http.StatusOK, body: `{"access_token":""}`, priorToken: "kept"},
		{name: "not json", status: http.StatusOK, body: `<html>maintenance</html>`},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"errors":[{"errorType":"Unauthorized","message":"Invalid credentials"}]}`},
		{name: "server error with token", status: http.StatusInternalServerError, body: `{"access_token":"ignored"}`, priorToken: "kept"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient("id", "secret", zerolog.Nop(), WithBaseURL(server.URL))
			require.NoError(t, err)
			client.SetToken(tt.priorToken)

			resp, err := client.Login(context.Background(), "user", "pw")
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.False(t, IsPrecondition(err))

			var authErr *AuthenticationError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.status, authErr.StatusCode)
			assert.Equal(t, tt.body, string(authErr.Body))
			assert.Equal(t, tt.priorToken, client.Token())
		})
	}
}

func TestLoginTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient("id", "secret", zerolog.Nop(), WithBaseURL(url))
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "user", "pw")
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.MethodPost, transportErr.Method)
	assert.Equal(t, url+"/oauth2/v1/token", transportErr.URL)
	assert.NotNil(t, transportErr.Unwrap())
	assert.Empty(t, client.Token())
}

func TestLoginTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, err := NewClient("id", "secret", zerolog.Nop(), WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "user", "pw")
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTLSVerificationDisabledByDefault(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tls"}`))
	}))
	defer server.Close()

	client, err := NewClient("id", "secret", zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "user", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tls", client.Token())

	verifying, err := NewClient("id", "secret", zerolog.Nop(), WithBaseURL(server.URL), WithTLSVerification(true))
	require.NoError(t, err)

	_, err = verifying.Login(context.Background(), "user", "pw")
	require.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}
