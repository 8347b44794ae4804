package experian

import (
	"net/http"
	"strings"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	version    string
	sandbox    bool
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	verifyTLS  bool
}

// WithVersion sets the API version used in the token path. An empty value keeps
// DefaultAPIVersion.
func WithVersion(version string) Option {
	return func(o *clientOptions) {
		if version != "" {
			o.version = version
		}
	}
}

// WithSandbox selects the sandbox origin instead of production.
func WithSandbox(sandbox bool) Option {
	return func(o *clientOptions) {
		o.sandbox = sandbox
	}
}

// WithBaseURL overrides the origin entirely. It takes precedence over WithSandbox.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the per-request timeout. Zero or negative selects DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client. Its transport is used as is, so
// WithTLSVerification has no effect on it.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithTLSVerification turns certificate verification of the API origin on or off.
// Verification is off by default; NewClient logs a warning when it stays off.
func WithTLSVerification(verify bool) Option {
	return func(o *clientOptions) {
		o.verifyTLS = verify
	}
}
