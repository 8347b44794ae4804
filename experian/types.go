package experian

import (
	"bytes"
	"encoding/json"
)

// TokenResponse is the body returned by the password-grant token exchange
type TokenResponse struct {
	IssuedAt     string `json:"issued_at"`
	ExpiresIn    string `json:"expires_in"`
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`

	// Raw is the response body as received
	Raw json.RawMessage `json:"-"`
}

// ErrorDetail is one entry of the errors array in a failed response
type ErrorDetail struct {
	ErrorCode string `json:"errorCode"`
	ErrorType string `json:"errorType"`
	Message   string `json:"message"`
}

// SuccessEnvelope is the response shape shared by the business information,
// business owner and SBCS endpoints.
type SuccessEnvelope struct {
	Success   bool            `json:"success"`
	RequestID string          `json:"requestId"`
	Comments  string          `json:"comments,omitempty"`
	Results   json.RawMessage `json:"results,omitempty"`
	Errors    []ErrorDetail   `json:"errors,omitempty"`
}

// CreditProfileEnvelope is the response shape of the consumer credit profile
// endpoints.
type CreditProfileEnvelope struct {
	CreditProfile json.RawMessage `json:"creditProfile"`
	Errors        []ErrorDetail   `json:"errors,omitempty"`
}

// SuccessFlag reports whether the body carried "success": true.
func SuccessFlag(e SuccessEnvelope) bool {
	return e.Success
}

// HasCreditProfile reports whether the body carried a non-null creditProfile.
func HasCreditProfile(e CreditProfileEnvelope) bool {
	raw := bytes.TrimSpace(e.CreditProfile)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// Response is a classified successful response
type Response[E any] struct {
	StatusCode int
	Envelope   E
	Body       json.RawMessage
}

// Decode unmarshals the full response body into v
func (r *Response[E]) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}
