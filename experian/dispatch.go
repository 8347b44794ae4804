package experian

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Dispatcher sends authenticated POST requests below a fixed resource root and
// classifies each response with a success check over the decoded envelope E.
type Dispatcher[E any] struct {
	client  *Client
	root    string
	success func(E) bool
}

// NewDispatcher creates a dispatcher for one endpoint group
func NewDispatcher[E any](client *Client, root string, success func(E) bool) *Dispatcher[E] {
	return &Dispatcher[E]{
		client:  client,
		root:    "/" + strings.Trim(root, "/"),
		success: success,
	}
}

// Root returns the resource root requests are sent below
func (d *Dispatcher[E]) Root() string {
	return d.root
}

// Path returns the resource path for suffix, without the origin
func (d *Dispatcher[E]) Path(suffix string) string {
	return d.root + "/" + strings.TrimLeft(suffix, "/")
}

// Dispatch posts body as JSON to the endpoint at suffix.
//
// ErrNotAuthenticated and ErrValidation are returned before anything is sent.
// A network or timeout failure yields a *TransportError. A non-200 status, or a
// 200 whose envelope fails the success check, yields a *DomainError carrying the
// body verbatim.
func (d *Dispatcher[E]) Dispatch(ctx context.Context, suffix string, body any) (*Response[E], error) {
	token := d.client.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request body: %v", ErrValidation, err)
	}

	url := d.client.BasePath() + d.Path(suffix)
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "application/json")
	header.Set("Authorization", "Bearer "+token)

	requestID := uuid.NewString()
	logger := d.client.logger.With().
		Str("request_id", requestID).
		Str("path", d.Path(suffix)).
		Logger()
	logger.Debug().Msg("Sending Experian request")

	status, respBody, err := d.client.do(ctx, http.MethodPost, url, header, payload)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		logger.Warn().Int("status", status).Msg("Experian request failed")
		return nil, &DomainError{StatusCode: status, Body: respBody}
	}

	var envelope E
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		logger.Warn().Err(err).Msg("Experian response body could not be decoded")
		return nil, &DomainError{StatusCode: status, Body: respBody}
	}
	if !d.success(envelope) {
		logger.Warn().Int("status", status).Msg("Experian response reported failure")
		return nil, &DomainError{StatusCode: status, Body: respBody}
	}

	logger.Debug().Int("bytes", len(respBody)).Msg("Experian request succeeded")
	return &Response[E]{
		StatusCode: status,
		Envelope:   envelope,
		Body:       respBody,
	}, nil
}
