// Package creditprofile implements the Experian Consumer Credit Profile endpoints.
//
// Unlike the business endpoints, a call succeeds when the response body carries a
// non-null creditProfile field.
package creditprofile

import (
	"context"

	"github.com/s0up4200/experian/experian"
)

// Root is the resource root of the consumer credit profile API
const Root = "/consumerservices/consumercreditprofile/v1"

// Response is the classified response of a consumer credit profile call
type Response = experian.Response[experian.CreditProfileEnvelope]

// Paths maps each endpoint method to its fixed path suffix below Root
var Paths = map[string]string{
	"CreditReports": "creditreports",
}

// Service calls the consumer credit profile endpoints with a shared session
type Service struct {
	dispatcher *experian.Dispatcher[experian.CreditProfileEnvelope]
}

// New creates a consumer credit profile service bound to client
func New(client *experian.Client) *Service {
	return &Service{
		dispatcher: experian.NewDispatcher(client, Root, experian.HasCreditProfile),
	}
}

// Call posts data to the endpoint at suffix below Root
func (s *Service) Call(ctx context.Context, suffix string, data any) (*Response, error) {
	return s.dispatcher.Dispatch(ctx, suffix, data)
}

// CreditReports requests a consumer credit report
func (s *Service) CreditReports(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "creditreports", data)
}
