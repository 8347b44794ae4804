// Package sbcs implements the Experian Small Business Credit Share endpoints.
package sbcs

import (
	"context"

	"github.com/s0up4200/experian/experian"
)

// Root is the resource root of the SBCS API
const Root = "/businessinformation/sbcs/v1"

// Response is the classified response of an SBCS call
type Response = experian.Response[experian.SuccessEnvelope]

// Paths maps each endpoint method to its fixed path suffix below Root
var Paths = map[string]string{
	"Search":          "search",
	"Headers":         "headers",
	"Aggregates":      "aggregates",
	"ReportsSBCSHTML": "reports/sbcs/html",
}

// Service calls the SBCS endpoints with a shared session
type Service struct {
	dispatcher *experian.Dispatcher[experian.SuccessEnvelope]
}

// New creates an SBCS service bound to client
func New(client *experian.Client) *Service {
	return &Service{
		dispatcher: experian.NewDispatcher(client, Root, experian.SuccessFlag),
	}
}

// Call posts data to the endpoint at suffix below Root
func (s *Service) Call(ctx context.Context, suffix string, data any) (*Response, error) {
	return s.dispatcher.Dispatch(ctx, suffix, data)
}

// Search finds businesses in the SBCS data set
func (s *Service) Search(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "search", data)
}

// Headers returns the SBCS business header record
func (s *Service) Headers(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "headers", data)
}

// Aggregates returns aggregated SBCS tradeline data
func (s *Service) Aggregates(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "aggregates", data)
}

// ReportsSBCSHTML returns the SBCS report as encoded HTML
func (s *Service) ReportsSBCSHTML(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "reports/sbcs/html", data)
}
