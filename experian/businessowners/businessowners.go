// Package businessowners implements the Experian Business Owner Profile (BOP)
// report endpoints.
package businessowners

import (
	"context"

	"github.com/s0up4200/experian/experian"
)

// Root is the resource root of the business owners API
const Root = "/businessinformation/businessowners/v1"

// Response is the classified response of a business owner call
type Response = experian.Response[experian.SuccessEnvelope]

// Paths maps each endpoint method to its fixed path suffix below Root
var Paths = map[string]string{
	"ReportsBOP":     "reports/bop",
	"ReportsBOPHTML": "reports/bop/html",
	"ReportsBOPPDF":  "reports/bop/pdf",
}

// Service calls the business owner endpoints with a shared session
type Service struct {
	dispatcher *experian.Dispatcher[experian.SuccessEnvelope]
}

// New creates a business owners service bound to client
func New(client *experian.Client) *Service {
	return &Service{
		dispatcher: experian.NewDispatcher(client, Root, experian.SuccessFlag),
	}
}

// Call posts data to the endpoint at suffix below Root
func (s *Service) Call(ctx context.Context, suffix string, data any) (*Response, error) {
	return s.dispatcher.Dispatch(ctx, suffix, data)
}

// ReportsBOP returns the business owner profile report as JSON
func (s *Service) ReportsBOP(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "reports/bop", data)
}

// ReportsBOPHTML returns the business owner profile report as encoded HTML
func (s *Service) ReportsBOPHTML(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "reports/bop/html", data)
}

// ReportsBOPPDF returns the business owner profile report as encoded PDF
func (s *Service) ReportsBOPPDF(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "reports/bop/pdf", data)
}
