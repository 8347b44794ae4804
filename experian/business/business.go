// Package business implements the Experian Business Information endpoints.
//
// Every call is a POST below Root and succeeds only when the response body
// carries "success": true.
package business

import (
	"context"

	"github.com/s0up4200/experian/experian"
)

// Root is the resource root of the business information API
const Root = "/businessinformation/businesses/v1"

// Response is the classified response of a business information call
type Response = experian.Response[experian.SuccessEnvelope]

// Paths maps each endpoint method to its fixed path suffix below Root
var Paths = map[string]string{
	"Search":                     "search",
	"Headers":                    "headers",
	"Facts":                      "facts",
	"FraudShields":               "fraudshields",
	"RiskDashboards":             "riskDashboards",
	"Bankruptcies":               "bankruptcies",
	"Scores":                     "scores",
	"Trades":                     "trades",
	"CreditStatus":               "creditstatus",
	"CorporateLinkage":           "corporatelinkage",
	"LegalCollectionSummaries":   "legalcollectionsummaries",
	"Liens":                      "liens",
	"Judgments":                  "judgments",
	"Collections":                "collections",
	"UCCFilings":                 "uccfilings",
	"CorporateRegistrations":     "corporateregistrations",
	"BusinessContacts":           "businesscontacts",
	"ReverseAddresses":           "reverseaddresses",
	"ReversePhones":              "reversephones",
	"ReverseTaxIDs":              "reversetaxids",
	"ScoresSearch":               "scores/search",
	"ReportsPremierProfiles":     "reports/premierprofiles",
	"ReportsPremierProfilesHTML": "reports/premierprofiles/html",
	"Aggregates":                 "aggregates",
	"MultiSegments":              "multisegments",
}

// Service calls the business information endpoints with a shared session
type Service struct {
	dispatcher *experian.Dispatcher[experian.SuccessEnvelope]
}

// New creates a business information service bound to client
func New(client *experian.Client) *Service {
	return &Service{
		dispatcher: experian.NewDispatcher(client, Root, experian.SuccessFlag),
	}
}

// Call posts data to the endpoint at suffix below Root
func (s *Service) Call(ctx context.Context, suffix string, data any) (*Response, error) {
	return s.dispatcher.Dispatch(ctx, suffix, data)
}

// Search finds businesses by name, address, phone or tax id
func (s *Service) Search(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "search", data)
}

// Headers returns the business header record for a BIN
func (s *Service) Headers(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "headers", data)
}

// Facts returns business facts
func (s *Service) Facts(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "facts", data)
}

// FraudShields returns fraud shield indicators
func (s *Service) FraudShields(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "fraudshields", data)
}

// RiskDashboards returns the risk dashboard
func (s *Service) RiskDashboards(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "riskDashboards", data)
}

// Bankruptcies returns bankruptcy filings
func (s *Service) Bankruptcies(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "bankruptcies", data)
}

// Scores returns commercial and financial stability scores
func (s *Service) Scores(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "scores", data)
}

// Trades returns trade payment information
func (s *Service) Trades(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "trades", data)
}

// CreditStatus returns the credit status summary
func (s *Service) CreditStatus(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "creditstatus", data)
}

// CorporateLinkage returns parent and subsidiary linkage
func (s *Service) CorporateLinkage(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "corporatelinkage", data)
}

// LegalCollectionSummaries returns legal filing and collection summaries
func (s *Service) LegalCollectionSummaries(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "legalcollectionsummaries", data)
}

// Liens returns lien filings
func (s *Service) Liens(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "liens", data)
}

// Judgments returns judgment filings
func (s *Service) Judgments(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "judgments", data)
}

// Collections returns collection accounts
func (s *Service) Collections(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "collections", data)
}

// UCCFilings returns UCC filings
func (s *Service) UCCFilings(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "uccfilings", data)
}

// CorporateRegistrations returns secretary of state registrations
func (s *Service) CorporateRegistrations(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "corporateregistrations", data)
}

// BusinessContacts returns known business contacts
func (s *Service) BusinessContacts(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "businesscontacts", data)
}

// ReverseAddresses finds businesses at an address
func (s *Service) ReverseAddresses(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "reverseaddresses", data)
}

// ReversePhones finds businesses by phone number
func (s *Service) ReversePhones(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "reversephones", data)
}

// ReverseTaxIDs finds businesses by tax id
func (s *Service) ReverseTaxIDs(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "reversetaxids", data)
}

// ScoresSearch searches and scores in one call
func (s *Service) ScoresSearch(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "scores/search", data)
}

// ReportsPremierProfiles returns the Premier Profile report as JSON
func (s *Service) ReportsPremierProfiles(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "reports/premierprofiles", data)
}

// ReportsPremierProfilesHTML returns the Premier Profile report as encoded HTML
func (s *Service) ReportsPremierProfilesHTML(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "reports/premierprofiles/html", data)
}

// Aggregates returns aggregated tradeline data
func (s *Service) Aggregates(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "aggregates", data)
}

// MultiSegments returns several report segments in one call
func (s *Service) MultiSegments(ctx context.Context, data any) (*Response, error) {
	return s.Call(ctx, "multisegments", data)
}
