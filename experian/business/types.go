package business

import (
	"encoding/json"
	"fmt"
)

// BINRequest identifies a business by its Experian business identification number.
// It is the request body of most per-business endpoints.
type BINRequest struct {
	BIN             string   `json:"bin"`
	Subcode         string   `json:"subcode"`
	Comments        string   `json:"comments,omitempty"`
	ModelCode       string   `json:"modelCode,omitempty"`
	FSRScore        bool     `json:"fsrScore,omitempty"`
	CommercialScore bool     `json:"commercialScore,omitempty"`
	Segments        []string `json:"segments,omitempty"`
}

// SearchRequest is the request body of Search and the reverse lookups
type SearchRequest struct {
	Name     string `json:"name,omitempty"`
	Street   string `json:"street,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Phone    string `json:"phone,omitempty"`
	TaxID    string `json:"taxId,omitempty"`
	Geo      bool   `json:"geo,omitempty"`
	Subcode  string `json:"subcode"`
	Comments string `json:"comments,omitempty"`
}

// Address is a postal address as returned by the business endpoints
type Address struct {
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	ZipExtension string `json:"zipExtension"`
}

// SearchResult is one candidate returned by Search
type SearchResult struct {
	BIN                string  `json:"bin"`
	ReliabilityCode    float64 `json:"reliabilityCode"`
	BusinessName       string  `json:"businessName"`
	Phone              string  `json:"phone"`
	Address            Address `json:"address"`
	NumberOfTradelines int     `json:"numberOfTradelines"`
	KeyFactsIndicator  bool    `json:"keyFactsIndicator"`
	InquiryIndicator   bool    `json:"inquiryIndicator"`
	UCCIndicator       bool    `json:"uccIndicator"`
}

// SearchResults decodes the candidates of a Search response
func SearchResults(resp *Response) ([]SearchResult, error) {
	if len(resp.Envelope.Results) == 0 {
		return nil, nil
	}
	var results []SearchResult
	if err := json.Unmarshal(resp.Envelope.Results, &results); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	return results, nil
}
