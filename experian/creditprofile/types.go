package creditprofile

// CreditReportRequest is the request body of CreditReports
type CreditReportRequest struct {
	ConsumerPii        ConsumerPii        `json:"consumerPii"`
	Requestor          Requestor          `json:"requestor"`
	PermissiblePurpose PermissiblePurpose `json:"permissiblePurpose"`
	ResultingCompany   string             `json:"resultingCompany,omitempty"`
	AddOns             map[string]any     `json:"addOns,omitempty"`
}

// ConsumerPii carries the identity of the consumer being reported on
type ConsumerPii struct {
	PrimaryApplicant Applicant `json:"primaryApplicant"`
}

// Applicant is a consumer's name, date of birth, SSN and address
type Applicant struct {
	Name           Name    `json:"name"`
	Dob            *Dob    `json:"dob,omitempty"`
	Ssn            *Ssn    `json:"ssn,omitempty"`
	CurrentAddress Address `json:"currentAddress"`
}

type Name struct {
	LastName   string `json:"lastName"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
}

type Dob struct {
	Dob string `json:"dob"`
}

type Ssn struct {
	Ssn string `json:"ssn"`
}

type Address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// Requestor identifies the subscriber making the inquiry
type Requestor struct {
	SubscriberCode string `json:"subscriberCode"`
}

// PermissiblePurpose states the FCRA purpose of the inquiry
type PermissiblePurpose struct {
	Type  string `json:"type"`
	Terms string `json:"terms,omitempty"`
}
