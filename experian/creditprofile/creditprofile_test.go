package creditprofile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/s0up4200/experian/experian"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, status int, body string) *Service {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, Root+"/creditreports", r.URL.Path)
		assert.Equal(t, "Bearer T", r.Header.Get("Authorization"))

		var req CreditReportRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "CONSUMER", req.ConsumerPii.PrimaryApplicant.Name.LastName)

		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client, err := experian.NewClient("id", "secret", zerolog.Nop(), experian.WithBaseURL(server.URL))
	require.NoError(t, err)
	client.SetToken("T")
	return New(client)
}

func testRequest() CreditReportRequest {
	return CreditReportRequest{
		ConsumerPii: ConsumerPii{
			PrimaryApplicant: Applicant{
				Name:           Name{LastName: "CONSUMER", FirstName: "JONATHAN"},
				Ssn:            &Ssn{Ssn: "999999990"},
				CurrentAddress: Address{Line1: "10655 NORTH BIRCH STREET", City: "BURBANK", State: "CA", ZipCode: "91502"},
			},
		},
		Requestor:          Requestor{SubscriberCode: "2222222"},
		PermissiblePurpose: PermissiblePurpose{Type: "08"},
	}
}

func TestCreditReports(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "profile returned", status: http.StatusOK, body: `{"creditProfile":[{"riskModel":[{"score":"0750"}]}]}`},
		{name: "profile null", status: http.StatusOK, body: `{"creditProfile":null}`, wantErr: true},
		{name: "profile missing", status: http.StatusOK, body: `{"success":true}`, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, body: `{"creditProfile":[{}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, tt.status, tt.body)

			resp, err := svc.CreditReports(context.Background(), testRequest())
			if !tt.wantErr {
				require.NoError(t, err)
				assert.JSONEq(t, `[{"riskModel":[{"score":"0750"}]}]`, string(resp.Envelope.CreditProfile))
				return
			}

			var domainErr *experian.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.status, domainErr.StatusCode)
			assert.Equal(t, tt.body, string(domainErr.Body))
		})
	}
}

func TestPaths(t *testing.T) {
	assert.Equal(t, map[string]string{"CreditReports": "creditreports"}, Paths)
}
