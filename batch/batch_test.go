package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/s0up4200/experian/endpoints"
	"github.com/s0up4200/experian/experian"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver serves canned responses keyed by family/endpoint
type fakeResolver struct {
	responses map[string]func(body any) (json.RawMessage, error)
	inFlight  atomic.Int32
	maxSeen   atomic.Int32
}

func (f *fakeResolver) Lookup(family, name string) (endpoints.Endpoint, error) {
	respond, ok := f.responses[family+"/"+name]
	if !ok {
		return endpoints.Endpoint{}, fmt.Errorf("%w: %s/%s", endpoints.ErrUnknownEndpoint, family, name)
	}
	return endpoints.Endpoint{
		Family: family,
		Name:   name,
		Call: func(ctx context.Context, body any) (json.RawMessage, error) {
			n := f.inFlight.Add(1)
			defer f.inFlight.Add(-1)
			for {
				seen := f.maxSeen.Load()
				if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			return respond(body)
		},
	}, nil
}

func ok(body string) func(any) (json.RawMessage, error) {
	return func(any) (json.RawMessage, error) { return json.RawMessage(body), nil }
}

func TestRunOrderAndOutcomes(t *testing.T) {
	resolver := &fakeResolver{responses: map[string]func(any) (json.RawMessage, error){
		"business/headers": ok(`{"success":true,"results":{"bin":"1"}}`),
		"business/facts": func(any) (json.RawMessage, error) {
			return nil, &experian.DomainError{StatusCode: 404, Body: json.RawMessage(`{"success":false}`)}
		},
		"sbcs/search": ok(`{"success":true,"results":[]}`),
	}}

	requests := []Request{
		{Name: "headers", Family: "business", Endpoint: "headers", Expect: `results.bin == "1"`},
		{Family: "business", Endpoint: "facts"},
		{Name: "sbcs", Family: "sbcs", Endpoint: "search", Expect: `len(results) > 0`},
		{Name: "missing", Family: "bop", Endpoint: "nope"},
		{Name: "bad-expect", Family: "sbcs", Endpoint: "search", Expect: `success ==`},
	}

	runner := NewRunner(resolver, zerolog.Nop())
	results := runner.Run(context.Background(), requests)
	require.Len(t, results, len(requests))

	for i, res := range results {
		assert.Equal(t, requests[i], res.Request)
	}

	assert.True(t, results[0].OK())
	assert.JSONEq(t, `{"success":true,"results":{"bin":"1"}}`, string(results[0].Body))

	var domErr *experian.DomainError
	require.True(t, errors.As(results[1].Err, &domErr))
	assert.JSONEq(t, `{"success":false}`, string(results[1].Body))
	assert.Equal(t, "business/facts", results[1].Request.Label())

	assert.NoError(t, results[2].Err)
	assert.False(t, results[2].Matched)

	assert.ErrorIs(t, results[3].Err, endpoints.ErrUnknownEndpoint)
	assert.Error(t, results[4].Err)

	assert.Equal(t, Summary{Total: 5, Succeeded: 1, Failed: 3, Unmatched: 1}, Summarize(results))
}

func TestRunConcurrencyLimit(t *testing.T) {
	resolver := &fakeResolver{responses: map[string]func(any) (json.RawMessage, error){
		"business/search": ok(`{"success":true}`),
	}}

	requests := make([]Request, 12)
	for i := range requests {
		requests[i] = Request{Family: "business", Endpoint: "search", Data: map[string]any{"i": i}}
	}

	results := NewRunner(resolver, zerolog.Nop(), WithConcurrency(2)).Run(context.Background(), requests)
	for _, res := range results {
		assert.True(t, res.OK())
	}
	assert.LessOrEqual(t, resolver.maxSeen.Load(), int32(2))
}

func TestRunPassesData(t *testing.T) {
	var got any
	resolver := &fakeResolver{responses: map[string]func(any) (json.RawMessage, error){
		"creditprofile/creditreports": func(body any) (json.RawMessage, error) {
			got = body
			return json.RawMessage(`{"creditProfile":[{}]}`), nil
		},
	}}

	data := map[string]any{"consumerPii": map[string]any{"primaryApplicant": map[string]any{}}}
	results := NewRunner(resolver, zerolog.Nop()).Run(context.Background(), []Request{
		{Family: "creditprofile", Endpoint: "creditreports", Data: data},
	})
	require.Len(t, results, 1)
	assert.True(t, results[0].OK())
	assert.Equal(t, data, got)
}

func TestRunEmpty(t *testing.T) {
	results := NewRunner(&fakeResolver{}, zerolog.Nop()).Run(context.Background(), nil)
	assert.Empty(t, results)
}

func TestParse(t *testing.T) {
	doc := `
concurrency: 2
requests:
  - name: headers
    family: business
    endpoint: headers
    expect: success == true
    data:
      bin: "404197602"
      subcode: "0517614"
  - family: bop
    endpoint: reports-bop
`
	f, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, f.Concurrency)
	require.Len(t, f.Requests, 2)
	assert.Equal(t, "headers", f.Requests[0].Name)
	assert.Equal(t, "success == true", f.Requests[0].Expect)
	assert.Equal(t, map[string]any{"bin": "404197602", "subcode": "0517614"}, f.Requests[0].Data)
	assert.Equal(t, "bop/reports-bop", f.Requests[1].Label())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not yaml", doc: "requests: [\n"},
		{name: "no requests", doc: "concurrency: 2\n"},
		{name: "negative concurrency", doc: "concurrency: -1\nrequests:\n  - family: sbcs\n    endpoint: search\n"},
		{name: "missing endpoint", doc: "requests:\n  - family: sbcs\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("requests:\n  - family: sbcs\n    endpoint: headers\n"), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Requests, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
