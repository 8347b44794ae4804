// Package batch runs many endpoint calls concurrently against one session and
// reports a result per call in input order.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/s0up4200/experian/endpoints"
	"github.com/s0up4200/experian/experian"
	"github.com/s0up4200/experian/filter"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of calls in flight when none is configured
const DefaultConcurrency = 4

// Resolver finds an endpoint by family and name. *endpoints.Registry implements it.
type Resolver interface {
	Lookup(family, name string) (endpoints.Endpoint, error)
}

// Request is one call in a batch
type Request struct {
	Name     string `yaml:"name" json:"name"`
	Family   string `yaml:"family" json:"family"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	Data     any    `yaml:"data" json:"data,omitempty"`
	// Expect is an optional predicate evaluated against the response body
	Expect string `yaml:"expect" json:"expect,omitempty"`
}

// Label returns the request name, or family/endpoint when unnamed
func (r Request) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Family + "/" + r.Endpoint
}

// Result is the outcome of one Request
type Result struct {
	Request  Request
	Body     json.RawMessage
	Err      error
	Matched  bool
	Duration time.Duration
}

// OK reports whether the call succeeded and its expectation held
func (r Result) OK() bool {
	return r.Err == nil && r.Matched
}

// Summary counts the outcomes of a batch
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Unmatched int
}

// Summarize counts results by outcome
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, res := range results {
		switch {
		case res.Err != nil:
			s.Failed++
		case !res.Matched:
			s.Unmatched++
		default:
			s.Succeeded++
		}
	}
	return s
}

// Option configures a Runner
type Option func(*Runner)

// WithConcurrency limits the number of calls in flight
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithCompiler sets the compiler used for Expect predicates
func WithCompiler(c *filter.Compiler) Option {
	return func(r *Runner) {
		r.compiler = c
	}
}

// Runner executes batches
type Runner struct {
	resolver    Resolver
	concurrency int
	compiler    *filter.Compiler
	logger      zerolog.Logger
}

// NewRunner creates a runner that resolves endpoints through resolver
func NewRunner(resolver Resolver, logger zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{
		resolver:    resolver,
		concurrency: DefaultConcurrency,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.compiler == nil {
		r.compiler = filter.NewCompiler(filter.WithCache(64))
	}
	return r
}

// Run executes every request. A failed call does not cancel the others; the
// returned slice has one Result per request in input order.
func (r *Runner) Run(ctx context.Context, requests []Request) []Result {
	results := make([]Result, len(requests))
	if len(requests) == 0 {
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, req := range requests {
		g.Go(func() error {
			results[i] = r.runOne(ctx, req)
			return nil
		})
	}

	// runOne never returns an error to the group
	_ = g.Wait()

	summary := Summarize(results)
	r.logger.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("unmatched", summary.Unmatched).
		Msg("Batch complete")

	return results
}

func (r *Runner) runOne(ctx context.Context, req Request) (res Result) {
	res.Request = req
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	var predicate *filter.Predicate
	if req.Expect != "" {
		p, err := r.compiler.CompilePredicate(req.Expect)
		if err != nil {
			res.Err = err
			return res
		}
		predicate = p
	}

	ep, err := r.resolver.Lookup(req.Family, req.Endpoint)
	if err != nil {
		res.Err = err
		return res
	}

	body, err := ep.Call(ctx, req.Data)
	res.Body = body
	if err != nil {
		var domErr *experian.DomainError
		if errors.As(err, &domErr) {
			res.Body = domErr.Body
		}
		r.logger.Warn().
			Err(err).
			Str("request", req.Label()).
			Msg("Batch call failed")
		res.Err = err
		return res
	}

	if predicate == nil {
		res.Matched = true
		return res
	}

	matched, err := predicate.Match(body)
	if err != nil {
		res.Err = err
		return res
	}
	res.Matched = matched
	if !matched {
		r.logger.Debug().
			Str("request", req.Label()).
			Str("expect", req.Expect).
			Msg("Expectation not met")
	}
	return res
}
