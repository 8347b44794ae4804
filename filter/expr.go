package filter

import (
	"encoding/json"
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// BodyVariable names the variable holding the whole decoded response body.
// Top-level fields of an object body are also exposed under their own names.
const BodyVariable = "Body"

// Query is a compiled expression that projects a value out of a response body
type Query struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// Predicate is a compiled boolean expression over a response body
type Predicate struct {
	Query
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache enables program caching with the specified size
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newProgramCache[*vm.Program](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.helpers, funcs)
	}
}

// Compiler compiles expressions, optionally caching programs by source text
type Compiler struct {
	helpers map[string]any
	cache   *programCache[*vm.Program]
}

// NewCompiler creates a new expr-based compiler
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		helpers: helperFunctions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCompiler = NewCompiler(WithCache(100))

// Compile compiles expression with the shared default compiler
func Compile(expression string) (*Query, error) {
	return defaultCompiler.Compile(expression)
}

// CompilePredicate compiles a boolean expression with the shared default compiler
func CompilePredicate(expression string) (*Predicate, error) {
	return defaultCompiler.CompilePredicate(expression)
}

// Compile compiles an expression yielding any value
func (c *Compiler) Compile(expression string) (*Query, error) {
	program, err := c.compile(expression, false)
	if err != nil {
		return nil, err
	}
	return &Query{expression: strings.TrimSpace(expression), program: program, helpers: c.helpers}, nil
}

// CompilePredicate compiles an expression that must yield a boolean
func (c *Compiler) CompilePredicate(expression string) (*Predicate, error) {
	program, err := c.compile(expression, true)
	if err != nil {
		return nil, err
	}
	return &Predicate{Query{expression: strings.TrimSpace(expression), program: program, helpers: c.helpers}}, nil
}

func (c *Compiler) compile(expression string, asBool bool) (*vm.Program, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	key := "q:" + expression
	if asBool {
		key = "p:" + expression
	}
	if c.cache != nil {
		if program, ok := c.cache.get(key); ok {
			return program, nil
		}
	}

	options := []expr.Option{
		expr.Env(c.helpers),
		expr.AllowUndefinedVariables(), // response fields are only known at run time
	}
	if asBool {
		options = append(options, expr.AsBool())
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	if c.cache != nil {
		c.cache.put(key, program)
	}
	return program, nil
}

// Size returns the number of cached programs
func (c *Compiler) Size() int {
	if c.cache != nil {
		return c.cache.len()
	}
	return 0
}

// Clear removes all cached programs
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.clear()
	}
}

// Expression returns the original expression
func (q *Query) Expression() string {
	return q.expression
}

// Evaluate runs the query against a JSON response body
func (q *Query) Evaluate(body []byte) (any, error) {
	env, err := runtimeEnvironment(body, q.helpers)
	if err != nil {
		return nil, &EvaluationError{Expression: q.expression, Reason: "response body is not JSON", Err: err}
	}

	result, err := expr.Run(q.program, env)
	if err != nil {
		return nil, &EvaluationError{Expression: q.expression, Reason: "failed to evaluate expression", Err: err}
	}
	return result, nil
}

// Match runs the predicate against a JSON response body
func (p *Predicate) Match(body []byte) (bool, error) {
	result, err := p.Evaluate(body)
	if err != nil {
		return false, err
	}
	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{Expression: p.expression, Reason: "expression did not yield a boolean"}
	}
	return matched, nil
}

// runtimeEnvironment exposes the decoded body and the helper functions
func runtimeEnvironment(body []byte, helpers map[string]any) (map[string]any, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, err
	}

	env := make(map[string]any, len(helpers)+16)
	if fields, ok := decoded.(map[string]any); ok {
		maps.Copy(env, fields)
	}
	env[BodyVariable] = decoded
	maps.Copy(env, helpers)
	return env, nil
}

// helperFunctions returns the functions available to every expression
func helperFunctions() map[string]any {
	funcs := make(map[string]any, 16)

	// String helpers, case-insensitive
	funcs["containsFold"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	funcs["hasPrefixFold"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	funcs["hasSuffixFold"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}

	// Date helpers
	funcs["parseDate"] = parseDate
	funcs["daysSince"] = func(date string) int {
		t := parseDate(date)
		if t.IsZero() {
			return -1
		}
		return int(time.Since(t).Hours() / 24)
	}

	return funcs
}

// parseDate accepts the date layouts found in Experian responses
func parseDate(value string) time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "01/02/2006", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
