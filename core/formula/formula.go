// Package formula implements the symbolic-expression pipeline: a
// lexer, a bracket-structured scope tree, an implicit-multiplication
// rewrite, a three-level recursive-descent precedence-climbing
// parser, and an AST that evaluates over complexnum.Complex.
//
// Parse runs the whole pipeline; the rewrite step is applied only to
// the top-level scope, not recursively into nested parenthesized
// groups — `(2x)(3y)` fuses correctly at the top level, but a further
// subexpression like `(ab)` nested inside another group may not. This
// mirrors the behavior of the program this package was ported from
// and is left as-is rather than "fixed" absent a product decision.
package formula

import (
	"math"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lucidwave/qsim-backend/core/complexnum"
	"github.com/lucidwave/qsim-backend/core/linear"
)

var parseErrors = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "qsim_formula_parse_errors_total",
	Help: "Count of formula strings that failed to parse.",
})

func init() {
	prometheus.MustRegister(parseErrors)
}

// Formula owns the root of a parsed expression tree.
type Formula struct {
	root Node
}

// Parse runs the full pipeline — lex, build scope, rewrite implicit
// multiplication, parse — and returns the resulting Formula.
func Parse(input string) (*Formula, error) {
	tokens, err := Lex(input)
	if err != nil {
		parseErrors.Inc()
		return nil, err
	}
	scope, err := BuildScope(tokens)
	if err != nil {
		parseErrors.Inc()
		return nil, err
	}
	rewritten := ApplyImplicitMultiplication(scope)
	root, err := ParseSum(rewritten, true)
	if err != nil {
		parseErrors.Inc()
		return nil, err
	}
	return &Formula{root: root}, nil
}

// Evaluate substitutes input for every variable in the formula,
// regardless of name.
func (f *Formula) Evaluate(input complexnum.Complex) (complexnum.Complex, error) {
	return f.root.Evaluate(input)
}

// EvaluateMultivariable looks each variable up by name in env, failing
// with ErrMissingVariable if one is absent.
func (f *Formula) EvaluateMultivariable(env map[rune]complexnum.Complex) (complexnum.Complex, error) {
	return f.root.EvaluateMultivariable(env)
}

// ComplexPhase builds e^(i·(k·x)) directly, without parsing — used to
// imprint a mean-momentum phase on a wavefunction sample.
func ComplexPhase(k float32) *Formula {
	return &Formula{
		root: &OperationNode{
			Op:   '^',
			Left: &ValueNode{Value: float32(math.E)},
			Right: &OperationNode{
				Op:   '*',
				Left: &VariableNode{Name: 'i'},
				Right: &OperationNode{
					Op:    '*',
					Left:  &ValueNode{Value: k},
					Right: &VariableNode{Name: 'x'},
				},
			},
		},
	}
}

// Adjoin combines this formula and other into a new formula via a
// fresh root operation node.
func (f *Formula) Adjoin(other *Formula, op byte) *Formula {
	return &Formula{root: &OperationNode{Op: op, Left: f.root, Right: other.root}}
}

// GetVector samples the formula at length evenly spaced points
// xᵢ = start + i·(end−start)/length, with environment {x ↦ xᵢ,
// i ↦ i-unit}. A per-sample evaluation error yields Complex zero at
// that index rather than failing the whole sample — a single bad
// point must not fail a plot.
func (f *Formula) GetVector(start, end float32, length int) *linear.Vector {
	vector := linear.NewVector(length)
	step := (end - start) / float32(length)
	for i := 0; i < length; i++ {
		x := start + float32(i)*step
		env := map[rune]complexnum.Complex{
			'x': complexnum.FromReal(x),
			'i': complexnum.IUnit,
		}
		value, err := f.EvaluateMultivariable(env)
		if err != nil {
			value = complexnum.Zero
		}
		vector.Set(i, value)
	}
	return vector
}

// ConstantZero is the fallback formula compute_formula and similar
// gateway-facing callers substitute when a user-supplied expression
// fails to parse at all.
func ConstantZero() *Formula {
	return &Formula{root: &ValueNode{Value: 0}}
}

// cache memoizes Parse results behind a string key, in the pack's
// in-memory TTL-cache idiom (shared/resonance_cache.go) adapted here
// without the TTL/eviction machinery: formula text for a fixed
// potential or wavefunction is re-evaluated on every grid redraw, and
// the parse tree for a given expression never changes, so there is no
// reason to expire an entry once it exists.
type cache struct {
	mu      sync.RWMutex
	entries map[string]*Formula
}

func newCache() *cache {
	return &cache{entries: make(map[string]*Formula)}
}

func (c *cache) get(expr string) (*Formula, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.entries[expr]
	return f, ok
}

func (c *cache) put(expr string, f *Formula) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[expr] = f
}

var parseCache = newCache()

// ParseCached is Parse behind a process-wide memoization layer, keyed
// on the raw expression text. Safe for concurrent use.
func ParseCached(input string) (*Formula, error) {
	if f, ok := parseCache.get(input); ok {
		return f, nil
	}
	f, err := Parse(input)
	if err != nil {
		return nil, err
	}
	parseCache.put(input, f)
	return f, nil
}
