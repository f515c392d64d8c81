// Package cel provides a CEL-based implementation of the request
// policy gate.
package cel

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/cel-go/cel"

	"github.com/scenecast/scenecast/internal/domain/policy"
)

// maxExpressionLength is the maximum allowed length for rule expressions.
const maxExpressionLength = 1024

// maxCostBudget is the CEL runtime cost limit to prevent cost-exhaustion.
const maxCostBudget = 100_000

// maxNestingDepth is the maximum allowed parenthesis/bracket nesting depth.
const maxNestingDepth = 50

// evalTimeout is the maximum time allowed for a single rule evaluation.
const evalTimeout = 5 * time.Second

// interruptCheckFreq is how often (in comprehension iterations) context
// cancellation is checked.
const interruptCheckFreq = 100

// maxCacheSize bounds the decision cache. Request types are
// client-supplied, so the cache must not grow with distinct inputs.
const maxCacheSize = 1000

// newRuleEnvironment creates a CEL environment exposing the request
// evaluation variables.
func newRuleEnvironment() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("requestType", cel.StringType),
		cel.Variable("rpcVersion", cel.IntType),
		cel.Variable("lenient", cel.BoolType),
	)
}

type compiledRule struct {
	name    string
	program cel.Program
}

// Gate evaluates requests against compiled CEL rules. Decisions are
// cached per (requestType, rpcVersion, lenient) tuple since rules only
// see those variables.
type Gate struct {
	rules []compiledRule
	cache *decisionCache
}

// NewGate compiles the given rules into a policy gate. Fails on the
// first rule that does not compile or violates the safety limits.
func NewGate(rules []policy.Rule) (*Gate, error) {
	env, err := newRuleEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create rule environment: %w", err)
	}

	g := &Gate{cache: newDecisionCache(maxCacheSize)}
	for _, rule := range rules {
		prg, err := compile(env, rule.Expression)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		g.rules = append(g.rules, compiledRule{name: rule.Name, program: prg})
	}
	return g, nil
}

// compile parses and type-checks an expression, returning a program
// with runtime safety limits applied.
func compile(env *cel.Env, expression string) (cel.Program, error) {
	if err := checkExpression(expression); err != nil {
		return nil, err
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation failed: %w", issues.Err())
	}

	prg, err := env.Program(ast,
		cel.EvalOptions(cel.OptOptimize),
		cel.CostLimit(maxCostBudget),
		cel.InterruptCheckFrequency(interruptCheckFreq),
	)
	if err != nil {
		return nil, fmt.Errorf("program creation failed: %w", err)
	}

	return prg, nil
}

// checkExpression enforces the static safety limits.
func checkExpression(expr string) error {
	if expr == "" {
		return errors.New("expression is empty")
	}
	if len(expr) > maxExpressionLength {
		return fmt.Errorf("expression too long: %d characters (max %d)", len(expr), maxExpressionLength)
	}

	var depth, maxDepth int
	for _, ch := range expr {
		switch ch {
		case '(', '[', '{':
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case ')', ']', '}':
			depth--
		}
	}
	if maxDepth > maxNestingDepth {
		return fmt.Errorf("expression nesting too deep: %d levels (max %d)", maxDepth, maxNestingDepth)
	}
	return nil
}

// ValidateExpression checks that a rule expression is syntactically
// valid and within the safety limits. Used by config validation before
// the gate is constructed.
func ValidateExpression(expression string) error {
	env, err := newRuleEnvironment()
	if err != nil {
		return fmt.Errorf("failed to create rule environment: %w", err)
	}
	if _, err := compile(env, expression); err != nil {
		return fmt.Errorf("invalid rule expression: %w", err)
	}
	return nil
}

// Allow evaluates all rules for the given request context. The first
// rule that evaluates to false denies the request.
func (g *Gate) Allow(ctx context.Context, eval policy.Evaluation) (policy.Decision, error) {
	key := cacheKey(eval)
	if cached, ok := g.cache.get(key); ok {
		return cached, nil
	}

	decision, err := g.evaluate(ctx, eval)
	if err != nil {
		return policy.Decision{}, err
	}

	g.cache.put(key, decision)
	return decision, nil
}

func (g *Gate) evaluate(ctx context.Context, eval policy.Evaluation) (policy.Decision, error) {
	activation := map[string]any{
		"requestType": eval.RequestType,
		"rpcVersion":  eval.RPCVersion,
		"lenient":     eval.Lenient,
	}

	evalCtx, cancel := context.WithTimeout(ctx, evalTimeout)
	defer cancel()

	for _, rule := range g.rules {
		result, _, err := rule.program.ContextEval(evalCtx, activation)
		if err != nil {
			return policy.Decision{}, fmt.Errorf("rule %q: evaluation failed: %w", rule.name, err)
		}

		allowed, ok := result.Value().(bool)
		if !ok {
			return policy.Decision{}, fmt.Errorf("rule %q: expression did not return a boolean, got %T", rule.name, result.Value())
		}
		if !allowed {
			return policy.Decision{Allowed: false, Rule: rule.name}, nil
		}
	}

	return policy.Decision{Allowed: true}, nil
}

// cacheKey hashes the evaluation tuple. Rules only observe these three
// variables, so equal tuples always produce equal decisions. The
// request type is length-prefixed and the flag is always one byte, so
// distinct tuples can never serialize identically.
func cacheKey(eval policy.Evaluation) uint64 {
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(eval.RequestType)))
	_, _ = h.Write(buf[:])
	_, _ = h.WriteString(eval.RequestType)
	binary.LittleEndian.PutUint64(buf[:], uint64(eval.RPCVersion))
	_, _ = h.Write(buf[:])
	if eval.Lenient {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// lruEntry is a doubly-linked list node of the decision cache.
type lruEntry struct {
	key      uint64
	decision policy.Decision
	prev     *lruEntry
	next     *lruEntry
}

// decisionCache is a bounded LRU cache for policy decisions. A mutex
// guards both operations since get promotes the entry it returns.
type decisionCache struct {
	mu      sync.Mutex
	entries map[uint64]*lruEntry
	head    *lruEntry // most recently used
	tail    *lruEntry // least recently used
	maxSize int
}

func newDecisionCache(maxSize int) *decisionCache {
	return &decisionCache{
		entries: make(map[uint64]*lruEntry, maxSize),
		maxSize: maxSize,
	}
}

// get returns the cached decision and promotes its entry to the head.
func (c *decisionCache) get(key uint64) (policy.Decision, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.moveToHeadLocked(e)
		return e.decision, true
	}
	return policy.Decision{}, false
}

// put stores a decision, evicting the least recently used entry when
// the cache is at capacity.
func (c *decisionCache) put(key uint64, decision policy.Decision) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.decision = decision
		c.moveToHeadLocked(e)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictTailLocked()
	}

	e := &lruEntry{key: key, decision: decision}
	c.entries[key] = e
	c.pushHeadLocked(e)
}

func (c *decisionCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// moveToHeadLocked moves an existing entry to the head. Must be called
// with the lock held.
func (c *decisionCache) moveToHeadLocked(e *lruEntry) {
	if c.head == e {
		return
	}
	c.unlinkLocked(e)
	c.pushHeadLocked(e)
}

// pushHeadLocked inserts an entry at the head. Must be called with the
// lock held.
func (c *decisionCache) pushHeadLocked(e *lruEntry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

// unlinkLocked removes an entry from the list. Must be called with the
// lock held.
func (c *decisionCache) unlinkLocked(e *lruEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

// evictTailLocked removes the least recently used entry. Must be
// called with the lock held.
func (c *decisionCache) evictTailLocked() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.unlinkLocked(c.tail)
}

// Compile-time check that Gate implements policy.Gate.
var _ policy.Gate = (*Gate)(nil)
