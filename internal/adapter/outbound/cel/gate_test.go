package cel

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/scenecast/scenecast/internal/domain/policy"
)

func TestNewGate_CompileError(t *testing.T) {
	_, err := NewGate([]policy.Rule{
		{Name: "broken", Expression: "requestType ==="},
	})
	if err == nil {
		t.Fatal("expected compile error")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("expected error to name the rule, got: %v", err)
	}
}

func TestGate_Allow(t *testing.T) {
	gate, err := NewGate([]policy.Rule{
		{Name: "read-only", Expression: `requestType.startsWith("Get")`},
	})
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}
	ctx := context.Background()

	decision, err := gate.Allow(ctx, policy.Evaluation{RequestType: "GetSceneList", RPCVersion: 1})
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if !decision.Allowed {
		t.Error("expected GetSceneList to be allowed")
	}

	decision, err = gate.Allow(ctx, policy.Evaluation{RequestType: "RemoveScene", RPCVersion: 1})
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if decision.Allowed {
		t.Error("expected RemoveScene to be denied")
	}
	if decision.Rule != "read-only" {
		t.Errorf("expected denying rule to be named, got %q", decision.Rule)
	}
}

func TestGate_AllRulesMustAllow(t *testing.T) {
	gate, err := NewGate([]policy.Rule{
		{Name: "any", Expression: `true`},
		{Name: "no-lenient", Expression: `!lenient`},
	})
	if err != nil {
		t.Fatal(err)
	}

	decision, err := gate.Allow(context.Background(), policy.Evaluation{RequestType: "GetVersion", Lenient: true})
	if err != nil {
		t.Fatal(err)
	}
	if decision.Allowed {
		t.Error("expected lenient session to be denied by second rule")
	}
	if decision.Rule != "no-lenient" {
		t.Errorf("unexpected denying rule: %q", decision.Rule)
	}
}

func TestGate_NoRulesAllowsAll(t *testing.T) {
	gate, err := NewGate(nil)
	if err != nil {
		t.Fatal(err)
	}
	decision, err := gate.Allow(context.Background(), policy.Evaluation{RequestType: "Anything"})
	if err != nil {
		t.Fatal(err)
	}
	if !decision.Allowed {
		t.Error("expected allow-all with no rules")
	}
}

func TestGate_DecisionCached(t *testing.T) {
	gate, err := NewGate([]policy.Rule{
		{Name: "read-only", Expression: `requestType.startsWith("Get")`},
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	eval := policy.Evaluation{RequestType: "GetVersion", RPCVersion: 1}

	first, err := gate.Allow(ctx, eval)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := gate.cache.get(cacheKey(eval)); !ok {
		t.Fatal("expected decision to be cached")
	}
	second, err := gate.Allow(ctx, eval)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("cached decision differs")
	}
}

func TestGate_CacheBounded(t *testing.T) {
	gate, err := NewGate([]policy.Rule{
		{Name: "read-only", Expression: `requestType.startsWith("Get")`},
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// Request types are chosen by the client, so distinct bogus types
	// must not grow the cache past its bound.
	for i := 0; i < maxCacheSize+500; i++ {
		eval := policy.Evaluation{RequestType: fmt.Sprintf("Bogus%d", i), RPCVersion: 1}
		if _, err := gate.Allow(ctx, eval); err != nil {
			t.Fatal(err)
		}
	}
	if got := gate.cache.size(); got > maxCacheSize {
		t.Errorf("cache grew past its bound: %d entries (max %d)", got, maxCacheSize)
	}
}

func TestGate_CacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := newDecisionCache(2)
	cache.put(1, policy.Decision{Allowed: true})
	cache.put(2, policy.Decision{Allowed: false, Rule: "r"})

	// Touch key 1 so key 2 becomes the eviction candidate.
	if _, ok := cache.get(1); !ok {
		t.Fatal("expected key 1 to be cached")
	}
	cache.put(3, policy.Decision{Allowed: true})

	if _, ok := cache.get(2); ok {
		t.Error("expected least recently used entry to be evicted")
	}
	if _, ok := cache.get(1); !ok {
		t.Error("expected recently used entry to survive eviction")
	}
	if _, ok := cache.get(3); !ok {
		t.Error("expected newest entry to be cached")
	}
}

func TestCacheKey_DistinctTuples(t *testing.T) {
	// Under a separator-based encoding these two tuples serialize to
	// the same bytes ("A" + NUL + "12" vs "A" + NUL + "1" + NUL + "2").
	a := policy.Evaluation{RequestType: "A", RPCVersion: 12}
	b := policy.Evaluation{RequestType: "A\x001", RPCVersion: 2}
	if cacheKey(a) == cacheKey(b) {
		t.Error("distinct tuples produced the same cache key")
	}

	lenient := policy.Evaluation{RequestType: "A", RPCVersion: 1, Lenient: true}
	strict := policy.Evaluation{RequestType: "A", RPCVersion: 1}
	if cacheKey(lenient) == cacheKey(strict) {
		t.Error("leniency flag not reflected in cache key")
	}
}

func TestGate_NoCacheCrosstalkBetweenTuples(t *testing.T) {
	gate, err := NewGate([]policy.Rule{
		{Name: "modern-only", Expression: `rpcVersion == 12`},
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	first, err := gate.Allow(ctx, policy.Evaluation{RequestType: "A", RPCVersion: 12})
	if err != nil {
		t.Fatal(err)
	}
	if !first.Allowed {
		t.Fatal("expected version 12 to be allowed")
	}

	second, err := gate.Allow(ctx, policy.Evaluation{RequestType: "A\x001", RPCVersion: 2})
	if err != nil {
		t.Fatal(err)
	}
	if second.Allowed {
		t.Error("expected version 2 to be denied, got a cached allow for a different tuple")
	}
}

func TestValidateExpression(t *testing.T) {
	if err := ValidateExpression(`requestType == "GetVersion"`); err != nil {
		t.Errorf("expected valid expression to pass, got: %v", err)
	}
	if err := ValidateExpression(""); err == nil {
		t.Error("expected empty expression to fail")
	}
	if err := ValidateExpression(strings.Repeat("true && ", 200) + "true"); err == nil {
		t.Error("expected overlong expression to fail")
	}
	if err := ValidateExpression(strings.Repeat("(", 60) + "true" + strings.Repeat(")", 60)); err == nil {
		t.Error("expected deeply nested expression to fail")
	}
	if err := ValidateExpression(`unknownVar == 1`); err == nil {
		t.Error("expected unknown variable to fail")
	}
}
