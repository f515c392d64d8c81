// Package policy decides whether a session may execute a request type.
// Rules are boolean expressions over the request context; all
// configured rules must allow a request for it to pass. No rules means
// allow-all.
package policy

import "context"

// Rule is one configured policy rule.
type Rule struct {
	// Name identifies the rule in logs and deny reasons.
	Name string
	// Expression is a CEL expression over the evaluation variables
	// that must evaluate to a boolean.
	Expression string
}

// Evaluation is the request context a rule is evaluated against.
type Evaluation struct {
	// RequestType is the operation the client wants to execute.
	RequestType string
	// RPCVersion is the session's negotiated protocol version.
	RPCVersion int
	// Lenient is the session's leniency flag.
	Lenient bool
}

// Decision is the outcome of a policy check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// Rule names the rule that denied the request. Empty when allowed.
	Rule string
}

// Gate evaluates requests against the configured rules.
type Gate interface {
	// Allow evaluates all rules for the given request context.
	Allow(ctx context.Context, eval Evaluation) (Decision, error)
}

// AllowAll is a Gate that permits every request. Used when no rules
// are configured.
type AllowAll struct{}

// Allow always permits.
func (AllowAll) Allow(ctx context.Context, eval Evaluation) (Decision, error) {
	return Decision{Allowed: true}, nil
}

// Compile-time check that AllowAll implements Gate.
var _ Gate = AllowAll{}
