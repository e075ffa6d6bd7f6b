// Package policy evaluates admission rules for generation requests.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA admission policy engine. It is consulted during
// pre-flight validation, before a session is created.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.pipeline_policy.decision"),
		rego.Module("pipeline_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks an admission request. Input carries keyword, presenter_id
// and owner_id. Returns the decision (allow or block) and an optional reason.
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (string, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default, so an empty result set means the
		// module was mis-authored; admit rather than brick the pipeline.
		return "allow", "default", nil
	}

	val := results[0].Expressions[0].Value
	if s, ok := val.(string); ok {
		return s, "", nil
	}
	if obj, ok := val.(map[string]interface{}); ok {
		decision, _ := obj["decision"].(string)
		reason, _ := obj["reason"].(string)
		if decision != "" {
			return decision, reason, nil
		}
	}
	return "allow", "unexpected return type", nil
}

// DefaultPolicy is the default admission policy content.
const DefaultPolicy = `
package pipeline_policy

default decision = "allow"

# Block keywords that never produce usable narration.
decision = "block" {
	blocked := {"test", "spam"}
	blocked[lower(input.keyword)]
}

# Presenter 0 is reserved and never renderable.
decision = "block" {
	input.presenter_id == 0
}
`
