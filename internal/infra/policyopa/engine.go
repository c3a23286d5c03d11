package policyopa

import (
	"context"
	"encoding/json"
	"errors"

	"dinehub/internal/domain"

	"github.com/open-policy-agent/opa/rego"
)

const defaultQuery = "data.dinehub.authz.result"

// Engine evaluates tenant capability-restriction policies. Policies are
// restrict-only: they may name capabilities to deny, never grant new ones.
// An evaluation error is an infrastructure failure, not an empty set.
type Engine struct {
	query    rego.PreparedEvalQuery
	bundleID string
}

func NewEngineFromPath(ctx context.Context, policyPath, bundleID string) (*Engine, error) {
	r := rego.New(
		rego.Query(defaultQuery),
		rego.StrictBuiltinErrors(true),
		rego.Load([]string{policyPath}, nil),
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}
	return &Engine{query: prepared, bundleID: bundleID}, nil
}

type restrictionInput struct {
	Session      sessionInput `json:"session"`
	Capabilities []string     `json:"capabilities"`
}

type sessionInput struct {
	SubjectID   string `json:"subject_id"`
	Email       string `json:"email"`
	TenantID    string `json:"tenant_id"`
	Role        string `json:"role,omitempty"`
	LocationID  string `json:"location_id,omitempty"`
	SessionType string `json:"session_type"`
	ViewAs      string `json:"view_as,omitempty"`
}

type restrictionResult struct {
	Deny []string `json:"deny"`
}

// Restrict implements domain.CapabilityFilter. A policy with no opinion
// leaves the set untouched; denied entries are removed, honoring the same
// wildcard forms the satisfies check understands.
func (e *Engine) Restrict(ctx context.Context, session domain.SessionContext, capabilities []string) ([]string, error) {
	if e == nil {
		return capabilities, nil
	}
	input := restrictionInput{
		Session: sessionInput{
			SubjectID:   session.Subject.ID,
			Email:       session.Subject.Email,
			TenantID:    session.TenantID,
			Role:        string(session.Role),
			LocationID:  session.LocationID,
			SessionType: string(session.SessionType),
			ViewAs:      string(session.ViewAs),
		},
		Capabilities: capabilities,
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return capabilities, nil
	}
	result, err := decodeResult(results[0].Expressions[0].Value)
	if err != nil {
		return nil, err
	}
	if len(result.Deny) == 0 {
		return capabilities, nil
	}

	out := make([]string, 0, len(capabilities))
	for _, capability := range capabilities {
		if !domain.Satisfies(result.Deny, []string{capability}, domain.RequireAny) {
			out = append(out, capability)
		}
	}
	return out, nil
}

func decodeResult(value any) (restrictionResult, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return restrictionResult{}, err
	}
	var result restrictionResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return restrictionResult{}, errors.New("invalid policy result shape")
	}
	return result, nil
}
