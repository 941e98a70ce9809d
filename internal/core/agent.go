// Package core implements the task orchestration engine: the agent
// contract, the task manager, and the execution records it produces.
package core

import "context"

// Payload is the key-value input handed to an agent. Required keys vary
// per agent; accessors return zero values for missing or mistyped keys so
// agents can validate at the boundary.
type Payload map[string]any

// String returns the string value at key, or "".
func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Map returns the nested payload at key, or nil.
func (p Payload) Map(key string) Payload {
	switch v := p[key].(type) {
	case Payload:
		return v
	case map[string]any:
		return Payload(v)
	default:
		return nil
	}
}

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// AgentResult is the single output of one ProcessTask call. Agents never
// propagate errors to the caller; failures become error results.
type AgentResult struct {
	AgentName string         `json:"agent"`
	Status    string         `json:"status"`
	Data      map[string]any `json:"data"`
	Message   string         `json:"message"`
}

// OK reports whether the result carries usable data.
func (r AgentResult) OK() bool { return r.Status == StatusSuccess }

// Agent is a unit of work dispatched by the TaskManager.
//
// ProcessTask must always return a result: internal failures (network,
// malformed upstream payloads, parse errors) are converted into an error
// result or, for price-like agents, degraded synthetic data.
type Agent interface {
	Name() string
	Description() string
	ProcessTask(ctx context.Context, payload Payload) AgentResult
}

// Success builds a success result for the named agent.
func Success(agent string, data map[string]any, message string) AgentResult {
	return AgentResult{AgentName: agent, Status: StatusSuccess, Data: data, Message: message}
}

// Errorf builds an error result for the named agent.
func Errorf(agent string, message string) AgentResult {
	return AgentResult{AgentName: agent, Status: StatusError, Data: map[string]any{}, Message: message}
}
