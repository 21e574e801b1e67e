package dispatch

import "context"

// NoopAction completes immediately with no side effects, the same role
// SentinelNode plays for start/end markers in the teacher.
type NoopAction struct{}

func (NoopAction) Execute(_ context.Context, _ map[string]any) (map[string]any, error) {
	return map[string]any{"status": "completed"}, nil
}

// EchoAction returns its input unchanged under "output", useful for
// exercising publish/guard wiring in integration tests without any
// external dependency.
type EchoAction struct{}

func (EchoAction) Execute(_ context.Context, input map[string]any) (map[string]any, error) {
	return map[string]any{"status": "completed", "output": input}, nil
}
