package dispatch

import (
	"context"
	"fmt"
	"log/slog"
)

// SMSMessage is the resolved form of a "core.sms" action's input.
type SMSMessage struct {
	To   string
	Body string
}

// SMSClient sends an SMSMessage, the same role sms.Client plays for
// SmsNode in the teacher (the client package itself wasn't carried into
// this pack; the shape is reconstructed from node_sms.go's usage).
type SMSClient interface {
	Send(ctx context.Context, msg SMSMessage) error
}

// StubSMSClient logs instead of sending.
type StubSMSClient struct{}

func (StubSMSClient) Send(_ context.Context, msg SMSMessage) error {
	slog.Info("dispatch: sending sms (stub)", "to", msg.To)
	return nil
}

// SMSAction sends an SMSMessage composed from its input via client.
type SMSAction struct {
	client SMSClient
}

// NewSMSAction builds an SMSAction using client, or StubSMSClient if
// client is nil.
func NewSMSAction(client SMSClient) *SMSAction {
	if client == nil {
		client = StubSMSClient{}
	}
	return &SMSAction{client: client}
}

func (a *SMSAction) Execute(ctx context.Context, input map[string]any) (map[string]any, error) {
	to, _ := input["to"].(string)
	if to == "" {
		return nil, fmt.Errorf("dispatch: core.sms requires a string \"to\" input")
	}
	msg := SMSMessage{To: to, Body: stringOr(input["body"], "")}
	if err := a.client.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("dispatch: sending sms: %w", err)
	}
	return map[string]any{"status": "completed", "to": msg.To}, nil
}
