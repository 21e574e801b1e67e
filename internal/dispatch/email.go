package dispatch

import (
	"context"
	"fmt"

	"github.com/workflow-conductor/conductor/pkg/clients/email"
)

// EmailAction composes an email.Message from its input and sends it via
// an email.Client, the same provider-swap boundary the teacher exposed
// for its email node.
type EmailAction struct {
	client email.Client
}

// NewEmailAction builds an EmailAction using client, or a stub client
// if client is nil.
func NewEmailAction(client email.Client) *EmailAction {
	if client == nil {
		client = email.NewStubClient("workflow-conductor@example.com")
	}
	return &EmailAction{client: client}
}

func (a *EmailAction) Execute(ctx context.Context, input map[string]any) (map[string]any, error) {
	to, _ := input["to"].(string)
	if to == "" {
		return nil, fmt.Errorf("dispatch: core.email requires a string \"to\" input")
	}
	msg := email.Message{
		To:      to,
		From:    stringOr(input["from"], "workflow-conductor@example.com"),
		Subject: stringOr(input["subject"], ""),
		Body:    stringOr(input["body"], ""),
	}
	result, err := a.client.Send(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("dispatch: sending email: %w", err)
	}
	return map[string]any{"status": "completed", "to": msg.To, "subject": msg.Subject, "deliveryStatus": result.DeliveryStatus}, nil
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}
