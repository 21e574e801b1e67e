package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// HTTPAction performs a GET request against an input-supplied URL and
// returns the decoded JSON body, the same shape weather.OpenMeteoClient
// uses for its single external call.
type HTTPAction struct {
	client *http.Client
}

// NewHTTPAction builds an HTTPAction using client, or http.DefaultClient
// if client is nil.
func NewHTTPAction(client *http.Client) *HTTPAction {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPAction{client: client}
}

func (a *HTTPAction) Execute(ctx context.Context, input map[string]any) (map[string]any, error) {
	url, ok := input["url"].(string)
	if !ok || url == "" {
		return nil, fmt.Errorf("dispatch: core.http requires a string \"url\" input")
	}

	slog.Info("dispatch: calling http action", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dispatch: building request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dispatch: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dispatch: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dispatch: http action returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("dispatch: decoding response: %w", err)
	}

	return map[string]any{"status": "completed", "output": decoded}, nil
}
