package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/workflow-conductor/conductor/pkg/clients/email"
)

func TestRegistry_DefaultActions(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"core.noop", "core.echo", "core.http", "core.weather", "core.email", "core.sms"} {
		if _, ok := r.Get(name); !ok {
			t.Errorf("expected %q to be registered", name)
		}
	}
	if _, ok := r.Get("core.unknown"); ok {
		t.Error("expected core.unknown to be absent")
	}
}

func TestRegistry_Dispatch(t *testing.T) {
	r := NewRegistry()
	out, err := r.Dispatch(context.Background(), "core.echo", map[string]any{"greeting": "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["status"] != "completed" {
		t.Errorf("expected status completed, got %v", out["status"])
	}

	_, err = r.Dispatch(context.Background(), "core.unknown", nil)
	if err == nil {
		t.Fatal("expected an error for an unknown action")
	}
}

func TestNoopAction(t *testing.T) {
	out, err := NoopAction{}.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["status"] != "completed" {
		t.Errorf("expected status completed, got %v", out)
	}
}

func TestHTTPAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"temperature": 21.5})
	}))
	defer srv.Close()

	a := NewHTTPAction(srv.Client())
	out, err := a.Execute(context.Background(), map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output, ok := out["output"].(map[string]any)
	if !ok {
		t.Fatalf("expected a decoded output map, got %v", out["output"])
	}
	if output["temperature"] != 21.5 {
		t.Errorf("expected temperature 21.5, got %v", output["temperature"])
	}
}

func TestHTTPAction_MissingURL(t *testing.T) {
	a := NewHTTPAction(nil)
	if _, err := a.Execute(context.Background(), nil); err == nil {
		t.Fatal("expected an error when url is missing")
	}
}

type recordingEmailClient struct{ sent []email.Message }

func (c *recordingEmailClient) Send(_ context.Context, msg email.Message) (*email.Result, error) {
	c.sent = append(c.sent, msg)
	return &email.Result{DeliveryStatus: "sent", Sent: true}, nil
}

func TestEmailAction(t *testing.T) {
	client := &recordingEmailClient{}
	a := NewEmailAction(client)
	_, err := a.Execute(context.Background(), map[string]any{"to": "a@example.com", "subject": "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.sent) != 1 || client.sent[0].To != "a@example.com" {
		t.Fatalf("expected one email sent to a@example.com, got %+v", client.sent)
	}
}

func TestEmailAction_MissingTo(t *testing.T) {
	a := NewEmailAction(email.NewStubClient("alerts@example.com"))
	if _, err := a.Execute(context.Background(), nil); err == nil {
		t.Fatal("expected an error when \"to\" is missing")
	}
}

type recordingWeatherClient struct{ temp float64 }

func (c recordingWeatherClient) GetTemperature(_ context.Context, lat, lon float64) (float64, error) {
	return c.temp, nil
}

func TestWeatherAction(t *testing.T) {
	a := NewWeatherAction(recordingWeatherClient{temp: 18.5})
	out, err := a.Execute(context.Background(), map[string]any{"latitude": 52.52, "longitude": 13.41})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["temperature"] != 18.5 {
		t.Errorf("expected temperature 18.5, got %v", out["temperature"])
	}
}

func TestWeatherAction_MissingCoordinates(t *testing.T) {
	a := NewWeatherAction(recordingWeatherClient{})
	if _, err := a.Execute(context.Background(), nil); err == nil {
		t.Fatal("expected an error when coordinates are missing")
	}
}

type recordingSMSClient struct{ sent []SMSMessage }

func (c *recordingSMSClient) Send(_ context.Context, msg SMSMessage) error {
	c.sent = append(c.sent, msg)
	return nil
}

func TestSMSAction(t *testing.T) {
	client := &recordingSMSClient{}
	a := NewSMSAction(client)
	_, err := a.Execute(context.Background(), map[string]any{"to": "+15551234567", "body": "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.sent) != 1 || client.sent[0].To != "+15551234567" {
		t.Fatalf("expected one sms sent, got %+v", client.sent)
	}
}
