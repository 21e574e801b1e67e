package dispatch

import (
	"context"
	"fmt"

	"github.com/workflow-conductor/conductor/pkg/clients/weather"
)

// WeatherAction fetches a current temperature via a weather.Client,
// wiring the teacher's Open-Meteo client directly rather than routing
// through the generic HTTPAction, the same specialization the teacher
// gave its own weather node over a bare integration node.
type WeatherAction struct {
	client weather.Client
}

// NewWeatherAction builds a WeatherAction using client, or an
// OpenMeteoClient with the default http.Client if client is nil.
func NewWeatherAction(client weather.Client) *WeatherAction {
	if client == nil {
		client = weather.NewOpenMeteoClient(nil)
	}
	return &WeatherAction{client: client}
}

func (a *WeatherAction) Execute(ctx context.Context, input map[string]any) (map[string]any, error) {
	lat, ok := input["latitude"].(float64)
	if !ok {
		return nil, fmt.Errorf("dispatch: core.weather requires a numeric \"latitude\" input")
	}
	lon, ok := input["longitude"].(float64)
	if !ok {
		return nil, fmt.Errorf("dispatch: core.weather requires a numeric \"longitude\" input")
	}

	temp, err := a.client.GetTemperature(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("dispatch: fetching temperature: %w", err)
	}
	return map[string]any{"status": "completed", "temperature": temp}, nil
}
