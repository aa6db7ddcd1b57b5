package dispatch

// AlertsArgs are the arguments of get_alerts.
type AlertsArgs struct {
	State string `json:"state" jsonschema:"description=Two-letter US state code,minLength=2,maxLength=2"`
}

// ForecastArgs are the arguments of get_forecast.
type ForecastArgs struct {
	Latitude  float64 `json:"latitude" jsonschema:"minimum=-90,maximum=90"`
	Longitude float64 `json:"longitude" jsonschema:"minimum=-180,maximum=180"`
}

// WeatherTools are the tools served by the bundled weather MCP server.
func WeatherTools() []ToolSpec {
	return []ToolSpec{
		NewToolSpec[AlertsArgs]("get_alerts", "Get active weather alerts for a US state."),
		NewToolSpec[ForecastArgs]("get_forecast", "Get the weather forecast for a location."),
	}
}
