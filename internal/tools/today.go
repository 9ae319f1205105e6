package tools

import "context"

// Today returns the current date, e.g. "Monday, 02 June 2025". Input is ignored.
func Today(clock Clock) Tool {
	return New("get_today_date",
		"Returns today's date. Use this when the user asks about the current date or when you need to refer to 'today'.",
		func(context.Context, string) (any, error) {
			return clock.now().Format("Monday, 02 January 2006"), nil
		})
}

// Config collects what the default tool set needs.
type Config struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	RapidAPIKey       string
	Hotels            HotelSearcher
	HTTP              HTTPOptions
	Clock             Clock
}

// Defaults returns every tool the agent is given in production.
func Defaults(cfg Config) []Tool {
	return []Tool{
		CurrentWeather(cfg.OpenWeatherAPIKey, cfg.HTTP),
		Forecast(cfg.WeatherAPIKey, cfg.HTTP, cfg.Clock),
		Flights(cfg.RapidAPIKey, cfg.HTTP, cfg.Clock),
		Hotels(cfg.Hotels),
		Today(cfg.Clock),
	}
}
