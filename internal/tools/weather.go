package tools

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	openWeatherURL = "https://api.openweathermap.org/data/2.5/weather"
	weatherAPIURL  = "https://api.weatherapi.com/v1/forecast.json"

	// forecastHorizonDays is how far ahead WeatherAPI.com forecasts.
	forecastHorizonDays = 14
)

type currentWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// CurrentWeather reports the weather right now in a city, using OpenWeatherMap.
func CurrentWeather(apiKey string, opts HTTPOptions) Tool {
	client := opts.client()
	endpoint := opts.base(openWeatherURL)

	return New("current_weather_checker",
		"Use this tool to check the CURRENT weather in a given city. Returns a JSON with detailed weather information for now.",
		func(ctx context.Context, input string) (any, error) {
			if apiKey == "" {
				return nil, invocationErrorf("OpenWeatherMap API key is not set.")
			}
			city := strings.TrimSpace(input)
			if city == "" {
				return nil, invocationErrorf("a city name is required")
			}

			var resp currentWeatherResponse
			err := getJSON(ctx, client, endpoint, url.Values{
				"q":     {city},
				"appid": {apiKey},
				"units": {"metric"},
				"lang":  {"en"},
			}, nil, &resp)
			if err != nil {
				var se *statusError
				if errors.As(err, &se) && se.Code == http.StatusNotFound {
					return nil, invocationErrorf("City not found: %s", city)
				}
				return nil, &InvocationError{Msg: "An HTTP error occurred", Err: err}
			}

			conditions := ""
			if len(resp.Weather) > 0 {
				conditions = resp.Weather[0].Description
			}
			return map[string]string{
				"location":    resp.Name,
				"temperature": num(resp.Main.Temp) + "°C",
				"feels_like":  num(resp.Main.FeelsLike) + "°C",
				"conditions":  conditions,
				"humidity":    num(resp.Main.Humidity) + "%",
				"wind_speed":  num(resp.Wind.Speed) + " m/s",
			}, nil
		})
}

type forecastInput struct {
	Location string `json:"location"`
	Date     string `json:"date"`
}

type forecastResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				AvgTempC          float64  `json:"avgtemp_c"`
				MinTempC          float64  `json:"mintemp_c"`
				MaxTempC          float64  `json:"maxtemp_c"`
				AvgHumidity       float64  `json:"avghumidity"`
				MaxWindKph        float64  `json:"maxwind_kph"`
				DailyChanceOfRain *float64 `json:"daily_chance_of_rain"`
				Condition         struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// Forecast reports the forecast for one day within the next two weeks, using WeatherAPI.com.
// Input is JSON {"location": "...", "date": "..."}; date accepts YYYY-MM-DD, "today" or "tomorrow".
func Forecast(apiKey string, opts HTTPOptions, clock Clock) Tool {
	client := opts.client()
	endpoint := opts.base(weatherAPIURL)

	return New("weather_forecast_checker",
		`Use this tool to check the weather FORECAST in a given city for a specific day. The forecast is available up to 14 days in the future. Input must be a JSON object with two keys, for example {"location": "Paris", "date": "2025-06-01"}.`,
		func(ctx context.Context, input string) (any, error) {
			var in forecastInput
			if err := decodeInput(input, &in); err != nil {
				return nil, err
			}
			if strings.TrimSpace(in.Location) == "" || strings.TrimSpace(in.Date) == "" {
				return nil, invocationErrorf("both 'location' and 'date' are required")
			}
			if apiKey == "" {
				return nil, invocationErrorf("API key for WeatherAPI.com is not set.")
			}

			today := truncateDay(clock.now())
			target, ok := parseDay(in.Date, today)
			if !ok {
				return nil, invocationErrorf("Failed to parse the date: '%s'. Use YYYY-MM-DD format or words like 'tomorrow'.", in.Date)
			}
			if target.Before(today) {
				return nil, invocationErrorf("Cannot check the weather for a past date.")
			}
			if target.After(today.AddDate(0, 0, forecastHorizonDays)) {
				return nil, invocationErrorf("The forecast is only available for 14 days ahead. The date '%s' is too far in the future.", target.Format(time.DateOnly))
			}

			var resp forecastResponse
			err := getJSON(ctx, client, endpoint, url.Values{
				"key":  {apiKey},
				"q":    {in.Location},
				"dt":   {target.Format(time.DateOnly)},
				"lang": {"en"},
			}, nil, &resp)
			if err != nil {
				return nil, &InvocationError{Msg: "HTTP error from WeatherAPI.com", Err: err}
			}
			if len(resp.Forecast.ForecastDay) == 0 {
				return Message("No forecast available for " + in.Location + " on " + target.Format(time.DateOnly) + "."), nil
			}

			fd := resp.Forecast.ForecastDay[0]
			rain := "N/A"
			if fd.Day.DailyChanceOfRain != nil {
				rain = num(*fd.Day.DailyChanceOfRain)
			}
			return map[string]string{
				"location":        resp.Location.Name + ", " + resp.Location.Country,
				"date":            fd.Date,
				"avg_temperature": num(fd.Day.AvgTempC) + "°C",
				"min_temperature": num(fd.Day.MinTempC) + "°C",
				"max_temperature": num(fd.Day.MaxTempC) + "°C",
				"conditions":      fd.Day.Condition.Text,
				"humidity":        num(fd.Day.AvgHumidity) + "%",
				"chance_of_rain":  rain + "%",
				"max_wind_speed":  num(KphToMps(fd.Day.MaxWindKph)) + " m/s",
			}, nil
		})
}

// KphToMps converts km/h to m/s rounded to two decimals.
func KphToMps(kph float64) float64 {
	return math.Round(kph/3.6*100) / 100
}

var dayLayouts = []string{
	time.DateOnly,
	"2006/01/02",
	"02.01.2006",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// parseDay resolves a date expression relative to today (midnight, local to today).
func parseDay(s string, today time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	case "day after tomorrow", "the day after tomorrow":
		return today.AddDate(0, 0, 2), true
	}
	for _, layout := range dayLayouts {
		if t, err := time.ParseInLocation(layout, s, today.Location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// num formats a float the shortest way, so 21 prints as "21" and 5.56 as "5.56".
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
