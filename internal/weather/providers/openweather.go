package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/FrontRowWithJ/WeatherBot/internal/weather"
)

// ErrLocationNotFound means the geocoder returned no match for the given
// place name.
var ErrLocationNotFound = errors.New("invalid location given")

// OpenWeatherClient resolves place names to coordinates and fetches the
// 5-day/3-hour forecast from OpenWeatherMap.
type OpenWeatherClient struct {
	apiKey      string
	geoURL      string
	forecastURL string
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewOpenWeatherClient(client *http.Client, apiKey string) *OpenWeatherClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherClient{
		apiKey:      apiKey,
		geoURL:      "https://api.openweathermap.org/geo/1.0/direct",
		forecastURL: "https://api.openweathermap.org/data/2.5/forecast",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: cb,
	}
}

// Geocode resolves a free-text place name into coordinates.
func (c *OpenWeatherClient) Geocode(ctx context.Context, location string) (lat, lon float64, err error) {
	if c.apiKey == "" {
		return 0, 0, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", location)
		values.Set("limit", "1")
		values.Set("appid", c.apiKey)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.geoURL, values.Encode()), nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	var payload []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, 0, err
	}
	if len(payload) == 0 {
		return 0, 0, ErrLocationNotFound
	}
	return payload[0].Lat, payload[0].Lon, nil
}

// FetchForecast fetches the forward forecast for the given coordinates as
// an ordered sequence of 3-hour samples.
func (c *OpenWeatherClient) FetchForecast(ctx context.Context, lat, lon float64) ([]weather.ForecastSample, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", lat))
		values.Set("lon", fmt.Sprintf("%f", lon))
		values.Set("units", "metric")
		values.Set("appid", c.apiKey)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.forecastURL, values.Encode()), nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp    float64 `json:"temp"`
				TempMin float64 `json:"temp_min"`
				TempMax float64 `json:"temp_max"`
			} `json:"main"`
			Weather []struct {
				Main        string `json:"main"`
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
			Clouds struct {
				All int `json:"all"`
			} `json:"clouds"`
			Wind struct {
				Speed float64 `json:"speed"`
				Deg   float64 `json:"deg"`
			} `json:"wind"`
			Rain struct {
				ThreeH float64 `json:"3h"`
			} `json:"rain"`
			DtTxt string `json:"dt_txt"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		sample := weather.ForecastSample{
			Timestamp: time.Unix(item.Dt, 0).UTC(),
			Temp:      item.Main.Temp,
			TempMin:   item.Main.TempMin,
			TempMax:   item.Main.TempMax,
			Clouds:    item.Clouds.All,
			Rain:      item.Rain.ThreeH,
			WindSpeed: item.Wind.Speed,
			WindDeg:   item.Wind.Deg,
			TimeOfDay: timeOfDay(item.DtTxt, item.Dt),
		}
		if len(item.Weather) > 0 {
			sample.Main = item.Weather[0].Main
			sample.Description = item.Weather[0].Description
			sample.Icon = item.Weather[0].Icon
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// timeOfDay extracts "HH:MM" from the provider's "2006-01-02 15:04:05"
// string, falling back to the unix timestamp.
func timeOfDay(dtTxt string, dt int64) string {
	parts := strings.SplitN(dtTxt, " ", 2)
	if len(parts) == 2 && len(parts[1]) >= 5 {
		return parts[1][:5]
	}
	return time.Unix(dt, 0).UTC().Format("15:04")
}
