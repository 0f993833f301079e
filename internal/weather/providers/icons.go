package providers

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// IconClient fetches small condition icons from OpenWeatherMap's asset
// host. Fetches may fail transiently; the retry budget lives in the shared
// backoff config.
type IconClient struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewIconClient(client *http.Client) *IconClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather-icons",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &IconClient{
		baseURL: "https://openweathermap.org/img/wn",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: cb,
	}
}

// FetchIcon downloads and decodes the @2x icon bitmap for the given code.
func (c *IconClient) FetchIcon(ctx context.Context, code string) (image.Image, error) {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s/%s@2x.png", c.baseURL, code), nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	img, err := png.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", code, err)
	}
	return img, nil
}
