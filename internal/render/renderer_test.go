package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrontRowWithJ/WeatherBot/internal/weather"
)

type staticIconSource struct {
	err error
}

func (s staticIconSource) FetchIcon(_ context.Context, code string) (image.Image, error) {
	if s.err != nil {
		return nil, s.err
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func testForecastSet(t *testing.T, days int) *weather.ForecastSet {
	t.Helper()
	var samples []weather.ForecastSample
	for day := 0; day < days; day++ {
		for slot, temp := range []float64{10, 12, 14, 11} {
			ts := time.Date(2024, 8, 26+day, slot*3+6, 0, 0, 0, time.UTC)
			samples = append(samples, weather.ForecastSample{
				Timestamp:   ts,
				Temp:        temp + float64(day),
				TempMin:     temp + float64(day),
				TempMax:     temp + float64(day),
				Description: "scattered clouds",
				Rain:        float64(slot) * 0.3,
				WindSpeed:   2.5 * float64(slot+1),
				WindDeg:     float64(slot * 90),
				TimeOfDay:   ts.Format("15:04"),
				Icon:        "03d",
			})
		}
	}
	set, err := weather.Aggregate(samples)
	require.NoError(t, err)
	return set
}

func TestRenderProducesFixedCanvas(t *testing.T) {
	r := NewRenderer(NewIconCache(staticIconSource{}))
	set := testForecastSet(t, 5)

	data, err := r.Render(context.Background(), set, 0, weather.ViewTemperature, "Paris")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 700, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestRenderIsIdempotent(t *testing.T) {
	r := NewRenderer(NewIconCache(staticIconSource{}))
	set := testForecastSet(t, 3)

	for _, view := range []weather.View{weather.ViewTemperature, weather.ViewPrecipitation, weather.ViewWind} {
		first, err := r.Render(context.Background(), set, 1, view, "Paris")
		require.NoError(t, err)
		second, err := r.Render(context.Background(), set, 1, view, "Paris")
		require.NoError(t, err)
		assert.True(t, bytes.Equal(first, second), "view %s not idempotent", view)
	}
}

func TestRenderAllViews(t *testing.T) {
	r := NewRenderer(NewIconCache(staticIconSource{}))
	set := testForecastSet(t, 5)

	for _, view := range []weather.View{weather.ViewTemperature, weather.ViewPrecipitation, weather.ViewWind} {
		for day := 0; day < set.Pages(); day++ {
			_, err := r.Render(context.Background(), set, day, view, "Paris")
			assert.NoError(t, err, "view %s day %d", view, day)
		}
	}
}

func TestRenderFewerThanFiveDays(t *testing.T) {
	r := NewRenderer(NewIconCache(staticIconSource{}))
	set := testForecastSet(t, 2)

	_, err := r.Render(context.Background(), set, 1, weather.ViewWind, "Oslo")
	assert.NoError(t, err)
}

func TestRenderPreconditions(t *testing.T) {
	r := NewRenderer(NewIconCache(staticIconSource{}))
	set := testForecastSet(t, 2)

	_, err := r.Render(context.Background(), set, 2, weather.ViewTemperature, "Paris")
	assert.ErrorIs(t, err, ErrRender)

	_, err = r.Render(context.Background(), set, -1, weather.ViewTemperature, "Paris")
	assert.ErrorIs(t, err, ErrRender)

	_, err = r.Render(context.Background(), set, 0, weather.View("Humidity"), "Paris")
	assert.ErrorIs(t, err, ErrRender)

	_, err = r.Render(context.Background(), nil, 0, weather.ViewTemperature, "Paris")
	assert.ErrorIs(t, err, ErrRender)
}

// A dead icon source must degrade to the placeholder glyph, never fail
// the whole render.
func TestRenderSurvivesIconFailure(t *testing.T) {
	r := NewRenderer(NewIconCache(staticIconSource{err: errors.New("icon host down")}))
	set := testForecastSet(t, 5)

	data, err := r.Render(context.Background(), set, 0, weather.ViewTemperature, "Paris")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestTemperatureFloor(t *testing.T) {
	samples := []weather.ForecastSample{
		{Temp: 10}, {Temp: 12}, {Temp: 14}, {Temp: 11},
	}
	assert.Equal(t, 9.0, temperatureFloor(samples))
}

func TestIconCacheCachesPerCode(t *testing.T) {
	src := &countingIconSource{}
	cache := NewIconCache(src)

	_, err := cache.Get(context.Background(), "01d")
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), "01d")
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), "02d")
	require.NoError(t, err)

	assert.Equal(t, 2, src.calls)
	assert.Equal(t, 2, cache.Len())
}

func TestIconCacheDoesNotCacheFailures(t *testing.T) {
	src := &countingIconSource{err: errors.New("transient")}
	cache := NewIconCache(src)

	_, err := cache.Get(context.Background(), "01d")
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	src.err = nil
	_, err = cache.Get(context.Background(), "01d")
	assert.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
}

type countingIconSource struct {
	calls int
	err   error
}

func (s *countingIconSource) FetchIcon(_ context.Context, code string) (image.Image, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}
