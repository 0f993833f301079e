package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrontRowWithJ/WeatherBot/internal/weather"
)

func TestStateRoundTrip(t *testing.T) {
	st := State{
		Day:        3,
		View:       weather.ViewWind,
		Days:       5,
		Location:   "Rio de Janeiro",
		Lat:        -22.9068,
		Lon:        -43.1729,
		LastUpdate: t0.Unix(),
	}

	decoded, err := DecodeState(EncodeState(st))
	require.NoError(t, err)
	assert.Equal(t, st, decoded)
}

// Location is raw user input; separator and field syntax characters in it
// must survive the footer round trip instead of corrupting the payload.
func TestStateRoundTripWithHostileLocation(t *testing.T) {
	for _, loc := range []string{"Foo|Bar", "a=b", "50% Sure", "Trailing "} {
		st := State{
			Day:        1,
			View:       weather.ViewPrecipitation,
			Days:       5,
			Location:   loc,
			Lat:        1,
			Lon:        2,
			LastUpdate: t0.Unix(),
		}
		decoded, err := DecodeState(EncodeState(st))
		require.NoError(t, err, "location %q", loc)
		assert.Equal(t, st, decoded, "location %q", loc)
	}
}

func TestEncodeStateLayout(t *testing.T) {
	st := State{Day: 0, View: weather.ViewTemperature, Days: 5, Location: "Paris", Lat: 48.8566, Lon: 2.3522, LastUpdate: 1724684400}
	assert.Equal(t, "day=0|view=Temperature|days=5|loc=Paris|lat=48.8566|lon=2.3522|ts=1724684400", EncodeState(st))
}

func TestDecodeStateRejectsBadPayloads(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"missing field":   "day=0|view=Temperature|days=5|loc=Paris|lat=1|lon=2",
		"duplicate field": "day=0|day=1|view=Temperature|days=5|loc=Paris|lat=1|lon=2|ts=0",
		"unknown field":   "day=0|view=Temperature|days=5|loc=Paris|lat=1|lon=2|ts=0|extra=1",
		"no separator":    "day=0|view",
		"bad day":         "day=first|view=Temperature|days=5|loc=Paris|lat=1|lon=2|ts=0",
		"bad view":        "day=0|view=Humidity|days=5|loc=Paris|lat=1|lon=2|ts=0",
		"bad lat":         "day=0|view=Temperature|days=5|loc=Paris|lat=north|lon=2|ts=0",
		"bad loc escape":  "day=0|view=Temperature|days=5|loc=100%zz|lat=1|lon=2|ts=0",
		"bad ts":          "day=0|view=Temperature|days=5|loc=Paris|lat=1|lon=2|ts=later",
	}
	for name, payload := range cases {
		_, err := DecodeState(payload)
		assert.Error(t, err, name)
	}
}

func TestDecodeStateAcceptsAnyFieldOrder(t *testing.T) {
	decoded, err := DecodeState("ts=1724684400|loc=Oslo|view=Wind|lon=10.75|lat=59.91|days=5|day=2")
	require.NoError(t, err)
	assert.Equal(t, 2, decoded.Day)
	assert.Equal(t, weather.ViewWind, decoded.View)
	assert.Equal(t, "Oslo", decoded.Location)
}
