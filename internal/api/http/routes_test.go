package httpapi

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatus struct {
	states int
	icons  int
}

func (f fakeStatus) ActiveStates() int { return f.states }
func (f fakeStatus) CachedIcons() int  { return f.icons }

func TestStatusEndpoint(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, fakeStatus{states: 3, icons: 7}, time.Now().Add(-90*time.Second))

	req := httptest.NewRequest("GET", "/api/v1/status", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		ActiveStates  int `json:"activeStates"`
		CachedIcons   int `json:"cachedIcons"`
		UptimeSeconds int `json:"uptimeSeconds"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, body.ActiveStates)
	assert.Equal(t, 7, body.CachedIcons)
	assert.GreaterOrEqual(t, body.UptimeSeconds, 90)
}

func TestUnknownRouteReturns404(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, fakeStatus{}, time.Now())

	req := httptest.NewRequest("GET", "/api/v1/nope", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
