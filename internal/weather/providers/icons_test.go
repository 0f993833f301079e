package providers

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchIconDecodesPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/10d@2x.png", r.URL.Path)
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	c := NewIconClient(srv.Client())
	c.baseURL = srv.URL

	icon, err := c.FetchIcon(context.Background(), "10d")
	require.NoError(t, err)
	assert.Equal(t, 4, icon.Bounds().Dx())
}

func TestFetchIconRejectsGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a png"))
	}))
	defer srv.Close()

	c := NewIconClient(srv.Client())
	c.baseURL = srv.URL
	c.httpCfg.Backoff = fastBackoff()

	_, err := c.FetchIcon(context.Background(), "10d")
	assert.Error(t, err)
}
