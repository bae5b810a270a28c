package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNominatimServer(t *testing.T, handler http.HandlerFunc) *Nominatim {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewNominatim(WithBaseURL(srv.URL), WithRateLimit(1000), WithUserAgent("placenotes-test/1.0"))
}

func TestNominatim_TextSearch(t *testing.T) {
	n := newNominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "thornton cafe", q.Get("q"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "1", q.Get("addressdetails"))
		assert.Equal(t, "40", q.Get("limit"))
		assert.Equal(t, "placenotes-test/1.0", r.Header.Get("User-Agent"))

		_, _ = w.Write([]byte(`[
			{"place_id":1,"lat":"40.1","lon":"-104.9","class":"amenity","type":"cafe","name":"Bean","display_name":"Bean, Thornton"},
			{"place_id":2,"lat":"40.2","lon":"-104.8","class":"shop","type":"bakery","name":"","display_name":"Loaf, Thornton","address":{"city":"Thornton"}}
		]`))
	})

	records, err := n.TextSearch(context.Background(), "thornton cafe", 50)
	require.NoError(t, err)

	results := NormalizeAll(records)
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].PlaceID)
	assert.Equal(t, "Bean", results[0].Name)
	assert.Equal(t, "Loaf", results[1].Name)
	assert.Equal(t, "bakery (shop), Thornton", results[1].Description)
}

func TestNominatim_Reverse(t *testing.T) {
	n := newNominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "40.0848", r.URL.Query().Get("lat"))
		assert.Equal(t, "-104.9504", r.URL.Query().Get("lon"))
		assert.Equal(t, "18", r.URL.Query().Get("zoom"))
		_, _ = w.Write([]byte(`{"place_id":99,"lat":"40.0848","lon":"-104.9504","class":"place","type":"house","display_name":"1 Main St, Thornton"}`))
	})

	records, err := n.NearbySearch(context.Background(), 40.0848, -104.9504)
	require.NoError(t, err)
	require.Len(t, records, 1)

	res, ok := Normalize(records[0])
	require.True(t, ok)
	assert.Equal(t, "99", res.PlaceID)
	assert.Equal(t, "1 Main St", res.Name)
}

func TestNominatim_ReverseNoMatch(t *testing.T) {
	n := newNominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	})

	records, err := n.NearbySearch(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNominatim_Failures(t *testing.T) {
	n := newNominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	})

	_, err := n.TextSearch(context.Background(), "x", 5)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = n.NearbySearch(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.ErrorIs(t, n.Ping(context.Background()), ErrUnavailable)
}

func TestNominatim_PhotosUnsupported(t *testing.T) {
	n := NewNominatim()
	_, err := n.FetchPhotoMedia(context.Background(), "p1", 800)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNominatim_Ping(t *testing.T) {
	n := newNominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/status", r.URL.Path)
		_, _ = w.Write([]byte("OK"))
	})

	assert.NoError(t, n.Ping(context.Background()))
}
