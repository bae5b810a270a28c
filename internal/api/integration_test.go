package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexivanou/placenotes-api/internal/cache"
	"github.com/alexivanou/placenotes-api/internal/config"
	"github.com/alexivanou/placenotes-api/internal/database"
	"github.com/alexivanou/placenotes-api/internal/model"
	"github.com/alexivanou/placenotes-api/internal/places"
	"github.com/alexivanou/placenotes-api/internal/repository"
	"github.com/alexivanou/placenotes-api/internal/seeder"
	"github.com/alexivanou/placenotes-api/internal/service"
	"github.com/alexivanou/placenotes-api/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type upstreamCounters struct {
	textSearch atomic.Int32
	photos     atomic.Int32
}

// fakeGoogle serves a minimal Places API (New)
func fakeGoogle(t *testing.T, counters *upstreamCounters) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/places:searchText", func(w http.ResponseWriter, r *http.Request) {
		counters.textSearch.Add(1)
		var req struct {
			TextQuery string `json:"textQuery"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.TextQuery == "nothing" {
			fmt.Fprint(w, `{}`)
			return
		}
		fmt.Fprint(w, `{"places":[
			{"id":"casa","displayName":{"text":"Casa Cortes"},"formattedAddress":"Thornton, CO",
			 "location":{"latitude":40.087509,"longitude":-104.935554},"types":["restaurant"],
			 "rating":4.5,"userRatingCount":120,"currentOpeningHours":{"openNow":true},
			 "photos":[{"name":"places/casa/photos/a"},{"name":"places/casa/photos/b"}],
			 "businessStatus":"OPERATIONAL"},
			{"displayName":{"text":"no id"}}
		]}`)
	})
	mux.HandleFunc("/places:searchNearby", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"places":[{"id":"near","displayName":{"text":"Nearby"}}]}`)
	})
	mux.HandleFunc("/places/casa/photos/", func(w http.ResponseWriter, r *http.Request) {
		counters.photos.Add(1)
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/media")
		if strings.HasSuffix(name, "/broken") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"name":%q,"photoUri":"https://lh3.example/%s?h=%s"}`, name, name, r.URL.Query().Get("maxHeightPx"))
	})
	return httptest.NewServer(mux)
}

func setupIntegrationStack(t *testing.T) (http.Handler, *upstreamCounters) {
	counters := &upstreamCounters{}
	upstream := fakeGoogle(t, counters)
	t.Cleanup(upstream.Close)

	cfg := config.DBConfig{Name: fmt.Sprintf("testdb_%d", time.Now().UnixNano())}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	repos := repository.NewRepositories(db)
	require.NoError(t, repos.Note.BulkInsert(context.Background(), seeder.DefaultNotes()))

	logger := zaptest.NewLogger(t)
	provider, err := places.NewGoogle("test-key", places.WithBaseURL(upstream.URL), places.WithLogger(logger))
	require.NoError(t, err)

	svc := service.NewService(
		provider,
		cache.NewLRU[[]model.SearchResult](32, 0),
		cache.NewLRU[[]model.PhotoDetail](32, 0),
		repos.Note,
		service.WithLogger(logger),
		service.WithPhotoConcurrency(4),
	)
	statsCollector := stats.NewCollector(db, cfg, svc)

	return NewRouter(svc, statsCollector, []string{"*"}, logger), counters
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAPI_Integration_Search(t *testing.T) {
	handler, counters := setupIntegrationStack(t)

	rr := do(t, handler, "GET", "/search?query=mexican&limit=5", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp model.SearchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, model.StatusOK, resp.Status)
	require.Len(t, resp.Results, 1)

	place := resp.Results[0]
	assert.Equal(t, "casa", place.PlaceID)
	assert.Equal(t, "Casa Cortes", place.Name)
	assert.Equal(t, 40.087509, place.Geometry.Location.Lat)
	assert.True(t, place.OpeningHours.OpenNow)
	assert.Equal(t, []string{"places/casa/photos/a", "places/casa/photos/b"}, place.Photos)
	assert.Equal(t, "OPERATIONAL", place.BusinessStatus)
	assert.Equal(t, "", place.Description)

	rr = do(t, handler, "GET", "/search?query=mexican&limit=5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int32(1), counters.textSearch.Load(), "second identical search is served from cache")

	rr = do(t, handler, "DELETE", "/search/cache", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	do(t, handler, "GET", "/search?query=mexican&limit=5", "")
	assert.Equal(t, int32(2), counters.textSearch.Load())

	rr = do(t, handler, "GET", "/search?query=nothing", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ZERO_RESULTS"`)
	assert.Contains(t, rr.Body.String(), `"results":[]`)

	rr = do(t, handler, "GET", "/search?query=mexican&limit=51", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"INVALID_REQUEST"`)
}

func TestAPI_Integration_Reverse(t *testing.T) {
	handler, _ := setupIntegrationStack(t)

	rr := do(t, handler, "GET", "/search/reverse?lat=40.0848&lng=-104.9504", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp model.ReverseGeocodeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, "near", resp.Result.PlaceID)

	rr = do(t, handler, "GET", "/search/reverse?lat=0&lng=181", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_Integration_Photos(t *testing.T) {
	handler, counters := setupIntegrationStack(t)

	body := `{"photos":["places/casa/photos/a","places/casa/photos/broken","places/casa/photos/b"]}`
	rr := do(t, handler, "POST", "/search/photos", body)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp model.PhotoDetailsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, model.StatusOK, resp.Status)
	require.Len(t, resp.Photos, 2)
	assert.Equal(t, "places/casa/photos/a", resp.Photos[0].Name)
	assert.Equal(t, "https://lh3.example/places/casa/photos/a?h=800", resp.Photos[0].URI)
	assert.Equal(t, "places/casa/photos/b", resp.Photos[1].Name)

	do(t, handler, "POST", "/search/photos", body)
	assert.Equal(t, int32(3), counters.photos.Load())

	rr = do(t, handler, "POST", "/search/photos", `{"photos":[]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, handler, "POST", "/search/photos", `{"photos":["places/casa/photos/broken"]}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "404")
}

func TestAPI_Integration_Notes(t *testing.T) {
	handler, _ := setupIntegrationStack(t)

	rr := do(t, handler, "GET", "/api/place-notes", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Data   []model.PlaceNote `json:"data"`
		Status string            `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, model.EnvelopeSuccess, list.Status)
	require.Len(t, list.Data, 2)

	rr = do(t, handler, "POST", "/api/place-notes", `{"title":"Bakery","latitude":40.1,"longitude":-104.9}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created struct {
		Data model.PlaceNote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.True(t, created.Data.NotifyEnabled)
	assert.Equal(t, 1609.0, created.Data.NotifyDistance)
	id := created.Data.ID

	rr = do(t, handler, "PUT", "/api/place-notes/"+id, `{"note":"sourdough","notifyDistance":300}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, handler, "GET", "/api/place-notes/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got struct {
		Data model.PlaceNote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Bakery", got.Data.Title)
	require.NotNil(t, got.Data.Note)
	assert.Equal(t, "sourdough", *got.Data.Note)
	assert.Equal(t, 300.0, got.Data.NotifyDistance)

	rr = do(t, handler, "POST", "/api/place-notes", `{"title":"Nowhere","latitude":100,"longitude":0}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"error"`)

	rr = do(t, handler, "GET", "/api/place-notes?lat=40.087509&lng=-104.935554&radius=500", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Casa Cortes", list.Data[0].Title)

	rr = do(t, handler, "DELETE", "/api/place-notes/"+id, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(t, handler, "GET", "/api/place-notes/"+id, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = do(t, handler, "DELETE", "/api/place-notes/"+id, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_Integration_HealthAndStats(t *testing.T) {
	handler, _ := setupIntegrationStack(t)

	rr := do(t, handler, "GET", "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","provider":"google","upstream":true}`, rr.Body.String())

	do(t, handler, "GET", "/search?query=mexican", "")
	do(t, handler, "GET", "/search?query=mexican", "")

	rr = do(t, handler, "GET", "/api/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var s stats.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	assert.Equal(t, int64(2), s.Database.TotalNotes)
	assert.Equal(t, 1, s.Cache.Search.Entries)
	assert.Equal(t, uint64(1), s.Cache.Search.Hits)
}

func TestAPI_Integration_CORS(t *testing.T) {
	handler, _ := setupIntegrationStack(t)

	req := httptest.NewRequest("OPTIONS", "/search?query=x", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
