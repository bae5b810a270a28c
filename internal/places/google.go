package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexivanou/placenotes-api/internal/model"
)

const (
	// DefaultGoogleBaseURL is the Places API (New) endpoint.
	DefaultGoogleBaseURL = "https://places.googleapis.com/v1"

	googleMaxResults = 20
	nearbyRadius     = 1.0 // meters; effectively the closest place to the point
)

var googleFieldMask = strings.Join([]string{
	"places.id",
	"places.displayName",
	"places.formattedAddress",
	"places.location",
	"places.types",
	"places.rating",
	"places.userRatingCount",
	"places.currentOpeningHours",
	"places.photos",
	"places.iconMaskBaseUri",
	"places.businessStatus",
	"places.editorialSummary",
}, ",")

// GooglePlace is a place record as returned by the Places API (New).
// Every field except ID may be absent.
type GooglePlace struct {
	ID                  string              `json:"id"`
	DisplayName         *LocalizedText      `json:"displayName,omitempty"`
	FormattedAddress    string              `json:"formattedAddress,omitempty"`
	Location            *LatLng             `json:"location,omitempty"`
	Types               []string            `json:"types,omitempty"`
	Rating              float64             `json:"rating,omitempty"`
	UserRatingCount     int                 `json:"userRatingCount,omitempty"`
	CurrentOpeningHours *GoogleOpeningHours `json:"currentOpeningHours,omitempty"`
	Photos              []GooglePhoto       `json:"photos,omitempty"`
	IconMaskBaseURI     string              `json:"iconMaskBaseUri,omitempty"`
	BusinessStatus      string              `json:"businessStatus,omitempty"`
	EditorialSummary    *LocalizedText      `json:"editorialSummary,omitempty"`
}

func (*GooglePlace) isRecord() {}

// LocalizedText is a text value with its language
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// LatLng is the Places API coordinate pair
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GoogleOpeningHours holds the subset of opening hours the service reads
type GoogleOpeningHours struct {
	OpenNow             bool     `json:"openNow"`
	WeekdayDescriptions []string `json:"weekdayDescriptions,omitempty"`
}

// GooglePhoto references one photo of a place
type GooglePhoto struct {
	Name     string `json:"name"`
	WidthPx  int    `json:"widthPx,omitempty"`
	HeightPx int    `json:"heightPx,omitempty"`
}

type googleSearchResponse struct {
	Places []*GooglePlace `json:"places"`
}

type googleTextSearchRequest struct {
	TextQuery      string `json:"textQuery"`
	MaxResultCount int    `json:"maxResultCount"`
}

type googleNearbyRequest struct {
	LocationRestriction googleLocationRestriction `json:"locationRestriction"`
	MaxResultCount      int                       `json:"maxResultCount"`
}

type googleLocationRestriction struct {
	Circle googleCircle `json:"circle"`
}

type googleCircle struct {
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type googlePhotoMedia struct {
	Name     string `json:"name"`
	PhotoURI string `json:"photoUri"`
}

// Google is a Places API (New) client
type Google struct {
	baseURL string
	apiKey  string
	t       *transport
}

// NewGoogle creates a Places API client. An empty API key is an error.
func NewGoogle(apiKey string, opts ...Option) (*Google, error) {
	if apiKey == "" {
		return nil, errors.New("google places: API key is required")
	}
	o := buildOptions(DefaultGoogleBaseURL, opts)
	return &Google{
		baseURL: strings.TrimRight(o.baseURL, "/"),
		apiKey:  apiKey,
		t:       newTransport("google", o),
	}, nil
}

func (g *Google) Name() string { return "google" }

func (g *Google) header(withMask bool) http.Header {
	h := http.Header{}
	h.Set("X-Goog-Api-Key", g.apiKey)
	if withMask {
		h.Set("X-Goog-FieldMask", googleFieldMask)
	}
	return h
}

// TextSearch runs places:searchText
func (g *Google) TextSearch(ctx context.Context, query string, limit int) ([]Record, error) {
	body := googleTextSearchRequest{
		TextQuery:      query,
		MaxResultCount: clamp(limit, 1, googleMaxResults),
	}
	var resp googleSearchResponse
	if err := g.t.do(ctx, "searchText", http.MethodPost, g.baseURL+"/places:searchText", body, g.header(true), &resp); err != nil {
		return nil, err
	}
	return googleRecords(resp.Places), nil
}

// NearbySearch runs places:searchNearby restricted to a 1 m circle
func (g *Google) NearbySearch(ctx context.Context, lat, lng float64) ([]Record, error) {
	body := googleNearbyRequest{
		LocationRestriction: googleLocationRestriction{
			Circle: googleCircle{
				Center: LatLng{Latitude: lat, Longitude: lng},
				Radius: nearbyRadius,
			},
		},
		MaxResultCount: 1,
	}
	var resp googleSearchResponse
	if err := g.t.do(ctx, "searchNearby", http.MethodPost, g.baseURL+"/places:searchNearby", body, g.header(true), &resp); err != nil {
		return nil, err
	}
	if len(resp.Places) > 1 {
		resp.Places = resp.Places[:1]
	}
	return googleRecords(resp.Places), nil
}

// photoNamePattern keeps photo names from escaping the media path.
var photoNamePattern = regexp.MustCompile(`^places/[A-Za-z0-9_-]+/photos/[A-Za-z0-9_-]+$`)

// FetchPhotoMedia resolves a photo name (places/{id}/photos/{ref}) to its media URI
func (g *Google) FetchPhotoMedia(ctx context.Context, photoName string, maxHeightPx int) (model.PhotoDetail, error) {
	if photoName == "" {
		return model.PhotoDetail{}, unavailable(g.Name(), "photoMedia", errors.New("empty photo name"))
	}
	photoName = strings.TrimLeft(photoName, "/")
	if !photoNamePattern.MatchString(photoName) {
		return model.PhotoDetail{}, unavailable(g.Name(), "photoMedia", fmt.Errorf("malformed photo name %q", photoName))
	}
	params := url.Values{}
	params.Set("maxHeightPx", strconv.Itoa(maxHeightPx))
	params.Set("skipHttpRedirect", "true")
	reqURL := fmt.Sprintf("%s/%s/media?%s", g.baseURL, photoName, params.Encode())

	var media googlePhotoMedia
	if err := g.t.do(ctx, "photoMedia", http.MethodGet, reqURL, nil, g.header(false), &media); err != nil {
		return model.PhotoDetail{}, err
	}
	if media.PhotoURI == "" {
		return model.PhotoDetail{}, unavailable(g.Name(), "photoMedia", errors.New("response has no photoUri"))
	}
	return model.PhotoDetail{Name: photoName, URI: media.PhotoURI}, nil
}

// Ping reports whether the client is configured. The Places API has no free status endpoint.
func (g *Google) Ping(ctx context.Context) error {
	if g.apiKey == "" {
		return unavailable(g.Name(), "ping", errors.New("no API key"))
	}
	return nil
}

func googleRecords(places []*GooglePlace) []Record {
	records := make([]Record, 0, len(places))
	for _, p := range places {
		if p != nil {
			records = append(records, p)
		}
	}
	return records
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
