package places

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alexivanou/placenotes-api/internal/model"
)

const (
	// DefaultNominatimBaseURL points at a self-hosted Nominatim instance.
	DefaultNominatimBaseURL = "http://localhost:8080"

	nominatimMaxResults = 40
	reverseZoom         = 18
)

var errPhotosUnsupported = errors.New("nominatim does not provide photos")

// NominatimPlace is a search or reverse result in Nominatim's json format
type NominatimPlace struct {
	PlaceID     int64             `json:"place_id"`
	Licence     string            `json:"licence,omitempty"`
	OSMType     string            `json:"osm_type,omitempty"`
	OSMID       int64             `json:"osm_id,omitempty"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Class       string            `json:"class,omitempty"`
	Type        string            `json:"type,omitempty"`
	PlaceRank   int               `json:"place_rank,omitempty"`
	Importance  float64           `json:"importance,omitempty"`
	AddressType string            `json:"addresstype,omitempty"`
	Name        string            `json:"name,omitempty"`
	DisplayName string            `json:"display_name"`
	Icon        string            `json:"icon,omitempty"`
	Address     *NominatimAddress `json:"address,omitempty"`
	BoundingBox []string          `json:"boundingbox,omitempty"`
}

func (*NominatimPlace) isRecord() {}

// NominatimAddress holds the address details requested with addressdetails=1
type NominatimAddress struct {
	HouseNumber string `json:"house_number,omitempty"`
	Road        string `json:"road,omitempty"`
	Suburb      string `json:"suburb,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

type nominatimReverse struct {
	NominatimPlace
	Error string `json:"error,omitempty"`
}

// Nominatim is an OpenStreetMap Nominatim client
type Nominatim struct {
	baseURL string
	t       *transport
}

// NewNominatim creates a Nominatim client
func NewNominatim(opts ...Option) *Nominatim {
	o := buildOptions(DefaultNominatimBaseURL, opts)
	if o.userAgent == "" {
		o.userAgent = "oh-yeah-that-place-app/1.0"
	}
	return &Nominatim{
		baseURL: strings.TrimRight(o.baseURL, "/"),
		t:       newTransport("nominatim", o),
	}
}

func (n *Nominatim) Name() string { return "nominatim" }

// TextSearch runs /search
func (n *Nominatim) TextSearch(ctx context.Context, query string, limit int) ([]Record, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(clamp(limit, 1, nominatimMaxResults)))

	var results []*NominatimPlace
	if err := n.t.do(ctx, "search", http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil, nil, &results); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, r)
		}
	}
	return records, nil
}

// NearbySearch runs /reverse. Nominatim answers "no match" with an error body, not a status code.
func (n *Nominatim) NearbySearch(ctx context.Context, lat, lng float64) ([]Record, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("zoom", strconv.Itoa(reverseZoom))

	var result nominatimReverse
	if err := n.t.do(ctx, "reverse", http.MethodGet, n.baseURL+"/reverse?"+params.Encode(), nil, nil, &result); err != nil {
		return nil, err
	}
	if result.Error != "" || result.DisplayName == "" {
		return nil, nil
	}
	place := result.NominatimPlace
	return []Record{&place}, nil
}

// FetchPhotoMedia always fails; Nominatim has no photo media
func (n *Nominatim) FetchPhotoMedia(ctx context.Context, photoName string, maxHeightPx int) (model.PhotoDetail, error) {
	return model.PhotoDetail{}, unavailable(n.Name(), "photoMedia", errPhotosUnsupported)
}

// Ping checks the /status endpoint
func (n *Nominatim) Ping(ctx context.Context) error {
	return n.t.do(ctx, "status", http.MethodGet, n.baseURL+"/status", nil, nil, nil)
}
