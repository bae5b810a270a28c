package model

// Status is the result vocabulary shared by all search endpoints
type Status string

const (
	StatusOK             Status = "OK"
	StatusZeroResults    Status = "ZERO_RESULTS"
	StatusInvalidRequest Status = "INVALID_REQUEST"
	StatusError          Status = "ERROR"
)

// SearchResult is the provider-independent place contract returned to clients
type SearchResult struct {
	PlaceID          string       `json:"placeId"`
	Name             string       `json:"name"`
	Types            []string     `json:"types"`
	FormattedAddress string       `json:"formattedAddress"`
	Geometry         Geometry     `json:"geometry"`
	Rating           float64      `json:"rating"`
	UserRatingCount  int          `json:"userRatingCount"`
	OpeningHours     OpeningHours `json:"openingHours"`
	Photos           []string     `json:"photos"`
	Icon             string       `json:"icon"`
	BusinessStatus   string       `json:"businessStatus"`
	Description      string       `json:"description"`
}

// Geometry wraps the place location
type Geometry struct {
	Location Location `json:"location"`
}

// Location represents WGS84 coordinates in degrees
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// OpeningHours holds the current open state; false when unknown
type OpeningHours struct {
	OpenNow bool `json:"openNow"`
}

// PhotoDetail is a resolved photo identifier
type PhotoDetail struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SearchResponse represents the response for a text search
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Status  Status         `json:"status"`
	Error   string         `json:"error,omitempty"`
}

// ReverseGeocodeResponse represents the response for a coordinate lookup.
// Result is nil for ZERO_RESULTS.
type ReverseGeocodeResponse struct {
	Result *SearchResult `json:"result"`
	Status Status        `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// PhotoDetailsRequest is the body accepted by the photo endpoint
type PhotoDetailsRequest struct {
	Photos      []string `json:"photos"`
	MaxHeightPx int      `json:"maxHeightPx,omitempty"`
}

// PhotoDetailsResponse represents the response for photo resolution
type PhotoDetailsResponse struct {
	Photos []PhotoDetail `json:"photos"`
	Status Status        `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Upstream bool   `json:"upstream"`
}
