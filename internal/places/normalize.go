package places

import (
	"path"
	"strconv"
	"strings"

	"github.com/alexivanou/placenotes-api/internal/model"
)

// Record is one provider-native place record.
// The variants are *GooglePlace and *NominatimPlace.
type Record interface {
	isRecord()
}

// Normalize maps a provider record onto the SearchResult contract.
// It reports false when the record has no provider identifier; it never fails otherwise.
func Normalize(r Record) (model.SearchResult, bool) {
	switch rec := r.(type) {
	case *GooglePlace:
		if rec == nil {
			return model.SearchResult{}, false
		}
		return normalizeGoogle(rec)
	case *NominatimPlace:
		if rec == nil {
			return model.SearchResult{}, false
		}
		return normalizeNominatim(rec)
	default:
		return model.SearchResult{}, false
	}
}

// NormalizeAll normalizes records in order, dropping those without an identifier
func NormalizeAll(records []Record) []model.SearchResult {
	results := make([]model.SearchResult, 0, len(records))
	for _, r := range records {
		if res, ok := Normalize(r); ok {
			results = append(results, res)
		}
	}
	return results
}

func normalizeGoogle(p *GooglePlace) (model.SearchResult, bool) {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return model.SearchResult{}, false
	}

	res := model.SearchResult{
		PlaceID:          id,
		Types:            nonNil(p.Types),
		FormattedAddress: p.FormattedAddress,
		Rating:           p.Rating,
		UserRatingCount:  p.UserRatingCount,
		Photos:           []string{},
		Icon:             iconURI(p.IconMaskBaseURI),
		BusinessStatus:   p.BusinessStatus,
	}
	if p.DisplayName != nil {
		res.Name = p.DisplayName.Text
	}
	if p.Location != nil {
		res.Geometry.Location = model.Location{Lat: p.Location.Latitude, Lng: p.Location.Longitude}
	}
	if p.CurrentOpeningHours != nil {
		res.OpeningHours.OpenNow = p.CurrentOpeningHours.OpenNow
	}
	for _, photo := range p.Photos {
		if photo.Name != "" {
			res.Photos = append(res.Photos, photo.Name)
		}
	}
	if p.EditorialSummary != nil {
		res.Description = p.EditorialSummary.Text
	}
	return res, true
}

func normalizeNominatim(p *NominatimPlace) (model.SearchResult, bool) {
	if p.PlaceID == 0 {
		return model.SearchResult{}, false
	}

	name := p.Name
	if name == "" {
		name = strings.TrimSpace(strings.Split(p.DisplayName, ",")[0])
	}

	types := make([]string, 0, 2)
	for _, t := range []string{p.Type, p.Class} {
		if t != "" {
			types = append(types, t)
		}
	}

	return model.SearchResult{
		PlaceID:          strconv.FormatInt(p.PlaceID, 10),
		Name:             name,
		Types:            types,
		FormattedAddress: p.DisplayName,
		Geometry: model.Geometry{
			Location: model.Location{Lat: parseCoord(p.Lat), Lng: parseCoord(p.Lon)},
		},
		Photos:      []string{},
		Icon:        p.Icon,
		Description: nominatimDescription(p),
	}, true
}

// nominatimDescription reads "type (class), city, state, country", falling back to the display name
func nominatimDescription(p *NominatimPlace) string {
	var parts []string
	if p.Type != "" && p.Class != "" {
		parts = append(parts, p.Type+" ("+p.Class+")")
	}
	if a := p.Address; a != nil {
		for _, part := range []string{a.City, a.State, a.Country} {
			if part != "" {
				parts = append(parts, part)
			}
		}
	}
	if len(parts) == 0 {
		return p.DisplayName
	}
	return strings.Join(parts, ", ")
}

// iconURI turns the Places API icon mask base into a fetchable PNG URI
func iconURI(base string) string {
	if base == "" || path.Ext(base) != "" {
		return base
	}
	return base + ".png"
}

func parseCoord(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
