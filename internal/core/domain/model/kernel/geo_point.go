package kernel

import (
	"encoding/json"
	"errors"

	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

// ErrGeoPointIsNotConstructed is returned when a GeoPoint was not created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is a WGS84 coordinate attached to delivery addresses and tracking updates.
type GeoPoint struct {
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates latitude in [-90, 90] and longitude in [-180, 180].
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	var problems []error
	if lat < -90 || lat > 90 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("latitude", lat, -90, 90))
	}
	if lon < -180 || lon > 180 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("longitude", lon, -180, 180))
	}
	if err := errors.Join(problems...); err != nil {
		return GeoPoint{}, err
	}
	return GeoPoint{lat: lat, lon: lon, guard: guard.NewConstructorGuard()}, nil
}

func (p GeoPoint) Lat() float64 {
	return p.lat
}

func (p GeoPoint) Lon() float64 {
	return p.lon
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.lat == other.lat && p.lon == other.lon
}

type geoPointJSON struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoPointJSON{Lat: p.lat, Lon: p.lon})
}

// UnmarshalJSON revalidates the coordinates through NewGeoPoint.
func (p *GeoPoint) UnmarshalJSON(data []byte) error {
	var raw geoPointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("geo point", err)
	}
	parsed, err := NewGeoPoint(raw.Lat, raw.Lon)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
