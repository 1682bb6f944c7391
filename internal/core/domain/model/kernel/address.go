package kernel

import (
	"encoding/json"
	"errors"
	"strings"

	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when an Address was not created via NewAddress.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress")

// Address is the delivery destination of an order. Street and city are required;
// coordinates are optional because not every client geocodes.
type Address struct {
	street       string
	city         string
	postalCode   string
	instructions string
	point        *GeoPoint
	guard        guard.ConstructorGuard
}

// NewAddress validates and builds an Address.
func NewAddress(street, city, postalCode, instructions string, point *GeoPoint) (Address, error) {
	var problems []error
	if strings.TrimSpace(street) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("address.street"))
	}
	if strings.TrimSpace(city) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("address.city"))
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			problems = append(problems, err)
		}
	}
	if err := errors.Join(problems...); err != nil {
		return Address{}, err
	}

	var p *GeoPoint
	if point != nil {
		copied := *point
		p = &copied
	}
	return Address{
		street:       strings.TrimSpace(street),
		city:         strings.TrimSpace(city),
		postalCode:   strings.TrimSpace(postalCode),
		instructions: instructions,
		point:        p,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (a Address) Street() string { return a.street }
func (a Address) City() string { return a.city }
func (a Address) PostalCode() string { return a.postalCode }
func (a Address) Instructions() string { return a.instructions }

// Point returns a copy of the coordinates, or nil when the address is not geocoded.
func (a Address) Point() *GeoPoint {
	if a.point == nil {
		return nil
	}
	copied := *a.point
	return &copied
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

type addressJSON struct {
	Street       string    `json:"street"`
	City         string    `json:"city"`
	PostalCode   string    `json:"postalCode,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
	Point        *GeoPoint `json:"point,omitempty"`
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:       a.street,
		City:         a.city,
		PostalCode:   a.postalCode,
		Instructions: a.instructions,
		Point:        a.point,
	})
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var raw addressJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		// the nested point already reports a validation error of its own
		if errs.IsValidation(err) {
			return err
		}
		return errs.NewValueIsInvalidErrorWithCause("address", err)
	}
	parsed, err := NewAddress(raw.Street, raw.City, raw.PostalCode, raw.Instructions, raw.Point)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
