package order

import (
	"fmt"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

// SettlementTerms are the inputs resolved outside the aggregate at delivery:
// the tariff's commission rate and the driver incentive collaborator's
// bonus and penalty.
type SettlementTerms struct {
	CommissionRate kernel.Rate
	DriverBonus    kernel.Money
	DriverPenalty  kernel.Money
}

// Settlement is the three-way split frozen by the delivered transition.
// DriverEarnings is nil when no driver was attached.
type Settlement struct {
	PlatformCommission kernel.Money  `json:"platformCommission"`
	RestaurantEarnings kernel.Money  `json:"restaurantEarnings"`
	DriverEarnings     *kernel.Money `json:"driverEarnings,omitempty"`
	CommissionRate     kernel.Rate   `json:"commissionRate"`
	DriverBonus        kernel.Money  `json:"driverBonus"`
	DriverPenalty      kernel.Money  `json:"driverPenalty"`
	SettledAt          time.Time     `json:"settledAt"`
}

func (s Settlement) clone() *Settlement {
	if s.DriverEarnings != nil {
		earnings := *s.DriverEarnings
		s.DriverEarnings = &earnings
	}
	return &s
}

// Review is the customer's feedback on a delivered order.
// CustomerRating is the customer's rating of the order as a whole.
type Review struct {
	CustomerRating   int       `json:"customerRating"`
	DriverRating     int       `json:"driverRating"`
	RestaurantRating int       `json:"restaurantRating"`
	Comment          string    `json:"comment,omitempty"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

const (
	MinRating = 1
	MaxRating = 5
)

func (r Review) Validate() error {
	for name, v := range map[string]int{
		"customer rating":   r.CustomerRating,
		"driver rating":     r.DriverRating,
		"restaurant rating": r.RestaurantRating,
	} {
		if v < MinRating || v > MaxRating {
			return errs.NewValueIsOutOfRangeErrorWithCause(name, v, MinRating, MaxRating,
				fmt.Errorf("ratings are whole stars"))
		}
	}
	return nil
}
