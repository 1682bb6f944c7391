package catalog

import (
	"context"
	"fmt"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
)

var _ ports.DriverIncentives = &DriverIncentives{}

type clockWindow struct {
	start, end time.Duration
}

// contains reports whether offset (time since local midnight) falls in the
// window. Windows with end before start wrap past midnight.
func (w clockWindow) contains(offset time.Duration) bool {
	if w.start <= w.end {
		return offset >= w.start && offset < w.end
	}
	return offset >= w.start || offset < w.end
}

// DriverIncentives pays a flat bonus per delivery, plus a peak bonus when the
// delivery lands inside a peak window, and charges a penalty when the order
// arrives later than its estimate plus the grace period.
type DriverIncentives struct {
	baseBonus   kernel.Money
	peakBonus   kernel.Money
	peaks       []clockWindow
	latePenalty kernel.Money
	lateGrace   time.Duration
	location    *time.Location
}

func NewDriverIncentives(cfg IncentivesConfig) (*DriverIncentives, error) {
	d := &DriverIncentives{
		baseBonus:   cfg.BaseBonus,
		peakBonus:   cfg.PeakBonus,
		latePenalty: cfg.LatePenalty,
		lateGrace:   cfg.LateGrace,
		location:    time.UTC,
	}
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("incentives timezone: %w", err)
		}
		d.location = loc
	}
	for _, pw := range cfg.PeakHours {
		start, err := parseClock(pw.Start)
		if err != nil {
			return nil, err
		}
		end, err := parseClock(pw.End)
		if err != nil {
			return nil, err
		}
		d.peaks = append(d.peaks, clockWindow{start: start, end: end})
	}
	return d, nil
}

func (d *DriverIncentives) Resolve(_ context.Context, _ kernel.UUID, o *order.Order, deliveredAt time.Time) (ports.Incentive, error) {
	incentive := ports.Incentive{Bonus: d.baseBonus}

	local := deliveredAt.In(d.location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, d.location)
	offset := local.Sub(midnight)
	for _, w := range d.peaks {
		if w.contains(offset) {
			incentive.Bonus = incentive.Bonus.Add(d.peakBonus)
			break
		}
	}

	if eta := o.EstimatedDeliveryTime(); eta != nil && deliveredAt.After(eta.Add(d.lateGrace)) {
		incentive.Penalty = d.latePenalty
	}
	return incentive, nil
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("peak hour %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
