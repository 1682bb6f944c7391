package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/pricing"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
)

var _ ports.PromotionCatalog = &PromotionCatalog{}

type promotionEntry struct {
	promotion  pricing.Promotion
	vendorRef  *kernel.UUID
	validFrom  time.Time
	validUntil time.Time
}

// PromotionCatalog resolves promo codes. Codes are matched case-insensitively.
type PromotionCatalog struct {
	byCode map[string]promotionEntry
}

func NewPromotionCatalog(cfg []PromotionConfig) (*PromotionCatalog, error) {
	c := &PromotionCatalog{byCode: make(map[string]promotionEntry, len(cfg))}
	for idx, pc := range cfg {
		code := normalizeCode(pc.Code)
		if code == "" {
			return nil, fmt.Errorf("promotion %d: %w", idx, errs.NewValueIsRequiredError("code"))
		}
		if _, dup := c.byCode[code]; dup {
			return nil, fmt.Errorf("promotion %d: duplicate code %s", idx, code)
		}

		id := pc.ID
		if id == "" {
			id = code
		}
		entry := promotionEntry{
			promotion: pricing.Promotion{
				ID:          id,
				Code:        code,
				Title:       pc.Title,
				Kind:        pc.Kind,
				Percent:     pc.Percent,
				Amount:      pc.Amount,
				MaxDiscount: pc.MaxDiscount,
				MinSubtotal: pc.MinSubtotal,
				CreatedAt:   pc.CreatedAt.UTC(),
			},
			validFrom:  pc.ValidFrom,
			validUntil: pc.ValidUntil,
		}
		if err := entry.promotion.Validate(); err != nil {
			return nil, fmt.Errorf("promotion %s: %w", code, err)
		}
		if pc.Vendor != "" {
			vendorRef, err := kernel.UUIDFromString(pc.Vendor)
			if err != nil {
				return nil, fmt.Errorf("promotion %s vendor: %w", code, err)
			}
			entry.vendorRef = &vendorRef
		}
		c.byCode[code] = entry
	}
	return c, nil
}

// Resolve returns the promotions for codes, skipping repeats. The first code
// that is unknown, restricted to another vendor or outside its validity
// window fails the whole call.
func (c *PromotionCatalog) Resolve(_ context.Context, codes []string, vendorRef kernel.UUID, at time.Time) ([]pricing.Promotion, error) {
	out := make([]pricing.Promotion, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, raw := range codes {
		code := normalizeCode(raw)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}

		entry, ok := c.byCode[code]
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause("promo code", fmt.Errorf("%s is unknown", code))
		}
		if entry.vendorRef != nil && !entry.vendorRef.IsEqual(vendorRef) {
			return nil, errs.NewValueIsInvalidErrorWithCause("promo code", fmt.Errorf("%s is not valid for this restaurant", code))
		}
		if !entry.validFrom.IsZero() && at.Before(entry.validFrom) {
			return nil, errs.NewValueIsInvalidErrorWithCause("promo code", fmt.Errorf("%s is not active yet", code))
		}
		if !entry.validUntil.IsZero() && !at.Before(entry.validUntil) {
			return nil, errs.NewValueIsInvalidErrorWithCause("promo code", fmt.Errorf("%s has expired", code))
		}
		out = append(out, entry.promotion)
	}
	return out, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
