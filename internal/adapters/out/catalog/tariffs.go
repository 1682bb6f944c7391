package catalog

import (
	"context"
	"fmt"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/pricing"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
)

var _ ports.TariffProvider = &TariffProvider{}

type vendorTariffs struct {
	fallback   *pricing.Tariff
	categories map[string]pricing.Tariff
}

// TariffProvider resolves tariffs vendor+category first, then vendor, then
// category, then the default.
type TariffProvider struct {
	fallback   pricing.Tariff
	categories map[string]pricing.Tariff
	vendors    map[kernel.UUID]vendorTariffs
}

func NewTariffProvider(cfg TariffsConfig) (*TariffProvider, error) {
	p := &TariffProvider{
		fallback:   cfg.Default.tariff(),
		categories: categoryTariffs(cfg.Categories),
		vendors:    make(map[kernel.UUID]vendorTariffs, len(cfg.Vendors)),
	}
	for key, vc := range cfg.Vendors {
		vendorRef, err := kernel.UUIDFromString(key)
		if err != nil {
			return nil, fmt.Errorf("tariff vendor %q: %w", key, err)
		}
		vt := vendorTariffs{categories: categoryTariffs(vc.Categories)}
		if vc.Default != nil {
			t := vc.Default.tariff()
			vt.fallback = &t
		}
		p.vendors[vendorRef] = vt
	}
	return p, nil
}

func (p *TariffProvider) Tariff(_ context.Context, vendorRef kernel.UUID, category string) (pricing.Tariff, error) {
	if vendorRef.IsZero() {
		return pricing.Tariff{}, errs.NewValueIsRequiredError("vendor ref")
	}
	category = categoryKey(category)

	if vt, ok := p.vendors[vendorRef]; ok {
		if t, ok := vt.categories[category]; ok && category != "" {
			return t, nil
		}
		if vt.fallback != nil {
			return *vt.fallback, nil
		}
	}
	if t, ok := p.categories[category]; ok && category != "" {
		return t, nil
	}
	return p.fallback, nil
}

func categoryTariffs(in map[string]TariffConfig) map[string]pricing.Tariff {
	out := make(map[string]pricing.Tariff, len(in))
	for name, tc := range in {
		out[categoryKey(name)] = tc.tariff()
	}
	return out
}

// Config keys are case-insensitive, so categories are too.
func categoryKey(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
