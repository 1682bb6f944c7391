// Package catalog serves tariffs, promotions and driver incentives from a
// configuration file. The file is read once with viper; values are immutable
// afterwards, so the providers are safe for concurrent use.
package catalog

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/pricing"
)

// Config is the shape of the catalog file.
type Config struct {
	Tariffs    TariffsConfig     `mapstructure:"tariffs"`
	Promotions []PromotionConfig `mapstructure:"promotions"`
	Incentives IncentivesConfig  `mapstructure:"incentives"`
	Menu       []MenuItemConfig  `mapstructure:"menu"`
}

type FeeRuleConfig struct {
	Flat                kernel.Money `mapstructure:"flat"`
	Percent             kernel.Rate  `mapstructure:"percent"`
	PerKm               kernel.Money `mapstructure:"per_km"`
	FreeAbove           kernel.Money `mapstructure:"free_above"`
	SmallOrderBelow     kernel.Money `mapstructure:"small_order_below"`
	SmallOrderSurcharge kernel.Money `mapstructure:"small_order_surcharge"`
	Min                 kernel.Money `mapstructure:"min"`
	Max                 kernel.Money `mapstructure:"max"`
}

func (c FeeRuleConfig) rule() pricing.FeeRule {
	return pricing.FeeRule{
		Flat:                c.Flat,
		Percent:             c.Percent,
		PerKm:               c.PerKm,
		FreeAbove:           c.FreeAbove,
		SmallOrderBelow:     c.SmallOrderBelow,
		SmallOrderSurcharge: c.SmallOrderSurcharge,
		Min:                 c.Min,
		Max:                 c.Max,
	}
}

type TariffConfig struct {
	TaxRate        kernel.Rate   `mapstructure:"tax_rate"`
	CommissionRate kernel.Rate   `mapstructure:"commission_rate"`
	DeliveryFee    FeeRuleConfig `mapstructure:"delivery_fee"`
	ServiceFee     FeeRuleConfig `mapstructure:"service_fee"`
}

func (c TariffConfig) tariff() pricing.Tariff {
	return pricing.Tariff{
		TaxRate:        c.TaxRate,
		CommissionRate: c.CommissionRate,
		DeliveryFee:    c.DeliveryFee.rule(),
		ServiceFee:     c.ServiceFee.rule(),
	}
}

// VendorTariffs overrides the shared tariffs for one vendor.
type VendorTariffs struct {
	Default    *TariffConfig           `mapstructure:"default"`
	Categories map[string]TariffConfig `mapstructure:"categories"`
}

// TariffsConfig holds tariffs at every level of the lookup chain. Vendors
// are keyed by vendor id.
type TariffsConfig struct {
	Default    TariffConfig             `mapstructure:"default"`
	Categories map[string]TariffConfig  `mapstructure:"categories"`
	Vendors    map[string]VendorTariffs `mapstructure:"vendors"`
}

type PromotionConfig struct {
	ID          string                `mapstructure:"id"`
	Code        string                `mapstructure:"code"`
	Title       string                `mapstructure:"title"`
	Kind        pricing.PromotionKind `mapstructure:"kind"`
	Percent     kernel.Rate           `mapstructure:"percent"`
	Amount      kernel.Money          `mapstructure:"amount"`
	MaxDiscount kernel.Money          `mapstructure:"max_discount"`
	MinSubtotal kernel.Money          `mapstructure:"min_subtotal"`
	Vendor      string                `mapstructure:"vendor"`
	ValidFrom   time.Time             `mapstructure:"valid_from"`
	ValidUntil  time.Time             `mapstructure:"valid_until"`
	CreatedAt   time.Time             `mapstructure:"created_at"`
}

// PeakWindow is a daily clock range such as 11:30-13:30.
type PeakWindow struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

type IncentivesConfig struct {
	BaseBonus   kernel.Money  `mapstructure:"base_bonus"`
	PeakBonus   kernel.Money  `mapstructure:"peak_bonus"`
	PeakHours   []PeakWindow  `mapstructure:"peak_hours"`
	LatePenalty kernel.Money  `mapstructure:"late_penalty"`
	LateGrace   time.Duration `mapstructure:"late_grace"`
	Timezone    string        `mapstructure:"timezone"`
}

// Load reads the catalog file at path. The format follows the extension.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	opt := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = DecodeHook()
		dc.ErrorUnused = true
	})
	if err := v.Unmarshal(&cfg, opt); err != nil {
		return Config{}, fmt.Errorf("decode catalog: %w", err)
	}
	return cfg, nil
}

// Providers bundles the catalog-backed ports built from one Config.
type Providers struct {
	Tariffs    *TariffProvider
	Promotions *PromotionCatalog
	Incentives *DriverIncentives
}

func NewProviders(cfg Config) (Providers, error) {
	tariffs, err := NewTariffProvider(cfg.Tariffs)
	if err != nil {
		return Providers{}, err
	}
	promotions, err := NewPromotionCatalog(cfg.Promotions)
	if err != nil {
		return Providers{}, err
	}
	incentives, err := NewDriverIncentives(cfg.Incentives)
	if err != nil {
		return Providers{}, err
	}
	return Providers{Tariffs: tariffs, Promotions: promotions, Incentives: incentives}, nil
}
