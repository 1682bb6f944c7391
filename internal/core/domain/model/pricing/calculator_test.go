package pricing_test

import (
	"testing"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/pricing"
	"orderengine/internal/pkg/errs"

	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTariff() pricing.Tariff {
	return pricing.Tariff{
		TaxRate:        kernel.MustRate("0.08"),
		CommissionRate: kernel.MustRate("0.10"),
		DeliveryFee:    pricing.FeeRule{Flat: kernel.MustMoney("3.99")},
		ServiceFee:     pricing.FeeRule{Flat: kernel.MustMoney("1.50")},
	}
}

func sampleLines() []pricing.Line {
	return []pricing.Line{
		{UnitPrice: kernel.MustMoney("11.99"), ModifierAdjustments: []kernel.Money{kernel.MustMoney("1.00")}, Quantity: 2},
		{UnitPrice: kernel.MustMoney("3.99"), Quantity: 1},
		{UnitPrice: kernel.MustMoney("4.00"), Quantity: 1},
	}
}

func TestQuote(t *testing.T) {
	t.Run("should price the sample order", func(t *testing.T) {
		b, err := pricing.Quote(pricing.QuoteInput{
			Lines:  sampleLines(),
			Tariff: sampleTariff(),
			Tip:    kernel.MustMoney("5.00"),
		})

		require.NoError(t, err)
		assert.Equal(t, []kernel.Money{2598, 399, 400}, b.LineTotals)
		assert.Equal(t, "33.97", b.Subtotal.String())
		assert.Equal(t, "2.72", b.Taxes.String())
		assert.Equal(t, "3.99", b.DeliveryFee.String())
		assert.Equal(t, "1.50", b.ServiceFee.String())
		assert.Equal(t, "0.00", b.Discount.String())
		assert.Equal(t, "47.18", b.Total.String())
	})

	t.Run("should reject an empty item list", func(t *testing.T) {
		_, err := pricing.Quote(pricing.QuoteInput{Tariff: sampleTariff()})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject non-positive quantity and negative price", func(t *testing.T) {
		_, err := pricing.Quote(pricing.QuoteInput{
			Lines:  []pricing.Line{{UnitPrice: -1, Quantity: 0}},
			Tariff: sampleTariff(),
		})

		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "quantity")
		assert.Contains(t, err.Error(), "unit price")
	})

	t.Run("should reject a negative tip", func(t *testing.T) {
		_, err := pricing.Quote(pricing.QuoteInput{Lines: sampleLines(), Tip: -1})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should hold the total formula for random orders", func(t *testing.T) {
		fake := faker.New()
		for range 200 {
			lines := make([]pricing.Line, fake.IntBetween(1, 6))
			var sum kernel.Money
			for i := range lines {
				lines[i] = pricing.Line{
					UnitPrice: kernel.NewMoney(int64(fake.IntBetween(0, 5000))),
					Quantity:  fake.IntBetween(1, 5),
				}
				for range fake.IntBetween(0, 3) {
					lines[i].ModifierAdjustments = append(lines[i].ModifierAdjustments,
						kernel.NewMoney(int64(fake.IntBetween(0, 300))))
				}
				sum = sum.Add(lines[i].Total())
			}
			promotions := []pricing.Promotion{
				{ID: "pct", Kind: pricing.PromotionPercentage, Percent: kernel.MustRate("0.15"),
					MaxDiscount: kernel.NewMoney(int64(fake.IntBetween(0, 2000)))},
				{ID: "fixed", Kind: pricing.PromotionFixed, Amount: kernel.NewMoney(int64(fake.IntBetween(0, 4000)))},
			}
			tariff := pricing.Tariff{
				TaxRate: kernel.MustRate("0.0875"),
				DeliveryFee: pricing.FeeRule{
					Flat:      kernel.NewMoney(int64(fake.IntBetween(0, 600))),
					PerKm:     kernel.NewMoney(int64(fake.IntBetween(0, 100))),
					FreeAbove: kernel.NewMoney(int64(fake.IntBetween(0, 10000))),
				},
				ServiceFee: pricing.FeeRule{Percent: kernel.MustRate("0.05"), Max: kernel.MustMoney("4.00")},
			}
			tip := kernel.NewMoney(int64(fake.IntBetween(0, 1000)))

			b, err := pricing.Quote(pricing.QuoteInput{
				Lines:          lines,
				Promotions:     promotions,
				Tariff:         tariff,
				Tip:            tip,
				DistanceMeters: fake.IntBetween(0, 15000),
			})

			require.NoError(t, err)
			assert.Equal(t, sum, b.Subtotal)
			assert.LessOrEqual(t, b.Discount, b.Subtotal)
			assert.Equal(t,
				b.Subtotal+b.Taxes+b.DeliveryFee+b.ServiceFee+tip-b.Discount,
				b.Total)
		}
	})
}

func TestApplyPromotions(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should apply earliest created first and cap at the remaining subtotal", func(t *testing.T) {
		promotions := []pricing.Promotion{
			{ID: "late", Title: "Late", Kind: pricing.PromotionFixed, Amount: kernel.MustMoney("8.00"), CreatedAt: base.Add(time.Hour)},
			{ID: "early", Title: "Early", Kind: pricing.PromotionFixed, Amount: kernel.MustMoney("7.00"), CreatedAt: base},
		}

		applied, err := pricing.ApplyPromotions(kernel.MustMoney("10.00"), promotions)

		require.NoError(t, err)
		require.Len(t, applied, 2)
		assert.Equal(t, "early", applied[0].PromotionID)
		assert.Equal(t, "7.00", applied[0].Amount.String())
		assert.Equal(t, "late", applied[1].PromotionID)
		assert.Equal(t, "3.00", applied[1].Amount.String())
	})

	t.Run("should break createdAt ties by id", func(t *testing.T) {
		promotions := []pricing.Promotion{
			{ID: "b", Kind: pricing.PromotionFixed, Amount: 100, CreatedAt: base},
			{ID: "a", Kind: pricing.PromotionFixed, Amount: 100, CreatedAt: base},
		}

		applied, err := pricing.ApplyPromotions(1000, promotions)

		require.NoError(t, err)
		assert.Equal(t, "a", applied[0].PromotionID)
		assert.Equal(t, "b", applied[1].PromotionID)
	})

	t.Run("should cap percentage discount at its maximum", func(t *testing.T) {
		applied, err := pricing.ApplyPromotions(kernel.MustMoney("100.00"), []pricing.Promotion{
			{ID: "half", Kind: pricing.PromotionPercentage, Percent: kernel.MustRate("0.5"), MaxDiscount: kernel.MustMoney("12.50")},
		})

		require.NoError(t, err)
		assert.Equal(t, "12.50", applied[0].Amount.String())
	})

	t.Run("should skip ineligible, duplicate and worthless promotions", func(t *testing.T) {
		applied, err := pricing.ApplyPromotions(kernel.MustMoney("10.00"), []pricing.Promotion{
			{ID: "min", Kind: pricing.PromotionFixed, Amount: 100, MinSubtotal: kernel.MustMoney("20.00")},
			{ID: "dup", Kind: pricing.PromotionFixed, Amount: 100, CreatedAt: base},
			{ID: "dup", Kind: pricing.PromotionFixed, Amount: 100, CreatedAt: base.Add(time.Minute)},
			{ID: "zero", Kind: pricing.PromotionPercentage},
		})

		require.NoError(t, err)
		require.Len(t, applied, 1)
		assert.Equal(t, "dup", applied[0].PromotionID)
	})

	t.Run("should reject an unknown kind", func(t *testing.T) {
		_, err := pricing.ApplyPromotions(100, []pricing.Promotion{{ID: "x", Kind: "bogo"}})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestFeeRule_Fee(t *testing.T) {
	testCases := []struct {
		name     string
		rule     pricing.FeeRule
		subtotal kernel.Money
		meters   int
		expected kernel.Money
	}{
		{"flat", pricing.FeeRule{Flat: 399}, 1000, 0, 399},
		{"per km rounds half-up", pricing.FeeRule{Flat: 200, PerKm: 75}, 1000, 2500, 200 + 188},
		{"free above threshold", pricing.FeeRule{Flat: 399, FreeAbove: 3500}, 3500, 0, 0},
		{"small order surcharge", pricing.FeeRule{Flat: 199, SmallOrderBelow: 1000, SmallOrderSurcharge: 200}, 999, 0, 399},
		{"percent with floor", pricing.FeeRule{Percent: kernel.MustRate("0.05"), Min: 100}, 1000, 0, 100},
		{"percent with ceiling", pricing.FeeRule{Percent: kernel.MustRate("0.15"), Max: 400}, 5000, 0, 400},
		{"empty rule is free", pricing.FeeRule{}, 5000, 3000, 0},
	}

	for _, tc := range testCases {
		t.Run("should compute "+tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.rule.Fee(tc.subtotal, tc.meters))
		})
	}
}

func TestSettle(t *testing.T) {
	t.Run("should split the sample order", func(t *testing.T) {
		split, err := pricing.Settle(pricing.SettleInput{
			Subtotal:       kernel.MustMoney("33.97"),
			DeliveryFee:    kernel.MustMoney("3.99"),
			Tip:            kernel.MustMoney("5.00"),
			CommissionRate: kernel.MustRate("0.10"),
			HasDriver:      true,
		})

		require.NoError(t, err)
		assert.Equal(t, "3.40", split.PlatformCommission.String())
		assert.Equal(t, "30.57", split.RestaurantEarnings.String())
		require.NotNil(t, split.DriverEarnings)
		assert.Equal(t, "8.99", split.DriverEarnings.String())
	})

	t.Run("should apply bonus and penalty and floor at zero", func(t *testing.T) {
		split, err := pricing.Settle(pricing.SettleInput{
			Subtotal:      1000,
			DeliveryFee:   300,
			DriverBonus:   150,
			DriverPenalty: 1000,
			HasDriver:     true,
		})

		require.NoError(t, err)
		assert.Equal(t, kernel.Zero, *split.DriverEarnings)
		assert.Equal(t, kernel.Zero, split.PlatformCommission)
		assert.Equal(t, kernel.NewMoney(1000), split.RestaurantEarnings)
	})

	t.Run("should leave driver earnings undefined without a driver", func(t *testing.T) {
		split, err := pricing.Settle(pricing.SettleInput{Subtotal: 1000, CommissionRate: kernel.MustRate("0.2")})

		require.NoError(t, err)
		assert.Nil(t, split.DriverEarnings)
		assert.Equal(t, kernel.NewMoney(200), split.PlatformCommission)
	})

	t.Run("should reject negative inputs", func(t *testing.T) {
		_, err := pricing.Settle(pricing.SettleInput{Subtotal: -1, Tip: -5})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
