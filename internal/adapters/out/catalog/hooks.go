package catalog

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"orderengine/internal/core/domain/model/kernel"
)

var (
	moneyType = reflect.TypeOf(kernel.Money(0))
	rateType  = reflect.TypeOf(kernel.Rate{})
)

// DecodeHook decodes money and rates from YAML numbers or decimal strings,
// durations such as "10m" and RFC 3339 timestamps.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		moneyHook,
		rateHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
	)
}

func moneyHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != moneyType {
		return data, nil
	}
	d, err := toDecimal(data)
	if err != nil {
		return nil, err
	}
	return kernel.MoneyFromDecimal(d)
}

func rateHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != rateType {
		return data, nil
	}
	d, err := toDecimal(data)
	if err != nil {
		return nil, err
	}
	return kernel.NewRate(d)
}

func toDecimal(data any) (decimal.Decimal, error) {
	switch v := data.(type) {
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("cannot read %T as a decimal", data)
	}
}
