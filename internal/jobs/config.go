package jobs

import (
	"errors"
	"fmt"
	"time"

	"orderengine/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// Config holds schedules and batch sizes of the background jobs.
type Config struct {
	RelaySchedule   string        `mapstructure:"relay_schedule"`
	RelayBatchSize  int           `mapstructure:"relay_batch_size"`
	ExpirySchedule  string        `mapstructure:"expiry_schedule"`
	PaymentTTL      time.Duration `mapstructure:"payment_ttl"`
	ExpiryBatchSize int           `mapstructure:"expiry_batch_size"`
}

func DefaultConfig() Config {
	return Config{
		RelaySchedule:   "*/2 * * * * *",
		RelayBatchSize:  100,
		ExpirySchedule:  "0 * * * * *",
		PaymentTTL:      15 * time.Minute,
		ExpiryBatchSize: 50,
	}
}

var specParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Validate checks the cron specs with the same parser the jobs schedule with.
func (c Config) Validate() error {
	var err error
	if _, e := specParser.Parse(c.RelaySchedule); e != nil {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("relay schedule", e))
	}
	if _, e := specParser.Parse(c.ExpirySchedule); e != nil {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("expiry schedule", e))
	}
	if c.RelayBatchSize <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("relay batch size",
			fmt.Errorf("%d is not positive", c.RelayBatchSize)))
	}
	if c.ExpiryBatchSize <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("expiry batch size",
			fmt.Errorf("%d is not positive", c.ExpiryBatchSize)))
	}
	if c.PaymentTTL <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("payment ttl",
			fmt.Errorf("%s is not positive", c.PaymentTTL)))
	}
	return err
}
