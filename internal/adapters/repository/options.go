package repository

import "time"

type options struct {
	now func() time.Time
}

func defaultOptions() options {
	return options{now: time.Now}
}

// Option configures a store.
type Option func(*options)

// WithClock sets the time source used for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
