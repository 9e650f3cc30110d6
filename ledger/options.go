package ledger

import "time"

const DefaultLateHour = 10

type options struct {
	now      Clock
	loc      *time.Location
	lateHour int
}

type Option func(*options)

func WithClock(c Clock) Option { return func(o *options) { o.now = c } }

// WithLocation sets the zone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) Option { return func(o *options) { o.loc = loc } }

// WithLateHour sets the local hour from which a check-in counts as late.
func WithLateHour(h int) Option { return func(o *options) { o.lateHour = h } }

func newOptions(opts []Option) options {
	o := options{now: time.Now, loc: time.UTC, lateHour: DefaultLateHour}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func (o options) clock() time.Time { return o.now().In(o.loc) }

func (o options) today() time.Time {
	n := o.clock()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// Now is the ledger's current time in its business location.
func (o options) Now() time.Time { return o.clock() }

// ClockFrom resolves the clock a set of options would use.
func ClockFrom(opts ...Option) Clock { return newOptions(opts).now }
