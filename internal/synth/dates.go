package synth

import (
	"fmt"
	"time"
)

// DateGenerator produces timestamps uniformly distributed over the
// whole seconds of a fixed window. All output is UTC.
type DateGenerator struct {
	rng   *RNG
	start time.Time
	end   time.Time
	span  int64
}

// NewDateGenerator returns a generator over [start, end]. The window
// must not be inverted.
func NewDateGenerator(rng *RNG, start, end time.Time) (*DateGenerator, error) {
	start = start.UTC().Truncate(time.Second)
	end = end.UTC().Truncate(time.Second)
	if end.Before(start) {
		return nil, fmt.Errorf("synth: date window inverted: %s after %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return &DateGenerator{rng: rng, start: start, end: end, span: int64(end.Sub(start) / time.Second)}, nil
}

// Start reports the window start.
func (d *DateGenerator) Start() time.Time { return d.start }

// End reports the window end.
func (d *DateGenerator) End() time.Time { return d.end }

// DateTime returns a uniform timestamp in the window, whole seconds.
func (d *DateGenerator) DateTime() time.Time {
	return d.start.Add(time.Duration(d.rng.Int63Between(0, d.span)) * time.Second)
}

// DateTimeString returns DateTime rendered as RFC 3339 UTC.
func (d *DateGenerator) DateTimeString() string {
	return FormatDateTime(d.DateTime())
}

// Date returns a uniform date in the window as "YYYY-MM-DD".
func (d *DateGenerator) Date() string {
	return d.DateTime().Format("2006-01-02")
}

// Between returns a uniform timestamp in [after, before]. When the
// window is empty or inverted it degrades to after rather than
// failing, so callers clamped by short encounters still get a value.
func (d *DateGenerator) Between(after, before time.Time) time.Time {
	after = after.UTC().Truncate(time.Second)
	before = before.UTC().Truncate(time.Second)
	span := int64(before.Sub(after) / time.Second)
	if span <= 0 {
		return after
	}
	return after.Add(time.Duration(d.rng.Int63Between(0, span)) * time.Second)
}

// FormatDateTime renders a timestamp the way every generated resource
// carries datetimes: RFC 3339 in UTC with a trailing Z.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
