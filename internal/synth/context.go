package synth

import (
	"fmt"
	"time"

	"github.com/legitrace/fhirsynth/internal/plan"
)

// Context carries the shared state a generation run threads through
// its phases: the plan, the graph being populated, and the seeded
// randomness, ID, and date utilities. Nothing in here is global; two
// contexts never interfere.
type Context struct {
	Plan  *plan.Plan
	Graph *Graph
	RNG   *RNG
	IDs   *IDGenerator
	Dates *DateGenerator
	Start time.Time
	End   time.Time
}

// NewContext resolves the plan's time window and builds the seeded
// utilities. The window end defaults to now and the start to end minus
// the horizon; explicit dates are interpreted in the plan's timezone
// (UTC when unset), and dates or timezones that fail to parse are
// structural errors.
func NewContext(p *plan.Plan) (*Context, error) {
	loc, err := PlanLocation(p)
	if err != nil {
		return nil, err
	}
	end := time.Now().UTC().Truncate(time.Second)
	if p.Time.EndDate != "" {
		t, err := ParseDateTimeIn(p.Time.EndDate, loc)
		if err != nil {
			return nil, fmt.Errorf("synth: time.end_date: %w", err)
		}
		end = t
	}
	start := end.AddDate(0, 0, -p.Time.Horizon.ToDays())
	if p.Time.StartDate != "" {
		t, err := ParseDateTimeIn(p.Time.StartDate, loc)
		if err != nil {
			return nil, fmt.Errorf("synth: time.start_date: %w", err)
		}
		start = t
	}
	if end.Before(start) {
		return nil, fmt.Errorf("synth: time window inverted: start %s after end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	rng := NewRNG(p.Seed)
	dates, err := NewDateGenerator(rng, start, end)
	if err != nil {
		return nil, err
	}
	return &Context{
		Plan:  p,
		Graph: NewGraph(),
		RNG:   rng,
		IDs:   NewIDGenerator(rng),
		Dates: dates,
		Start: start.UTC().Truncate(time.Second),
		End:   end.UTC().Truncate(time.Second),
	}, nil
}

// enabled asks the plan's resource filter about a type.
func (c *Context) enabled(resourceType string) bool {
	return c.Plan.Resources.Enabled(resourceType)
}

// dateTimeFormats are the shapes generated and user-supplied date
// fields come in, tried in order.
var dateTimeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDateTime parses the date/datetime renderings used across plans
// and generated resource bodies. Zone-less values are read as UTC and
// results are UTC.
func ParseDateTime(s string) (time.Time, error) {
	return ParseDateTimeIn(s, time.UTC)
}

// ParseDateTimeIn parses the same renderings, interpreting zone-less
// values in loc. Values carrying their own offset keep it. Results are
// UTC.
func ParseDateTimeIn(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range dateTimeFormats {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// PlanLocation resolves the plan's timezone, defaulting to UTC when
// the plan does not set one.
func PlanLocation(p *plan.Plan) (*time.Location, error) {
	if p.Time.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(p.Time.Timezone)
	if err != nil {
		return nil, fmt.Errorf("synth: time.timezone: %w", err)
	}
	return loc, nil
}
