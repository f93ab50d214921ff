package synth

import (
	"testing"
	"time"
)

func testWindow(t *testing.T, seed int64) *DateGenerator {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	d, err := NewDateGenerator(NewRNG(seed), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return d
}

func TestDateGenerator_DateTimeInWindow(t *testing.T) {
	d := testWindow(t, 42)
	for i := 0; i < 1000; i++ {
		v := d.DateTime()
		if v.Before(d.Start()) || v.After(d.End()) {
			t.Fatalf("datetime %s outside window", v)
		}
		if v.Nanosecond() != 0 {
			t.Fatalf("expected whole seconds, got %s", v)
		}
	}
}

func TestDateGenerator_RejectsInvertedWindow(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := NewDateGenerator(NewRNG(1), start, start.AddDate(0, 0, -1)); err == nil {
		t.Fatal("expected error for inverted window")
	}
}

func TestDateGenerator_BetweenInRange(t *testing.T) {
	d := testWindow(t, 42)
	after := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	before := time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC)
	for i := 0; i < 500; i++ {
		v := d.Between(after, before)
		if v.Before(after) || v.After(before) {
			t.Fatalf("value %s outside [%s, %s]", v, after, before)
		}
	}
}

func TestDateGenerator_BetweenDegradesToAfter(t *testing.T) {
	d := testWindow(t, 42)
	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	if v := d.Between(at, at); !v.Equal(at) {
		t.Errorf("empty window: expected %s, got %s", at, v)
	}
	if v := d.Between(at, at.Add(-time.Hour)); !v.Equal(at) {
		t.Errorf("inverted window: expected %s, got %s", at, v)
	}
}

func TestDateGenerator_DateFormat(t *testing.T) {
	d := testWindow(t, 42)
	got := d.Date()
	if _, err := time.Parse("2006-01-02", got); err != nil {
		t.Fatalf("unexpected date format %q: %v", got, err)
	}
}

func TestFormatDateTime_UTCWithZ(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	v := time.Date(2024, 3, 1, 6, 0, 0, 0, loc)
	got := FormatDateTime(v)
	if got != "2024-03-01T12:00:00Z" {
		t.Errorf("expected 2024-03-01T12:00:00Z, got %s", got)
	}
}

func TestParseDateTime_AcceptedShapes(t *testing.T) {
	cases := []string{
		"2024-03-01T12:00:00Z",
		"2024-03-01T12:00:00",
		"2024-03-01",
	}
	for _, c := range cases {
		if _, err := ParseDateTime(c); err != nil {
			t.Errorf("expected %q to parse: %v", c, err)
		}
	}
	if _, err := ParseDateTime("not-a-date"); err == nil {
		t.Error("expected error for unparseable input")
	}
}
