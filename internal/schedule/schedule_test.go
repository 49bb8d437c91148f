package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"09:00", 9 * 60, true},
		{"23:30", 23*60 + 30, true},
		{"00:00", 0, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"12", 0, false},
		{"invalid", 0, false},
		{"12:00:00", 0, false},
	}
	for _, c := range cases {
		got, ok := parseClock(c.in)
		assert.Equal(t, c.ok, ok, "parseClock(%q)", c.in)
		if c.ok {
			assert.Equal(t, c.want, got, "parseClock(%q)", c.in)
		}
	}
}

func TestWeekdayFromString(t *testing.T) {
	for _, name := range []string{"mon", "Monday", "MON"} {
		day, ok := weekdayFromString(name)
		require.True(t, ok, name)
		assert.Equal(t, time.Monday, day, name)
	}
	_, ok := weekdayFromString("someday")
	assert.False(t, ok)
}

func TestDaySelectorNamed(t *testing.T) {
	assert.True(t, Named("all").Matches(time.Sunday))
	assert.True(t, Named("all").Matches(time.Wednesday))

	weekdays := Named("weekdays")
	assert.True(t, weekdays.Matches(time.Monday))
	assert.True(t, weekdays.Matches(time.Friday))
	assert.False(t, weekdays.Matches(time.Saturday))
	assert.False(t, weekdays.Matches(time.Sunday))

	weekends := Named("WEEKENDS")
	assert.True(t, weekends.Matches(time.Saturday))
	assert.False(t, weekends.Matches(time.Monday))

	assert.True(t, Named("tue").Matches(time.Tuesday))
	assert.False(t, Named("tue").Matches(time.Wednesday))

	// Unrecognized tokens match nothing, silently.
	unknown := Named("someday")
	for d := time.Sunday; d <= time.Saturday; d++ {
		assert.False(t, unknown.Matches(d))
	}
}

func TestDaySelectorList(t *testing.T) {
	sel := List("mon", "Wednesday", "fri")
	assert.True(t, sel.Matches(time.Monday))
	assert.True(t, sel.Matches(time.Wednesday))
	assert.True(t, sel.Matches(time.Friday))
	assert.False(t, sel.Matches(time.Tuesday))
	assert.False(t, sel.Matches(time.Saturday))
}

func TestRuleTimeWindow(t *testing.T) {
	rule := ScheduleRule{Days: Named("all"), Start: "09:00", End: "17:00", RefreshRate: 60}

	assert.True(t, rule.matches(time.Monday, 9*60), "start is inclusive")
	assert.True(t, rule.matches(time.Monday, 10*60))
	assert.False(t, rule.matches(time.Monday, 8*60))
	assert.False(t, rule.matches(time.Monday, 17*60), "end is exclusive")
	assert.False(t, rule.matches(time.Monday, 18*60))
}

func TestRuleOvernightWindow(t *testing.T) {
	rule := ScheduleRule{Days: Named("all"), Start: "23:00", End: "06:00", RefreshRate: 1800}

	assert.True(t, rule.matches(time.Monday, 23*60), "start is inclusive")
	assert.True(t, rule.matches(time.Monday, 23*60+30))
	assert.True(t, rule.matches(time.Monday, 0))
	assert.True(t, rule.matches(time.Monday, 3*60))
	assert.False(t, rule.matches(time.Monday, 6*60), "end stays exclusive across midnight")
	assert.False(t, rule.matches(time.Monday, 12*60))
}

func TestRuleBadTimesNeverMatch(t *testing.T) {
	rule := ScheduleRule{Days: Named("all"), Start: "nine", End: "17:00", RefreshRate: 60}
	for m := 0; m < 24*60; m += 60 {
		assert.False(t, rule.matches(time.Monday, m))
	}
}

func TestParseYAML(t *testing.T) {
	doc := `
timezone: "America/New_York"
default_refresh_rate: 300
schedule:
  - days: weekdays
    start: "09:00"
    end: "17:00"
    refresh_rate: 60
  - days: ["sat", "sun"]
    start: "10:00"
    end: "12:00"
    refresh_rate: 600
`
	s, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", s.Timezone)
	assert.Equal(t, 300, s.DefaultRefreshRate)
	require.Len(t, s.Schedule, 2)
	assert.Equal(t, 60, s.Schedule[0].RefreshRate)
	assert.True(t, s.Schedule[1].Days.Matches(time.Saturday))
	assert.False(t, s.Schedule[1].Days.Matches(time.Monday))
}

func TestParseYAMLBadStructure(t *testing.T) {
	_, err := Parse([]byte(`default_refresh_rate: ["not", "a", "number"]`))
	assert.Error(t, err)

	_, err = Parse([]byte("schedule:\n  - days: {mon: true}\n    start: \"09:00\"\n    end: \"10:00\"\n    refresh_rate: 60"))
	assert.Error(t, err)
}

func TestRateForFirstMatchWins(t *testing.T) {
	s := &RefreshSchedule{
		Timezone:           "UTC",
		DefaultRefreshRate: 300,
		Schedule: []ScheduleRule{
			{Days: Named("all"), Start: "09:00", End: "17:00", RefreshRate: 60},
			{Days: Named("all"), Start: "00:00", End: "23:59", RefreshRate: 900},
		},
	}
	// Both rules cover Monday 10:00; the first declared wins.
	monday10 := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 60, s.RateFor(monday10))
}

func TestRateForEmptySchedule(t *testing.T) {
	s := &RefreshSchedule{Timezone: "UTC", DefaultRefreshRate: 300}
	for hour := 0; hour < 24; hour++ {
		probe := time.Date(2026, time.March, 2, hour, 0, 0, 0, time.UTC)
		assert.Equal(t, 300, s.RateFor(probe))
	}
}

func TestRateForScenario(t *testing.T) {
	s := &RefreshSchedule{
		Timezone:           "UTC",
		DefaultRefreshRate: 300,
		Schedule: []ScheduleRule{
			{Days: Named("weekdays"), Start: "09:00", End: "17:00", RefreshRate: 60},
			{Days: Named("all"), Start: "23:00", End: "06:00", RefreshRate: 1800},
		},
	}

	monday10 := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 60, s.RateFor(monday10))

	saturday10 := time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 300, s.RateFor(saturday10), "no rule matches a weekend morning")

	lateNight := time.Date(2026, time.March, 4, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 1800, s.RateFor(lateNight))
}

func TestRateForTimezoneConversion(t *testing.T) {
	s := &RefreshSchedule{
		Timezone:           "America/New_York",
		DefaultRefreshRate: 300,
		Schedule: []ScheduleRule{
			{Days: Named("all"), Start: "09:00", End: "17:00", RefreshRate: 60},
		},
	}
	// 15:00 UTC is 10:00 or 11:00 in New York depending on DST; either way
	// inside the window.
	probe := time.Date(2026, time.June, 15, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, 60, s.RateFor(probe))

	// 03:00 UTC the same day is late evening in New York, outside it.
	probe = time.Date(2026, time.June, 15, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, 300, s.RateFor(probe))
}

func TestRateForBadTimezoneFallsBack(t *testing.T) {
	s := &RefreshSchedule{
		Timezone:           "Not/AZone",
		DefaultRefreshRate: 300,
		Schedule: []ScheduleRule{
			{Days: Named("all"), Start: "00:00", End: "23:00", RefreshRate: 90},
		},
	}
	// 12:00 UTC maps to morning in the fallback zone either side of DST, so
	// the all-day rule applies; the lookup must not fail.
	probe := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 90, s.RateFor(probe))
}
