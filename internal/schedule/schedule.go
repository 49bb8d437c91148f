// Package schedule resolves time-of-day refresh rates for polling displays.
// A schedule is a YAML document with an ordered rule list; for any instant
// the first rule whose day set and time window match decides the rate,
// letting operators slow devices down overnight and speed them up during
// working hours.
//
// Example:
//
//	timezone: "America/New_York"
//	default_refresh_rate: 300
//	schedule:
//	  - days: all
//	    start: "23:00"
//	    end: "06:00"
//	    refresh_rate: 1800
//	  - days: weekdays
//	    start: "09:00"
//	    end: "18:00"
//	    refresh_rate: 120
package schedule

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// fallbackZone is used when the configured timezone fails to load.
const fallbackZone = "America/New_York"

// DaySelector picks the weekdays a rule applies to. In YAML it is either a
// single token ("all", "weekdays", "weekends", or a day name) or a list of
// day names. An unrecognized token is not an error; it simply never matches.
type DaySelector struct {
	list  []string
	named string
	multi bool
}

// Named builds a selector from a single token.
func Named(token string) DaySelector {
	return DaySelector{named: token}
}

// List builds a selector from explicit day names.
func List(days ...string) DaySelector {
	return DaySelector{list: days, multi: true}
}

// UnmarshalYAML accepts either a scalar token or a sequence of day names.
func (d *DaySelector) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var token string
		if err := value.Decode(&token); err != nil {
			return err
		}
		*d = Named(token)
		return nil
	case yaml.SequenceNode:
		var days []string
		if err := value.Decode(&days); err != nil {
			return err
		}
		*d = List(days...)
		return nil
	default:
		return fmt.Errorf("days must be a string or a list of day names, got %s", value.Tag)
	}
}

// Matches reports whether the selector covers the given weekday.
func (d DaySelector) Matches(weekday time.Weekday) bool {
	if d.multi {
		for _, name := range d.list {
			if day, ok := weekdayFromString(name); ok && day == weekday {
				return true
			}
		}
		return false
	}
	switch strings.ToLower(d.named) {
	case "all":
		return true
	case "weekdays":
		return weekday >= time.Monday && weekday <= time.Friday
	case "weekends":
		return weekday == time.Saturday || weekday == time.Sunday
	default:
		day, ok := weekdayFromString(d.named)
		return ok && day == weekday
	}
}

// ScheduleRule is one (days, time window, rate) tuple. A rule whose start
// or end fails to parse matches nothing.
type ScheduleRule struct {
	Days        DaySelector `yaml:"days"`
	Start       string      `yaml:"start"`
	End         string      `yaml:"end"`
	RefreshRate int         `yaml:"refresh_rate"`
}

// matches checks the rule against a weekday and a minute-of-day.
func (r ScheduleRule) matches(weekday time.Weekday, minuteOfDay int) bool {
	if !r.Days.Matches(weekday) {
		return false
	}

	start, okStart := parseClock(r.Start)
	end, okEnd := parseClock(r.End)
	if !okStart || !okEnd {
		return false
	}

	if start <= end {
		// Normal window, e.g. 09:00-17:00. End is exclusive.
		return minuteOfDay >= start && minuteOfDay < end
	}
	// Overnight window, e.g. 23:00-06:00. End stays exclusive.
	return minuteOfDay >= start || minuteOfDay < end
}

// RefreshSchedule is an ordered rule list with a default rate. It is built
// once from configuration and never mutated, so lookups are safe from any
// goroutine without synchronization.
type RefreshSchedule struct {
	// Timezone is an IANA zone name used to interpret rule times.
	Timezone string `yaml:"timezone"`

	// DefaultRefreshRate applies when no rule matches, in seconds.
	DefaultRefreshRate int `yaml:"default_refresh_rate"`

	// Schedule is evaluated in order; the first match wins.
	Schedule []ScheduleRule `yaml:"schedule"`
}

// Load reads and parses a schedule from a YAML file.
func Load(path string) (*RefreshSchedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file %q: %w", path, err)
	}
	return Parse(data)
}

// Parse parses a schedule from YAML bytes.
func Parse(data []byte) (*RefreshSchedule, error) {
	var s RefreshSchedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid schedule YAML: %w", err)
	}
	return &s, nil
}

// Rate returns the refresh rate for the current time.
func (s *RefreshSchedule) Rate() int {
	return s.RateFor(time.Now())
}

// RateFor returns the refresh rate in effect at the given instant. The
// instant is converted to the schedule's timezone; an unloadable zone falls
// back to America/New_York rather than failing the lookup.
func (s *RefreshSchedule) RateFor(t time.Time) int {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		if loc, err = time.LoadLocation(fallbackZone); err != nil {
			loc = time.UTC
		}
	}
	local := t.In(loc)
	weekday := local.Weekday()
	minuteOfDay := local.Hour()*60 + local.Minute()

	for _, rule := range s.Schedule {
		if rule.matches(weekday, minuteOfDay) {
			log.Debug().
				Str("start", rule.Start).
				Str("end", rule.End).
				Int("refresh_rate", rule.RefreshRate).
				Msg("schedule rule matched")
			return rule.RefreshRate
		}
	}
	return s.DefaultRefreshRate
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// weekdayFromString maps abbreviated or full day names, case-insensitively.
func weekdayFromString(s string) (time.Weekday, bool) {
	switch strings.ToLower(s) {
	case "mon", "monday":
		return time.Monday, true
	case "tue", "tuesday":
		return time.Tuesday, true
	case "wed", "wednesday":
		return time.Wednesday, true
	case "thu", "thursday":
		return time.Thursday, true
	case "fri", "friday":
		return time.Friday, true
	case "sat", "saturday":
		return time.Saturday, true
	case "sun", "sunday":
		return time.Sunday, true
	default:
		return time.Sunday, false
	}
}
