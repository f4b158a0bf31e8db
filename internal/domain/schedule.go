package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

type RuleKind string

const (
	RuleYear  RuleKind = "year"
	RuleMonth RuleKind = "month"
	RuleDay   RuleKind = "day"
	// RuleWeekday counts from Monday = 0 to Sunday = 6.
	RuleWeekday RuleKind = "weekday"
)

var ruleOrder = map[RuleKind]int{
	RuleYear:    0,
	RuleMonth:   1,
	RuleDay:     2,
	RuleWeekday: 3,
}

var ErrInvalidSchedule = errors.New("invalid schedule")

// Rule is a single date predicate: the named attribute of a date must equal Value.
type Rule struct {
	Kind  RuleKind `json:"kind"`
	Value int      `json:"value"`
}

func (r Rule) Matches(date time.Time) bool {
	switch r.Kind {
	case RuleYear:
		return date.Year() == r.Value
	case RuleMonth:
		return int(date.Month()) == r.Value
	case RuleDay:
		return date.Day() == r.Value
	case RuleWeekday:
		return MondayBasedWeekday(date) == r.Value
	default:
		return false
	}
}

func (r Rule) validate() error {
	var lo, hi int
	switch r.Kind {
	case RuleYear:
		lo, hi = 1, 9999
	case RuleMonth:
		lo, hi = 1, 12
	case RuleDay:
		lo, hi = 1, 31
	case RuleWeekday:
		lo, hi = 0, 6
	default:
		return fmt.Errorf("%w: unknown selector %q", ErrInvalidSchedule, r.Kind)
	}
	if r.Value < lo || r.Value > hi {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidSchedule, r.Kind, lo, hi, r.Value)
	}

	return nil
}

// Schedule is a conjunction of rules. The empty schedule matches every date.
//
// On the wire and in storage it is the selector object, e.g. {"weekday": 4}
// or {"month": 12, "day": 31}.
type Schedule []Rule

func Daily() Schedule { return Schedule{} }

func Weekly(day time.Weekday) Schedule {
	return Schedule{{Kind: RuleWeekday, Value: (int(day) + 6) % 7}}
}

func Yearly(month time.Month, day int) Schedule {
	return Schedule{{Kind: RuleMonth, Value: int(month)}, {Kind: RuleDay, Value: day}}
}

func (s Schedule) Matches(date time.Time) bool {
	for _, r := range s {
		if !r.Matches(date) {
			return false
		}
	}

	return true
}

func (s Schedule) Validate() error {
	seen := make(map[RuleKind]bool, len(s))
	for _, r := range s {
		if err := r.validate(); err != nil {
			return err
		}
		if seen[r.Kind] {
			return fmt.Errorf("%w: duplicate selector %q", ErrInvalidSchedule, r.Kind)
		}
		seen[r.Kind] = true
	}

	return nil
}

// Selector returns the schedule as attribute name -> required value.
func (s Schedule) Selector() map[string]int {
	m := make(map[string]int, len(s))
	for _, r := range s {
		m[string(r.Kind)] = r.Value
	}

	return m
}

// ParseSchedule builds a validated schedule from a selector object.
func ParseSchedule(selector map[string]int) (Schedule, error) {
	s := make(Schedule, 0, len(selector))
	for k, v := range selector {
		s = append(s, Rule{Kind: RuleKind(k), Value: v})
	}
	sort.Slice(s, func(i, j int) bool { return ruleOrder[s[i].Kind] < ruleOrder[s[j].Kind] })

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Selector())
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	var selector map[string]int
	if err := json.Unmarshal(data, &selector); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	parsed, err := ParseSchedule(selector)
	if err != nil {
		return err
	}
	*s = parsed

	return nil
}

// MondayBasedWeekday maps Monday to 0 and Sunday to 6.
func MondayBasedWeekday(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

// DateOf truncates t to its calendar day, expressed as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
