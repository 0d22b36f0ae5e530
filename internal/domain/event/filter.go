package event

import (
	"sort"
	"strings"
)

// Filter narrows an event collection. Zero values match everything.
type Filter struct {
	PlayerID int64
	TeamName string
	Types    []Type
}

func (f Filter) IsZero() bool {
	return f.PlayerID == 0 && strings.TrimSpace(f.TeamName) == "" && len(f.Types) == 0
}

func (f Filter) Match(item Event) bool {
	if f.PlayerID > 0 && item.PlayerID != f.PlayerID {
		return false
	}
	if team := strings.TrimSpace(f.TeamName); team != "" && !strings.EqualFold(item.TeamName, team) {
		return false
	}
	if len(f.Types) > 0 {
		for _, t := range f.Types {
			if strings.EqualFold(string(t), string(item.Type)) {
				return true
			}
		}
		return false
	}
	return true
}

// Apply returns the events matching filter, keeping feed order.
func Apply(items []Event, filter Filter) []Event {
	if filter.IsZero() {
		return append([]Event(nil), items...)
	}

	out := make([]Event, 0, len(items)/4)
	for _, item := range items {
		if filter.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

func CountByType(items []Event) map[Type]int {
	out := make(map[Type]int, 16)
	for _, item := range items {
		if item.Type == "" {
			continue
		}
		out[item.Type]++
	}
	return out
}

// Count returns how many events satisfy pred.
func Count(items []Event, pred func(Event) bool) int {
	total := 0
	for _, item := range items {
		if pred(item) {
			total++
		}
	}
	return total
}

// TeamNames lists the distinct acting teams in first-seen order.
func TeamNames(items []Event) []string {
	seen := make(map[string]struct{}, 2)
	out := make([]string, 0, 2)
	for _, item := range items {
		name := strings.TrimSpace(item.TeamName)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// SortChronologically orders by period, minute, second then feed index.
func SortChronologically(items []Event) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.Minute != b.Minute {
			return a.Minute < b.Minute
		}
		if a.Second != b.Second {
			return a.Second < b.Second
		}
		return a.Index < b.Index
	})
}
