package scanner

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SortKey selects the ordering applied by Sort.
type SortKey string

// Supported sort keys.
const (
	SortBySize SortKey = "size"
	SortByDate SortKey = "date"
	SortByName SortKey = "name"
)

// ParseSortKey validates a user-supplied sort key. Empty means size.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortBySize, nil
	case SortBySize, SortByDate, SortByName:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want size, date or name)", s)
	}
}

// Sort orders projects in place: size descending, date ascending with
// unknown dates first, or name ascending ignoring case. The sort is stable,
// so projects with equal keys keep their discovery order.
func Sort(projects []Project, key SortKey) {
	sort.SliceStable(projects, func(i, j int) bool {
		switch key {
		case SortByDate:
			return timeOrZero(projects[i].LastModified).Before(timeOrZero(projects[j].LastModified))
		case SortByName:
			return strings.ToLower(projects[i].Name) < strings.ToLower(projects[j].Name)
		default:
			return projects[i].Size() > projects[j].Size()
		}
	})
}

// FilterOlderThan keeps projects last modified before cutoff. Projects
// whose modification time is unknown are dropped.
func FilterOlderThan(projects []Project, cutoff time.Time) []Project {
	var out []Project
	for _, p := range projects {
		if p.LastModified != nil && p.LastModified.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
