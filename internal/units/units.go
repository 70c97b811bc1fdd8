// Package units parses and formats the size and age strings shared by the
// sweep CLI, its JSON output, and the interactive selector.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Binary size multipliers.
const (
	KB int64 = 1024
	MB       = 1024 * KB
	GB       = 1024 * MB
)

var (
	// ErrInvalidSize is returned by ParseSize for malformed input.
	ErrInvalidSize = errors.New("invalid size")

	// ErrInvalidAge is returned by ParseAge for malformed input.
	ErrInvalidAge = errors.New("invalid age")
)

// sizeSuffixes is ordered longest first so "B" never shadows "MB".
var sizeSuffixes = []struct {
	suffix string
	mult   int64
}{
	{"GB", GB},
	{"MB", MB},
	{"KB", KB},
	{"B", 1},
}

// ParseSize converts strings like "100MB", "1.5gb" or "512" into bytes.
// A bare number is a byte count.
func ParseSize(s string) (int64, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	mult := int64(1)
	for _, sfx := range sizeSuffixes {
		if strings.HasSuffix(v, sfx.suffix) {
			v = strings.TrimSpace(strings.TrimSuffix(v, sfx.suffix))
			mult = sfx.mult
			break
		}
	}

	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	// float64(math.MaxInt64) rounds up to 2^63, so >= rejects it too.
	bytes := n * float64(mult)
	if bytes >= float64(math.MaxInt64) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidSize, s)
	}
	return int64(bytes), nil
}

// ParseAge converts strings like "30d", "6m" or "1y" into a number of days.
// Months count as 30 days and years as 365. A bare number is days.
func ParseAge(s string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	mult := 1
	switch {
	case strings.HasSuffix(v, "d"):
		v = strings.TrimSuffix(v, "d")
	case strings.HasSuffix(v, "m"):
		v, mult = strings.TrimSuffix(v, "m"), 30
	case strings.HasSuffix(v, "y"):
		v, mult = strings.TrimSuffix(v, "y"), 365
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAge, s)
	}
	if n > math.MaxInt/mult {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAge, s)
	}
	return n * mult, nil
}

// maxCutoffDays bounds the date arithmetic in AgeCutoff.
const maxCutoffDays = 365 * 100000

// AgeCutoff returns the instant that lies the given number of days before
// now. Ages beyond maxCutoffDays return the zero time, before any project.
func AgeCutoff(days int, now time.Time) time.Time {
	if days > maxCutoffDays {
		return time.Time{}
	}
	return now.AddDate(0, 0, -days)
}

// FormatSize renders a byte count as "512 B", "2.0 KB", "5.0 MB" or "2.0 GB".
func FormatSize(n int64) string {
	switch {
	case n < KB:
		return fmt.Sprintf("%d B", n)
	case n < MB:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(KB))
	case n < GB:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(MB))
	default:
		return fmt.Sprintf("%.1f GB", float64(n)/float64(GB))
	}
}

// FormatAge renders the time elapsed since t as "today", "12d ago",
// "3mo ago" or "2y ago". A nil t renders as "unknown".
func FormatAge(t *time.Time, now time.Time) string {
	if t == nil {
		return "unknown"
	}
	days := int(math.Floor(now.Sub(*t).Hours() / 24))
	switch {
	case days < 1:
		return "today"
	case days < 30:
		return fmt.Sprintf("%dd ago", days)
	case days < 365:
		return fmt.Sprintf("%dmo ago", days/30)
	default:
		return fmt.Sprintf("%dy ago", days/365)
	}
}
