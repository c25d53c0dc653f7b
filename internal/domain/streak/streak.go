// Package streak turns activity dates into engagement statistics.
package streak

import (
	"sort"
	"time"
)

// weeklyWindowDays is the trailing window for check-in counts, inclusive
// of today.
const weeklyWindowDays = 7

// Source is the outcome of reading one activity source (moods, completed
// tests, assessments). A source that could not be read is marked
// unavailable and simply contributes nothing; it never aborts the
// calculation.
type Source struct {
	dates       []time.Time
	unavailable bool
}

// Dates wraps a successfully read set of activity timestamps.
func Dates(ts []time.Time) Source {
	return Source{dates: ts}
}

// Unavailable marks a source that failed to load.
func Unavailable() Source {
	return Source{unavailable: true}
}

// Stats is the complete engagement result. It is always well-formed:
// every field defaults to zero or empty rather than signaling an error.
type Stats struct {
	CurrentStreak    int        `json:"currentStreak"`
	LongestStreak    int        `json:"longestStreak"`
	WeeklyCheckIns   int        `json:"weeklyCheckIns"`
	TotalAssessments int        `json:"totalAssessments"`
	LastActivity     *time.Time `json:"lastActivity"`
}

// Calculate folds the available sources into a deduplicated calendar-date
// set and derives streak statistics relative to today. Timestamps are
// truncated to their UTC calendar date; multiple activities on one date
// collapse to one entry.
func Calculate(today time.Time, sources ...Source) Stats {
	seen := make(map[time.Time]struct{})
	for _, src := range sources {
		if src.unavailable {
			continue
		}
		for _, ts := range src.dates {
			seen[day(ts)] = struct{}{}
		}
	}

	var stats Stats
	if len(seen) == 0 {
		return stats
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	todayDate := day(today)
	stats.CurrentStreak = currentStreak(seen, todayDate)
	stats.LongestStreak = longestStreak(dates)
	stats.WeeklyCheckIns = weeklyCheckIns(dates, todayDate)
	last := dates[len(dates)-1]
	stats.LastActivity = &last
	return stats
}

// currentStreak walks backward one day at a time from today (or from
// yesterday when today has no activity yet), counting consecutive hits.
func currentStreak(seen map[time.Time]struct{}, today time.Time) int {
	start := today
	if _, ok := seen[start]; !ok {
		start = today.AddDate(0, 0, -1)
		if _, ok := seen[start]; !ok {
			return 0
		}
	}

	streak := 0
	for d := start; ; d = d.AddDate(0, 0, -1) {
		if _, ok := seen[d]; !ok {
			break
		}
		streak++
	}
	return streak
}

// longestStreak scans sorted dates for the longest consecutive-day run.
func longestStreak(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) == 24*time.Hour {
			run++
		} else {
			if run > longest {
				longest = run
			}
			run = 1
		}
	}
	if run > longest {
		longest = run
	}
	return longest
}

// weeklyCheckIns counts distinct activity dates within the trailing week.
func weeklyCheckIns(dates []time.Time, today time.Time) int {
	cutoff := today.AddDate(0, 0, -weeklyWindowDays)
	count := 0
	for _, d := range dates {
		if !d.Before(cutoff) {
			count++
		}
	}
	return count
}

// day truncates a timestamp to its UTC calendar date.
func day(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
