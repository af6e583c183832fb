package domain

import "strings"

// MaxCount bounds every numeric field ingested from the upstream API, which
// occasionally reports garbage values.
const MaxCount int64 = 2_000_000_000

// ClampCount coerces v into [0, MaxCount].
func ClampCount(v int64) int64 {
	if v < 0 {
		return 0
	}
	if v > MaxCount {
		return MaxCount
	}
	return v
}

// SafeString strips embedded newlines and truncates to n bytes, keeping
// records safe for single-line rendering and bounding memory from
// pathological upstream input.
func SafeString(s string, n int) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > n {
		return s[:n]
	}
	return s
}
