package scanner

import "time"

const (
	secondsPerDay  = 86400
	maxDayInterval = 365
)

// ThresholdSeconds converts an "oldest article" value into seconds. Values up
// to 365 count days, larger values are already seconds and 0 disables the check.
func ThresholdSeconds(oldest int) int64 {
	if oldest <= 0 {
		return 0
	}
	if oldest > maxDayInterval {
		return int64(oldest)
	}
	return int64(oldest) * secondsPerDay
}

// TooOld reports whether an article published at publishedAt falls outside the
// recency window. Articles without a publish time are never too old.
func TooOld(now time.Time, publishedAt *time.Time, oldest int) bool {
	threshold := ThresholdSeconds(oldest)
	if threshold == 0 || publishedAt == nil {
		return false
	}
	age := int64(now.Sub(*publishedAt) / time.Second)
	return age > threshold
}
