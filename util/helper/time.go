package helper_util

import "time"

// ParseTime parses an RFC3339 timestamp stored on a graph node. Unparseable
// values come back as the zero time.
func ParseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
