package timeutil

import "time"

// NowMilli returns the current unix time in milliseconds. Note timestamps are
// stored at this precision so that recency ordering survives rapid edits.
func NowMilli() int64 {
	return time.Now().UnixMilli()
}

func FromMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
