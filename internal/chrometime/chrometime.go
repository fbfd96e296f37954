// Package chrometime converts between time.Time and the integer timestamps
// Chromium stores in its History and Favicons databases: microseconds since
// 1601-01-01T00:00:00Z.
package chrometime

import "time"

// Epoch is the zero value of a Chrome timestamp.
var Epoch = time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC)

// unixOffset is the number of microseconds between Epoch and the Unix epoch.
const unixOffset int64 = 11644473600 * 1_000_000

// FromTime returns t as microseconds since Epoch. Sub-microsecond precision
// is truncated.
func FromTime(t time.Time) int64 {
	return t.UnixMicro() + unixOffset
}

// ToTime converts a Chrome timestamp back to a UTC time.Time.
func ToTime(micros int64) time.Time {
	return time.UnixMicro(micros - unixOffset).UTC()
}
