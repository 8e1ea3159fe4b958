// Package biztime centralizes clock access. All storage and transport
// use UTC; implicit local timezone is prohibited.
package biztime

import "time"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}
