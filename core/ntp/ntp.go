// Package ntp converts between wall-clock time and NTP-epoch seconds as
// carried in location specific parts.
package ntp

import "time"

const (
	// UnixOffset is the number of seconds from 1900-01-01 to 1970-01-01.
	UnixOffset = 2208988800

	// SecondsPerHour is the granularity of compressed period start times.
	SecondsPerHour = 3600
)

// FromTime returns t as seconds since the NTP epoch.
func FromTime(t time.Time) uint64 {
	return uint64(t.Unix() + UnixOffset)
}

// ToTime returns the UTC instant for NTP seconds ts.
func ToTime(ts uint64) time.Time {
	return time.Unix(int64(ts)-UnixOffset, 0).UTC()
}

// Truncate32 keeps the low 32 bits of ts, the width used on the wire.
func Truncate32(ts uint64) uint32 {
	return uint32(ts)
}

// Timestamp32 returns t as 32-bit NTP seconds.
func Timestamp32(t time.Time) uint32 {
	return Truncate32(FromTime(t))
}

// RoundHour rounds ts to the closest hour, halves rounding up.
func RoundHour(ts uint64) uint64 {
	half := ts + SecondsPerHour/2
	return half - half%SecondsPerHour
}

// TruncateHour drops the seconds past the last full hour.
func TruncateHour(ts uint64) uint64 {
	return ts - ts%SecondsPerHour
}

// Compress returns the number of whole hours in ts.
func Compress(ts uint64) uint32 {
	return uint32(ts / SecondsPerHour)
}

// Decompress returns the NTP seconds at the start of hour c.
func Decompress(c uint32) uint64 {
	return uint64(c) * SecondsPerHour
}

// Now returns the current NTP time in seconds.
func Now() uint64 {
	return FromTime(time.Now())
}
