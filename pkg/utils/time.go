package utils

import "time"

// ISOMillis is the layout of ECMAScript Date.toISOString: UTC, millisecond
// precision, literal Z.
const ISOMillis = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders a unix-millisecond timestamp as ISOMillis.
func FormatTimestamp(unixMs int64) string {
	return time.UnixMilli(unixMs).UTC().Format(ISOMillis)
}

// ParseTimestamp parses an RFC 3339 timestamp, with or without fractional
// seconds, into unix milliseconds.
func ParseTimestamp(s string) (int64, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Microsecond {
		return d.String()
	}
	if d < time.Millisecond {
		return d.Round(time.Microsecond).String()
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	if d < time.Minute {
		return d.Round(10 * time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
