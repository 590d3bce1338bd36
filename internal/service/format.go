package service

import (
	"fmt"
	"strconv"
	"time"
)

// TimeLeft renders a remaining duration in milliseconds, rounded up to whole
// seconds: "Ended", "{h}h {m}m", "{m}m" or "{s}s".
func TimeLeft(ms int64) string {
	if ms <= 0 {
		return "Ended"
	}
	secs := (ms + 999) / 1000
	h := secs / 3600
	m := secs % 3600 / 60
	s := secs % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// TimeLeftUntil is TimeLeft for the span between now and end.
func TimeLeftUntil(end, now time.Time) string {
	d := end.Sub(now)
	ms := d.Milliseconds()
	if d > 0 && d%time.Millisecond != 0 {
		ms++
	}
	return TimeLeft(ms)
}

// FormatCurrency renders an amount with exactly two decimals.
func FormatCurrency(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
