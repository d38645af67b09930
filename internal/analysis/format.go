package analysis

import (
	"fmt"
	"math"
)

// FormatHMS renders seconds as HH:MM:SS, truncating fractions. Negative
// durations (fences below zero) carry a leading minus sign.
func FormatHMS(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "N/A"
	}
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h := math.Floor(seconds / 3600)
	rem := seconds - h*3600
	m := math.Floor(rem / 60)
	s := rem - m*60
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, int64(h), int64(m), int64(s))
}

// FormatMinutes renders a minutes value with two decimals.
func FormatMinutes(minutes float64) string {
	return fmt.Sprintf("%.2f min", minutes)
}
