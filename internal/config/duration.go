package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationRegex = regexp.MustCompile(`(?i)^(\d+)\s*([dhms]?)$`)

// ParseDuration parses duration strings like "1d", "24h", "5m", "30s".
// Supports: d (days), h (hours), m (minutes), s (seconds).
// An empty string or "0" means no timeout and returns zero.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	matches := durationRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid duration format: %q", s)
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration value: %w", err)
	}

	unit := strings.ToLower(matches[2])
	var multiplier time.Duration

	switch unit {
	case "", "s":
		multiplier = time.Second
	case "m":
		multiplier = time.Minute
	case "h":
		multiplier = time.Hour
	case "d":
		multiplier = 24 * time.Hour
	default:
		return 0, fmt.Errorf("unknown duration unit: %q", unit)
	}

	return time.Duration(value) * multiplier, nil
}
