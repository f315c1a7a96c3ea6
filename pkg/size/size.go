package size

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
)

var sizeRegex = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*([KMGT]?I?B?)$`)

// binaryUnits maps every accepted spelling to its IEC unit so that "10G" and
// "10GB" both mean gibibytes, matching what FormatSize prints.
var binaryUnits = map[string]string{
	"":    "B",
	"B":   "B",
	"K":   "KiB",
	"KB":  "KiB",
	"KIB": "KiB",
	"M":   "MiB",
	"MB":  "MiB",
	"MIB": "MiB",
	"G":   "GiB",
	"GB":  "GiB",
	"GIB": "GiB",
	"T":   "TiB",
	"TB":  "TiB",
	"TIB": "TiB",
}

// ParseSize parses human-readable size string to bytes.
// Supports: B, K/KB/KiB, M/MB/MiB, G/GB/GiB, T/TB/TiB (case insensitive, powers of 1024).
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	matches := sizeRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid size format: %q", s)
	}

	unit, ok := binaryUnits[strings.ToUpper(matches[2])]
	if !ok {
		return 0, fmt.Errorf("unknown size unit: %q", matches[2])
	}

	n, err := humanize.ParseBytes(matches[1] + " " + unit)
	if err != nil {
		return 0, fmt.Errorf("parse size value: %w", err)
	}

	return int64(n), nil
}

// FormatSize formats bytes as human-readable string.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(bytes))
}
