package utils

import (
	"cmp"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// FindLimit returns the smaller of two limits, treating the zero value as "unset".
func FindLimit[T cmp.Ordered](x, y T) T {
	var zero T
	if x == zero {
		return y
	}
	if y == zero {
		return x
	}
	return min(x, y)
}

// ParseMemoryLimit converts limits such as "512m" or "2G" to bytes.
func ParseMemoryLimit(limit string) (int64, error) {
	if len(limit) < 2 {
		return 0, fmt.Errorf("invalid memory limit format: %q", limit)
	}

	unit := limit[len(limit)-1:]
	number := limit[:len(limit)-1]

	var multiplier int64
	switch strings.ToUpper(unit) {
	case "G":
		multiplier = 1024 * 1024 * 1024
	case "M":
		multiplier = 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported memory unit: %s", unit)
	}

	value, err := strconv.ParseInt(number, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory value %q: %w", number, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("memory limit cannot be negative: %s", limit)
	}

	return value * multiplier, nil
}

// FindMemoryLimit parses two memory limits and returns the smaller one in bytes.
// Unparsable limits are logged and ignored.
func FindMemoryLimit(x, y string) int64 {
	return FindLimit(parseOrZero(x), parseOrZero(y))
}

func parseOrZero(limit string) int64 {
	if limit == "" {
		return 0
	}
	bytes, err := ParseMemoryLimit(limit)
	if err != nil {
		slog.Error("Failed to parse memory limit", slog.String("limit", limit), slog.Any("error", err))
		return 0
	}
	return bytes
}
