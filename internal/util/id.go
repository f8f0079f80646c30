// Package util provides shared utility functions.
package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ID prefixes for crewboard entities.
const (
	TaskIDPrefix    = "T"
	SprintIDPrefix  = "S"
	BacklogIDPrefix = "B"
)

// FormatID renders a sequence number as an entity id, e.g. FormatID("T", 1)
// returns "T001". Numbers beyond 999 widen naturally ("T1000").
func FormatID(prefix string, n int) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

// ParseID extracts the sequence number from an id with the given prefix.
func ParseID(prefix, id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextID returns the next free id after the highest sequence number among
// existing ids with the given prefix. Ids that do not parse are ignored.
func NextID(prefix string, existing []string) string {
	max := 0
	for _, id := range existing {
		if n, ok := ParseID(prefix, id); ok && n > max {
			max = n
		}
	}
	return FormatID(prefix, max+1)
}

// ShortID returns a shortened version of an id for display. The full id is
// returned when it already fits.
func ShortID(id string, n int) string {
	if n <= 0 || len(id) <= n {
		return id
	}
	return id[:n]
}
