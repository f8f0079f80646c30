package models

import (
	"fmt"
	"strings"
	"time"
)

// discussionTimeLayout is the timestamp format used in block headers.
const discussionTimeLayout = time.RFC3339

// DiscussionEntry is a single authored block in a task's discussion log.
// Entries are only ever appended; they are never edited or deleted.
type DiscussionEntry struct {
	Timestamp time.Time `json:"timestamp" validate:"required"`
	Author    string    `json:"author" validate:"required,employeename"`
	Role      Role      `json:"role" validate:"required"`
	Body      string    `json:"body" validate:"required"`
	Ref       string    `json:"ref,omitempty"` // opaque anchor for cross-referencing entries
}

// FormatBlock renders the entry in the fixed log format:
//
//	## [2025-01-02T15:04:05Z] author (role)
//
//	body
func (e DiscussionEntry) FormatBlock() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## [%s] %s (%s)\n", e.Timestamp.UTC().Format(discussionTimeLayout), e.Author, e.Role)
	if e.Ref != "" {
		fmt.Fprintf(&b, "<!-- ref: %s -->\n", e.Ref)
	}
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(e.Body, "\n"))
	b.WriteString("\n\n")
	return b.String()
}

// ParseDiscussion parses a raw log back into entries. Lines that do not
// belong to a recognizable block header are treated as body text of the
// preceding entry, so hand-edited logs degrade gracefully.
func ParseDiscussion(raw string) []DiscussionEntry {
	var entries []DiscussionEntry
	var current *DiscussionEntry
	var body strings.Builder

	flush := func() {
		if current != nil {
			current.Body = strings.TrimSpace(body.String())
			entries = append(entries, *current)
			body.Reset()
			current = nil
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		if entry, ok := parseBlockHeader(line); ok {
			flush()
			current = &entry
			continue
		}
		if current == nil {
			continue
		}
		if ref, ok := strings.CutPrefix(line, "<!-- ref: "); ok && current.Ref == "" && body.Len() == 0 {
			current.Ref = strings.TrimSuffix(strings.TrimSpace(ref), " -->")
			current.Ref = strings.TrimSuffix(current.Ref, "-->")
			current.Ref = strings.TrimSpace(current.Ref)
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()
	return entries
}

// parseBlockHeader matches "## [timestamp] author (role)".
func parseBlockHeader(line string) (DiscussionEntry, bool) {
	rest, ok := strings.CutPrefix(line, "## [")
	if !ok {
		return DiscussionEntry{}, false
	}
	tsRaw, rest, ok := strings.Cut(rest, "] ")
	if !ok {
		return DiscussionEntry{}, false
	}
	ts, err := time.Parse(discussionTimeLayout, tsRaw)
	if err != nil {
		return DiscussionEntry{}, false
	}
	author, roleRaw, ok := strings.Cut(rest, " (")
	if !ok || !strings.HasSuffix(roleRaw, ")") {
		return DiscussionEntry{}, false
	}
	role := Role(strings.TrimSuffix(roleRaw, ")"))
	return DiscussionEntry{Timestamp: ts, Author: author, Role: role}, true
}
