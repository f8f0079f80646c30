package models

import (
	"strings"
	"testing"
	"time"
)

func TestDiscussionEntryFormatBlock(t *testing.T) {
	entry := DiscussionEntry{
		Timestamp: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Author:    "dev_bob",
		Role:      RoleDeveloper,
		Body:      "Deployed to staging.",
		Ref:       "abc-123",
	}
	block := entry.FormatBlock()

	if !strings.HasPrefix(block, "## [2025-06-01T09:00:00Z] dev_bob (developer)\n") {
		t.Errorf("bad header: %q", block)
	}
	if !strings.Contains(block, "<!-- ref: abc-123 -->") {
		t.Errorf("ref line missing: %q", block)
	}
	if !strings.HasSuffix(block, "Deployed to staging.\n\n") {
		t.Errorf("body or trailing separator malformed: %q", block)
	}
}

func TestParseDiscussionRoundTrip(t *testing.T) {
	entries := []DiscussionEntry{
		{Timestamp: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), Author: "analyst_anna", Role: RoleAnalyst, Body: "Spec is ready.", Ref: "r1"},
		{Timestamp: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), Author: "dev_bob", Role: RoleDeveloper, Body: "Working on it.\n\nETA tomorrow.", Ref: "r2"},
	}

	var log strings.Builder
	for _, e := range entries {
		log.WriteString(e.FormatBlock())
	}

	parsed := ParseDiscussion(log.String())
	if len(parsed) != len(entries) {
		t.Fatalf("parsed %d entries, want %d", len(parsed), len(entries))
	}
	for i := range entries {
		if parsed[i].Author != entries[i].Author || parsed[i].Role != entries[i].Role {
			t.Errorf("entry %d identity mismatch: %+v", i, parsed[i])
		}
		if !parsed[i].Timestamp.Equal(entries[i].Timestamp) {
			t.Errorf("entry %d timestamp = %v, want %v", i, parsed[i].Timestamp, entries[i].Timestamp)
		}
		if parsed[i].Body != entries[i].Body {
			t.Errorf("entry %d body = %q, want %q", i, parsed[i].Body, entries[i].Body)
		}
		if parsed[i].Ref != entries[i].Ref {
			t.Errorf("entry %d ref = %q, want %q", i, parsed[i].Ref, entries[i].Ref)
		}
	}
}

func TestParseDiscussionIgnoresLooseText(t *testing.T) {
	raw := "stray preamble\n## [2025-06-01T09:00:00Z] dev_bob (developer)\n\nHello.\n\nnot a header ## [x]\n"
	parsed := ParseDiscussion(raw)
	if len(parsed) != 1 {
		t.Fatalf("parsed %d entries, want 1", len(parsed))
	}
	if !strings.Contains(parsed[0].Body, "not a header") {
		t.Errorf("trailing text should fold into body: %q", parsed[0].Body)
	}
}
