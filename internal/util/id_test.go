package util

import "testing"

func TestFormatID(t *testing.T) {
	tests := []struct {
		prefix string
		n      int
		want   string
	}{
		{"T", 1, "T001"},
		{"S", 42, "S042"},
		{"B", 999, "B999"},
		{"T", 1000, "T1000"},
	}
	for _, tc := range tests {
		if got := FormatID(tc.prefix, tc.n); got != tc.want {
			t.Errorf("FormatID(%q, %d) = %q, want %q", tc.prefix, tc.n, got, tc.want)
		}
	}
}

func TestParseID(t *testing.T) {
	if n, ok := ParseID("T", "T017"); !ok || n != 17 {
		t.Errorf("ParseID(T017) = %d, %v", n, ok)
	}
	if _, ok := ParseID("T", "S001"); ok {
		t.Error("ParseID should reject mismatched prefix")
	}
	if _, ok := ParseID("T", "T"); ok {
		t.Error("ParseID should reject bare prefix")
	}
	if _, ok := ParseID("T", "Tabc"); ok {
		t.Error("ParseID should reject non-numeric suffix")
	}
}

func TestNextID(t *testing.T) {
	if got := NextID("T", nil); got != "T001" {
		t.Errorf("NextID on empty set = %q, want T001", got)
	}
	existing := []string{"T001", "T003", "S009", "garbage"}
	if got := NextID("T", existing); got != "T004" {
		t.Errorf("NextID = %q, want T004", got)
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("T001", 8); got != "T001" {
		t.Errorf("ShortID should not truncate short ids, got %q", got)
	}
	if got := ShortID("T0012345", 4); got != "T001" {
		t.Errorf("ShortID = %q, want T001", got)
	}
}
