package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/finassist/finance-service/internal/money"
)

func TestPriorityExplicitScaling(t *testing.T) {
	table := DefaultTable()
	cases := []struct {
		explicit int
		want     int
	}{
		{1, 10},
		{9, 90},
		{10, 100},
		{11, 11},
		{55, 55},
		{100, 100},
	}
	for _, tc := range cases {
		if got := table.Priority("whatever", tc.explicit); got != tc.want {
			t.Fatalf("Priority(explicit=%d) = %d, want %d", tc.explicit, got, tc.want)
		}
	}
}

func TestPriorityKeywordBuckets(t *testing.T) {
	table := DefaultTable()
	cases := []struct {
		text string
		want int
	}{
		{"URGENT hospital payment", 85},
		{"monthly rent for apartment", 85},
		{"student loan repayment", 70},
		{"netflix subscription", 40},
		{"something unremarkable", 50},
	}
	for _, tc := range cases {
		if got := table.Priority(tc.text, 0); got != tc.want {
			t.Fatalf("Priority(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestPriorityBucketOrder(t *testing.T) {
	// Urgent wins over debt when both match.
	table := DefaultTable()
	if got := table.Priority("urgent loan payment", 0); got != 85 {
		t.Fatalf("Priority(urgent loan) = %d, want 85", got)
	}
}

func TestIsOneTime(t *testing.T) {
	table := DefaultTable()
	cases := []struct {
		text string
		freq money.Frequency
		want bool
	}{
		{"electricity bill for march", money.Monthly, true},
		{"pay off the car", money.OneTime, true},
		{"car loan over 20 months", money.Monthly, false},
		{"internet charges", money.Monthly, true},
		{"gym membership", money.Monthly, false},
	}
	for _, tc := range cases {
		if got := table.IsOneTime(tc.text, tc.freq); got != tc.want {
			t.Fatalf("IsOneTime(%q, %s) = %v, want %v", tc.text, tc.freq, got, tc.want)
		}
	}
}

func TestLoadTableOverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := []byte("urgent:\n  - emergency\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if got := table.Priority("emergency vet visit", 0); got != 85 {
		t.Fatalf("Priority(emergency) = %d, want 85", got)
	}
	// Untouched buckets keep defaults.
	if got := table.Priority("student loan", 0); got != 70 {
		t.Fatalf("Priority(student loan) = %d, want 70", got)
	}
}
