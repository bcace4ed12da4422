package money

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseFrequency(t *testing.T) {
	cases := []struct {
		input string
		want  Frequency
	}{
		{"monthly", Monthly},
		{"MONTHLY", Monthly},
		{" weekly ", Weekly},
		{"quarterly", Quarterly},
		{"yearly", Yearly},
		{"one_time", OneTime},
		{"one-time", OneTime},
	}
	for _, tc := range cases {
		got, err := ParseFrequency(tc.input)
		if err != nil {
			t.Fatalf("ParseFrequency(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseFrequency(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}

	if _, err := ParseFrequency("daily"); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("ParseFrequency(daily) err = %v, want ErrInvalidFrequency", err)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		input string
		want  int64
	}{
		{"1234.50", 123450},
		{"0.01", 1},
		{"100", 10000},
		{"12.345", 1235}, // rounded to nearest cent
		{"12.344", 1234},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.input)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAmount(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}

	if _, err := ParseAmount("twelve"); err == nil {
		t.Fatal("ParseAmount(twelve): expected error")
	}
}

func TestFromFloat(t *testing.T) {
	if got := FromFloat(19.99); got != 1999 {
		t.Fatalf("FromFloat(19.99) = %d, want 1999", got)
	}
	if got := FromFloat(0.1 + 0.2); got != 30 {
		t.Fatalf("FromFloat(0.1+0.2) = %d, want 30", got)
	}
}

func TestFormat(t *testing.T) {
	if got := Format(123450); got != "1234.50" {
		t.Fatalf("Format(123450) = %q, want %q", got, "1234.50")
	}
	if got := Format(5); got != "0.05" {
		t.Fatalf("Format(5) = %q, want %q", got, "0.05")
	}
}

func TestAddIntervalWeekly(t *testing.T) {
	got := AddInterval(date(2024, time.January, 15), Weekly, 3)
	if want := date(2024, time.February, 5); !got.Equal(want) {
		t.Fatalf("weekly +3 = %v, want %v", got, want)
	}
}

func TestAddIntervalMonthlyClamp(t *testing.T) {
	cases := []struct {
		start time.Time
		n     int
		want  time.Time
	}{
		{date(2024, time.January, 15), 1, date(2024, time.February, 15)},
		{date(2024, time.January, 31), 1, date(2024, time.February, 28)},
		{date(2024, time.November, 30), 3, date(2025, time.February, 28)},
		{date(2024, time.December, 15), 1, date(2025, time.January, 15)},
	}
	for _, tc := range cases {
		if got := AddInterval(tc.start, Monthly, tc.n); !got.Equal(tc.want) {
			t.Fatalf("monthly %v +%d = %v, want %v", tc.start, tc.n, got, tc.want)
		}
	}
}

func TestAddIntervalQuarterly(t *testing.T) {
	got := AddInterval(date(2024, time.January, 15), Quarterly, 2)
	if want := date(2024, time.July, 15); !got.Equal(want) {
		t.Fatalf("quarterly +2 = %v, want %v", got, want)
	}
}

func TestAddIntervalYearlyLeapDay(t *testing.T) {
	got := AddInterval(date(2024, time.February, 29), Yearly, 1)
	if want := date(2025, time.February, 28); !got.Equal(want) {
		t.Fatalf("yearly from Feb 29 = %v, want %v", got, want)
	}
}

func TestAddIntervalYearlyKeepsMonthDay(t *testing.T) {
	cases := []struct {
		start time.Time
		n     int
		want  time.Time
	}{
		{date(2024, time.July, 30), 1, date(2025, time.July, 30)},
		{date(2024, time.January, 31), 1, date(2025, time.January, 31)},
		{date(2024, time.October, 29), 2, date(2026, time.October, 29)},
		{date(2024, time.February, 29), 4, date(2028, time.February, 29)}, // leap to leap
	}
	for _, tc := range cases {
		if got := AddInterval(tc.start, Yearly, tc.n); !got.Equal(tc.want) {
			t.Fatalf("yearly %v +%d = %v, want %v", tc.start, tc.n, got, tc.want)
		}
	}
}

func TestAddIntervalOneTimeAndZero(t *testing.T) {
	anchor := date(2024, time.June, 1)
	if got := AddInterval(anchor, OneTime, 5); !got.Equal(anchor) {
		t.Fatalf("one_time = %v, want anchor", got)
	}
	if got := AddInterval(anchor, Monthly, 0); !got.Equal(anchor) {
		t.Fatalf("n=0 = %v, want anchor", got)
	}
}
