package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/finassist/finance-service/internal/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateMonthlySchedule(t *testing.T) {
	// 1200.00 over 12 monthly installments anchored on 2024-01-15
	installments, err := Generate(120000, 12, money.Monthly, date(2024, time.January, 15))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(installments) != 12 {
		t.Fatalf("len = %d, want 12", len(installments))
	}

	var sum int64
	for i, inst := range installments {
		if inst.Sequence != i+1 {
			t.Fatalf("sequence[%d] = %d, want %d", i, inst.Sequence, i+1)
		}
		if inst.AmountCents != 10000 {
			t.Fatalf("amount[%d] = %d, want 10000", i, inst.AmountCents)
		}
		if inst.DueDate.Day() != 15 {
			t.Fatalf("due[%d] = %v, want day 15", i, inst.DueDate)
		}
		want := time.Month((int(time.January)-1+i)%12 + 1)
		if inst.DueDate.Month() != want {
			t.Fatalf("due[%d] month = %v, want %v", i, inst.DueDate.Month(), want)
		}
		sum += inst.AmountCents
	}
	if sum != 120000 {
		t.Fatalf("sum = %d, want 120000", sum)
	}
}

func TestGenerateLastInstallmentAbsorbsRemainder(t *testing.T) {
	installments, err := Generate(10000, 3, money.Weekly, date(2024, time.March, 1))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if installments[0].AmountCents != 3333 || installments[1].AmountCents != 3333 {
		t.Fatalf("base amounts = %d, %d, want 3333 each", installments[0].AmountCents, installments[1].AmountCents)
	}
	if installments[2].AmountCents != 3334 {
		t.Fatalf("last amount = %d, want 3334", installments[2].AmountCents)
	}
}

func TestGenerateSumEqualsTotal(t *testing.T) {
	cases := []struct {
		total int64
		n     int
	}{
		{100, 3},
		{99999, 7},
		{1, 1},
		{1000000, 17},
	}
	for _, tc := range cases {
		installments, err := Generate(tc.total, tc.n, money.Monthly, date(2024, time.June, 30))
		if err != nil {
			t.Fatalf("Generate(%d, %d): %v", tc.total, tc.n, err)
		}
		var sum int64
		for _, inst := range installments {
			sum += inst.AmountCents
		}
		if sum != tc.total {
			t.Fatalf("Generate(%d, %d) sum = %d, want %d", tc.total, tc.n, sum, tc.total)
		}
	}
}

func TestGenerateDueDatesNonDecreasing(t *testing.T) {
	for _, freq := range []money.Frequency{money.Weekly, money.Monthly, money.Quarterly, money.Yearly} {
		installments, err := Generate(60000, 6, freq, date(2024, time.January, 31))
		if err != nil {
			t.Fatalf("Generate(%s): %v", freq, err)
		}
		for i := 1; i < len(installments); i++ {
			if installments[i].DueDate.Before(installments[i-1].DueDate) {
				t.Fatalf("%s: due[%d]=%v before due[%d]=%v", freq, i, installments[i].DueDate, i-1, installments[i-1].DueDate)
			}
		}
		if !installments[0].DueDate.Equal(date(2024, time.January, 31)) {
			t.Fatalf("%s: first due = %v, want anchor", freq, installments[0].DueDate)
		}
	}
}

func TestGenerateMonthEndClamped(t *testing.T) {
	installments, err := Generate(30000, 3, money.Monthly, date(2024, time.January, 31))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// Anchor keeps its day; subsequent months clamp to 28.
	if installments[1].DueDate.Day() != 28 || installments[1].DueDate.Month() != time.February {
		t.Fatalf("due[1] = %v, want Feb 28", installments[1].DueDate)
	}
	if installments[2].DueDate.Day() != 28 || installments[2].DueDate.Month() != time.March {
		t.Fatalf("due[2] = %v, want Mar 28", installments[2].DueDate)
	}
}

func TestGenerateYearlyKeepsAnchorDay(t *testing.T) {
	installments, err := Generate(30000, 3, money.Yearly, date(2024, time.July, 30))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i, inst := range installments {
		if inst.DueDate.Year() != 2024+i || inst.DueDate.Month() != time.July || inst.DueDate.Day() != 30 {
			t.Fatalf("due[%d] = %v, want %d-07-30", i, inst.DueDate, 2024+i)
		}
	}
}

func TestGenerateOneTime(t *testing.T) {
	installments, err := Generate(5000, 4, money.OneTime, date(2024, time.May, 10))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(installments) != 1 {
		t.Fatalf("len = %d, want 1", len(installments))
	}
	if installments[0].AmountCents != 5000 {
		t.Fatalf("amount = %d, want 5000", installments[0].AmountCents)
	}
	if !installments[0].DueDate.Equal(date(2024, time.May, 10)) {
		t.Fatalf("due = %v, want anchor", installments[0].DueDate)
	}
}

func TestGenerateInvalidParams(t *testing.T) {
	cases := []struct {
		name  string
		total int64
		n     int
		freq  money.Frequency
	}{
		{"zero total", 0, 3, money.Monthly},
		{"negative total", -100, 3, money.Monthly},
		{"zero installments", 1000, 0, money.Monthly},
	}
	for _, tc := range cases {
		if _, err := Generate(tc.total, tc.n, tc.freq, date(2024, time.January, 1)); !errors.Is(err, ErrInvalidScheduleParams) {
			t.Fatalf("%s: err = %v, want ErrInvalidScheduleParams", tc.name, err)
		}
	}

	if _, err := Generate(1000, 2, money.Frequency("fortnightly"), date(2024, time.January, 1)); !errors.Is(err, money.ErrInvalidFrequency) {
		t.Fatalf("err = %v, want ErrInvalidFrequency", err)
	}
}
