package forecast

import (
	"reflect"
	"testing"
	"time"

	"github.com/finassist/finance-service/internal/models"
)

type fakeSource struct {
	assets       []models.Asset
	installments []models.DueInstallment
	inflows      []models.FutureAsset
}

func (s *fakeSource) LiquidAssets(ownerID int64) ([]models.Asset, error) {
	return s.assets, nil
}

func (s *fakeSource) UnpaidInstallments(ownerID int64, until time.Time) ([]models.DueInstallment, error) {
	var out []models.DueInstallment
	for _, inst := range s.installments {
		if !inst.DueDate.After(until) {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (s *fakeSource) ExpectedInflows(ownerID int64, until time.Time) ([]models.FutureAsset, error) {
	var out []models.FutureAsset
	for _, in := range s.inflows {
		if !in.ExpectedDate.After(until) {
			out = append(out, in)
		}
	}
	return out, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func due(liabilityID int64, label string, priority, seq int, amount int64, dueDate time.Time) models.DueInstallment {
	return models.DueInstallment{
		Installment: models.Installment{
			LiabilityID: liabilityID,
			Sequence:    seq,
			AmountCents: amount,
			DueDate:     dueDate,
		},
		Priority: priority,
		Label:    label,
	}
}

func TestProjectShortfall(t *testing.T) {
	today := date(2024, time.October, 1)
	src := &fakeSource{
		assets: []models.Asset{
			{ValueCents: 10000, Liquid: true},
		},
		installments: []models.DueInstallment{
			due(1, "Rent", 90, 1, 15000, today.AddDate(0, 0, 1)),
		},
	}

	p, err := Project(src, 1, today, 30)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(p.Schedule) != 0 {
		t.Fatalf("schedule has %d days, want 0", len(p.Schedule))
	}
	if len(p.ShortfallNotes) != 1 {
		t.Fatalf("shortfall notes = %d, want 1", len(p.ShortfallNotes))
	}
	note := p.ShortfallNotes[0]
	if note.Liability != "Rent" || note.Date != "2024-10-02" {
		t.Fatalf("note = %+v, want Rent on 2024-10-02", note)
	}
	if p.BalanceCents != 10000 {
		t.Fatalf("projected balance = %d, want 10000 (untouched)", p.BalanceCents)
	}
}

func TestProjectPriorityOrderWithinDay(t *testing.T) {
	today := date(2024, time.October, 1)
	dueDay := today.AddDate(0, 0, 5)
	src := &fakeSource{
		assets: []models.Asset{{ValueCents: 20000, Liquid: true}},
		installments: []models.DueInstallment{
			due(1, "Gym", 40, 1, 8000, dueDay),
			due(2, "Rent", 90, 1, 15000, dueDay),
		},
	}

	p, err := Project(src, 1, today, 10)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	// Rent (priority 90) is paid first and exhausts the funds the gym
	// membership would have needed.
	if len(p.Schedule) != 1 || len(p.Schedule[0].Items) != 1 {
		t.Fatalf("schedule = %+v, want one day with one item", p.Schedule)
	}
	if p.Schedule[0].Items[0].Liability != "Rent" {
		t.Fatalf("paid %q first, want Rent", p.Schedule[0].Items[0].Liability)
	}
	if len(p.ShortfallNotes) != 1 || p.ShortfallNotes[0].Liability != "Gym" {
		t.Fatalf("shortfalls = %+v, want Gym", p.ShortfallNotes)
	}
	if p.BalanceCents != 5000 {
		t.Fatalf("balance = %d, want 5000", p.BalanceCents)
	}
}

func TestProjectTieBreakSequenceThenID(t *testing.T) {
	today := date(2024, time.October, 1)
	dueDay := today.AddDate(0, 0, 2)
	src := &fakeSource{
		assets: []models.Asset{{ValueCents: 100000, Liquid: true}},
		installments: []models.DueInstallment{
			due(5, "B", 70, 2, 1000, dueDay),
			due(3, "C", 70, 1, 1000, dueDay),
			due(2, "A", 70, 1, 1000, dueDay),
		},
	}

	p, err := Project(src, 1, today, 5)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	var order []string
	for _, item := range p.Schedule[0].Items {
		order = append(order, item.Liability)
	}
	if want := []string{"A", "C", "B"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestProjectInflowEnablesPayment(t *testing.T) {
	today := date(2024, time.October, 1)
	src := &fakeSource{
		assets: []models.Asset{{ValueCents: 5000, Liquid: true}},
		inflows: []models.FutureAsset{
			{AmountCents: 20000, ExpectedDate: today.AddDate(0, 0, 3)},
		},
		installments: []models.DueInstallment{
			due(1, "Loan", 70, 4, 15000, today.AddDate(0, 0, 3)),
		},
	}

	p, err := Project(src, 1, today, 10)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(p.Schedule) != 1 {
		t.Fatalf("schedule days = %d, want 1", len(p.Schedule))
	}
	if p.Schedule[0].Date != "2024-10-04" {
		t.Fatalf("paid on %s, want 2024-10-04", p.Schedule[0].Date)
	}
	if p.BalanceCents != 10000 {
		t.Fatalf("balance = %d, want 10000", p.BalanceCents)
	}
}

func TestProjectFutureReceivedAssetExcluded(t *testing.T) {
	today := date(2024, time.October, 1)
	futureDate := today.AddDate(0, 0, 10)
	pastDate := today.AddDate(0, 0, -10)
	src := &fakeSource{
		assets: []models.Asset{
			{ValueCents: 10000, Liquid: true},
			{ValueCents: 99999, Liquid: true, ReceivedDate: &futureDate},
			{ValueCents: 5000, Liquid: true, ReceivedDate: &pastDate},
		},
	}

	p, err := Project(src, 1, today, 5)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if p.BalanceCents != 15000 {
		t.Fatalf("balance = %d, want 15000 (future-dated asset excluded)", p.BalanceCents)
	}
}

func TestProjectMissedObligationNotRetried(t *testing.T) {
	today := date(2024, time.October, 1)
	src := &fakeSource{
		assets: []models.Asset{{ValueCents: 0, Liquid: true}},
		inflows: []models.FutureAsset{
			{AmountCents: 50000, ExpectedDate: today.AddDate(0, 0, 5)},
		},
		installments: []models.DueInstallment{
			due(1, "Bill", 80, 1, 10000, today.AddDate(0, 0, 1)),
		},
	}

	p, err := Project(src, 1, today, 10)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	// The bill missed on day 1 does not reappear after the inflow arrives.
	if len(p.Schedule) != 0 {
		t.Fatalf("schedule = %+v, want empty", p.Schedule)
	}
	if len(p.ShortfallNotes) != 1 {
		t.Fatalf("shortfalls = %d, want 1", len(p.ShortfallNotes))
	}
	if p.BalanceCents != 50000 {
		t.Fatalf("balance = %d, want 50000", p.BalanceCents)
	}
}

func TestProjectDeterministic(t *testing.T) {
	today := date(2024, time.October, 1)
	src := &fakeSource{
		assets: []models.Asset{{ValueCents: 300000, Liquid: true}},
		inflows: []models.FutureAsset{
			{AmountCents: 10000, ExpectedDate: today.AddDate(0, 0, 2)},
		},
		installments: []models.DueInstallment{
			due(1, "Rent", 85, 1, 90000, today.AddDate(0, 0, 1)),
			due(2, "Loan", 70, 3, 25000, today.AddDate(0, 0, 1)),
			due(3, "Phone", 40, 2, 4000, today.AddDate(0, 0, 8)),
		},
	}

	first, err := Project(src, 1, today, 30)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	second, err := Project(src, 1, today, 30)
	if err != nil {
		t.Fatalf("Project (second): %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("projection not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
