package repository

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestUnpaidInstallmentsExcludesCompletedLiabilities(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewRepository(db)

	until := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "liability_id", "user_id", "seq", "amount_cents", "due_date", "priority", "liability_type",
	}).AddRow(int64(5), int64(10), int64(1), 2, int64(10000), due, 70, "Student Loan")

	// A full payoff leaves unpaid installment rows behind; the query must
	// filter settled liabilities out rather than return those rows.
	mock.ExpectQuery(`NOT i\.paid AND NOT l\.completed`).
		WithArgs(int64(1), until).
		WillReturnRows(rows)

	out, err := repo.UnpaidInstallments(1, until)
	if err != nil {
		t.Fatalf("UnpaidInstallments: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0].Label != "Student Loan" || out[0].Priority != 70 || out[0].AmountCents != 10000 {
		t.Fatalf("row = %+v, want Student Loan/70/10000", out[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
