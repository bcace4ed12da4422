package models

import (
	"time"

	"github.com/finassist/finance-service/internal/money"
)

// Liability represents an installment-based obligation (loan, bill, EMI).
// Invariants: 0 <= RemainingCents <= TotalCents, and Completed is true
// exactly when RemainingCents is zero. Liabilities are never deleted; a paid
// off liability stays in the ledger as a terminal record.
type Liability struct {
	ID                int64           `json:"id"`
	UserID            int64           `json:"user_id"`
	Type              string          `json:"liability_type"` // e.g. "Student Loan"
	TotalCents        int64           `json:"total_cents"`
	RemainingCents    int64           `json:"remaining_cents"`
	InstallmentCents  int64           `json:"installment_cents"`
	InstallmentsTotal int             `json:"installments_total"`
	InstallmentsPaid  int             `json:"installments_paid"`
	Frequency         money.Frequency `json:"frequency"`
	DueDate           time.Time       `json:"due_date"` // anchor for the schedule
	NextDueDate       time.Time       `json:"next_due_date"`
	Priority          int             `json:"priority"` // 1..100
	Completed         bool            `json:"completed"`
	Description       string          `json:"description"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Installment is one scheduled partial payment of a liability. Amount and due
// date are fixed at generation time; only the paid flag changes afterwards.
type Installment struct {
	ID          int64      `json:"id"`
	LiabilityID int64      `json:"liability_id"`
	UserID      int64      `json:"user_id"`
	Sequence    int        `json:"sequence"`
	AmountCents int64      `json:"amount_cents"`
	DueDate     time.Time  `json:"due_date"`
	Paid        bool       `json:"paid"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

// DueInstallment is an unpaid installment annotated with its parent
// liability's priority and label, as fed into the cash-flow simulation.
type DueInstallment struct {
	Installment
	Priority int    `json:"priority"`
	Label    string `json:"label"`
}
