package models

import "time"

// Payment types accepted by the ledger mutator.
const (
	PaymentInstallment = "installment"
	PaymentFull        = "full"
	PaymentPartial     = "partial"
)

// PaymentResult reports the outcome of applying a payment against a
// liability. It is transient: the amounts moved, not a stored entity.
type PaymentResult struct {
	LiabilityID       int64  `json:"liability_id"`
	PaidCents         int64  `json:"paid_cents"`
	RemainingCents    int64  `json:"remaining_cents"`
	InstallmentsPaid  int    `json:"installments_paid"`
	Completed         bool   `json:"completed"`
	AssetID           int64  `json:"asset_id"`
	AssetLabel        string `json:"asset_label"`
	AssetBalanceCents int64  `json:"asset_balance_cents"`
}

// ExpenseResult reports the outcome of a plain spending event.
type ExpenseResult struct {
	AssetID           int64  `json:"asset_id"`
	AssetLabel        string `json:"asset_label"`
	AmountCents       int64  `json:"amount_cents"`
	AssetBalanceCents int64  `json:"asset_balance_cents"`
}

// Expense is the stored record of a spending event.
type Expense struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	OccurredAt   time.Time `json:"occurred_at"`
	AmountCents  int64     `json:"amount_cents"`
	Currency     string    `json:"currency"`
	Merchant     string    `json:"merchant,omitempty"`
	Category     string    `json:"category,omitempty"`
	AccountLabel string    `json:"account_label,omitempty"`
	Note         string    `json:"note,omitempty"`
	SourceText   string    `json:"source_text,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
