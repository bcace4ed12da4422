package models

import "time"

// Asset represents a balance usable as a payment source. ValueCents never
// goes negative: deductions are checked against the balance before any
// mutation is applied.
type Asset struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Type         string     `json:"asset_type"`    // free text, e.g. "Savings Account"
	AccountLabel string     `json:"account_label"` // free text, e.g. "Chase Checking"
	ValueCents   int64      `json:"value_cents"`
	Liquid       bool       `json:"liquid"`
	ReceivedDate *time.Time `json:"received_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FutureAsset is an expected inflow. It is a projection input only and does
// not change any asset balance until the money actually arrives.
type FutureAsset struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	AmountCents  int64     `json:"amount_cents"`
	ExpectedDate time.Time `json:"expected_date"`
	CreatedAt    time.Time `json:"created_at"`
}
