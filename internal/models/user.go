package models

import "time"

// User represents a ledger owner in the system
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Not serialized
	CurrencyPref string    `json:"currency_pref"`
	CreatedAt    time.Time `json:"created_at"`
}
