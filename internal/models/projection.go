package models

// Projection is the result of a forward cash-flow simulation. It is a pure
// point-in-time view and must not be treated as a reservation of funds.
type Projection struct {
	Schedule       []ProjectionDay `json:"schedule"`
	BalanceCents   int64           `json:"projected_balance_cents"`
	ShortfallNotes []ShortfallNote `json:"shortfall_notes"`
}

// ProjectionDay lists the obligations the simulation could cover on one day.
// Days with nothing payable are omitted from the schedule.
type ProjectionDay struct {
	Date  string           `json:"date"` // YYYY-MM-DD
	Items []ProjectionItem `json:"items"`
}

// ProjectionItem is one obligation covered during simulation.
type ProjectionItem struct {
	LiabilityID int64  `json:"liability_id"`
	Liability   string `json:"liability"`
	Sequence    int    `json:"sequence"`
	AmountCents int64  `json:"amount_cents"`
}

// ShortfallNote records a due obligation that available funds could not cover
// on its due date.
type ShortfallNote struct {
	LiabilityID int64  `json:"liability_id"`
	Liability   string `json:"liability"`
	Date        string `json:"date"` // YYYY-MM-DD
	AmountCents int64  `json:"amount_cents"`
}

// DashboardSummary is the net-worth overview for one owner.
type DashboardSummary struct {
	TotalAssetsCents      int64       `json:"total_assets_cents"`
	TotalLiabilitiesCents int64       `json:"total_liabilities_cents"`
	NetWorthCents         int64       `json:"net_worth_cents"`
	ActiveLiabilities     int         `json:"active_liabilities_count"`
	HighPriority          []Liability `json:"high_priority_liabilities"`
}

// Recommendation is the projection-driven payment plan returned to the user.
type Recommendation struct {
	Projection  *Projection `json:"projection"`
	HorizonDays int         `json:"horizon_days"`
	KeyRate     float64     `json:"key_rate,omitempty"`
	Advice      []string    `json:"advice"`
}
