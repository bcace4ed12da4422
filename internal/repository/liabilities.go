package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/finassist/finance-service/internal/ledger"
	"github.com/finassist/finance-service/internal/models"
)

// CreateLiability stores a liability together with its generated installment
// schedule in one transaction.
func (r *Repository) CreateLiability(liability *models.Liability, installments []models.Installment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO liabilities (
			user_id, liability_type, total_cents, remaining_cents, installment_cents,
			installments_total, installments_paid, frequency, due_date, next_due_date,
			priority, completed, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query,
		liability.UserID, liability.Type, liability.TotalCents, liability.RemainingCents,
		liability.InstallmentCents, liability.InstallmentsTotal, liability.InstallmentsPaid,
		liability.Frequency, liability.DueDate, liability.NextDueDate,
		liability.Priority, liability.Completed, liability.Description).
		Scan(&liability.ID, &liability.CreatedAt, &liability.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create liability: %w", err)
	}

	for i := range installments {
		installments[i].LiabilityID = liability.ID
		installments[i].UserID = liability.UserID
		err := tx.QueryRow(`
			INSERT INTO installments (liability_id, user_id, seq, amount_cents, due_date)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			liability.ID, liability.UserID, installments[i].Sequence,
			installments[i].AmountCents, installments[i].DueDate).
			Scan(&installments[i].ID)
		if err != nil {
			return fmt.Errorf("failed to create installment %d: %w", installments[i].Sequence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit liability: %w", err)
	}
	return nil
}

const liabilityColumns = `
	id, user_id, liability_type, total_cents, remaining_cents, installment_cents,
	installments_total, installments_paid, frequency, due_date, next_due_date,
	priority, completed, description, created_at, updated_at`

func scanLiability(row interface{ Scan(...interface{}) error }) (*models.Liability, error) {
	l := &models.Liability{}
	err := row.Scan(&l.ID, &l.UserID, &l.Type, &l.TotalCents, &l.RemainingCents, &l.InstallmentCents,
		&l.InstallmentsTotal, &l.InstallmentsPaid, &l.Frequency, &l.DueDate, &l.NextDueDate,
		&l.Priority, &l.Completed, &l.Description, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// LiabilityByID loads one liability scoped to its owner.
func (r *Repository) LiabilityByID(ownerID, liabilityID int64) (*models.Liability, error) {
	row := r.db.QueryRow(`SELECT `+liabilityColumns+` FROM liabilities WHERE id = $1 AND user_id = $2`,
		liabilityID, ownerID)
	l, err := scanLiability(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", ledger.ErrLiabilityNotFound, liabilityID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load liability: %w", err)
	}
	return l, nil
}

// LiabilitiesByOwner returns all liabilities for one owner, newest first.
func (r *Repository) LiabilitiesByOwner(ownerID int64) ([]models.Liability, error) {
	rows, err := r.db.Query(`SELECT `+liabilityColumns+` FROM liabilities WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query liabilities: %w", err)
	}
	defer rows.Close()

	var out []models.Liability
	for rows.Next() {
		l, err := scanLiability(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// InstallmentsByLiability returns the full schedule of one liability in
// sequence order.
func (r *Repository) InstallmentsByLiability(ownerID, liabilityID int64) ([]models.Installment, error) {
	rows, err := r.db.Query(`
		SELECT id, liability_id, user_id, seq, amount_cents, due_date, paid, paid_at
		FROM installments
		WHERE liability_id = $1 AND user_id = $2
		ORDER BY seq`, liabilityID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments: %w", err)
	}
	defer rows.Close()

	var out []models.Installment
	for rows.Next() {
		var inst models.Installment
		var paidAt sql.NullTime
		if err := rows.Scan(&inst.ID, &inst.LiabilityID, &inst.UserID, &inst.Sequence,
			&inst.AmountCents, &inst.DueDate, &inst.Paid, &paidAt); err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		if paidAt.Valid {
			t := paidAt.Time
			inst.PaidAt = &t
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

// UnpaidInstallments returns every unpaid installment due on or before the
// given date, annotated with the parent liability's priority and label.
// Liabilities settled early (a full payoff marks only one installment row
// paid) are excluded: once remaining hits zero the leftover rows are no
// longer obligations.
func (r *Repository) UnpaidInstallments(ownerID int64, until time.Time) ([]models.DueInstallment, error) {
	rows, err := r.db.Query(`
		SELECT i.id, i.liability_id, i.user_id, i.seq, i.amount_cents, i.due_date,
		       l.priority, l.liability_type
		FROM installments i
		JOIN liabilities l ON l.id = i.liability_id
		WHERE i.user_id = $1 AND NOT i.paid AND NOT l.completed AND i.due_date <= $2
		ORDER BY i.due_date, i.liability_id, i.seq`, ownerID, until)
	if err != nil {
		return nil, fmt.Errorf("failed to query unpaid installments: %w", err)
	}
	defer rows.Close()

	var out []models.DueInstallment
	for rows.Next() {
		var d models.DueInstallment
		if err := rows.Scan(&d.ID, &d.LiabilityID, &d.UserID, &d.Sequence,
			&d.AmountCents, &d.DueDate, &d.Priority, &d.Label); err != nil {
			return nil, fmt.Errorf("failed to scan due installment: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SavePayment persists the asset and liability sides of one payment as a
// single transaction. When markInstallment is set, the earliest unpaid
// installment of the liability is flagged as paid.
func (r *Repository) SavePayment(asset *models.Asset, liability *models.Liability, markInstallment bool) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE assets SET value_cents = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3`,
		asset.ValueCents, asset.ID, asset.UserID)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrAssetNotFound
	}

	res, err = tx.Exec(`
		UPDATE liabilities
		SET remaining_cents = $1, installments_paid = $2, completed = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND user_id = $5`,
		liability.RemainingCents, liability.InstallmentsPaid, liability.Completed,
		liability.ID, liability.UserID)
	if err != nil {
		return fmt.Errorf("failed to update liability: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ledger.ErrLiabilityNotFound, liability.ID)
	}

	if markInstallment {
		_, err = tx.Exec(`
			UPDATE installments SET paid = TRUE, paid_at = CURRENT_TIMESTAMP
			WHERE id = (
				SELECT id FROM installments
				WHERE liability_id = $1 AND NOT paid
				ORDER BY seq
				LIMIT 1
			)`, liability.ID)
		if err != nil {
			return fmt.Errorf("failed to mark installment paid: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment: %w", err)
	}
	return nil
}

// UpdateNextDueDate moves a liability's next_due_date forward, used by the
// daily roll job.
func (r *Repository) UpdateNextDueDate(ownerID, liabilityID int64, next time.Time) error {
	_, err := r.db.Exec(`
		UPDATE liabilities SET next_due_date = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3`,
		next, liabilityID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update next due date: %w", err)
	}
	return nil
}

// DashboardSummary aggregates net worth figures for one owner.
func (r *Repository) DashboardSummary(ownerID int64) (*models.DashboardSummary, error) {
	s := &models.DashboardSummary{}
	err := r.db.QueryRow(`SELECT COALESCE(SUM(value_cents), 0) FROM assets WHERE user_id = $1`, ownerID).
		Scan(&s.TotalAssetsCents)
	if err != nil {
		return nil, fmt.Errorf("failed to sum assets: %w", err)
	}
	err = r.db.QueryRow(`
		SELECT COALESCE(SUM(remaining_cents), 0), COUNT(*) FILTER (WHERE NOT completed)
		FROM liabilities WHERE user_id = $1`, ownerID).
		Scan(&s.TotalLiabilitiesCents, &s.ActiveLiabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to sum liabilities: %w", err)
	}
	s.NetWorthCents = s.TotalAssetsCents - s.TotalLiabilitiesCents

	rows, err := r.db.Query(`SELECT `+liabilityColumns+`
		FROM liabilities
		WHERE user_id = $1 AND NOT completed
		ORDER BY priority DESC, next_due_date
		LIMIT 5`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query high priority liabilities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		l, err := scanLiability(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}
		s.HighPriority = append(s.HighPriority, *l)
	}
	return s, rows.Err()
}
