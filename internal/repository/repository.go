package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/finassist/finance-service/internal/ledger"
	"github.com/finassist/finance-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (username, email, name, password_hash, currency_pref)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.Name, user.PasswordHash, user.CurrencyPref).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, name, password_hash, currency_pref, created_at
		FROM users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.Name, &user.PasswordHash, &user.CurrencyPref, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, name, password_hash, currency_pref, created_at
		FROM users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.Name, &user.PasswordHash, &user.CurrencyPref, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns every registered user, used by the reminder job.
func (r *Repository) ListUsers() ([]models.User, error) {
	rows, err := r.db.Query(`SELECT id, username, email, name, currency_pref, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.CurrencyPref, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdatePassword replaces a user's password hash.
func (r *Repository) UpdatePassword(userID int64, passwordHash string) error {
	res, err := r.db.Exec(`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// CreateAsset creates a new asset in the database
func (r *Repository) CreateAsset(asset *models.Asset) error {
	query := `
		INSERT INTO assets (user_id, asset_type, account_label, value_cents, liquid, received_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, asset.UserID, asset.Type, asset.AccountLabel, asset.ValueCents, asset.Liquid, asset.ReceivedDate).
		Scan(&asset.ID, &asset.CreatedAt, &asset.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

// AssetsByOwner returns all assets belonging to one owner.
func (r *Repository) AssetsByOwner(ownerID int64) ([]models.Asset, error) {
	return r.queryAssets(`
		SELECT id, user_id, asset_type, account_label, value_cents, liquid, received_date, created_at, updated_at
		FROM assets
		WHERE user_id = $1
		ORDER BY id`, ownerID)
}

// LiquidAssets returns the owner's liquid assets, in creation order so that
// fuzzy label resolution is deterministic.
func (r *Repository) LiquidAssets(ownerID int64) ([]models.Asset, error) {
	return r.queryAssets(`
		SELECT id, user_id, asset_type, account_label, value_cents, liquid, received_date, created_at, updated_at
		FROM assets
		WHERE user_id = $1 AND liquid
		ORDER BY id`, ownerID)
}

func (r *Repository) queryAssets(query string, args ...interface{}) ([]models.Asset, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		var received sql.NullTime
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.AccountLabel, &a.ValueCents, &a.Liquid, &received, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		if received.Valid {
			t := received.Time
			a.ReceivedDate = &t
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// SaveAssetValue persists a new balance for one asset.
func (r *Repository) SaveAssetValue(asset *models.Asset) error {
	res, err := r.db.Exec(`
		UPDATE assets SET value_cents = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3`,
		asset.ValueCents, asset.ID, asset.UserID)
	if err != nil {
		return fmt.Errorf("failed to update asset value: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrAssetNotFound
	}
	return nil
}

// CreateFutureAsset records an expected inflow.
func (r *Repository) CreateFutureAsset(fa *models.FutureAsset) error {
	query := `
		INSERT INTO future_assets (user_id, name, amount_cents, expected_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, fa.UserID, fa.Name, fa.AmountCents, fa.ExpectedDate).
		Scan(&fa.ID, &fa.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create future asset: %w", err)
	}
	return nil
}

// FutureAssetsByOwner returns all expected inflows for one owner.
func (r *Repository) FutureAssetsByOwner(ownerID int64) ([]models.FutureAsset, error) {
	return r.queryFutureAssets(`
		SELECT id, user_id, name, amount_cents, expected_date, created_at
		FROM future_assets
		WHERE user_id = $1
		ORDER BY expected_date, id`, ownerID)
}

// ExpectedInflows returns inflows expected up to the given date.
func (r *Repository) ExpectedInflows(ownerID int64, until time.Time) ([]models.FutureAsset, error) {
	return r.queryFutureAssets(`
		SELECT id, user_id, name, amount_cents, expected_date, created_at
		FROM future_assets
		WHERE user_id = $1 AND expected_date <= $2
		ORDER BY expected_date, id`, ownerID, until)
}

func (r *Repository) queryFutureAssets(query string, args ...interface{}) ([]models.FutureAsset, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query future assets: %w", err)
	}
	defer rows.Close()

	var out []models.FutureAsset
	for rows.Next() {
		var fa models.FutureAsset
		if err := rows.Scan(&fa.ID, &fa.UserID, &fa.Name, &fa.AmountCents, &fa.ExpectedDate, &fa.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan future asset: %w", err)
		}
		out = append(out, fa)
	}
	return out, rows.Err()
}

// RecordExpense stores a spending event for reporting purposes.
func (r *Repository) RecordExpense(e *models.Expense) error {
	query := `
		INSERT INTO expenses (user_id, occurred_at, amount_cents, currency, merchant, category, account_label, note, source_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, e.UserID, e.OccurredAt, e.AmountCents, e.Currency, e.Merchant, e.Category, e.AccountLabel, e.Note, e.SourceText).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record expense: %w", err)
	}
	return nil
}
