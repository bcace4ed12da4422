package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/finassist/finance-service/internal/classify"
	"github.com/finassist/finance-service/internal/config"
	"github.com/finassist/finance-service/internal/forecast"
	"github.com/finassist/finance-service/internal/integrations/extractor"
	"github.com/finassist/finance-service/internal/integrations/rates"
	"github.com/finassist/finance-service/internal/ledger"
	"github.com/finassist/finance-service/internal/models"
	"github.com/finassist/finance-service/internal/money"
	"github.com/finassist/finance-service/internal/repository"
	"github.com/finassist/finance-service/internal/schedule"
	"github.com/finassist/finance-service/internal/utils"
)

// DefaultHorizonDays is the projection window used when the caller does not
// ask for a specific one.
const DefaultHorizonDays = 60

// Service handles business logic
type Service struct {
	repo      *repository.Repository
	log       *logrus.Logger
	config    *config.Config
	keywords  *classify.Table
	mutator   *ledger.Mutator
	extractor *extractor.Client
	rates     *rates.Client

	// Mutating ledger operations are serialized per owner so a balance
	// check and the debit that follows it can never be split by another
	// writer.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config, keywords *classify.Table, ex *extractor.Client, rc *rates.Client) *Service {
	return &Service{
		repo:      repo,
		log:       log,
		config:    cfg,
		keywords:  keywords,
		mutator:   ledger.NewMutator(repo, log),
		extractor: ex,
		rates:     rc,
		locks:     make(map[int64]*sync.Mutex),
	}
}

func (s *Service) ownerLock(ownerID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[ownerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[ownerID] = l
	}
	return l
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, name, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: string(hashedPassword),
		CurrencyPref: "USD",
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// RequestPasswordReset issues a signed, time-limited reset token for the
// account with the given email.
func (s *Service) RequestPasswordReset(email string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid email")
	}
	token, err := utils.GenerateResetToken(user.ID, s.config.HMACSecret, time.Hour)
	if err != nil {
		return "", err
	}
	s.log.Infof("Password reset requested for %s", email)
	return token, nil
}

// ResetPassword verifies a reset token and replaces the user's password.
func (s *Service) ResetPassword(email, token, newPassword string) error {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return fmt.Errorf("invalid email")
	}
	if err := utils.VerifyResetToken(token, user.ID, s.config.HMACSecret); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.UpdatePassword(user.ID, string(hashed))
}

// AssetInput describes a new liquid or illiquid asset.
type AssetInput struct {
	Type         string
	AccountLabel string
	ValueCents   int64
	Liquid       bool
	ReceivedDate *time.Time
}

// CreateAsset adds an asset to the owner's ledger.
func (s *Service) CreateAsset(ownerID int64, in AssetInput) (*models.Asset, error) {
	if in.ValueCents < 0 {
		return nil, fmt.Errorf("asset value must not be negative")
	}
	asset := &models.Asset{
		UserID:       ownerID,
		Type:         in.Type,
		AccountLabel: in.AccountLabel,
		ValueCents:   in.ValueCents,
		Liquid:       in.Liquid,
		ReceivedDate: in.ReceivedDate,
	}
	if err := s.repo.CreateAsset(asset); err != nil {
		return nil, err
	}
	s.log.Infof("Asset created for user %d: %s", ownerID, asset.Type)
	return asset, nil
}

// ListAssets returns all assets for one owner.
func (s *Service) ListAssets(ownerID int64) ([]models.Asset, error) {
	return s.repo.AssetsByOwner(ownerID)
}

// ResolveAsset matches a free-text payment-method label to one of the
// owner's liquid assets.
func (s *Service) ResolveAsset(ownerID int64, label string) (*models.Asset, error) {
	assets, err := s.repo.LiquidAssets(ownerID)
	if err != nil {
		return nil, err
	}
	return ledger.ResolveAsset(assets, label)
}

// CreateFutureAsset records an expected inflow.
func (s *Service) CreateFutureAsset(ownerID int64, name string, amountCents int64, expectedDate time.Time) (*models.FutureAsset, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	fa := &models.FutureAsset{
		UserID:       ownerID,
		Name:         name,
		AmountCents:  amountCents,
		ExpectedDate: money.DateOnly(expectedDate),
	}
	if err := s.repo.CreateFutureAsset(fa); err != nil {
		return nil, err
	}
	return fa, nil
}

// ListFutureAssets returns all expected inflows for one owner.
func (s *Service) ListFutureAssets(ownerID int64) ([]models.FutureAsset, error) {
	return s.repo.FutureAssetsByOwner(ownerID)
}

// LiabilityInput describes a new obligation.
type LiabilityInput struct {
	Type              string
	TotalCents        int64
	InstallmentsTotal int
	InstallmentCents  int64
	Frequency         string
	DueDate           time.Time
	Priority          int // optional; 1-10 scaled, 11-100 as-is
	Description       string
}

// CreateLiability classifies the obligation, generates its installment
// schedule and stores both. One-time obligations (explicit frequency or
// keyword match) always get a single installment; recurring ones need an
// explicit frequency plus an installment count or amount.
func (s *Service) CreateLiability(ownerID int64, in LiabilityInput) (*models.Liability, []models.Installment, error) {
	text := in.Type + " " + in.Description

	var freq money.Frequency
	if in.Frequency != "" {
		parsed, err := money.ParseFrequency(in.Frequency)
		if err != nil {
			return nil, nil, err
		}
		freq = parsed
	}

	installmentsTotal := in.InstallmentsTotal
	if s.keywords.IsOneTime(text, freq) {
		freq = money.OneTime
		installmentsTotal = 1
	} else {
		if freq == "" {
			return nil, nil, fmt.Errorf("%w: frequency required for recurring liabilities", money.ErrInvalidFrequency)
		}
		if installmentsTotal < 1 {
			if in.InstallmentCents <= 0 {
				return nil, nil, fmt.Errorf("%w: installment count or amount required", schedule.ErrInvalidScheduleParams)
			}
			installmentsTotal = int((in.TotalCents + in.InstallmentCents - 1) / in.InstallmentCents)
		}
	}

	installments, err := schedule.Generate(in.TotalCents, installmentsTotal, freq, in.DueDate)
	if err != nil {
		return nil, nil, err
	}

	liability := &models.Liability{
		UserID:            ownerID,
		Type:              in.Type,
		TotalCents:        in.TotalCents,
		RemainingCents:    in.TotalCents,
		InstallmentCents:  installments[0].AmountCents,
		InstallmentsTotal: len(installments),
		Frequency:         freq,
		DueDate:           money.DateOnly(in.DueDate),
		NextDueDate:       installments[0].DueDate,
		Priority:          s.keywords.Priority(text, in.Priority),
		Description:       in.Description,
	}

	if err := s.repo.CreateLiability(liability, installments); err != nil {
		return nil, nil, err
	}

	s.log.WithFields(logrus.Fields{
		"owner":        ownerID,
		"liability":    liability.ID,
		"installments": len(installments),
		"priority":     liability.Priority,
	}).Info("liability created")
	return liability, installments, nil
}

// ListLiabilities returns all liabilities for one owner.
func (s *Service) ListLiabilities(ownerID int64) ([]models.Liability, error) {
	return s.repo.LiabilitiesByOwner(ownerID)
}

// ListInstallments returns the schedule of one liability.
func (s *Service) ListInstallments(ownerID, liabilityID int64) ([]models.Installment, error) {
	return s.repo.InstallmentsByLiability(ownerID, liabilityID)
}

// ApplyPayment pays down a liability from one of the owner's assets. The
// call holds the owner's ledger lock for its full duration.
func (s *Service) ApplyPayment(ownerID, liabilityID int64, paymentType string, requestedCents int64, assetLabel string) (*models.PaymentResult, error) {
	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	return s.mutator.ApplyPayment(ownerID, liabilityID, paymentType, requestedCents, assetLabel)
}

// PayLiabilityByLabel resolves a liability from a free-text label and pays
// it, used by the chat flow.
func (s *Service) PayLiabilityByLabel(ownerID int64, label, paymentType string, requestedCents int64, assetLabel string) (*models.PaymentResult, error) {
	liabilities, err := s.repo.LiabilitiesByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	liability, err := ledger.ResolveLiability(liabilities, label)
	if err != nil {
		return nil, err
	}
	return s.ApplyPayment(ownerID, liability.ID, paymentType, requestedCents, assetLabel)
}

// ApplyExpense deducts a spending event from one of the owner's assets and
// records it for reporting.
func (s *Service) ApplyExpense(ownerID, amountCents int64, assetLabel string, expense models.Expense) (*models.ExpenseResult, error) {
	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	result, err := s.mutator.ApplyExpense(ownerID, amountCents, assetLabel)
	if err != nil {
		return nil, err
	}

	expense.UserID = ownerID
	expense.AmountCents = amountCents
	expense.AccountLabel = result.AssetLabel
	if expense.Currency == "" {
		expense.Currency = "USD"
	}
	if expense.OccurredAt.IsZero() {
		expense.OccurredAt = money.DateOnly(time.Now())
	}
	if err := s.repo.RecordExpense(&expense); err != nil {
		// The deduction is already committed; losing the reporting row is
		// not a ledger inconsistency.
		s.log.Errorf("Failed to record expense for user %d: %v", ownerID, err)
	}
	return result, nil
}

// Project runs the forward cash-flow simulation for one owner. It is
// read-only and safe to run concurrently with mutations.
func (s *Service) Project(ownerID int64, horizonDays int) (*models.Projection, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return forecast.Project(s.repo, ownerID, time.Now(), horizonDays)
}

// Dashboard aggregates the owner's net-worth overview.
func (s *Service) Dashboard(ownerID int64) (*models.DashboardSummary, error) {
	return s.repo.DashboardSummary(ownerID)
}

// Recommendations wraps the projection with human-readable advice and the
// current key rate for savings context.
func (s *Service) Recommendations(ownerID int64, horizonDays int) (*models.Recommendation, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	projection, err := s.Project(ownerID, horizonDays)
	if err != nil {
		return nil, err
	}

	rec := &models.Recommendation{
		Projection:  projection,
		HorizonDays: horizonDays,
	}
	for _, note := range projection.ShortfallNotes {
		rec.Advice = append(rec.Advice,
			fmt.Sprintf("Insufficient funds to pay %s on %s (%s needed)", note.Liability, note.Date, money.Format(note.AmountCents)))
	}
	if projection.BalanceCents > 0 {
		rec.Advice = append(rec.Advice,
			fmt.Sprintf("Expected savings after %d days: %s", horizonDays, money.Format(projection.BalanceCents)))
	}

	if s.rates != nil {
		rate, err := s.rates.KeyRate()
		if err != nil {
			s.log.Warnf("Key rate unavailable: %v", err)
		} else {
			rec.KeyRate = rate
			if projection.BalanceCents > 0 {
				rec.Advice = append(rec.Advice,
					fmt.Sprintf("The current key rate is %.2f%%; a deposit account could earn on your projected savings", rate))
			}
		}
	}
	return rec, nil
}
