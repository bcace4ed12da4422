// Package ledger applies payments and expenses against one owner's assets
// and liabilities. All checks happen before any mutation, so an error leaves
// both records untouched; the store persists the two updated records as a
// single atomic unit.
package ledger

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/finassist/finance-service/internal/models"
)

// Store is the persistence boundary the mutator operates against. SavePayment
// must write the asset and liability updates in one transaction;
// markInstallment asks it to also flag the earliest unpaid installment of the
// liability as paid.
type Store interface {
	LiquidAssets(ownerID int64) ([]models.Asset, error)
	LiabilityByID(ownerID, liabilityID int64) (*models.Liability, error)
	SavePayment(asset *models.Asset, liability *models.Liability, markInstallment bool) error
	SaveAssetValue(asset *models.Asset) error
}

// Mutator is the single writer for ledger state.
type Mutator struct {
	store Store
	log   *logrus.Logger
}

// NewMutator initializes a ledger mutator
func NewMutator(store Store, log *logrus.Logger) *Mutator {
	return &Mutator{store: store, log: log}
}

// ApplyPayment pays down a liability from one of the owner's liquid assets.
// paymentType selects the amount: "full" pays the remaining balance,
// "installment" pays one installment (capped at the remaining balance),
// "partial" pays requestedCents (also capped). The installments_paid counter
// increments only when a full installment is satisfied.
func (m *Mutator) ApplyPayment(ownerID, liabilityID int64, paymentType string, requestedCents int64, assetLabel string) (*models.PaymentResult, error) {
	liability, err := m.store.LiabilityByID(ownerID, liabilityID)
	if err != nil {
		return nil, err
	}
	if liability.Completed {
		return nil, fmt.Errorf("%w: liability %d", ErrLiabilityCompleted, liabilityID)
	}

	var actual int64
	switch paymentType {
	case models.PaymentFull:
		actual = liability.RemainingCents
	case models.PaymentInstallment:
		actual = liability.InstallmentCents
		if actual > liability.RemainingCents {
			actual = liability.RemainingCents
		}
	case models.PaymentPartial:
		if requestedCents <= 0 {
			return nil, ErrMissingPaymentAmount
		}
		actual = requestedCents
		if actual > liability.RemainingCents {
			actual = liability.RemainingCents
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentType, paymentType)
	}

	assets, err := m.store.LiquidAssets(ownerID)
	if err != nil {
		return nil, err
	}
	asset, err := ResolveAsset(assets, assetLabel)
	if err != nil {
		return nil, err
	}
	if asset.ValueCents < actual {
		return nil, &InsufficientFundsError{AvailableCents: asset.ValueCents, RequiredCents: actual}
	}

	asset.ValueCents -= actual
	liability.RemainingCents -= actual
	if liability.RemainingCents < 0 {
		liability.RemainingCents = 0
	}
	// A full payoff of several remaining installments still counts as one
	// installment paid; the counter tracks payment events, not coverage.
	markInstallment := paymentType == models.PaymentInstallment ||
		(liability.InstallmentCents > 0 && actual >= liability.InstallmentCents)
	if markInstallment {
		liability.InstallmentsPaid++
	}
	liability.Completed = liability.RemainingCents == 0

	if err := m.store.SavePayment(asset, liability, markInstallment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"owner":     ownerID,
		"liability": liabilityID,
		"paid":      actual,
		"remaining": liability.RemainingCents,
		"completed": liability.Completed,
	}).Info("payment applied")

	return &models.PaymentResult{
		LiabilityID:       liability.ID,
		PaidCents:         actual,
		RemainingCents:    liability.RemainingCents,
		InstallmentsPaid:  liability.InstallmentsPaid,
		Completed:         liability.Completed,
		AssetID:           asset.ID,
		AssetLabel:        asset.AccountLabel,
		AssetBalanceCents: asset.ValueCents,
	}, nil
}

// ApplyExpense deducts a plain spending event from one of the owner's liquid
// assets, with no liability side.
func (m *Mutator) ApplyExpense(ownerID, amountCents int64, assetLabel string) (*models.ExpenseResult, error) {
	if amountCents <= 0 {
		return nil, ErrMissingPaymentAmount
	}

	assets, err := m.store.LiquidAssets(ownerID)
	if err != nil {
		return nil, err
	}
	asset, err := ResolveAsset(assets, assetLabel)
	if err != nil {
		return nil, err
	}
	if asset.ValueCents < amountCents {
		return nil, &InsufficientFundsError{AvailableCents: asset.ValueCents, RequiredCents: amountCents}
	}

	asset.ValueCents -= amountCents
	if err := m.store.SaveAssetValue(asset); err != nil {
		return nil, fmt.Errorf("failed to save expense deduction: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"owner":   ownerID,
		"asset":   asset.ID,
		"amount":  amountCents,
		"balance": asset.ValueCents,
	}).Info("expense applied")

	return &models.ExpenseResult{
		AssetID:           asset.ID,
		AssetLabel:        asset.AccountLabel,
		AmountCents:       amountCents,
		AssetBalanceCents: asset.ValueCents,
	}, nil
}
