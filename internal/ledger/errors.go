package ledger

import (
	"errors"
	"fmt"

	"github.com/finassist/finance-service/internal/money"
)

// Caller-recoverable error kinds. The service layer maps these onto
// clarification or rejection responses; none of them indicates a bug.
var (
	ErrAssetNotFound        = errors.New("asset not found")
	ErrLiabilityNotFound    = errors.New("liability not found")
	ErrLiabilityCompleted   = errors.New("liability already completed")
	ErrMissingPaymentAmount = errors.New("payment amount required")
	ErrUnknownPaymentType   = errors.New("unknown payment type")
)

// InsufficientFundsError reports a deduction that would overdraw an asset. It
// carries the available and required amounts for caller display.
type InsufficientFundsError struct {
	AvailableCents int64
	RequiredCents  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, required %s",
		money.Format(e.AvailableCents), money.Format(e.RequiredCents))
}
