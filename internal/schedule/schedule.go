// Package schedule turns a liability definition into its ordered sequence of
// due installments.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/finassist/finance-service/internal/models"
	"github.com/finassist/finance-service/internal/money"
)

// ErrInvalidScheduleParams is returned for a non-positive total amount or
// installment count.
var ErrInvalidScheduleParams = errors.New("invalid schedule parameters")

// Generate produces the installment schedule for a liability. Every
// installment carries floor(total/n) cents except the last, which absorbs the
// rounding remainder so the schedule sums exactly to the total. Due dates
// start at the anchor and step by the frequency. A one_time liability always
// yields a single installment equal to the total.
//
// The schedule is generated once at liability creation and is immutable
// afterwards; only the paid flag of each installment ever changes.
func Generate(totalCents int64, installmentsTotal int, freq money.Frequency, anchor time.Time) ([]models.Installment, error) {
	if totalCents <= 0 {
		return nil, fmt.Errorf("%w: total must be positive, got %d", ErrInvalidScheduleParams, totalCents)
	}
	if installmentsTotal < 1 {
		return nil, fmt.Errorf("%w: installment count must be at least 1, got %d", ErrInvalidScheduleParams, installmentsTotal)
	}
	if !freq.Valid() {
		return nil, fmt.Errorf("%w: %q", money.ErrInvalidFrequency, freq)
	}
	if freq == money.OneTime {
		installmentsTotal = 1
	}

	base := totalCents / int64(installmentsTotal)
	anchor = money.DateOnly(anchor)

	installments := make([]models.Installment, 0, installmentsTotal)
	for k := 1; k <= installmentsTotal; k++ {
		amount := base
		if k == installmentsTotal {
			amount = totalCents - base*int64(installmentsTotal-1)
		}
		installments = append(installments, models.Installment{
			Sequence:    k,
			AmountCents: amount,
			DueDate:     money.AddInterval(anchor, freq, k-1),
		})
	}
	return installments, nil
}

// InstallmentAmount returns the per-installment amount for a liability
// definition, i.e. the amount of every installment but the last.
func InstallmentAmount(totalCents int64, installmentsTotal int) int64 {
	if installmentsTotal < 1 {
		return totalCents
	}
	return totalCents / int64(installmentsTotal)
}
