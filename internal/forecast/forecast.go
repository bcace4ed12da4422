// Package forecast simulates forward cash flow: starting balance plus
// expected inflows against priority-ordered obligations over a bounded
// horizon. The simulation is a pure projection and never mutates ledger
// state.
package forecast

import (
	"fmt"
	"sort"
	"time"

	"github.com/finassist/finance-service/internal/models"
	"github.com/finassist/finance-service/internal/money"
)

const dateLayout = "2006-01-02"

// Source is the read-only view of one owner's ledger the simulation runs
// against. It may be backed by a snapshot; the projection does not need to
// block writers.
type Source interface {
	LiquidAssets(ownerID int64) ([]models.Asset, error)
	UnpaidInstallments(ownerID int64, until time.Time) ([]models.DueInstallment, error)
	ExpectedInflows(ownerID int64, until time.Time) ([]models.FutureAsset, error)
}

// Project walks each calendar day from today through today+horizonDays. Each
// day's inflows are added to the running balance, then the day's obligations
// are paid in priority order while funds last. An obligation that cannot be
// covered becomes a shortfall note and is not retried on later days. For
// fixed inputs the output is deterministic.
func Project(src Source, ownerID int64, today time.Time, horizonDays int) (*models.Projection, error) {
	today = money.DateOnly(today)
	horizon := today.AddDate(0, 0, horizonDays)

	assets, err := src.LiquidAssets(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	var available int64
	for _, a := range assets {
		if a.ReceivedDate == nil || !a.ReceivedDate.After(today) {
			available += a.ValueCents
		}
	}

	inflows, err := src.ExpectedInflows(ownerID, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to load expected inflows: %w", err)
	}
	inflowsByDate := make(map[string]int64)
	for _, in := range inflows {
		inflowsByDate[in.ExpectedDate.Format(dateLayout)] += in.AmountCents
	}

	installments, err := src.UnpaidInstallments(ownerID, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to load unpaid installments: %w", err)
	}
	obligationsByDate := make(map[string][]models.DueInstallment)
	for _, inst := range installments {
		key := inst.DueDate.Format(dateLayout)
		obligationsByDate[key] = append(obligationsByDate[key], inst)
	}

	projection := &models.Projection{
		Schedule:       []models.ProjectionDay{},
		ShortfallNotes: []models.ShortfallNote{},
	}

	for day := today; !day.After(horizon); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		available += inflowsByDate[key]

		due := obligationsByDate[key]
		if len(due) == 0 {
			continue
		}
		sortObligations(due)

		var paid []models.ProjectionItem
		for _, entry := range due {
			if entry.AmountCents <= available {
				available -= entry.AmountCents
				paid = append(paid, models.ProjectionItem{
					LiabilityID: entry.LiabilityID,
					Liability:   entry.Label,
					Sequence:    entry.Sequence,
					AmountCents: entry.AmountCents,
				})
			} else {
				projection.ShortfallNotes = append(projection.ShortfallNotes, models.ShortfallNote{
					LiabilityID: entry.LiabilityID,
					Liability:   entry.Label,
					Date:        key,
					AmountCents: entry.AmountCents,
				})
			}
		}
		if len(paid) > 0 {
			projection.Schedule = append(projection.Schedule, models.ProjectionDay{Date: key, Items: paid})
		}
	}

	projection.BalanceCents = available
	return projection, nil
}

// sortObligations orders one day's obligations by priority score descending,
// with installment sequence and then liability ID as stable tie-breaks.
func sortObligations(due []models.DueInstallment) {
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].Priority != due[j].Priority {
			return due[i].Priority > due[j].Priority
		}
		if due[i].Sequence != due[j].Sequence {
			return due[i].Sequence < due[j].Sequence
		}
		return due[i].LiabilityID < due[j].LiabilityID
	})
}
