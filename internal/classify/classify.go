// Package classify derives priority scores and one-time-vs-recurring
// classification from free-text liability descriptions. The heuristics are a
// fixed keyword table, kept pure so behavior is exhaustively unit-testable
// and the table can be swapped without touching the ledger core.
package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/finassist/finance-service/internal/money"
)

// Priority bucket scores.
const (
	urgentScore    = 85
	essentialScore = 85
	debtScore      = 70
	optionalScore  = 40
	defaultScore   = 50
)

// Table holds the keyword buckets used for scoring and classification.
type Table struct {
	Urgent    []string `yaml:"urgent"`
	Essential []string `yaml:"essential"`
	Debt      []string `yaml:"debt"`
	Optional  []string `yaml:"optional"`
	OneTime   []string `yaml:"one_time"`
}

// DefaultTable returns the built-in keyword table.
func DefaultTable() *Table {
	return &Table{
		Urgent:    []string{"urgent", "critical", "overdue", "asap"},
		Essential: []string{"rent", "mortgage", "utilities", "electricity", "water", "groceries"},
		Debt:      []string{"loan", "emi", "credit card", "debt", "installment"},
		Optional:  []string{"subscription", "insurance", "membership", "streaming"},
		OneTime: []string{
			"bill", "electricity", "water", "gas", "internet", "phone",
			"medical", "insurance", "tax", "subscription",
		},
	}
}

// LoadTable reads a keyword table from a YAML file. Empty buckets fall back
// to the built-in defaults.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword table: %w", err)
	}
	t := &Table{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse keyword table: %w", err)
	}
	def := DefaultTable()
	if len(t.Urgent) == 0 {
		t.Urgent = def.Urgent
	}
	if len(t.Essential) == 0 {
		t.Essential = def.Essential
	}
	if len(t.Debt) == 0 {
		t.Debt = def.Debt
	}
	if len(t.Optional) == 0 {
		t.Optional = def.Optional
	}
	if len(t.OneTime) == 0 {
		t.OneTime = def.OneTime
	}
	return t, nil
}

// Priority derives a 1-100 priority score. An explicit value of 1-10 is
// scaled by 10, 11-100 is used as-is; otherwise the score comes from the
// keyword buckets. The result is always clamped to [1, 100].
func (t *Table) Priority(text string, explicit int) int {
	score := defaultScore
	switch {
	case explicit >= 1 && explicit <= 10:
		score = explicit * 10
	case explicit > 10 && explicit <= 100:
		score = explicit
	default:
		lower := strings.ToLower(text)
		switch {
		case containsAny(lower, t.Urgent):
			score = urgentScore
		case containsAny(lower, t.Essential):
			score = essentialScore
		case containsAny(lower, t.Debt):
			score = debtScore
		case containsAny(lower, t.Optional):
			score = optionalScore
		}
	}
	if score < 1 {
		score = 1
	}
	if score > 100 {
		score = 100
	}
	return score
}

// IsOneTime reports whether a liability should be treated as a single
// installment obligation: either an explicit one_time frequency or one of the
// one-time keywords in its description.
func (t *Table) IsOneTime(text string, freq money.Frequency) bool {
	if freq == money.OneTime {
		return true
	}
	return containsAny(strings.ToLower(text), t.OneTime)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
