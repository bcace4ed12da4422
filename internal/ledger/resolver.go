package ledger

import (
	"strings"

	"github.com/finassist/finance-service/internal/models"
)

// synonyms maps common payment-method phrases onto type-label substring
// probes, used as the last resolution pass.
var synonyms = map[string][]string{
	"cash":        {"cash", "wallet"},
	"checking":    {"checking", "current"},
	"savings":     {"saving"},
	"credit card": {"credit"},
	"card":        {"credit", "debit"},
	"bank":        {"checking", "saving"},
}

// ResolveAsset matches a free-text payment-method label to one of the owner's
// liquid assets. Matching is ranked so overlapping labels resolve
// deterministically: exact match on account label or type first, then
// substring containment in either direction, then the synonym table. Within a
// pass the first asset in the given order wins.
func ResolveAsset(assets []models.Asset, label string) (*models.Asset, error) {
	probe := strings.ToLower(strings.TrimSpace(label))
	if probe == "" {
		return nil, ErrAssetNotFound
	}

	for i := range assets {
		if strings.EqualFold(assets[i].AccountLabel, label) || strings.EqualFold(assets[i].Type, label) {
			return &assets[i], nil
		}
	}

	for i := range assets {
		account := strings.ToLower(assets[i].AccountLabel)
		typ := strings.ToLower(assets[i].Type)
		if contains(account, probe) || contains(typ, probe) {
			return &assets[i], nil
		}
	}

	if probes, ok := synonyms[probe]; ok {
		for i := range assets {
			typ := strings.ToLower(assets[i].Type)
			account := strings.ToLower(assets[i].AccountLabel)
			for _, p := range probes {
				if strings.Contains(typ, p) || strings.Contains(account, p) {
					return &assets[i], nil
				}
			}
		}
	}

	return nil, ErrAssetNotFound
}

// contains reports substring containment in either direction.
func contains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// ResolveLiability matches a free-text label to an active liability using the
// same ranked passes as ResolveAsset: exact type match, then substring
// containment either direction. Completed liabilities never match.
func ResolveLiability(liabilities []models.Liability, label string) (*models.Liability, error) {
	probe := strings.ToLower(strings.TrimSpace(label))
	if probe == "" {
		return nil, ErrLiabilityNotFound
	}

	for i := range liabilities {
		if !liabilities[i].Completed && strings.EqualFold(liabilities[i].Type, label) {
			return &liabilities[i], nil
		}
	}

	for i := range liabilities {
		if liabilities[i].Completed {
			continue
		}
		if contains(strings.ToLower(liabilities[i].Type), probe) ||
			contains(strings.ToLower(liabilities[i].Description), probe) {
			return &liabilities[i], nil
		}
	}

	return nil, ErrLiabilityNotFound
}
