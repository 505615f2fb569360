package domain

import (
	"fmt"
	"strings"
)

// StrategyID identifies one of the six acquisition/exit strategies.
type StrategyID string

const (
	StrategyLTR       StrategyID = "ltr"
	StrategySTR       StrategyID = "str"
	StrategyBRRRR     StrategyID = "brrrr"
	StrategyFlip      StrategyID = "flip"
	StrategyHouseHack StrategyID = "house_hack"
	StrategyWholesale StrategyID = "wholesale"
)

// AllStrategies returns every strategy in display order.
func AllStrategies() []StrategyID {
	return []StrategyID{
		StrategyLTR,
		StrategySTR,
		StrategyBRRRR,
		StrategyFlip,
		StrategyHouseHack,
		StrategyWholesale,
	}
}

// ParseStrategy accepts ids and a few common spellings ("long-term", "fix_and_flip").
func ParseStrategy(s string) (StrategyID, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_", "&", "and").Replace(key)

	switch key {
	case "ltr", "long_term", "long_term_rental", "rental":
		return StrategyLTR, nil
	case "str", "short_term", "short_term_rental", "airbnb":
		return StrategySTR, nil
	case "brrrr":
		return StrategyBRRRR, nil
	case "flip", "fix_and_flip", "fix_flip":
		return StrategyFlip, nil
	case "house_hack", "househack":
		return StrategyHouseHack, nil
	case "wholesale", "wholesaling":
		return StrategyWholesale, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Label is the human-readable strategy name.
func (s StrategyID) Label() string {
	switch s {
	case StrategyLTR:
		return "Long-Term Rental"
	case StrategySTR:
		return "Short-Term Rental"
	case StrategyBRRRR:
		return "BRRRR"
	case StrategyFlip:
		return "Fix & Flip"
	case StrategyHouseHack:
		return "House Hack"
	case StrategyWholesale:
		return "Wholesale"
	default:
		return string(s)
	}
}

// IsRental reports whether the strategy holds the property for rental income.
func (s StrategyID) IsRental() bool {
	switch s {
	case StrategyLTR, StrategySTR, StrategyBRRRR, StrategyHouseHack:
		return true
	}
	return false
}
