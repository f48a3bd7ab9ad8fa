package search

import (
	"fmt"
	"time"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

// Lookback defaults in days. Entity-scoped searches reach much further back
// because a single account or deal has sparser call volume than the whole
// org.
const (
	lookbackLast30Days = 30
	lookbackGlobalDays = 180
	lookbackEntityDays = 730
)

// LookbackDays resolves the retrieval window for a scope and time-range
// filter. An explicit filter always wins over scope defaults. Unknown scope
// is a caller contract violation and fails fast.
func LookbackDays(scope models.Scope, timeRange models.TimeRange) (int, error) {
	if timeRange == models.TimeRangeLast30 {
		return lookbackLast30Days, nil
	}

	switch scope {
	case models.ScopeGlobal:
		return lookbackGlobalDays, nil
	case models.ScopeAccount, models.ScopeOpportunity:
		return lookbackEntityDays, nil
	default:
		return 0, fmt.Errorf("%w: unknown scope %q", ErrInvalidRequest, scope)
	}
}

// window converts a lookback into concrete bounds ending now.
func window(now time.Time, days int) (time.Time, time.Time) {
	return now.AddDate(0, 0, -days), now
}
