package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

func TestLookbackDays(t *testing.T) {
	tests := []struct {
		name      string
		scope     models.Scope
		timeRange models.TimeRange
		want      int
		wantErr   bool
	}{
		{name: "global default", scope: models.ScopeGlobal, want: 180},
		{name: "account default", scope: models.ScopeAccount, want: 730},
		{name: "opportunity default", scope: models.ScopeOpportunity, want: 730},
		{name: "last30 overrides global", scope: models.ScopeGlobal, timeRange: models.TimeRangeLast30, want: 30},
		{name: "last30 overrides account", scope: models.ScopeAccount, timeRange: models.TimeRangeLast30, want: 30},
		{name: "unknown scope", scope: models.Scope("team"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LookbackDays(tt.scope, tt.timeRange)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindow(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	from, to := window(now, 30)

	assert.Equal(t, now, to)
	assert.Equal(t, now.AddDate(0, 0, -30), from)
}
