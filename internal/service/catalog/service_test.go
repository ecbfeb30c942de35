package catalog

import (
	"testing"

	"github.com/musclemeter/musclemeter/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidatePlan(t *testing.T) {
	tests := []struct {
		name    string
		plan    domain.Plan
		wantErr bool
	}{
		{
			name: "valid day plan",
			plan: domain.Plan{Name: "Day Pass", Duration: domain.DurationDay, Price: decimal.NewFromInt(299)},
		},
		{
			name: "valid free plan",
			plan: domain.Plan{Name: "Trial", Duration: domain.DurationWeek, Price: decimal.Zero},
		},
		{
			name:    "unknown duration",
			plan:    domain.Plan{Name: "Odd", Duration: "fortnight", Price: decimal.NewFromInt(100)},
			wantErr: true,
		},
		{
			name:    "negative price",
			plan:    domain.Plan{Name: "Scam", Duration: domain.DurationMonth, Price: decimal.NewFromInt(-1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePlan(tt.plan)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPlan)
				return
			}

			assert.NoError(t, err)
		})
	}
}
