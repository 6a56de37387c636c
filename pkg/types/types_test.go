package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/offerscout/offerscout/pkg/types"
)

func TestParseConditionFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    domain.ConditionFilter
		wantErr bool
	}{
		{in: "new", want: domain.ConditionNew},
		{in: "used", want: domain.ConditionUsed},
		{in: "refurbished", want: domain.ConditionUsed},
		{in: "used/refurbished", want: domain.ConditionUsed},
		{in: "any", want: domain.ConditionAny},
		{in: "", want: domain.ConditionAny},
		{in: "mint", wantErr: true},
		{in: "NEW", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := domain.ParseConditionFilter(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	t.Run("empty list yields zero stats", func(t *testing.T) {
		t.Parallel()

		s := domain.ComputeStats(nil)
		assert.Zero(t, s.MinTotal)
		assert.Zero(t, s.MeanTotal)
		assert.Zero(t, s.Count)
		assert.Empty(t, s.TopSource)
	})

	t.Run("sorted list", func(t *testing.T) {
		t.Parallel()

		offers := []domain.Offer{
			{Source: "eBay", TotalCost: 100},
			{Source: "Amazon", TotalCost: 150},
			{Source: "eBay", TotalCost: 200},
		}

		s := domain.ComputeStats(offers)
		assert.InDelta(t, 100, s.MinTotal, 1e-9)
		assert.InDelta(t, 150, s.MeanTotal, 1e-9)
		assert.Equal(t, 3, s.Count)
		assert.Equal(t, "eBay", s.TopSource)
	})
}

func TestRateTable_Empty(t *testing.T) {
	t.Parallel()

	tbl := domain.RateTable{Target: "USD"}
	assert.True(t, tbl.Empty())

	tbl.Rates = map[string]float64{"EUR": 0.92}
	assert.False(t, tbl.Empty())
}
