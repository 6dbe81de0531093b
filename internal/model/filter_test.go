package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterParams_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		in        FilterParams
		wantLimit int
		wantErr   string
	}{
		{name: "defaults limit", in: FilterParams{}, wantLimit: DefaultLimit},
		{name: "keeps valid limit", in: FilterParams{Limit: 50}, wantLimit: 50},
		{name: "clamps oversized limit", in: FilterParams{Limit: 99999}, wantLimit: MaxLimit},
		{name: "defaults non-positive limit", in: FilterParams{Limit: -3}, wantLimit: DefaultLimit},
		{name: "valid dates", in: FilterParams{StartDate: "2024-01-01", EndDate: "2024-12-31", Limit: 1}, wantLimit: 1},
		{name: "bad start date", in: FilterParams{StartDate: "01-01-2024"}, wantErr: "invalid start_date"},
		{name: "bad end date", in: FilterParams{EndDate: "tomorrow"}, wantErr: "invalid end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.in.Normalize()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, out.Limit)
		})
	}
}

func TestFilterParams_Empty(t *testing.T) {
	assert.True(t, FilterParams{}.Empty())
	assert.True(t, FilterParams{Limit: 500}.Empty())
	assert.False(t, FilterParams{ProductNameContains: "   "}.Empty())
	assert.False(t, FilterParams{Region: []string{"Europe"}}.Empty())
	assert.False(t, FilterParams{StartDate: "2024-01-01"}.Empty())
}
