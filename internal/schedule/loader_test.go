package schedule

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidFile(t *testing.T) {
	ctx := context.Background()
	s, err := Load(ctx, "testdata/schedule.json")
	require.NoError(t, err)

	assert.Equal(t, "2025-06-01", s.GeneratedOn)
	assert.Equal(t, "EUR", s.Currency)

	g, fellBack := s.GroupFor(171485)
	assert.False(t, fellBack)
	assert.Equal(t, "consumer_electronics", g.Name)
	assert.Len(t, g.Bands(), 2)

	// Unmapped category resolves to the default group.
	g, fellBack = s.GroupFor(555)
	assert.True(t, fellBack)
	assert.Equal(t, "other_categories", g.Name)

	key, v, ok := s.VehicleFor(6001)
	require.True(t, ok)
	assert.Equal(t, "high_value_vehicles", key)
	assert.True(t, v.FinalValueFee.Equal(dec("80")))

	// The incomplete vehicle entry is skipped, not fatal.
	_, _, ok = s.VehicleFor(6024)
	assert.False(t, ok)

	tier, ok := s.InsertionFees.StoreTiers["basic"]
	require.True(t, ok)
	assert.True(t, tier.FreeFixedPriceListings.Unlimited)
	assert.Equal(t, 50, tier.FreeAuctionListings.Count)
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	_, err := Load(context.Background(), "testdata/no_such_schedule.json")
	require.Error(t, err)

	schedErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrCodeScheduleNotFound, schedErr.Code)
}

func TestLoad_MalformedFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(context.Background(), path)
	require.Error(t, err)

	schedErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrCodeScheduleParse, schedErr.Code)
}

func TestLoad_InvalidScheduleIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.json")
	payload := `{
		"default_group": "general",
		"final_value_fees": [
			{"group": "general", "category_ids": [1], "tiers": [
				{"up_to": 100, "rate": 0.1}
			]}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	_, err := Load(context.Background(), path)
	require.Error(t, err)

	schedErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrCodeScheduleInvalid, schedErr.Code)
}

func TestLoader_Memoizes(t *testing.T) {
	l := NewLoader("testdata/schedule.json")
	ctx := context.Background()

	first, err := l.Get(ctx)
	require.NoError(t, err)
	second, err := l.Get(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second, "loader must return the memoized schedule")
}

func TestLoader_StickyFailure(t *testing.T) {
	l := NewLoader("testdata/no_such_schedule.json")
	ctx := context.Background()

	_, err1 := l.Get(ctx)
	require.Error(t, err1)
	_, err2 := l.Get(ctx)
	assert.Equal(t, err1, err2)
}
