package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderflow/wanderflow/internal/geo"
	"github.com/wanderflow/wanderflow/pkg/core"
)

func defaultTripT(t *testing.T) *Trip {
	t.Helper()
	tr, err := Default()
	require.NoError(t, err)
	return tr
}

func TestDefault(t *testing.T) {
	tr := defaultTripT(t)

	assert.Equal(t, "trip-kyoto-2025", tr.ID)
	assert.Equal(t, "Kyoto & Osaka: The Soul of Japan", tr.Title)
	assert.Equal(t, "Oct 12 - Oct 18, 2025", tr.Dates)
	assert.Equal(t, Stats{Distance: "45km", Places: 14, Photos: 342}, tr.Stats)
	require.Len(t, tr.Locations, 5)

	fushimi := tr.Locations[0]
	assert.Equal(t, "loc-1", fushimi.ID)
	assert.Equal(t, 34.9671, fushimi.Lat)
	assert.Equal(t, 135.7727, fushimi.Lng)
	assert.Equal(t, CategoryCulture, fushimi.Category)
	assert.Equal(t, DifficultyModerate, fushimi.Difficulty)
	assert.Equal(t, "08:00 AM", fushimi.Time)
	assert.Contains(t, fushimi.Description, "vermilion torii gates")
}

func TestFilter(t *testing.T) {
	tr := defaultTripT(t)

	tests := []struct {
		category string
		want     []string
	}{
		{"all", []string{"loc-1", "loc-2", "loc-3", "loc-4", "loc-5"}},
		{"", []string{"loc-1", "loc-2", "loc-3", "loc-4", "loc-5"}},
		{"food", []string{"loc-3", "loc-5"}},
		{" Culture ", []string{"loc-1", "loc-4"}},
		{"stay", nil},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			var ids []string
			for _, l := range tr.Filter(tt.category) {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFindAndDays(t *testing.T) {
	tr := defaultTripT(t)

	l, ok := tr.Find("loc-4")
	require.True(t, ok)
	assert.Equal(t, "Kinkaku-ji", l.Name)

	_, ok = tr.Find("loc-42")
	assert.False(t, ok)

	assert.Equal(t, []int{1, 2}, tr.Days())
	assert.Len(t, tr.OnDay(1), 3)
	assert.Len(t, tr.OnDay(2), 2)
	assert.Empty(t, tr.OnDay(3))
}

func TestLocation_Checkpoint(t *testing.T) {
	tr := defaultTripT(t)
	l, _ := tr.Find("loc-2")

	assert.Equal(t, core.Checkpoint{ID: "loc-2", Name: "Arashiyama Bamboo Grove", Lat: 35.0094, Lng: 135.6670}, l.Checkpoint())
}

func TestPair(t *testing.T) {
	tr := defaultTripT(t)

	a, b, err := tr.Pair("loc-1", "loc-2")
	require.NoError(t, err)
	assert.Equal(t, "loc-1", a.ID)
	assert.Equal(t, "loc-2", b.ID)

	tests := []struct {
		name string
		from string
		to   string
		err  error
	}{
		{"missing from", "", "loc-2", ErrMissingSelection},
		{"missing to", "loc-1", "  ", ErrMissingSelection},
		{"unknown", "loc-1", "loc-9", ErrUnknownLocation},
		{"same", "loc-3", "loc-3", core.ErrSameCheckpoint},
		{"bad coordinates", "loc-1", "500,20", geo.ErrInvalidCoordinates},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tr.Pair(tt.from, tt.to)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestResolve_Coordinates(t *testing.T) {
	tr := defaultTripT(t)

	c, err := tr.Resolve("135.5023,34.6937")
	require.NoError(t, err)
	assert.Equal(t, 135.5023, c.Lng)
	assert.Equal(t, 34.6937, c.Lat)
	assert.Equal(t, "135.5023,34.6937", c.ID)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"duplicate id", "locations: [{id: a, category: food}, {id: a, category: food}]"},
		{"missing id", "locations: [{name: x, category: food}]"},
		{"bad category", "locations: [{id: a, category: museum}]"},
		{"bad latitude", "locations: [{id: a, lat: 91, category: food}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidTrip)
		})
	}

	_, err := Parse([]byte("locations: {"))
	assert.Error(t, err)
}
