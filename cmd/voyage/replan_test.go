package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

func TestParseSpent(t *testing.T) {
	spent, err := parseSpent([]string{"food=9500", "Accommodation=12000", "transport=3,000"})
	require.NoError(t, err)
	assert.Equal(t, types.FromMajor(9500), spent[trip.CategoryFood])
	assert.Equal(t, types.FromMajor(12000), spent[trip.CategoryAccommodation])
	assert.Equal(t, types.FromMajor(3000), spent[trip.CategoryTransport])
}

func TestParseSpentRejectsUnknownCategory(t *testing.T) {
	_, err := parseSpent([]string{"souvenirs=500"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "souvenirs")
}

func TestParseSpentRejectsMalformedPair(t *testing.T) {
	_, err := parseSpent([]string{"food"})
	require.Error(t, err)
}

func TestTimeOfDayPattern(t *testing.T) {
	assert.True(t, timeOfDay.MatchString("14:00"))
	assert.True(t, timeOfDay.MatchString("09:30"))
	assert.False(t, timeOfDay.MatchString("24:00"))
	assert.False(t, timeOfDay.MatchString("2pm"))
	assert.False(t, timeOfDay.MatchString("14:60"))
}
