package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsEmbeddedCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, c.Names())
}

func TestResolve(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "canonical name", input: "Goa", want: "Goa", ok: true},
		{name: "case insensitive", input: "goa", want: "Goa", ok: true},
		{name: "alias", input: "Bombay", want: "Mumbai", ok: true},
		{name: "alias with punctuation", input: "  Panjim, ", want: "Goa", ok: true},
		{name: "unknown place", input: "Atlantis", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := c.Resolve(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, p.Name)
			}
		})
	}
}

func TestFindAll_OrdersByMention(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	matches := c.FindAll("Plan a 5-day trip to Goa from Mumbai under ₹30,000")
	require.Len(t, matches, 2)
	assert.Equal(t, "Goa", matches[0].Place.Name)
	assert.Equal(t, "Mumbai", matches[1].Place.Name)
}

func TestFindAll_NoMatches(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Empty(t, c.FindAll("plan me something somewhere nice"))
}

func TestCatalog_PlaceDataIsUsable(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	goa, ok := c.Resolve("Goa")
	require.True(t, ok)
	assert.Greater(t, goa.CostIndex, 0.0)
	assert.NotEmpty(t, goa.Stays)
	assert.NotEmpty(t, goa.Activities)
	assert.NotEmpty(t, goa.Restaurants)
	assert.Equal(t, "India", goa.Country)

	bali, ok := c.Resolve("Bali")
	require.True(t, ok)
	assert.Equal(t, "Indonesia", bali.Country)
}

func TestParse_RejectsEmptyCatalog(t *testing.T) {
	_, err := Parse([]byte("places: []"))
	assert.Error(t, err)
}
