package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyValid(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(10), "USD", 2)
	require.NoError(t, err)
	assert.Equal(t, "USD", m.Currency)
	assert.False(t, m.IsZero())
}

func TestNewMoneyRejectsBadCurrency(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(10), "US", 2)
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestNewMoneyRejectsBadPrecision(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(10), "USD", 9)
	assert.ErrorIs(t, err, ErrInvalidPrecision)
}

func TestGeoLocationValid(t *testing.T) {
	assert.True(t, GeoLocation{Latitude: 10, Longitude: 20, Country: "US"}.Valid())
	assert.False(t, GeoLocation{Latitude: 200, Longitude: 20, Country: "US"}.Valid())
	assert.False(t, GeoLocation{Latitude: 10, Longitude: -200, Country: "US"}.Valid())
}
