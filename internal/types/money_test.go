package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyRoundTrip(t *testing.T) {
	m := MoneyFromFloat(12.50)
	assert.Equal(t, int64(1250), m.Cents)
	assert.InDelta(t, 12.50, m.Float64(), 1e-9)
	assert.Equal(t, "12.50", m.String())
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1250})
	require.NoError(t, err)
	assert.Equal(t, "12.50", string(b))

	var m Money
	require.NoError(t, json.Unmarshal([]byte("7.35"), &m))
	assert.Equal(t, int64(735), m.Cents)

	require.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
}

func TestMoneyRoundingAvoidsFloatDrift(t *testing.T) {
	// 0.1+0.2 style drift must not leak into cents.
	m := MoneyFromFloat(19.90)
	assert.Equal(t, int64(1990), m.Cents)
}

func TestPointValid(t *testing.T) {
	assert.True(t, Point{Lat: -23.55, Lng: -46.63}.Valid())
	assert.False(t, Point{Lat: 91, Lng: 0}.Valid())
	assert.False(t, Point{Lat: 0, Lng: -181}.Valid())
}
