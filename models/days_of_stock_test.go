package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysOfStockComparisons(t *testing.T) {
	assert.True(t, FiniteDays(3).LessThan(7))
	assert.False(t, FiniteDays(7).LessThan(7))
	assert.True(t, FiniteDays(31).GreaterThan(30))
	assert.False(t, FiniteDays(30).GreaterThan(30))

	// No demand means unlimited coverage.
	assert.False(t, UnboundedDays().LessThan(7))
	assert.True(t, UnboundedDays().GreaterThan(30))
}

func TestDaysOfStockJSON(t *testing.T) {
	data, err := json.Marshal(FiniteDays(12.34))
	require.NoError(t, err)
	assert.Equal(t, "12.3", string(data))

	data, err = json.Marshal(UnboundedDays())
	require.NoError(t, err)
	assert.Equal(t, `"infinite"`, string(data))

	var d DaysOfStock
	require.NoError(t, json.Unmarshal([]byte(`"infinite"`), &d))
	assert.True(t, d.Unbounded)

	require.NoError(t, json.Unmarshal([]byte(`4.5`), &d))
	assert.False(t, d.Unbounded)
	assert.Equal(t, 4.5, d.Days)
}

func TestOrderItemsRoundTrip(t *testing.T) {
	items := OrderItems{{ProductID: "p1", Quantity: 2, UnitPrice: 5, TotalPrice: 10}}

	value, err := items.Value()
	require.NoError(t, err)

	var decoded OrderItems
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, items, decoded)

	assert.Error(t, decoded.Scan(42))
}
