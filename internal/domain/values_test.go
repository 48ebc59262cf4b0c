package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountDecodesLeniently(t *testing.T) {
	cases := map[string]Count{
		`12`:                   12,
		`"12"`:                 12,
		`"12.9"`:               12,
		`"3,5"`:                3,
		`null`:                 0,
		`""`:                   0,
		`"douze"`:              0,
		`-4`:                   -4,
		`2147483647`:           MaxCount,
		`2147483648`:           0,
		`9223372036854775807`:  0,
		`-9223372036854775807`: 0,
		`"99999999999"`:        0,
		`1e300`:                0,
	}
	for raw, want := range cases {
		var c Count
		require.NoError(t, json.Unmarshal([]byte(raw), &c), raw)
		assert.Equal(t, want, c, raw)
	}
}

func TestInventoryLineDropsOversizedCounts(t *testing.T) {
	var line InventoryLine
	err := json.Unmarshal([]byte(`{"inventory_start_full": 9223372036854775807, "inventory_start_opened": 1, "quantity": "12.9"}`), &line)
	require.NoError(t, err)

	assert.Equal(t, Count(0), line.StartFull)
	assert.Equal(t, Count(1), line.StartOpened)
	assert.Equal(t, Count(12), line.QuantitySold)
}
