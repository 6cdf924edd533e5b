// internal/game/settings_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsUpdateAppliesKnownKeys(t *testing.T) {
	s := DefaultSettings()

	err := s.Update(map[string]interface{}{
		"startingCash":    float64(2000),
		"goSalaryBase":    float64(250),
		"rentNegotiation": false,
		"inflationRate":   0.02,
	})
	require.NoError(t, err)

	assert.Equal(t, 2000, s.StartingCash)
	assert.Equal(t, 250, s.GoSalaryBase)
	assert.False(t, s.RentNegotiation)
	assert.Equal(t, 0.02, s.InflationRate)
	assert.Equal(t, 200, s.FlatTax, "untouched keys keep defaults")
}

func TestSettingsUpdateRejectsBadTypes(t *testing.T) {
	s := DefaultSettings()

	err := s.Update(map[string]interface{}{"rentNegotiation": "yes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rentNegotiation")

	err = s.Update(map[string]interface{}{"flatTax": "lots"})
	require.Error(t, err)
}

func TestSettingsUpdateEnforcesMinimums(t *testing.T) {
	s := DefaultSettings()

	err := s.Update(map[string]interface{}{"startingCash": float64(0)})
	require.Error(t, err)

	err = s.Update(map[string]interface{}{"inflationRate": -0.5})
	require.Error(t, err)

	err = s.Update(map[string]interface{}{"chapter11Turns": float64(0)})
	require.Error(t, err)
}

func TestSettingsUpdateIgnoresNilAndUnknown(t *testing.T) {
	s := DefaultSettings()
	before := s

	err := s.Update(map[string]interface{}{
		"bailAmount": nil,
		"unknownKey": 42,
	})
	require.NoError(t, err)
	assert.Equal(t, before, s)
}
