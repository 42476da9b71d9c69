package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgent_SetCommissionTarget(t *testing.T) {
	tests := []struct {
		name        string
		commission  float64
		wantPremium float64
		wantANP     float64
	}{
		{name: "round figure", commission: 100000, wantPremium: 400000, wantANP: 440000},
		{name: "zero", commission: 0, wantPremium: 0, wantANP: 0},
		{name: "cents", commission: 12345.5, wantPremium: 49382, wantANP: 54320.2},
		{name: "small", commission: 1, wantPremium: 4, wantANP: 4.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Agent
			a.SetCommissionTarget(tt.commission)
			assert.Equal(t, tt.commission, a.CommissionTarget)
			assert.Equal(t, tt.wantPremium, a.PremiumTarget)
			assert.Equal(t, tt.wantANP, a.ANPTarget)
		})
	}
}

func TestAgent_SetCommissionTargetRecomputesOnEveryCall(t *testing.T) {
	var a Agent
	a.SetCommissionTarget(100000)
	a.SetCommissionTarget(50000)

	assert.Equal(t, 200000.0, a.PremiumTarget)
	assert.Equal(t, 220000.0, a.ANPTarget)
}

func TestAgent_CarryOverInputs(t *testing.T) {
	prev := Agent{RecruitsTarget: 3}
	prev.SetCommissionTarget(25000)
	prev.SetForecast(December, AgentForecastPair{Commission: 9000, Recruits: 1})

	fresh := Agent{Name: "ANALYN D. GONZALES", ANP: 1200}
	fresh.CarryOverInputs(&prev)

	assert.Equal(t, 25000.0, fresh.CommissionTarget)
	assert.Equal(t, 100000.0, fresh.PremiumTarget)
	assert.Equal(t, 110000.0, fresh.ANPTarget)
	assert.Equal(t, 3.0, fresh.RecruitsTarget)
	assert.Equal(t, 9000.0, fresh.Forecast(December).Commission)
	assert.Equal(t, 1200.0, fresh.ANP)
}

func TestParseForecastMonth(t *testing.T) {
	m, err := ParseForecastMonth("November")
	assert.NoError(t, err)
	assert.Equal(t, November, m)

	m, err = ParseForecastMonth(" DEC ")
	assert.NoError(t, err)
	assert.Equal(t, December, m)

	_, err = ParseForecastMonth("oct")
	assert.Error(t, err)
}
