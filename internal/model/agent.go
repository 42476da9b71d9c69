package model

import (
	"github.com/shopspring/decimal"
)

var (
	// CommissionRate converts a commission target into a premium target.
	CommissionRate = decimal.RequireFromString("0.25")
	// ANPMultiplier converts a premium target into an annualized premium target.
	ANPMultiplier = decimal.RequireFromString("1.10")
)

// AgentForecastPair is an agent's forecast for a single month.
type AgentForecastPair struct {
	Commission float64 `json:"commission"`
	Recruits   float64 `json:"recruits"`
}

// AgentForecasts holds the November and December forecasts.
type AgentForecasts struct {
	Nov AgentForecastPair `json:"nov"`
	Dec AgentForecastPair `json:"dec"`
}

// Agent is an individual producer. LeaderName refers to a Leader by name only.
type Agent struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LeaderName string `json:"leaderName"`

	ANP   float64 `json:"anp"`
	FYP   float64 `json:"fyp"`
	Cases float64 `json:"cases"`

	CommissionTarget float64 `json:"commissionTarget"`
	PremiumTarget    float64 `json:"premiumTarget"`
	ANPTarget        float64 `json:"anpTarget"`
	RecruitsTarget   float64 `json:"recruitsTarget"`

	Forecasts AgentForecasts `json:"forecasts"`
}

// SetCommissionTarget stores the commission target and recomputes the
// premium and ANP targets derived from it.
func (a *Agent) SetCommissionTarget(commission float64) {
	premium, anp := DeriveTargets(commission)
	a.CommissionTarget = commission
	a.PremiumTarget = premium
	a.ANPTarget = anp
}

// DeriveTargets returns premium = commission / 0.25 and anp = premium * 1.10.
func DeriveTargets(commission float64) (premium, anp float64) {
	p := decimal.NewFromFloat(commission).Div(CommissionRate)
	return p.InexactFloat64(), p.Mul(ANPMultiplier).InexactFloat64()
}

// Forecast returns the forecast for the given month.
func (a *Agent) Forecast(month ForecastMonth) AgentForecastPair {
	if month == December {
		return a.Forecasts.Dec
	}
	return a.Forecasts.Nov
}

// SetForecast replaces the forecast for the given month.
func (a *Agent) SetForecast(month ForecastMonth, pair AgentForecastPair) {
	if month == December {
		a.Forecasts.Dec = pair
		return
	}
	a.Forecasts.Nov = pair
}

// CarryOverInputs copies targets and forecasts from a previously stored
// record. Derived targets are recomputed from the carried commission target.
func (a *Agent) CarryOverInputs(prev *Agent) {
	if a.CommissionTarget == 0 {
		a.SetCommissionTarget(prev.CommissionTarget)
	} else {
		a.SetCommissionTarget(a.CommissionTarget)
	}
	if a.RecruitsTarget == 0 {
		a.RecruitsTarget = prev.RecruitsTarget
	}
	a.Forecasts = prev.Forecasts
}
