// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
)

// ForecastMonth names one of the two forecast periods collected at year end.
type ForecastMonth string

// Forecast months.
const (
	November ForecastMonth = "nov"
	December ForecastMonth = "dec"
)

// ParseForecastMonth accepts "nov", "november", "dec" or "december" in any case.
func ParseForecastMonth(s string) (ForecastMonth, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nov", "november":
		return November, nil
	case "dec", "december":
		return December, nil
	default:
		return "", fmt.Errorf("unknown forecast month %q", s)
	}
}

// ForecastPair is a leader's forecast for a single month.
type ForecastPair struct {
	ANP      float64 `json:"anp"`
	Recruits float64 `json:"recruits"`
}

// LeaderForecasts holds the November and December forecasts.
type LeaderForecasts struct {
	Nov ForecastPair `json:"nov"`
	Dec ForecastPair `json:"dec"`
}

// Leader is a unit manager together with the unit's current performance.
type Leader struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`

	ANP      float64 `json:"anp"`
	Recruits float64 `json:"recruits"`
	Cases    float64 `json:"cases"`
	FYP      float64 `json:"fyp"`
	FYC      float64 `json:"fyc"`
	YTDANP   float64 `json:"ytdAnp"`
	YTDFYP   float64 `json:"ytdFyp"`
	YTDFYC   float64 `json:"ytdFyc"`
	YTDCases float64 `json:"ytdCases"`

	ANPTarget      float64 `json:"anpTarget"`
	RecruitsTarget float64 `json:"recruitsTarget"`

	Forecasts LeaderForecasts `json:"forecasts"`
}

// Forecast returns the forecast for the given month.
func (l *Leader) Forecast(month ForecastMonth) ForecastPair {
	if month == December {
		return l.Forecasts.Dec
	}
	return l.Forecasts.Nov
}

// SetForecast replaces the forecast for the given month.
func (l *Leader) SetForecast(month ForecastMonth, pair ForecastPair) {
	if month == December {
		l.Forecasts.Dec = pair
		return
	}
	l.Forecasts.Nov = pair
}

// ANPForecastTotal is the combined November and December ANP forecast.
func (l *Leader) ANPForecastTotal() float64 {
	return l.Forecasts.Nov.ANP + l.Forecasts.Dec.ANP
}

// CarryOverInputs copies the fields that are entered by hand rather than
// synced from a sheet.
func (l *Leader) CarryOverInputs(prev *Leader) {
	if l.ANPTarget == 0 {
		l.ANPTarget = prev.ANPTarget
	}
	if l.RecruitsTarget == 0 {
		l.RecruitsTarget = prev.RecruitsTarget
	}
	l.Forecasts = prev.Forecasts
}
