package model

// AlignmentStatus classifies how a unit's agent targets line up with its
// leader's forecast.
type AlignmentStatus string

// Alignment statuses.
const (
	StatusUnder   AlignmentStatus = "under"
	StatusAligned AlignmentStatus = "aligned"
	StatusOver    AlignmentStatus = "over"
)

// TargetPair is an admin-set ANP and recruits target.
type TargetPair struct {
	ANP      float64 `json:"anp"`
	Recruits float64 `json:"recruits"`
}

// ComparisonData is the derived per-unit comparison. It is never stored.
type ComparisonData struct {
	Adjusted          *TargetPair     `json:"adjusted,omitempty"`
	Label             string          `json:"label"`
	LeaderName        string          `json:"leaderName"`
	Status            AlignmentStatus `json:"status"`
	AgentCount        int             `json:"agentCount"`
	AgentsANPTotal    float64         `json:"agentsAnpTotal"`
	LeaderANPForecast float64         `json:"umAnpForecast"`
	Variance          float64         `json:"variance"`
	Alignment         float64         `json:"alignmentPercentage"`
	HasLeaderRecord   bool            `json:"hasLeaderRecord"`
}

// AgencyTotals sums targets and forecasts across the whole agency.
type AgencyTotals struct {
	AdjustedANPTarget      *float64 `json:"adjustedAnpTarget,omitempty"`
	AdjustedRecruitsTarget *float64 `json:"adjustedRecruitsTarget,omitempty"`
	LeadersANPTarget       float64  `json:"leadersAnpTarget"`
	LeadersRecruitsTarget  float64  `json:"leadersRecruitsTarget"`
	LeadersANPForecast     float64  `json:"leadersAnpForecast"`
	LeadersRecruitsFcst    float64  `json:"leadersRecruitsForecast"`
	AgentsANPTarget        float64  `json:"agentsAnpTarget"`
	AgentsCommissionTarget float64  `json:"agentsCommissionTarget"`
	AgentsRecruitsTarget   float64  `json:"agentsRecruitsTarget"`
	LeaderCount            int      `json:"leaderCount"`
	AgentCount             int      `json:"agentCount"`
}

// EffectiveANPTarget prefers the admin-adjusted figure over the summed one.
func (t AgencyTotals) EffectiveANPTarget() float64 {
	if t.AdjustedANPTarget != nil {
		return *t.AdjustedANPTarget
	}
	return t.LeadersANPTarget
}

// EffectiveRecruitsTarget prefers the admin-adjusted figure over the summed one.
func (t AgencyTotals) EffectiveRecruitsTarget() float64 {
	if t.AdjustedRecruitsTarget != nil {
		return *t.AdjustedRecruitsTarget
	}
	return t.LeadersRecruitsTarget
}
