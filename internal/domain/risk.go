package domain

// RiskTier is the fire risk band a predicted FWI falls into.
type RiskTier string

const (
	RiskLow      RiskTier = "Low"
	RiskModerate RiskTier = "Moderate"
	RiskHigh     RiskTier = "High"
)

// Upper inclusive bounds of the Low and Moderate bands.
const (
	LowRiskMax      = 10.0
	ModerateRiskMax = 20.0
)

// RiskAssessment is the display data attached to a tier.
type RiskAssessment struct {
	Tier            RiskTier `json:"risk_tier"`
	Label           string   `json:"risk_label"`
	Color           string   `json:"color"`
	Recommendations []string `json:"recommendations"`
}

// PredictionResult is a scored request.
type PredictionResult struct {
	FWI float64 `json:"fwi"`
	RiskAssessment
}

// TierBand describes the score range covered by a tier. Min is exclusive and
// Max inclusive; nil means unbounded.
type TierBand struct {
	Min *float64 `json:"min_exclusive"`
	Max *float64 `json:"max_inclusive"`
	RiskAssessment
}

var (
	lowAssessment = RiskAssessment{
		Tier:  RiskLow,
		Label: "Low Risk",
		Color: "#d4edd8",
		Recommendations: []string{
			"Regular monitoring recommended",
			"Standard fire prevention measures sufficient",
			"Good conditions for controlled burns if needed",
		},
	}
	moderateAssessment = RiskAssessment{
		Tier:  RiskModerate,
		Label: "Moderate Risk",
		Color: "#fff0b3",
		Recommendations: []string{
			"Enhanced monitoring required",
			"Ensure fire breaks are maintained",
			"Review fire response procedures",
			"Avoid unnecessary burning activities",
		},
	}
	highAssessment = RiskAssessment{
		Tier:  RiskHigh,
		Label: "High Risk Level",
		Color: "#ffd6d6",
		Recommendations: []string{
			"Constant monitoring required",
			"All burning activities should be prohibited",
			"Emergency response teams should be on standby",
			"Public warning may be necessary",
			"Implement additional fire prevention measures",
		},
	}
)

// Classify maps an FWI score to its risk assessment. It is defined for every
// float64: anything not at or below a band's upper bound, NaN included, falls
// through to High.
func Classify(fwi float64) RiskAssessment {
	switch {
	case fwi <= LowRiskMax:
		return lowAssessment.clone()
	case fwi <= ModerateRiskMax:
		return moderateAssessment.clone()
	default:
		return highAssessment.clone()
	}
}

// Tiers lists every tier with its score band, lowest first.
func Tiers() []TierBand {
	low, moderate := LowRiskMax, ModerateRiskMax
	return []TierBand{
		{Max: &low, RiskAssessment: lowAssessment.clone()},
		{Min: &low, Max: &moderate, RiskAssessment: moderateAssessment.clone()},
		{Min: &moderate, RiskAssessment: highAssessment.clone()},
	}
}

// clone copies the recommendation slice so callers cannot mutate the shared tables.
func (a RiskAssessment) clone() RiskAssessment {
	a.Recommendations = append([]string(nil), a.Recommendations...)
	return a
}
