// Package scoring reduces the six 0-3 criterion scores of an
// evaluation into the four derived scores and the three-way
// recommendation. Pure functions only: identical inputs always yield
// identical outputs.
package scoring

import (
	"math"

	"github.com/formgate/formgate/internal/domain"
)

// Field codes of the six criterion inputs within the answer set.
const (
	CodeMissionAlignment  = "F2.1.score"
	CodeUnmetNeed         = "F2.2.score"
	CodeIPStrength        = "F3.2.score"
	CodeMarketSize        = "F4.4.a"
	CodePatientPopulation = "F4.4.b"
	CodeCompetitors       = "F4.4.c"
)

// Inputs are the six raw criterion scores. Callers extract them with
// a default-zero coercion; the calculator itself does not clamp.
type Inputs struct {
	MissionAlignment  float64 `json:"mission_alignment"`
	UnmetNeed         float64 `json:"unmet_need"`
	IPStrength        float64 `json:"ip_strength"`
	MarketSize        float64 `json:"market_size"`
	PatientPopulation float64 `json:"patient_population"`
	Competitors       float64 `json:"competitors"`
}

// FromAnswers extracts the criterion inputs from an answer set,
// defaulting missing or non-numeric values to zero.
func FromAnswers(answers domain.Answers) Inputs {
	return Inputs{
		MissionAlignment:  domain.FloatOrZero(answers[CodeMissionAlignment]),
		UnmetNeed:         domain.FloatOrZero(answers[CodeUnmetNeed]),
		IPStrength:        domain.FloatOrZero(answers[CodeIPStrength]),
		MarketSize:        domain.FloatOrZero(answers[CodeMarketSize]),
		PatientPopulation: domain.FloatOrZero(answers[CodePatientPopulation]),
		Competitors:       domain.FloatOrZero(answers[CodeCompetitors]),
	}
}

// Recommendation is the three-way outcome of the quadrant table.
type Recommendation string

const (
	RecommendProceed     Recommendation = "Proceed"
	RecommendAlternative Recommendation = "Consider Alternative Pathway"
	RecommendClose       Recommendation = "Close"
)

var recommendationText = map[Recommendation]string{
	RecommendProceed:     "Strong impact and value profile. Recommend advancing to full evaluation.",
	RecommendAlternative: "Mixed profile. Consider licensing, partnership, or a staged pathway.",
	RecommendClose:       "Insufficient impact or value. Recommend closing the evaluation.",
}

// Derived is the computed score block: a cache over the raw answers,
// safely re-derivable at any time and never persisted as ground truth.
type Derived struct {
	ImpactScore        float64        `json:"impact_score"`
	ValueScore         float64        `json:"value_score"`
	MarketScore        float64        `json:"market_score"`
	OverallScore       float64        `json:"overall_score"`
	Recommendation     Recommendation `json:"recommendation"`
	RecommendationText string         `json:"recommendation_text"`
}

// Calculate runs the full pipeline. The value score is derived from
// the unrounded market mean; only the published figures are rounded.
func Calculate(in Inputs) Derived {
	marketMean := (in.MarketSize + in.PatientPopulation + in.Competitors) / 3

	impact := round2(0.5*in.MissionAlignment + 0.5*in.UnmetNeed)
	value := round2(0.5*in.IPStrength + 0.5*marketMean)
	market := round2(marketMean)
	overall := round2((impact + value) / 2)

	rec := recommend(impact, value)

	return Derived{
		ImpactScore:        impact,
		ValueScore:         value,
		MarketScore:        market,
		OverallScore:       overall,
		Recommendation:     rec,
		RecommendationText: recommendationText[rec],
	}
}

// recommend maps (impact%, value%) onto the fixed quadrant table.
// Branch order is load-bearing at the 20/33/67 boundaries; do not
// reorder or merge branches.
func recommend(impactScore, valueScore float64) Recommendation {
	impactPct := impactScore / 3 * 100
	valuePct := valueScore / 3 * 100

	switch {
	case impactPct > 67:
		return RecommendProceed
	case impactPct >= 33 && valuePct > 67:
		return RecommendProceed
	case impactPct >= 33 && valuePct >= 33:
		return RecommendAlternative
	case impactPct < 33 || valuePct < 33:
		if impactPct < 20 || valuePct < 20 {
			return RecommendClose
		}
		return RecommendAlternative
	default:
		return RecommendAlternative
	}
}

// round2 rounds half away from zero at the second decimal.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Map renders the derived block as the plain keyed record handed to
// persistence and export collaborators.
func (d Derived) Map() map[string]any {
	return map[string]any{
		"impact_score":        d.ImpactScore,
		"value_score":         d.ValueScore,
		"market_score":        d.MarketScore,
		"overall_score":       d.OverallScore,
		"recommendation":      string(d.Recommendation),
		"recommendation_text": d.RecommendationText,
	}
}
