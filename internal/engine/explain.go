package engine

import (
	"fmt"

	"github.com/vocabtutor/amas/internal/domain"
)

// composeExplanation surfaces the factors that crossed a reporting
// threshold, so a caller can show the learner why the strategy shifted.
func composeExplanation(st domain.UserState, candidates []domain.DecisionCandidate, weights map[domain.CandidateSource]float64) domain.DecisionExplanation {
	var factors []domain.DecisionFactor

	if st.Fatigue > 0.6 {
		factors = append(factors, domain.DecisionFactor{Name: "high_fatigue", Value: st.Fatigue})
	}
	if st.Attention < 0.4 {
		factors = append(factors, domain.DecisionFactor{Name: "low_attention", Value: st.Attention})
	}
	if st.Motivation < -0.3 {
		factors = append(factors, domain.DecisionFactor{Name: "low_motivation", Value: st.Motivation})
	}
	for _, c := range candidates {
		if w := weights[c.Source]; w > 0 {
			factors = append(factors, domain.DecisionFactor{Name: c.Source.String() + "_weight", Value: w})
		}
	}

	text := "strategy held steady"
	if len(factors) > 0 {
		text = fmt.Sprintf("adjusted on %d factor(s), led by %s", len(factors), factors[0].Name)
	}
	return domain.DecisionExplanation{Factors: factors, Text: text}
}
