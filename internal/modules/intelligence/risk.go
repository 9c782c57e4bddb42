package intelligence

import (
	"github.com/tenderiq/core/internal/models"
)

// RiskCalculator scores delivery and financial risk from the scope and
// financial blocks. Additive scoring, higher is riskier.
type RiskCalculator struct{}

func NewRiskCalculator() *RiskCalculator {
	return &RiskCalculator{}
}

func (c *RiskCalculator) Calculate(in Inputs) *models.RiskAssessment {
	score := 0.0
	risks := make([]models.RiskItem, 0, 4)

	effort := in.effortDays()
	switch {
	case effort > 150:
		score += 30
		risks = append(risks, models.RiskItem{
			Category:    "delivery",
			Description: "Very large estimated effort increases schedule slippage risk",
			Likelihood:  "high",
			Impact:      "high",
			Mitigation:  "Break delivery into phased milestones with buffer",
			Score:       30,
		})
	case effort > 100:
		score += 15
		risks = append(risks, models.RiskItem{
			Category:    "delivery",
			Description: "Substantial estimated effort requires careful scheduling",
			Likelihood:  "medium",
			Impact:      "medium",
			Mitigation:  "Track progress weekly against the work breakdown",
			Score:       15,
		})
	}

	value := in.contractValueLakhs()
	if value > 0 && in.Financial != nil && in.Financial.EMDAmount != nil &&
		in.Financial.EMDAmount.Amount > value*0.03 {
		score += 10
		risks = append(risks, models.RiskItem{
			Category:    "financial",
			Description: "Earnest money deposit exceeds 3% of contract value",
			Likelihood:  "medium",
			Impact:      "medium",
			Mitigation:  "Confirm EMD refund terms before committing working capital",
			Score:       10,
		})
	}

	// Baseline exposure every tender carries.
	score += 5
	risks = append(risks, models.RiskItem{
		Category:    "compliance",
		Description: "Regulatory and documentation compliance overhead",
		Likelihood:  "low",
		Impact:      "medium",
		Mitigation:  "Assign a compliance owner for the submission checklist",
		Score:       5,
	})
	score += 3
	risks = append(risks, models.RiskItem{
		Category:    "market",
		Description: "Competitive bidding pressure on margins",
		Likelihood:  "medium",
		Impact:      "low",
		Mitigation:  "Benchmark pricing against recent awards in the category",
		Score:       3,
	})

	return &models.RiskAssessment{
		OverallScore: score,
		RiskLevel:    riskLevel(score),
		Risks:        risks,
	}
}

func riskLevel(score float64) string {
	switch {
	case score < 30:
		return "LOW"
	case score < 60:
		return "MEDIUM"
	case score < 80:
		return "HIGH"
	default:
		return "CRITICAL"
	}
}
