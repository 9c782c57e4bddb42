package intelligence

import (
	"strings"

	"github.com/tenderiq/core/internal/models"
)

// WinProbabilityCalculator blends the bid score, risk posture, compliance
// and complexity into a single winnability estimate.
type WinProbabilityCalculator struct{}

func NewWinProbabilityCalculator() *WinProbabilityCalculator {
	return &WinProbabilityCalculator{}
}

func (c *WinProbabilityCalculator) Calculate(in Inputs) *models.WinProbability {
	bidScore := 50.0
	if in.Bid != nil {
		bidScore = in.Bid.Score
	}
	riskLevel := "MEDIUM"
	if in.Risk != nil {
		riskLevel = in.Risk.RiskLevel
	}
	complianceScore := 50.0
	if in.Compliance != nil {
		complianceScore = in.Compliance.Score
	}
	complexity := ""
	if in.Scope != nil {
		complexity = in.Scope.ComplexityLevel
	}

	bidComponent := bidScore * 0.4
	riskComponent := 20 * riskAdjustment(riskLevel)
	complianceComponent := complianceScore / 100 * 25
	complexityComponent := 15 * complexityAdjustment(complexity)

	probability := clampScore(bidComponent + riskComponent + complianceComponent + complexityComponent)

	return &models.WinProbability{
		Probability: probability,
		Category:    winCategory(probability),
		Factors: map[string]float64{
			"bid_strength": bidComponent,
			"risk":         riskComponent,
			"compliance":   complianceComponent,
			"complexity":   complexityComponent,
		},
	}
}

func riskAdjustment(level string) float64 {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "LOW":
		return 0.9
	case "MEDIUM":
		return 0.7
	case "HIGH":
		return 0.4
	case "CRITICAL":
		return 0.2
	default:
		return 0.7
	}
}

func complexityAdjustment(level string) float64 {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "simple", "low":
		return 1.0
	case "moderate", "medium":
		return 0.8
	case "complex", "high":
		return 0.5
	default:
		return 0.5
	}
}

func winCategory(probability float64) string {
	switch {
	case probability >= 85:
		return "VERY_HIGH"
	case probability >= 70:
		return "HIGH"
	case probability >= 50:
		return "MODERATE"
	case probability >= 30:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}
