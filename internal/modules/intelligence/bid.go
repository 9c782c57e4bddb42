package intelligence

import (
	"github.com/tenderiq/core/internal/models"
)

// BidCalculator produces the bid/no-bid recommendation. It starts from a
// neutral score and adjusts for effort fit, deposit burden, risk and the
// SWOT balance.
type BidCalculator struct{}

func NewBidCalculator() *BidCalculator {
	return &BidCalculator{}
}

func (c *BidCalculator) Calculate(in Inputs) *models.BidRecommendation {
	score := 50.0
	rationale := make([]string, 0, 4)

	effort := in.effortDays()
	switch {
	case effort >= 50 && effort <= 150:
		score += 15
		rationale = append(rationale, "Estimated effort fits the delivery sweet spot")
	case effort > 0 && effort < 50:
		score += 10
		rationale = append(rationale, "Small effort footprint keeps execution risk low")
	case effort > 200:
		score -= 15
		rationale = append(rationale, "Very large effort strains delivery capacity")
	}

	if ratio := in.emdRatioPercent(); ratio > 0 {
		if ratio < 3 {
			score += 10
			rationale = append(rationale, "EMD burden is light relative to contract value")
		} else if ratio > 5 {
			score -= 10
			rationale = append(rationale, "EMD locks up significant working capital")
		}
	}

	if in.Risk != nil {
		switch in.Risk.RiskLevel {
		case "LOW":
			score += 15
			rationale = append(rationale, "Overall risk profile is low")
		case "HIGH":
			score -= 20
			rationale = append(rationale, "High risk profile weighs against bidding")
		case "CRITICAL":
			score -= 30
			rationale = append(rationale, "Critical risk profile strongly discourages bidding")
		}
	}

	if in.SWOT != nil {
		if len(in.SWOT.Strengths) > len(in.SWOT.Weaknesses) {
			score += 10
			rationale = append(rationale, "Strengths outweigh weaknesses for this tender")
		}
		if len(in.SWOT.Threats) > len(in.SWOT.Opportunities) {
			score -= 10
			rationale = append(rationale, "Threats outnumber opportunities in the market position")
		}
	}

	score = clampScore(score)

	return &models.BidRecommendation{
		Score:     score,
		Verdict:   bidVerdict(score),
		Rationale: rationale,
	}
}

func bidVerdict(score float64) string {
	switch {
	case score >= 70:
		return "STRONG BID"
	case score >= 55:
		return "CONDITIONAL BID"
	case score >= 40:
		return "CAUTION"
	default:
		return "NO BID"
	}
}
