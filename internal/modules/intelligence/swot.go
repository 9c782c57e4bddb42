package intelligence

import (
	"fmt"

	"github.com/tenderiq/core/internal/models"
)

// SWOTCalculator derives a SWOT view from the bidder profile and the
// tender's financial and scope signals. Purely rule based.
type SWOTCalculator struct{}

func NewSWOTCalculator() *SWOTCalculator {
	return &SWOTCalculator{}
}

func (c *SWOTCalculator) Calculate(in Inputs) *models.SWOTAnalysis {
	swot := &models.SWOTAnalysis{
		Strengths:     []string{},
		Weaknesses:    []string{},
		Opportunities: []string{},
		Threats:       []string{},
		Confidence:    60,
	}

	profile := in.Company
	if profile.YearsExperience >= requiredYearsExperience {
		swot.Strengths = append(swot.Strengths,
			fmt.Sprintf("%d years of sector experience meets the eligibility bar", profile.YearsExperience))
	}
	if profile.SimilarProjects >= requiredSimilarProjects {
		swot.Strengths = append(swot.Strengths,
			fmt.Sprintf("Track record of %d comparable projects", profile.SimilarProjects))
	}
	if len(profile.Certifications) > 0 {
		swot.Strengths = append(swot.Strengths, "Holds quality certifications required by most tenders")
	}

	if profile.AnnualTurnoverLakhs < requiredTurnoverLakhs {
		swot.Weaknesses = append(swot.Weaknesses, "Annual turnover is below typical eligibility thresholds")
	}
	if len(profile.Certifications) == 0 {
		swot.Weaknesses = append(swot.Weaknesses, "No quality certifications on record")
	}
	if effort := in.effortDays(); effort > 200 {
		swot.Weaknesses = append(swot.Weaknesses, "Scope exceeds comfortable delivery capacity")
	}

	if in.TenderInfo != nil && in.TenderInfo.Category != "" {
		swot.Opportunities = append(swot.Opportunities,
			fmt.Sprintf("Foothold in the %s segment with a public reference", in.TenderInfo.Category))
	}
	if value := in.contractValueLakhs(); value >= 1000 {
		swot.Opportunities = append(swot.Opportunities, "Large contract value improves revenue visibility")
	}

	if ratio := in.emdRatioPercent(); ratio > 5 {
		swot.Threats = append(swot.Threats, "High earnest money deposit strains working capital")
	}
	swot.Threats = append(swot.Threats, "Established competitors likely to bid aggressively")

	return swot
}
