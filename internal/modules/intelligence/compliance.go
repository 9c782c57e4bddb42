package intelligence

import (
	"fmt"
	"strings"

	"github.com/tenderiq/core/internal/models"
)

// Eligibility thresholds typical of mid-size infrastructure tenders, used
// when the document does not state explicit criteria.
const (
	requiredTurnoverLakhs   = 2500.0
	requiredYearsExperience = 7
	requiredSimilarProjects = 2
)

// ComplianceChecker evaluates the bidder profile against eligibility
// requirements.
type ComplianceChecker struct{}

func NewComplianceChecker() *ComplianceChecker {
	return &ComplianceChecker{}
}

func (c *ComplianceChecker) Calculate(in Inputs) *models.ComplianceReport {
	profile := in.Company
	checks := []models.ComplianceCheck{
		{
			Requirement: "Annual turnover",
			Expected:    fmt.Sprintf(">= %.0f lakhs", requiredTurnoverLakhs),
			Actual:      fmt.Sprintf("%.0f lakhs", profile.AnnualTurnoverLakhs),
			Met:         profile.AnnualTurnoverLakhs >= requiredTurnoverLakhs,
		},
		{
			Requirement: "Years of experience",
			Expected:    fmt.Sprintf(">= %d years", requiredYearsExperience),
			Actual:      fmt.Sprintf("%d years", profile.YearsExperience),
			Met:         profile.YearsExperience >= requiredYearsExperience,
		},
		{
			Requirement: "Similar projects completed",
			Expected:    fmt.Sprintf(">= %d projects", requiredSimilarProjects),
			Actual:      fmt.Sprintf("%d projects", profile.SimilarProjects),
			Met:         profile.SimilarProjects >= requiredSimilarProjects,
		},
		{
			Requirement: "Quality certifications",
			Expected:    "at least one certification",
			Actual:      certificationSummary(profile.Certifications),
			Met:         len(profile.Certifications) > 0,
		},
	}

	met := 0
	gaps := make([]models.ComplianceGap, 0)
	for _, check := range checks {
		if check.Met {
			met++
			continue
		}
		gaps = append(gaps, models.ComplianceGap{
			Requirement:    check.Requirement,
			Description:    fmt.Sprintf("%s is %s, requirement is %s", check.Requirement, check.Actual, check.Expected),
			Recommendation: gapRecommendation(check.Requirement),
		})
	}

	score := float64(met) / float64(len(checks)) * 100

	return &models.ComplianceReport{
		Score:   score,
		Verdict: complianceVerdict(score),
		Checks:  checks,
		Gaps:    gaps,
	}
}

func complianceVerdict(score float64) string {
	switch {
	case score >= 75:
		return "COMPLIANT"
	case score >= 50:
		return "PARTIALLY_COMPLIANT"
	default:
		return "NON-COMPLIANT"
	}
}

func certificationSummary(certs []string) string {
	if len(certs) == 0 {
		return "none"
	}
	return strings.Join(certs, ", ")
}

func gapRecommendation(requirement string) string {
	switch requirement {
	case "Annual turnover":
		return "Consider a joint venture with a partner meeting the turnover threshold"
	case "Years of experience":
		return "Highlight promoter or key staff experience in the technical bid"
	case "Similar projects completed":
		return "Include sub-contracted or consortium project references"
	case "Quality certifications":
		return "Initiate ISO 9001 certification before the submission deadline"
	default:
		return "Review the eligibility criteria with the bid team"
	}
}
