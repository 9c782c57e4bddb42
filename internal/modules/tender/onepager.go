package tender

import (
	"fmt"
	"strings"

	"github.com/tenderiq/core/internal/models"
)

// BuildOnePager condenses the extracted blocks into the executive summary
// fragment. It degrades gracefully when inputs are missing.
func BuildOnePager(info *models.TenderInfo, fin *models.FinancialRequirements, scope *models.ScopeOfWork) *models.OnePager {
	pager := &models.OnePager{
		EligibilityHighlights: []string{},
		ImportantDates:        []string{},
		FinancialRequirements: []string{},
		RiskAnalysis:          map[string]string{},
		ExtractionConfidence:  60,
	}

	var overview strings.Builder
	if info != nil {
		if info.Title != "" {
			overview.WriteString(info.Title)
		}
		if info.IssuingOrganization != "" {
			if overview.Len() > 0 {
				overview.WriteString(", issued by ")
			}
			overview.WriteString(info.IssuingOrganization)
		}
		if info.Category != "" {
			pager.EligibilityHighlights = append(pager.EligibilityHighlights,
				"Category: "+info.Category)
		}
		if info.SubmissionDeadline != "" {
			pager.ImportantDates = append(pager.ImportantDates,
				"Submission deadline: "+info.SubmissionDeadline)
		}
	}
	if overview.Len() == 0 {
		overview.WriteString("Tender details could not be summarized from the document")
	}
	pager.ProjectOverview = overview.String()

	if fin != nil {
		if fin.ContractValue != nil {
			pager.FinancialRequirements = append(pager.FinancialRequirements,
				fmt.Sprintf("Contract value: %s", fin.ContractValue.DisplayText))
		}
		if fin.EMDAmount != nil {
			pager.FinancialRequirements = append(pager.FinancialRequirements,
				fmt.Sprintf("Earnest money deposit: %s", fin.EMDAmount.DisplayText))
		} else if fin.EMDPercentage != nil {
			pager.FinancialRequirements = append(pager.FinancialRequirements,
				fmt.Sprintf("Earnest money deposit: %.1f%% of contract value", *fin.EMDPercentage))
		}
		if fin.PerformanceBankGuarantee != nil {
			pager.FinancialRequirements = append(pager.FinancialRequirements,
				fmt.Sprintf("Performance bank guarantee: %s", fin.PerformanceBankGuarantee.DisplayText))
		}
	}

	if scope != nil {
		pager.RiskAnalysis["complexity"] = scope.ComplexityLevel
		pager.RiskAnalysis["effort"] = fmt.Sprintf("%d estimated effort days", scope.EstimatedTotalEffortDays)
	}

	return pager
}
