package tender

import (
	"fmt"

	"github.com/tenderiq/core/internal/models"
)

// BuildDataSheet flattens the analysis fragments into the key/value sheet
// produced during the summary phase.
func BuildDataSheet(analysis *models.AnalysisModel) *models.DataSheet {
	sheet := &models.DataSheet{
		KeyTenderDetails: map[string]string{},
		FinancialSummary: map[string]string{},
		Timeline:         map[string]string{},
	}

	if info := analysis.TenderInfo; info != nil {
		setIfNotEmpty(sheet.KeyTenderDetails, "reference_number", info.ReferenceNumber)
		setIfNotEmpty(sheet.KeyTenderDetails, "title", info.Title)
		setIfNotEmpty(sheet.KeyTenderDetails, "issuing_organization", info.IssuingOrganization)
		setIfNotEmpty(sheet.KeyTenderDetails, "category", info.Category)
		setIfNotEmpty(sheet.KeyTenderDetails, "tender_type", info.TenderType)
		setIfNotEmpty(sheet.Timeline, "submission_deadline", info.SubmissionDeadline)
		setIfNotEmpty(sheet.Timeline, "published_date", info.PublishedDate)
	}

	if fin := analysis.Financial; fin != nil {
		if fin.ContractValue != nil {
			sheet.FinancialSummary["contract_value"] = fin.ContractValue.DisplayText
		}
		if fin.EMDAmount != nil {
			sheet.FinancialSummary["emd"] = fin.EMDAmount.DisplayText
		} else if fin.EMDPercentage != nil {
			sheet.FinancialSummary["emd"] = fmt.Sprintf("%.1f%%", *fin.EMDPercentage)
		}
		if fin.PerformanceBankGuarantee != nil {
			sheet.FinancialSummary["performance_bank_guarantee"] = fin.PerformanceBankGuarantee.DisplayText
		}
	}

	if scope := analysis.ScopeOfWork; scope != nil {
		sheet.KeyTenderDetails["complexity"] = scope.ComplexityLevel
		sheet.Timeline["estimated_effort_days"] = fmt.Sprintf("%d", scope.EstimatedTotalEffortDays)
	}

	if bid := analysis.BidRecommendation; bid != nil {
		sheet.KeyTenderDetails["bid_verdict"] = bid.Verdict
	}
	if win := analysis.WinProbability; win != nil {
		sheet.KeyTenderDetails["win_probability"] = fmt.Sprintf("%.0f%%", win.Probability)
	}

	return sheet
}

func setIfNotEmpty(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}
