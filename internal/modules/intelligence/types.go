package intelligence

import (
	"github.com/tenderiq/core/internal/config"
	"github.com/tenderiq/core/internal/models"
)

// Inputs is the shared context handed to every intelligence calculator.
// Later calculators see the outputs of earlier ones, the pipeline fills
// them in as phases complete.
type Inputs struct {
	TenderInfo *models.TenderInfo
	Financial  *models.FinancialRequirements
	Scope      *models.ScopeOfWork
	SWOT       *models.SWOTAnalysis
	Risk       *models.RiskAssessment
	Compliance *models.ComplianceReport
	Bid        *models.BidRecommendation

	Company      config.CompanyProfile
	DayRateLakhs float64
}

// contractValueLakhs resolves the best-known contract value in lakhs,
// preferring the financial block over the tender header.
func (in Inputs) contractValueLakhs() float64 {
	if in.Financial != nil && in.Financial.ContractValue != nil && in.Financial.ContractValue.Amount > 0 {
		return in.Financial.ContractValue.Amount
	}
	if in.TenderInfo != nil && in.TenderInfo.EstimatedValue != nil && in.TenderInfo.EstimatedValue.Amount > 0 {
		return in.TenderInfo.EstimatedValue.Amount
	}
	return 0
}

// emdRatioPercent returns the earnest money deposit as a percentage of the
// contract value, or 0 when either side is unknown.
func (in Inputs) emdRatioPercent() float64 {
	if in.Financial == nil {
		return 0
	}
	if in.Financial.EMDPercentage != nil && *in.Financial.EMDPercentage > 0 {
		return *in.Financial.EMDPercentage
	}
	value := in.contractValueLakhs()
	if value <= 0 {
		return 0
	}
	if in.Financial.EMDAmount != nil && in.Financial.EMDAmount.Amount > 0 {
		return in.Financial.EMDAmount.Amount / value * 100
	}
	return 0
}

// effortDays returns the total estimated effort, or 0 when no scope exists.
func (in Inputs) effortDays() int {
	if in.Scope == nil {
		return 0
	}
	return in.Scope.EstimatedTotalEffortDays
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
