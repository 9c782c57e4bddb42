package intelligence

import (
	"context"
	"fmt"

	"github.com/tenderiq/core/internal/config"
	"github.com/tenderiq/core/internal/models"
	"github.com/tenderiq/core/internal/pkg/ai"
	"go.uber.org/zap"
)

const swotSystemPrompt = `You are a bid analyst for an infrastructure contractor.
Given tender details, respond with a JSON object only:
{"strengths": [...], "weaknesses": [...], "opportunities": [...], "threats": [...]}
Each list holds 2-5 short bullet strings.`

// Service bundles every intelligence calculator behind one entry point.
// When an AI provider is configured the SWOT pass is model generated,
// falling back to the rule-based result on any provider failure.
type Service struct {
	swot       *SWOTCalculator
	risk       *RiskCalculator
	compliance *ComplianceChecker
	bid        *BidCalculator
	cost       *CostCalculator
	win        *WinProbabilityCalculator

	provider *config.AIProvider
	log      *zap.Logger
}

func NewService(provider *config.AIProvider, log *zap.Logger) *Service {
	return &Service{
		swot:       NewSWOTCalculator(),
		risk:       NewRiskCalculator(),
		compliance: NewComplianceChecker(),
		bid:        NewBidCalculator(),
		cost:       NewCostCalculator(),
		win:        NewWinProbabilityCalculator(),
		provider:   provider,
		log:        log,
	}
}

// SWOT generates the SWOT analysis, preferring the model when available.
func (s *Service) SWOT(ctx context.Context, in Inputs) *models.SWOTAnalysis {
	if s.provider == nil {
		return s.swot.Calculate(in)
	}

	var generated struct {
		Strengths     []string `json:"strengths"`
		Weaknesses    []string `json:"weaknesses"`
		Opportunities []string `json:"opportunities"`
		Threats       []string `json:"threats"`
	}
	err := ai.GenerateJSON(ctx, s.provider, swotSystemPrompt, swotPrompt(in), &generated)
	if err != nil {
		s.log.Warn("model SWOT failed, using rule-based fallback", zap.Error(err))
		return s.swot.Calculate(in)
	}
	if len(generated.Strengths)+len(generated.Weaknesses)+
		len(generated.Opportunities)+len(generated.Threats) == 0 {
		return s.swot.Calculate(in)
	}

	return &models.SWOTAnalysis{
		Strengths:     emptyIfNil(generated.Strengths),
		Weaknesses:    emptyIfNil(generated.Weaknesses),
		Opportunities: emptyIfNil(generated.Opportunities),
		Threats:       emptyIfNil(generated.Threats),
		Confidence:    75,
	}
}

func (s *Service) Risk(in Inputs) *models.RiskAssessment {
	return s.risk.Calculate(in)
}

func (s *Service) Compliance(in Inputs) *models.ComplianceReport {
	return s.compliance.Calculate(in)
}

func (s *Service) Bid(in Inputs) *models.BidRecommendation {
	return s.bid.Calculate(in)
}

func (s *Service) Cost(in Inputs) *models.CostBreakdown {
	return s.cost.Calculate(in)
}

func (s *Service) WinProbability(in Inputs) *models.WinProbability {
	return s.win.Calculate(in)
}

func swotPrompt(in Inputs) string {
	title, category, value := "unknown tender", "general", 0.0
	if in.TenderInfo != nil {
		if in.TenderInfo.Title != "" {
			title = in.TenderInfo.Title
		}
		if in.TenderInfo.Category != "" {
			category = in.TenderInfo.Category
		}
	}
	value = in.contractValueLakhs()

	return fmt.Sprintf(
		"Tender: %s\nCategory: %s\nContract value: %.0f lakhs\nEstimated effort: %d days\n"+
			"Bidder: %.0f lakhs turnover, %d years experience, %d similar projects, %d certifications",
		title, category, value, in.effortDays(),
		in.Company.AnnualTurnoverLakhs, in.Company.YearsExperience,
		in.Company.SimilarProjects, len(in.Company.Certifications),
	)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
