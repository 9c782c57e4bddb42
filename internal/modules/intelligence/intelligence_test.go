package intelligence

import (
	"testing"

	"github.com/tenderiq/core/internal/config"
	"github.com/tenderiq/core/internal/models"
	"go.uber.org/zap"
)

func lakhs(amount float64) *models.MoneyAmount {
	return &models.MoneyAmount{Amount: amount, Currency: "INR"}
}

func strongProfile() config.CompanyProfile {
	return config.CompanyProfile{
		AnnualTurnoverLakhs: 5000,
		YearsExperience:     12,
		SimilarProjects:     6,
		Certifications:      []string{"ISO 9001"},
	}
}

func scopeWithEffort(days int) *models.ScopeOfWork {
	return &models.ScopeOfWork{
		EstimatedTotalEffortDays: days,
		ComplexityLevel:          "medium",
		MajorWorkComponents: []models.WorkComponent{
			{Description: "Earthwork", EstimatedEffortDays: days / 2},
			{Description: "Paving", EstimatedEffortDays: days / 3},
			{Description: "Drainage", EstimatedEffortDays: days / 6},
		},
	}
}

func TestRiskLevels(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{10, "LOW"},
		{45, "MEDIUM"},
		{70, "HIGH"},
		{85, "CRITICAL"},
	}
	for _, c := range cases {
		if got := riskLevel(c.score); got != c.want {
			t.Errorf("riskLevel(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestRiskCalculatorEffortDriven(t *testing.T) {
	calc := NewRiskCalculator()

	small := calc.Calculate(Inputs{Scope: scopeWithEffort(40)})
	large := calc.Calculate(Inputs{Scope: scopeWithEffort(300)})

	if small.OverallScore >= large.OverallScore {
		t.Errorf("larger effort must score riskier: %v vs %v", small.OverallScore, large.OverallScore)
	}
	// Baseline compliance and market exposure only.
	if small.OverallScore != 8 || small.RiskLevel != "LOW" {
		t.Errorf("small tender should be LOW at 8, got %v %q", small.OverallScore, small.RiskLevel)
	}
	if large.OverallScore != 38 || large.RiskLevel != "MEDIUM" {
		t.Errorf("large tender should be MEDIUM at 38, got %v %q", large.OverallScore, large.RiskLevel)
	}
}

func TestRiskEMDExposure(t *testing.T) {
	in := Inputs{
		Financial: &models.FinancialRequirements{
			ContractValue: lakhs(1000),
			EMDAmount:     lakhs(50),
		},
	}
	result := NewRiskCalculator().Calculate(in)

	found := false
	for _, r := range result.Risks {
		if r.Category == "financial" {
			found = true
		}
	}
	if !found {
		t.Errorf("EMD above 3%% of value should add a financial risk: %+v", result.Risks)
	}
}

func TestComplianceFullPass(t *testing.T) {
	report := NewComplianceChecker().Calculate(Inputs{Company: strongProfile()})
	if report.Score != 100 || report.Verdict != "COMPLIANT" {
		t.Errorf("strong profile should be fully compliant, got %v %q", report.Score, report.Verdict)
	}
	if len(report.Gaps) != 0 {
		t.Errorf("no gaps expected, got %+v", report.Gaps)
	}
}

func TestComplianceGapsAndVerdicts(t *testing.T) {
	weak := config.CompanyProfile{
		AnnualTurnoverLakhs: 500,
		YearsExperience:     3,
		SimilarProjects:     1,
	}
	report := NewComplianceChecker().Calculate(Inputs{Company: weak})
	if report.Score != 0 || report.Verdict != "NON-COMPLIANT" {
		t.Errorf("weak profile should be non-compliant at 0, got %v %q", report.Score, report.Verdict)
	}
	if len(report.Gaps) != 4 {
		t.Errorf("expected 4 gaps, got %d", len(report.Gaps))
	}

	partial := config.CompanyProfile{
		AnnualTurnoverLakhs: 3000,
		YearsExperience:     10,
		SimilarProjects:     0,
	}
	report = NewComplianceChecker().Calculate(Inputs{Company: partial})
	if report.Score != 50 || report.Verdict != "PARTIALLY_COMPLIANT" {
		t.Errorf("half-met profile should be 50 partially compliant, got %v %q", report.Score, report.Verdict)
	}
}

func TestBidVerdicts(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{80, "STRONG BID"},
		{60, "CONDITIONAL BID"},
		{45, "CAUTION"},
		{20, "NO BID"},
	}
	for _, c := range cases {
		if got := bidVerdict(c.score); got != c.want {
			t.Errorf("bidVerdict(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestBidCalculatorAdjustments(t *testing.T) {
	emdPct := 2.0
	favorable := Inputs{
		Scope: scopeWithEffort(100),
		Financial: &models.FinancialRequirements{
			ContractValue: lakhs(1000),
			EMDPercentage: &emdPct,
		},
		Risk: &models.RiskAssessment{RiskLevel: "LOW"},
		SWOT: &models.SWOTAnalysis{
			Strengths:  []string{"a", "b"},
			Weaknesses: []string{"c"},
		},
	}
	rec := NewBidCalculator().Calculate(favorable)
	// 50 + 15 effort + 10 EMD + 15 risk + 10 SWOT.
	if rec.Score != 100 || rec.Verdict != "STRONG BID" {
		t.Errorf("favorable inputs should max out, got %v %q", rec.Score, rec.Verdict)
	}
	if len(rec.Rationale) == 0 {
		t.Error("rationale should explain the adjustments")
	}

	hostile := Inputs{
		Scope: scopeWithEffort(300),
		Risk:  &models.RiskAssessment{RiskLevel: "CRITICAL"},
		SWOT: &models.SWOTAnalysis{
			Threats:       []string{"a", "b"},
			Opportunities: []string{"c"},
		},
	}
	rec = NewBidCalculator().Calculate(hostile)
	// 50 - 15 effort - 30 risk - 10 SWOT.
	if rec.Score != 0 {
		t.Errorf("hostile inputs should floor at 0, got %v", rec.Score)
	}
	if rec.Verdict != "NO BID" {
		t.Errorf("expected NO BID, got %q", rec.Verdict)
	}
}

func TestCostBreakdownInvariants(t *testing.T) {
	in := Inputs{
		Scope: scopeWithEffort(120),
		Financial: &models.FinancialRequirements{
			ContractValue: lakhs(2000),
		},
	}
	cost := NewCostCalculator().Calculate(in)

	if cost.Subtotal != 2000 {
		t.Errorf("subtotal should be the contract value, got %v", cost.Subtotal)
	}
	if cost.TotalEstimate <= cost.Subtotal {
		t.Errorf("total must exceed subtotal: %v <= %v", cost.TotalEstimate, cost.Subtotal)
	}
	if cost.MarginPercent < 0 || cost.MarginPercent > 100 {
		t.Errorf("margin out of range: %v", cost.MarginPercent)
	}
	if len(cost.LineItems) != 3 {
		t.Errorf("expected top-3 line items, got %d", len(cost.LineItems))
	}
	if cost.LineItems[0].Amount < cost.LineItems[1].Amount {
		t.Error("line items should be ordered by effort share")
	}
}

func TestCostFallbackToDayRate(t *testing.T) {
	in := Inputs{
		Scope:        scopeWithEffort(100),
		DayRateLakhs: 0.5,
	}
	cost := NewCostCalculator().Calculate(in)
	if cost.Subtotal != 50 {
		t.Errorf("100 days at 0.5 lakhs should subtotal 50, got %v", cost.Subtotal)
	}
	if cost.Contingency != 5 || cost.Overhead != 2.5 {
		t.Errorf("unexpected contingency/overhead: %v/%v", cost.Contingency, cost.Overhead)
	}
}

func TestCostFloorWithoutValueOrEffort(t *testing.T) {
	cost := NewCostCalculator().Calculate(Inputs{})

	if cost.Subtotal <= 0 {
		t.Fatalf("subtotal must stay positive, got %v", cost.Subtotal)
	}
	if cost.Subtotal != minSubtotalLakhs {
		t.Errorf("expected floor subtotal %v, got %v", minSubtotalLakhs, cost.Subtotal)
	}
	if cost.TotalEstimate < cost.Subtotal {
		t.Errorf("total must cover subtotal: %v < %v", cost.TotalEstimate, cost.Subtotal)
	}
}

func TestWinProbabilityMonotonic(t *testing.T) {
	calc := NewWinProbabilityCalculator()

	strong := calc.Calculate(Inputs{
		Bid:        &models.BidRecommendation{Score: 90},
		Risk:       &models.RiskAssessment{RiskLevel: "LOW"},
		Compliance: &models.ComplianceReport{Score: 95},
		Scope:      &models.ScopeOfWork{ComplexityLevel: "low"},
	})
	weak := calc.Calculate(Inputs{
		Bid:        &models.BidRecommendation{Score: 30},
		Risk:       &models.RiskAssessment{RiskLevel: "HIGH"},
		Compliance: &models.ComplianceReport{Score: 40},
		Scope:      &models.ScopeOfWork{ComplexityLevel: "high"},
	})

	if strong.Probability <= weak.Probability {
		t.Errorf("stronger inputs must win more often: %v <= %v", strong.Probability, weak.Probability)
	}
	if strong.Probability < 0 || strong.Probability > 100 {
		t.Errorf("probability out of range: %v", strong.Probability)
	}
	if len(strong.Factors) != 4 {
		t.Errorf("expected 4 factor components, got %d", len(strong.Factors))
	}
}

func TestAdjustmentsNormalizeCase(t *testing.T) {
	if riskAdjustment("low") != 0.9 || riskAdjustment(" Critical ") != 0.2 {
		t.Error("risk adjustment should be case insensitive")
	}
	if complexityAdjustment("SIMPLE") != 1.0 || complexityAdjustment("Complex") != 0.5 {
		t.Error("complexity adjustment should be case insensitive")
	}
	if riskAdjustment("weird") != 0.7 {
		t.Error("unknown risk level should default to medium adjustment")
	}
	if complexityAdjustment("weird") != 0.5 {
		t.Error("unknown complexity should default to conservative adjustment")
	}
}

func TestSWOTCalculatorBalance(t *testing.T) {
	swot := NewSWOTCalculator().Calculate(Inputs{
		Company:    strongProfile(),
		TenderInfo: &models.TenderInfo{Category: "Road Construction"},
		Financial:  &models.FinancialRequirements{ContractValue: lakhs(2000)},
		Scope:      scopeWithEffort(100),
	})

	if len(swot.Strengths) != 3 {
		t.Errorf("strong profile should yield 3 strengths, got %d", len(swot.Strengths))
	}
	if len(swot.Weaknesses) != 0 {
		t.Errorf("no weaknesses expected, got %+v", swot.Weaknesses)
	}
	if len(swot.Opportunities) != 2 {
		t.Errorf("category and value should yield 2 opportunities, got %d", len(swot.Opportunities))
	}
	if len(swot.Threats) == 0 {
		t.Error("competitive pressure threat should always be present")
	}
}

func TestServiceFallsBackWithoutProvider(t *testing.T) {
	svc := NewService(nil, zap.NewNop())
	swot := svc.SWOT(t.Context(), Inputs{Company: strongProfile()})
	if swot == nil || len(swot.Strengths) == 0 {
		t.Error("service without a provider should use the rule-based SWOT")
	}
	if swot.Confidence != 60 {
		t.Errorf("rule-based SWOT confidence should be 60, got %v", swot.Confidence)
	}
}
