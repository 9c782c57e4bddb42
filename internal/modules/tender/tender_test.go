package tender

import (
	"strings"
	"testing"

	"github.com/tenderiq/core/internal/models"
)

const sampleText = `NHAI E-PROCUREMENT PORTAL
Tender No: NHAI/2024/RC-042
Tender for Construction and Maintenance of Highway Section NH-48
Invited by National Highways Authority of India
Estimated cost: ₹ 25.5 crore
EMD: ₹ 50 lakhs
Performance Bank Guarantee: 5 %
Submission deadline: 15/10/2024

SCOPE OF WORK
- Earthwork and embankment construction along the alignment
- Pavement integration with the existing highway network
- Security and compliance monitoring during construction
- Drainage and culvert works as per IRC 34 standards

Standards: IS 456, MORTH 5th revision`

func TestExtractInfo(t *testing.T) {
	info := NewInfoExtractor().ExtractInfo(sampleText)

	if info.ReferenceNumber != "NHAI/2024/RC-042" {
		t.Errorf("reference = %q", info.ReferenceNumber)
	}
	if !strings.Contains(info.Title, "Construction and Maintenance") {
		t.Errorf("title = %q", info.Title)
	}
	if info.IssuingOrganization == "" {
		t.Error("organization should be extracted")
	}
	if info.Category != "Road Construction" {
		t.Errorf("category = %q", info.Category)
	}
	if info.EstimatedValue == nil || info.EstimatedValue.Amount != 2550 {
		t.Errorf("25.5 crore should normalize to 2550 lakhs, got %+v", info.EstimatedValue)
	}
	if info.SubmissionDeadline != "15/10/2024" {
		t.Errorf("deadline = %q", info.SubmissionDeadline)
	}
	// 50 base + 10 each for reference, title, organization and value.
	if info.ExtractionConfidence != 90 {
		t.Errorf("confidence = %v, want 90", info.ExtractionConfidence)
	}
}

func TestExtractInfoEmptyDocument(t *testing.T) {
	info := NewInfoExtractor().ExtractInfo("nothing useful here")
	if info.ExtractionConfidence != 50 {
		t.Errorf("no fields found should stay at base confidence, got %v", info.ExtractionConfidence)
	}
	if info.Category != "General Works" {
		t.Errorf("category fallback = %q", info.Category)
	}
}

func TestExtractMoneyUnits(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"value of ₹ 2 crore only", 200},
		{"amount 150 lakhs", 150},
		{"Rs 3.5 cr total", 350},
	}
	for _, c := range cases {
		money := ExtractMoney(c.text)
		if money == nil || money.Amount != c.want {
			t.Errorf("ExtractMoney(%q) = %+v, want %v lakhs", c.text, money, c.want)
		}
	}
	if ExtractMoney("no numbers") != nil {
		t.Error("text without amounts should return nil")
	}
}

func TestExtractFinancial(t *testing.T) {
	fin := NewFinancialExtractor().ExtractFinancial(sampleText)

	if fin.EMDAmount == nil || fin.EMDAmount.Amount != 50 {
		t.Errorf("EMD = %+v, want 50 lakhs", fin.EMDAmount)
	}
	if fin.PBGPercentage == nil || *fin.PBGPercentage != 5 {
		t.Errorf("PBG%% = %v, want 5", fin.PBGPercentage)
	}
	if fin.ContractValue == nil {
		t.Error("contract value should be found")
	}
}

func TestPercentValidation(t *testing.T) {
	fin := NewFinancialExtractor().ExtractFinancial("EMD: 250 %")
	if fin.EMDPercentage != nil {
		t.Errorf("percentages above 100 must be discarded, got %v", *fin.EMDPercentage)
	}
}

func TestExtractScope(t *testing.T) {
	scope := NewScopeExtractor().ExtractScope(sampleText, nil)

	if len(scope.MajorWorkComponents) != 4 {
		t.Fatalf("expected 4 work components, got %d", len(scope.MajorWorkComponents))
	}
	// Items 2 and 3 carry one complexity keyword each ("integration",
	// "security" plus "compliance").
	if scope.EstimatedTotalEffortDays != 10+15+20+10 {
		t.Errorf("total effort = %d, want 55", scope.EstimatedTotalEffortDays)
	}
	if scope.ComplexityLevel != "high" {
		t.Errorf("3 keyword hits should be high complexity, got %q", scope.ComplexityLevel)
	}
	if scope.MajorWorkComponents[0].Priority != "high" {
		t.Errorf("first item should be high priority, got %q", scope.MajorWorkComponents[0].Priority)
	}
	if scope.MajorWorkComponents[3].Priority != "low" {
		t.Errorf("last item should be low priority, got %q", scope.MajorWorkComponents[3].Priority)
	}
	if len(scope.TechnicalStandards) == 0 {
		t.Error("IS/IRC/MORTH references should be collected")
	}
}

func TestScopeEffortCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("- integration migration architecture security performance scalability compliance work\n")
	}
	scope := NewScopeExtractor().ExtractScope(sb.String(), nil)

	if len(scope.MajorWorkComponents) != maxWorkItems {
		t.Errorf("work items should cap at %d, got %d", maxWorkItems, len(scope.MajorWorkComponents))
	}
	if scope.EstimatedTotalEffortDays > maxTotalEffort {
		t.Errorf("effort should cap at %d, got %d", maxTotalEffort, scope.EstimatedTotalEffortDays)
	}
}

func TestBuildOnePager(t *testing.T) {
	info := NewInfoExtractor().ExtractInfo(sampleText)
	fin := NewFinancialExtractor().ExtractFinancial(sampleText)
	scope := NewScopeExtractor().ExtractScope(sampleText, info)

	pager := BuildOnePager(info, fin, scope)

	if !strings.Contains(pager.ProjectOverview, "Construction") {
		t.Errorf("overview = %q", pager.ProjectOverview)
	}
	if len(pager.FinancialRequirements) < 2 {
		t.Errorf("expected contract value and EMD lines, got %+v", pager.FinancialRequirements)
	}
	if len(pager.ImportantDates) != 1 {
		t.Errorf("expected deadline entry, got %+v", pager.ImportantDates)
	}
	if pager.RiskAnalysis["complexity"] == "" {
		t.Error("risk analysis should carry complexity")
	}
}

func TestBuildOnePagerDegradesGracefully(t *testing.T) {
	pager := BuildOnePager(nil, nil, nil)
	if pager.ProjectOverview == "" {
		t.Error("overview should never be empty")
	}
	if pager.FinancialRequirements == nil || pager.EligibilityHighlights == nil {
		t.Error("lists should be empty, not nil")
	}
}

func TestBuildDataSheet(t *testing.T) {
	pct := 2.5
	analysis := &models.AnalysisModel{
		TenderInfo: &models.TenderInfo{
			ReferenceNumber:    "T-1",
			Title:              "Road project",
			SubmissionDeadline: "01/12/2024",
		},
		Financial: &models.FinancialRequirements{
			EMDPercentage: &pct,
		},
		ScopeOfWork: &models.ScopeOfWork{
			ComplexityLevel:          "medium",
			EstimatedTotalEffortDays: 90,
		},
		BidRecommendation: &models.BidRecommendation{Verdict: "STRONG BID"},
		WinProbability:    &models.WinProbability{Probability: 72},
	}

	sheet := BuildDataSheet(analysis)

	if sheet.KeyTenderDetails["reference_number"] != "T-1" {
		t.Errorf("details = %+v", sheet.KeyTenderDetails)
	}
	if sheet.FinancialSummary["emd"] != "2.5%" {
		t.Errorf("emd = %q", sheet.FinancialSummary["emd"])
	}
	if sheet.Timeline["submission_deadline"] != "01/12/2024" {
		t.Errorf("timeline = %+v", sheet.Timeline)
	}
	if sheet.KeyTenderDetails["bid_verdict"] != "STRONG BID" {
		t.Error("bid verdict missing from sheet")
	}
	if sheet.KeyTenderDetails["win_probability"] != "72%" {
		t.Errorf("win probability = %q", sheet.KeyTenderDetails["win_probability"])
	}
}
