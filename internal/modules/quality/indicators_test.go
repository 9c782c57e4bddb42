package quality

import (
	"testing"

	"github.com/tenderiq/core/internal/models"
)

func fullCoverageInput() Input {
	return Input{
		DataCompleteness:  100,
		ExtractionQuality: 95,
		DomainConfidences: map[string]float64{"a": 90, "b": 100},
		HasRawText:        true,
		HasTenderInfo:     true,
		HasOnePager:       true,
		HasScope:          true,
		HasRFPSections:    true,
		HasSWOT:           true,
		HasRisk:           true,
		HasBid:            true,
	}
}

func TestAssessExcellentRun(t *testing.T) {
	result := NewIndicatorsService().Assess(fullCoverageInput())

	if len(result.Indicators) != 5 {
		t.Fatalf("expected 5 indicators, got %d", len(result.Indicators))
	}
	if result.QualityLevel != "excellent" {
		t.Errorf("expected excellent, got %q (score %v)", result.QualityLevel, result.OverallScore)
	}
	if result.ConfidenceLevel != "very_high" {
		t.Errorf("expected very_high, got %q", result.ConfidenceLevel)
	}
	if result.AssessedAt.IsZero() {
		t.Error("AssessedAt should be set")
	}
}

func TestAssessScoresClamped(t *testing.T) {
	result := NewIndicatorsService().Assess(Input{
		DataCompleteness:  150,
		ExtractionQuality: -50,
		ErrorCount:        10,
	})
	for _, ind := range result.Indicators {
		if ind.Score < 0 || ind.Score > 100 {
			t.Errorf("indicator %q score %v out of [0,100]", ind.Name, ind.Score)
		}
	}
	if result.OverallScore < 0 || result.OverallScore > 100 {
		t.Errorf("overall score %v out of [0,100]", result.OverallScore)
	}
}

func TestProcessingHealthPenalties(t *testing.T) {
	cases := []struct {
		errors  int
		seconds float64
		want    float64
	}{
		{0, 10, 100},
		{1, 10, 80},
		{0, 400, 90},
		{0, 700, 80},
		{2, 700, 40},
	}
	for _, c := range cases {
		if got := processingHealth(c.errors, c.seconds); got != c.want {
			t.Errorf("processingHealth(%d, %v) = %v, want %v", c.errors, c.seconds, got, c.want)
		}
	}
}

func TestCoverageScore(t *testing.T) {
	if got := coverageScore(fullCoverageInput()); got != 100 {
		t.Errorf("full coverage should be 100, got %v", got)
	}
	partial := Input{HasRawText: true, HasTenderInfo: true, HasScope: true}
	if got := coverageScore(partial); got != 55 {
		t.Errorf("raw_text+tender_info+scope should be 55, got %v", got)
	}
	if got := coverageScore(Input{}); got != 0 {
		t.Errorf("empty coverage should be 0, got %v", got)
	}
}

func TestLevels(t *testing.T) {
	levels := []struct {
		score   float64
		quality string
		conf    string
	}{
		{95, "excellent", "very_high"},
		{80, "good", "high"},
		{65, "fair", "medium"},
		{45, "poor", "low"},
		{10, "poor", "very_low"},
	}
	for _, c := range levels {
		if got := qualityLevel(c.score); got != c.quality {
			t.Errorf("qualityLevel(%v) = %q, want %q", c.score, got, c.quality)
		}
		if got := confidenceLevel(c.score); got != c.conf {
			t.Errorf("confidenceLevel(%v) = %q, want %q", c.score, got, c.conf)
		}
	}
}

func TestWeightedMeanFavorsConfidence(t *testing.T) {
	high := []models.QualityIndicator{
		{Score: 100, Weight: 2.0},
		{Score: 50, Weight: 1.0},
	}
	low := []models.QualityIndicator{
		{Score: 50, Weight: 2.0},
		{Score: 100, Weight: 1.0},
	}
	if weightedMean(high) <= weightedMean(low) {
		t.Error("higher-weight indicator should dominate the mean")
	}
}

func TestInputFromAnalysisMapsFragments(t *testing.T) {
	analysis := &models.AnalysisModel{
		TenderInfo:  &models.TenderInfo{},
		ScopeOfWork: &models.ScopeOfWork{},
	}
	extraction := &models.ExtractionQualityResult{
		DataCompleteness:  90,
		ExtractionQuality: 85,
		DomainConfidences: map[string]float64{"tender_info": 80},
	}

	in := InputFromAnalysis(analysis, extraction, true)
	if !in.HasRawText || !in.HasTenderInfo || !in.HasScope {
		t.Errorf("fragment presence not mapped: %+v", in)
	}
	if in.HasSWOT || in.HasBid {
		t.Errorf("absent fragments should map false: %+v", in)
	}
	if in.DataCompleteness != 90 || in.ExtractionQuality != 85 {
		t.Errorf("extraction scores not mapped: %+v", in)
	}
}
