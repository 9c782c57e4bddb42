package quality

import (
	"time"

	"github.com/tenderiq/core/internal/models"
)

// IndicatorsService rolls per-dimension quality signals into a single
// weighted assessment of an analysis run.
type IndicatorsService struct{}

func NewIndicatorsService() *IndicatorsService {
	return &IndicatorsService{}
}

// Input carries the raw signals an assessment is computed from.
type Input struct {
	DataCompleteness  float64
	ExtractionQuality float64
	DomainConfidences map[string]float64

	ErrorCount        int
	ProcessingSeconds float64

	HasRawText     bool
	HasTenderInfo  bool
	HasOnePager    bool
	HasScope       bool
	HasRFPSections bool
	HasSWOT        bool
	HasRisk        bool
	HasBid         bool
}

// Assess computes the weighted quality assessment.
func (s *IndicatorsService) Assess(in Input) models.QualityAssessment {
	indicators := []models.QualityIndicator{
		{
			Name:        "Data Completeness",
			Score:       clamp(in.DataCompleteness),
			Weight:      1.5,
			Description: "How much of the expected tender data was recovered",
		},
		{
			Name:        "Extraction Accuracy",
			Score:       clamp(in.ExtractionQuality),
			Weight:      1.5,
			Description: "Confidence in the text extraction itself",
		},
		{
			Name:        "Overall Confidence",
			Score:       clamp(averageConfidence(in.DomainConfidences)),
			Weight:      2.0,
			Description: "Average confidence across analysis domains",
		},
		{
			Name:        "Processing Health",
			Score:       clamp(processingHealth(in.ErrorCount, in.ProcessingSeconds)),
			Weight:      1.0,
			Description: "Errors and runtime of the analysis run",
		},
		{
			Name:        "Coverage",
			Score:       clamp(coverageScore(in)),
			Weight:      1.0,
			Description: "Which analysis outputs were produced",
		},
	}

	overall := weightedMean(indicators)

	return models.QualityAssessment{
		OverallScore:    overall,
		QualityLevel:    qualityLevel(overall),
		ConfidenceLevel: confidenceLevel(overall),
		Indicators:      indicators,
		AssessedAt:      time.Now(),
	}
}

func weightedMean(indicators []models.QualityIndicator) float64 {
	var sum, weights float64
	for _, ind := range indicators {
		sum += ind.Score * ind.Weight
		weights += ind.Weight
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

func averageConfidence(confidences map[string]float64) float64 {
	if len(confidences) == 0 {
		return 50
	}
	var sum float64
	for _, v := range confidences {
		sum += v
	}
	return sum / float64(len(confidences))
}

func processingHealth(errorCount int, seconds float64) float64 {
	score := 100.0
	score -= 20.0 * float64(errorCount)
	if seconds > 600 {
		score -= 20
	} else if seconds > 300 {
		score -= 10
	}
	return score
}

func coverageScore(in Input) float64 {
	score := 0.0
	if in.HasRawText {
		score += 15
	}
	if in.HasTenderInfo {
		score += 20
	}
	if in.HasOnePager {
		score += 15
	}
	if in.HasScope {
		score += 20
	}
	if in.HasRFPSections {
		score += 15
	}
	if in.HasSWOT {
		score += 5
	}
	if in.HasRisk {
		score += 5
	}
	if in.HasBid {
		score += 5
	}
	return score
}

func qualityLevel(score float64) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 75:
		return "good"
	case score >= 60:
		return "fair"
	default:
		return "poor"
	}
}

func confidenceLevel(score float64) string {
	switch {
	case score >= 90:
		return "very_high"
	case score >= 75:
		return "high"
	case score >= 60:
		return "medium"
	case score >= 40:
		return "low"
	default:
		return "very_low"
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
