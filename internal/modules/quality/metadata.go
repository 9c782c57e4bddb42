package quality

import (
	"time"

	"github.com/tenderiq/core/internal/models"
)

// BuildMetadata assembles the analysis metadata block written during the
// summary phase.
func BuildMetadata(analysis *models.AnalysisModel, hasRawText bool) *models.AnalysisMetadata {
	sources := map[string]string{}
	if hasRawText {
		sources["document"] = "extracted"
	}
	if analysis.TenderInfo != nil {
		sources["tender_info"] = extractionSource(analysis.TenderInfo.ExtractionConfidence)
	}
	if analysis.ScopeOfWork != nil {
		sources["scope_of_work"] = extractionSource(analysis.ScopeOfWork.AverageConfidence)
	}

	tags := make([]string, 0, 2)
	if analysis.TenderInfo != nil && analysis.TenderInfo.Category != "" {
		tags = append(tags, analysis.TenderInfo.Category)
	}
	if analysis.RiskAssessment != nil && analysis.RiskAssessment.RiskLevel != "" {
		tags = append(tags, "risk:"+analysis.RiskAssessment.RiskLevel)
	}

	now := time.Now()
	meta := &models.AnalysisMetadata{
		CreatedAt:   analysis.CreatedAt,
		UpdatedAt:   now,
		DataSources: sources,
		Tags:        tags,
		Extra:       map[string]string{},
	}
	if analysis.CompletedAt != nil {
		meta.CompletedAt = analysis.CompletedAt
	}
	return meta
}

func extractionSource(confidence float64) string {
	if confidence >= 75 {
		return "model"
	}
	return "keyword"
}

// InputFromAnalysis maps an analysis row and its extraction quality into
// the indicator service input.
func InputFromAnalysis(analysis *models.AnalysisModel, extraction *models.ExtractionQualityResult, hasRawText bool) Input {
	in := Input{
		HasRawText:     hasRawText,
		HasTenderInfo:  analysis.TenderInfo != nil,
		HasOnePager:    analysis.OnePager != nil,
		HasScope:       analysis.ScopeOfWork != nil,
		HasRFPSections: len(analysis.RFPSections) > 0,
		HasSWOT:        analysis.SWOT != nil,
		HasRisk:        analysis.RiskAssessment != nil,
		HasBid:         analysis.BidRecommendation != nil,
	}

	if extraction != nil {
		in.DataCompleteness = extraction.DataCompleteness
		in.ExtractionQuality = extraction.ExtractionQuality
		in.DomainConfidences = extraction.DomainConfidences
	}

	if analysis.ErrorMessage != "" {
		in.ErrorCount = 1
	}
	if analysis.StartedAt != nil {
		end := time.Now()
		if analysis.CompletedAt != nil {
			end = *analysis.CompletedAt
		}
		in.ProcessingSeconds = end.Sub(*analysis.StartedAt).Seconds()
	}

	return in
}
