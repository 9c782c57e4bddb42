package extraction

import (
	"github.com/tenderiq/core/internal/models"
)

// QualityAssessor scores how trustworthy a single extraction pass is.
// Scores are heuristic, warnings are the actionable part.
type QualityAssessor struct{}

func NewQualityAssessor() *QualityAssessor {
	return &QualityAssessor{}
}

// AssessInput carries everything the assessor needs about one extraction.
type AssessInput struct {
	RawText       string
	Sections      []models.ExtractedSection
	Tables        []models.ExtractedTable
	Figures       []models.ExtractedFigure
	OCRUsed       bool
	OCRConfidence *float64
}

const (
	baselineQuality   = 85.0
	defaultOCRQuality = 80.0
	warningPenalty    = 5.0
)

// Assess computes the extraction quality result for one document.
func (a *QualityAssessor) Assess(in AssessInput) models.ExtractionQualityResult {
	quality := baselineQuality
	var ocrConfidence *float64

	if in.OCRUsed {
		conf := defaultOCRQuality
		if in.OCRConfidence != nil {
			conf = *in.OCRConfidence
		}
		quality = conf
		ocrConfidence = &conf
	}

	warnings := a.collectWarnings(in, ocrConfidence)
	quality -= warningPenalty * float64(len(warnings))
	quality = clampScore(quality)

	completeness := 70.0 + 5.0*float64(len(in.Sections))
	if completeness > 100 {
		completeness = 100
	}

	annexures := len(in.Sections) - 5
	if annexures < 0 {
		annexures = 0
	}

	return models.ExtractionQualityResult{
		ExtractionQuality: quality,
		DataCompleteness:  completeness,
		OCRUsed:           in.OCRUsed,
		OCRConfidence:     ocrConfidence,
		Warnings:          warnings,
		Recommendations:   recommendationsFor(warnings),
		SectionsExtracted: len(in.Sections),
		TablesExtracted:   len(in.Tables),
		FiguresExtracted:  len(in.Figures),
		AnnexuresEstimated: annexures,
		DomainConfidences: map[string]float64{
			"tender_info":  80,
			"financial":    75,
			"scope":        78,
			"rfp_sections": 80,
			"eligibility":  75,
		},
	}
}

func (a *QualityAssessor) collectWarnings(in AssessInput, ocrConfidence *float64) []models.QualityWarning {
	warnings := make([]models.QualityWarning, 0)

	if in.OCRUsed && ocrConfidence != nil && *ocrConfidence < 70 {
		warnings = append(warnings, models.QualityWarning{
			Field:          "ocr_confidence",
			Severity:       "high",
			Message:        "OCR confidence is below 70%, extracted text may contain recognition errors",
			Recommendation: "Re-scan the document at a higher resolution or provide a digital original",
		})
	}
	if len(in.RawText) < 1000 {
		warnings = append(warnings, models.QualityWarning{
			Field:          "raw_text",
			Severity:       "medium",
			Message:        "Very little text was extracted from the document",
			Recommendation: "Verify the document is not image-only or corrupted",
		})
	}
	if len(in.Sections) < 3 {
		warnings = append(warnings, models.QualityWarning{
			Field:          "sections",
			Severity:       "low",
			Message:        "Fewer than 3 sections were detected",
			Recommendation: "Check whether the document uses non-standard section numbering",
		})
	}
	if avg := averageSectionLength(in.Sections); len(in.Sections) > 0 && avg < 500 {
		warnings = append(warnings, models.QualityWarning{
			Field:          "sections",
			Severity:       "low",
			Message:        "Detected sections are unusually short",
			Recommendation: "Section boundaries may be over-segmented, review the section list",
		})
	}

	return warnings
}

func recommendationsFor(warnings []models.QualityWarning) []models.QualityRecommendation {
	recs := make([]models.QualityRecommendation, 0, len(warnings))
	for _, w := range warnings {
		priority := w.Severity
		recs = append(recs, models.QualityRecommendation{
			Priority:   priority,
			Suggestion: w.Recommendation,
			Impact:     w.Message,
		})
	}
	return recs
}

func averageSectionLength(sections []models.ExtractedSection) float64 {
	if len(sections) == 0 {
		return 0
	}
	total := 0
	for _, s := range sections {
		total += len(s.Content)
	}
	return float64(total) / float64(len(sections))
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
