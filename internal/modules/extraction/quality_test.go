package extraction

import (
	"strings"
	"testing"

	"github.com/tenderiq/core/internal/models"
)

func makeSections(n, contentLen int) []models.ExtractedSection {
	sections := make([]models.ExtractedSection, n)
	for i := range sections {
		sections[i] = models.ExtractedSection{
			SectionNumber: "1",
			Title:         "1. Section",
			Content:       strings.Repeat("a", contentLen),
		}
	}
	return sections
}

func TestAssessCleanDocument(t *testing.T) {
	result := NewQualityAssessor().Assess(AssessInput{
		RawText:  strings.Repeat("text ", 500),
		Sections: makeSections(6, 600),
	})

	if result.ExtractionQuality != 85.0 {
		t.Errorf("clean digital document should score baseline 85, got %v", result.ExtractionQuality)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", result.Warnings)
	}
	if result.DataCompleteness != 100 {
		t.Errorf("6 sections should cap completeness at 100, got %v", result.DataCompleteness)
	}
	if result.AnnexuresEstimated != 1 {
		t.Errorf("expected 1 estimated annexure, got %d", result.AnnexuresEstimated)
	}
}

func TestAssessOCRConfidenceFlows(t *testing.T) {
	low := 55.0
	result := NewQualityAssessor().Assess(AssessInput{
		RawText:       strings.Repeat("text ", 500),
		Sections:      makeSections(4, 600),
		OCRUsed:       true,
		OCRConfidence: &low,
	})

	if result.OCRConfidence == nil || *result.OCRConfidence != 55.0 {
		t.Fatalf("OCR confidence should be carried through, got %v", result.OCRConfidence)
	}
	found := false
	for _, w := range result.Warnings {
		if w.Field == "ocr_confidence" && w.Severity == "high" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a high severity OCR warning, got %+v", result.Warnings)
	}
	// 55 base minus one warning penalty.
	if result.ExtractionQuality != 50.0 {
		t.Errorf("expected quality 50, got %v", result.ExtractionQuality)
	}
}

func TestAssessOCRDefaultConfidence(t *testing.T) {
	result := NewQualityAssessor().Assess(AssessInput{
		RawText:  strings.Repeat("text ", 500),
		Sections: makeSections(4, 600),
		OCRUsed:  true,
	})
	if result.OCRConfidence == nil || *result.OCRConfidence != 80.0 {
		t.Errorf("missing OCR confidence should default to 80, got %v", result.OCRConfidence)
	}
	if result.ExtractionQuality != 80.0 {
		t.Errorf("expected quality 80, got %v", result.ExtractionQuality)
	}
}

func TestAssessWarningsForPoorDocument(t *testing.T) {
	result := NewQualityAssessor().Assess(AssessInput{
		RawText:  "tiny",
		Sections: makeSections(2, 100),
	})

	fields := map[string]bool{}
	for _, w := range result.Warnings {
		fields[w.Field] = true
	}
	if !fields["raw_text"] {
		t.Errorf("short text should warn on raw_text: %+v", result.Warnings)
	}
	if !fields["sections"] {
		t.Errorf("few short sections should warn on sections: %+v", result.Warnings)
	}
	if len(result.Recommendations) != len(result.Warnings) {
		t.Errorf("each warning should produce a recommendation")
	}
	// 85 minus 3 warning penalties.
	if result.ExtractionQuality != 70.0 {
		t.Errorf("expected quality 70, got %v", result.ExtractionQuality)
	}
}

func TestQualityScoreClamped(t *testing.T) {
	low := 5.0
	result := NewQualityAssessor().Assess(AssessInput{
		RawText:       "x",
		OCRUsed:       true,
		OCRConfidence: &low,
	})
	if result.ExtractionQuality < 0 || result.ExtractionQuality > 100 {
		t.Errorf("quality must stay in [0,100], got %v", result.ExtractionQuality)
	}
	if result.DataCompleteness < 0 || result.DataCompleteness > 100 {
		t.Errorf("completeness must stay in [0,100], got %v", result.DataCompleteness)
	}
}

func TestDomainConfidencesPresent(t *testing.T) {
	result := NewQualityAssessor().Assess(AssessInput{RawText: strings.Repeat("a", 2000)})
	for _, key := range []string{"tender_info", "financial", "scope", "rfp_sections", "eligibility"} {
		if _, ok := result.DomainConfidences[key]; !ok {
			t.Errorf("missing domain confidence %q", key)
		}
	}
}
