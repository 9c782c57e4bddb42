package analysis

import (
	"strings"

	"github.com/tenderiq/core/internal/models"
)

// Document template discovery. Tender documents list the forms and
// formats bidders have to submit; this pass spots them in the structural
// sections and classifies each one.

const maxPreviewChars = 200

// Template categories used by the frontend grouping.
const (
	CategoryBidSubmission    = "bid_submission_forms"
	CategoryFinancialFormats = "financial_formats"
	CategoryTechnicalDocs    = "technical_documents"
	CategoryComplianceForms  = "compliance_formats"
)

var templateMarkers = []string{
	"form", "format", "annexure", "appendix", "schedule", "proforma", "declaration",
}

// BuildDocumentTemplates scans sections for submission forms and formats.
func BuildDocumentTemplates(sections []models.ExtractedSection) []models.AnalysisDocumentTemplateModel {
	templates := make([]models.AnalysisDocumentTemplateModel, 0)
	for _, section := range sections {
		lowerTitle := strings.ToLower(section.Title)
		if !containsAnyMarker(lowerTitle) {
			continue
		}

		preview := strings.TrimSpace(section.Content)
		if len(preview) > maxPreviewChars {
			preview = preview[:maxPreviewChars]
		}

		templates = append(templates, models.AnalysisDocumentTemplateModel{
			Name:           section.Title,
			Description:    CategorizeTemplate(section.Title),
			RequiredFormat: NormalizeFormat(section.Title + " " + section.Content),
			ContentPreview: preview,
			PageReferences: models.IntArray(section.Pages),
		})
	}
	return templates
}

func containsAnyMarker(title string) bool {
	for _, marker := range templateMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

// CategorizeTemplate buckets a template by what its name suggests it is for.
func CategorizeTemplate(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "price") || strings.Contains(lower, "financial") ||
		strings.Contains(lower, "boq") || strings.Contains(lower, "cost"):
		return CategoryFinancialFormats
	case strings.Contains(lower, "technical") || strings.Contains(lower, "drawing") ||
		strings.Contains(lower, "specification") || strings.Contains(lower, "methodology"):
		return CategoryTechnicalDocs
	case strings.Contains(lower, "declaration") || strings.Contains(lower, "undertaking") ||
		strings.Contains(lower, "affidavit") || strings.Contains(lower, "compliance") ||
		strings.Contains(lower, "certificate"):
		return CategoryComplianceForms
	default:
		return CategoryBidSubmission
	}
}

// NormalizeFormat maps free-form format mentions to one of pdf, excel,
// word or dwg. Defaults to pdf.
func NormalizeFormat(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "excel") || strings.Contains(lower, "xls") ||
		strings.Contains(lower, "spreadsheet"):
		return "excel"
	case strings.Contains(lower, "word") || strings.Contains(lower, "doc") ||
		strings.Contains(lower, "editable"):
		return "word"
	case strings.Contains(lower, "dwg") || strings.Contains(lower, "autocad") ||
		strings.Contains(lower, "cad drawing"):
		return "dwg"
	default:
		return "pdf"
	}
}
