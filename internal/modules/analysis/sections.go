package analysis

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tenderiq/core/internal/models"
)

const (
	maxSummaryChars       = 300
	maxRequirementsPerSec = 5
)

var requirementMarkers = []string{"shall", "must", "required to", "mandatory"}

var complianceMarkers = []string{
	"penalty", "liquidated damages", "blacklist", "debar", "forfeit", "termination",
}

// BuildRFPSections derives the reviewable RFP section rows from the
// structural sections of the document.
func BuildRFPSections(sections []models.ExtractedSection) []models.AnalysisRFPSectionModel {
	rows := make([]models.AnalysisRFPSectionModel, 0, len(sections))
	for i, section := range sections {
		rows = append(rows, models.AnalysisRFPSectionModel{
			SectionNumber:    section.SectionNumber,
			Title:            section.Title,
			Summary:          summarize(section.Content),
			KeyRequirements:  pickLines(section.Content, requirementMarkers, maxRequirementsPerSec),
			ComplianceIssues: pickLines(section.Content, complianceMarkers, maxRequirementsPerSec),
			PageReferences:   models.IntArray(section.Pages),
			OrderIndex:       i,
		})
	}
	return rows
}

// RFPSummary is the rollup returned alongside the section listing.
type RFPSummary struct {
	TotalSections     int `json:"total_sections"`
	TotalRequirements int `json:"total_requirements"`
}

// SummarizeRFPSections counts sections and their key requirements.
func SummarizeRFPSections(rows []models.AnalysisRFPSectionModel) RFPSummary {
	summary := RFPSummary{TotalSections: len(rows)}
	for _, row := range rows {
		summary.TotalRequirements += len(row.KeyRequirements)
	}
	return summary
}

func summarize(content string) string {
	text := strings.TrimSpace(content)
	if len(text) <= maxSummaryChars {
		return text
	}
	cut := text[:maxSummaryChars]
	if idx := strings.LastIndex(cut, " "); idx > maxSummaryChars/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}

func pickLines(content string, markers []string, limit int) models.StringArray {
	picked := models.StringArray{}
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < 15 {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, marker := range markers {
			if strings.Contains(lower, marker) {
				picked = append(picked, trimmed)
				break
			}
		}
		if len(picked) == limit {
			break
		}
	}
	return picked
}

// modelRFPSection is the shape the AI returns for one RFP section. Page
// references arrive untyped because models mix numbers and strings.
type modelRFPSection struct {
	SectionNumber    string        `json:"section_number"`
	Title            string        `json:"title"`
	Summary          string        `json:"summary"`
	KeyRequirements  []string      `json:"key_requirements"`
	ComplianceIssues []string      `json:"compliance_issues"`
	PageReferences   []interface{} `json:"page_references"`
}

func (s modelRFPSection) toRow(orderIndex int) models.AnalysisRFPSectionModel {
	return models.AnalysisRFPSectionModel{
		SectionNumber:    s.SectionNumber,
		Title:            s.Title,
		Summary:          s.Summary,
		KeyRequirements:  models.StringArray(emptyIfNilStrings(s.KeyRequirements)),
		ComplianceIssues: models.StringArray(emptyIfNilStrings(s.ComplianceIssues)),
		PageReferences:   NormalizePageRefs(s.PageReferences),
		OrderIndex:       orderIndex,
	}
}

// NormalizePageRefs coerces a heterogeneous page reference list into ints.
// Numbers are kept, numeric strings parsed, everything else is dropped.
// Order is preserved.
func NormalizePageRefs(refs []interface{}) models.IntArray {
	pages := models.IntArray{}
	for _, ref := range refs {
		switch v := ref.(type) {
		case int:
			pages = append(pages, v)
		case int64:
			pages = append(pages, int(v))
		case float64:
			pages = append(pages, int(v))
		case json.Number:
			if n, err := v.Int64(); err == nil {
				pages = append(pages, int(n))
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				pages = append(pages, n)
			}
		}
	}
	return pages
}

func emptyIfNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
