package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tenderiq/core/internal/models"
)

// Heuristic structural segmenter. It walks the raw text line by line and
// recovers sections, tables and figures without any layout metadata, so
// everything here is pattern based and deterministic.

const charsPerPage = 3000

var (
	numberedHeaderRe   = regexp.MustCompile(`^\d+\.?\s`)
	dottedHeaderRe     = regexp.MustCompile(`^\d+(\.\d+)+\s`)
	namedHeaderRe      = regexp.MustCompile(`(?i)^(Section|Chapter|Part)\s+\d+`)
	sectionNumberRe    = regexp.MustCompile(`^(\d+(?:\.\d+)*)`)
	figureReferenceRe  = regexp.MustCompile(`(?i)(?:Figure|Fig\.?)\s+(\d+)`)
	headerConfHigh     = 95.0
	headerConfFallback = 70.0
)

type Segmenter struct{}

func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// SegmentResult is everything the segmenter recovered from one document.
type SegmentResult struct {
	Sections  []models.ExtractedSection
	Tables    []models.ExtractedTable
	Figures   []models.ExtractedFigure
	PageCount int
}

// Segment runs the full structural pass over the raw document text.
func (s *Segmenter) Segment(text string) SegmentResult {
	return SegmentResult{
		Sections:  s.ExtractSections(text),
		Tables:    s.ExtractTables(text),
		Figures:   s.ExtractFigures(text),
		PageCount: EstimatePageCount(text),
	}
}

// EstimatePageCount approximates pages from raw text length.
func EstimatePageCount(text string) int {
	pages := len(text) / charsPerPage
	if pages < 1 {
		return 1
	}
	return pages
}

// ExtractSections splits the text into sections at detected header lines.
// Text before the first header is discarded.
func (s *Segmenter) ExtractSections(text string) []models.ExtractedSection {
	lines := strings.Split(text, "\n")
	sections := make([]models.ExtractedSection, 0)

	var current *models.ExtractedSection
	var content []string

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isSectionHeader(trimmed) {
			if current != nil {
				current.Content = strings.TrimSpace(strings.Join(content, "\n"))
				sections = append(sections, *current)
			}
			current = &models.ExtractedSection{
				SectionNumber: sectionNumberOf(trimmed),
				Title:         trimmed,
				Pages:         []int{pageOfLine(i)},
				Confidence:    headerConfidence(trimmed),
			}
			content = content[:0]
			continue
		}
		if current != nil && trimmed != "" {
			content = append(content, line)
		}
	}
	if current != nil {
		current.Content = strings.TrimSpace(strings.Join(content, "\n"))
		sections = append(sections, *current)
	}

	return sections
}

// ExtractTables finds runs of consecutive tabular lines. A run needs at
// least two rows to count as a table.
func (s *Segmenter) ExtractTables(text string) []models.ExtractedTable {
	lines := strings.Split(text, "\n")
	tables := make([]models.ExtractedTable, 0)

	var rows []string
	runStart := 0

	flush := func() {
		if len(rows) >= 2 {
			tables = append(tables, models.ExtractedTable{
				TableNumber: len(tables) + 1,
				Title:       fmt.Sprintf("Table %d", len(tables)+1),
				RawContent:  strings.Join(rows, "\n"),
				Page:        pageOfLine(runStart),
				Location:    "middle",
				Confidence:  75.0,
			})
		}
		rows = nil
	}

	for i, line := range lines {
		if isTableRow(line) {
			if rows == nil {
				runStart = i
			}
			rows = append(rows, line)
			continue
		}
		flush()
	}
	flush()

	return tables
}

// ExtractFigures finds figure references and captures surrounding context.
func (s *Segmenter) ExtractFigures(text string) []models.ExtractedFigure {
	figures := make([]models.ExtractedFigure, 0)

	for _, match := range figureReferenceRe.FindAllStringSubmatchIndex(text, -1) {
		start := match[0]
		number, err := strconv.Atoi(text[match[2]:match[3]])
		if err != nil {
			continue
		}

		ctxStart := start - 100
		if ctxStart < 0 {
			ctxStart = 0
		}
		ctxEnd := match[1] + 100
		if ctxEnd > len(text) {
			ctxEnd = len(text)
		}
		context := strings.TrimSpace(text[ctxStart:ctxEnd])
		if len(context) > 200 {
			context = context[:200]
		}

		page := strings.Count(text[:start], "\n") / 40
		if page < 1 {
			page = 1
		}

		figures = append(figures, models.ExtractedFigure{
			FigureNumber: number,
			Description:  context,
			FigureType:   "diagram",
			Page:         page,
			Confidence:   70.0,
		})
	}

	return figures
}

func isSectionHeader(line string) bool {
	if line == "" {
		return false
	}
	if numberedHeaderRe.MatchString(line) || dottedHeaderRe.MatchString(line) {
		return true
	}
	if namedHeaderRe.MatchString(line) {
		return true
	}
	return isAllCapsHeading(line)
}

// isAllCapsHeading treats short shouting lines as headings, e.g.
// "SCOPE OF WORK". Needs at least one letter so digit rows do not match.
func isAllCapsHeading(line string) bool {
	if len(line) < 4 || len(line) > 100 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func sectionNumberOf(header string) string {
	if m := sectionNumberRe.FindStringSubmatch(header); m != nil {
		return m[1]
	}
	return "unknown"
}

func headerConfidence(header string) float64 {
	if sectionNumberRe.MatchString(header) {
		return headerConfHigh
	}
	return headerConfFallback
}

// isTableRow accepts pipe-delimited rows and whitespace-aligned columns.
func isTableRow(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	if strings.Contains(line, "|") {
		return true
	}
	return strings.Count(line, "  ") > 2
}

func pageOfLine(lineIdx int) int {
	page := lineIdx / 50
	if page < 1 {
		return 1
	}
	return page
}
