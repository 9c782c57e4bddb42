package extraction

import (
	"strings"
	"testing"
)

func TestIsSectionHeader(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"1. Introduction", true},
		{"2 Scope", true},
		{"3.1.2 Subsection detail", true},
		{"SCOPE OF WORK", true},
		{"Section 4 Eligibility", true},
		{"chapter 2 overview", true},
		{"Part 1", true},
		{"plain body text here", false},
		{"", false},
		{"1234", false},
		{"ABC", false},
	}
	for _, c := range cases {
		if got := isSectionHeader(c.line); got != c.want {
			t.Errorf("isSectionHeader(%q) = %v, want %v", c.line, got, c.want)
		}
	}
}

func TestSectionNumberAndConfidence(t *testing.T) {
	cases := []struct {
		header   string
		number   string
		conf     float64
	}{
		{"3.1.2 Subsection detail", "3.1.2", 95.0},
		{"1. Introduction", "1", 95.0},
		{"SCOPE OF WORK", "unknown", 70.0},
	}
	for _, c := range cases {
		if got := sectionNumberOf(c.header); got != c.number {
			t.Errorf("sectionNumberOf(%q) = %q, want %q", c.header, got, c.number)
		}
		if got := headerConfidence(c.header); got != c.conf {
			t.Errorf("headerConfidence(%q) = %v, want %v", c.header, got, c.conf)
		}
	}
}

func TestExtractSections(t *testing.T) {
	text := strings.Join([]string{
		"preamble text is dropped",
		"1. Introduction",
		"This tender covers road work.",
		"2. Scope",
		"The scope includes maintenance.",
		"and resurfacing.",
		"ELIGIBILITY CRITERIA",
		"Bidders must qualify.",
	}, "\n")

	sections := NewSegmenter().ExtractSections(text)
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	if sections[0].SectionNumber != "1" || sections[0].Title != "1. Introduction" {
		t.Errorf("unexpected first section: %+v", sections[0])
	}
	if !strings.Contains(sections[1].Content, "resurfacing") {
		t.Errorf("second section content missing body: %q", sections[1].Content)
	}
	if sections[2].SectionNumber != "unknown" {
		t.Errorf("all-caps heading should have unknown number, got %q", sections[2].SectionNumber)
	}
	for _, s := range sections {
		if len(s.Pages) == 0 || s.Pages[0] < 1 {
			t.Errorf("section %q has invalid pages %v", s.Title, s.Pages)
		}
	}
}

func TestExtractSectionsSkipsBlankLines(t *testing.T) {
	text := "1. Introduction\nfirst line\n\n\nsecond line"

	sections := NewSegmenter().ExtractSections(text)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Content != "first line\nsecond line" {
		t.Errorf("blank lines must not accumulate, got %q", sections[0].Content)
	}
}

func TestExtractTables(t *testing.T) {
	text := strings.Join([]string{
		"some text",
		"Item | Qty | Rate",
		"Bitumen | 20 | 500",
		"Steel | 5 | 900",
		"back to prose",
		"Lonely | row",
		"more prose",
	}, "\n")

	tables := NewSegmenter().ExtractTables(text)
	if len(tables) != 1 {
		t.Fatalf("expected 1 table (single rows are ignored), got %d", len(tables))
	}
	if got := strings.Count(tables[0].RawContent, "\n"); got != 2 {
		t.Errorf("expected 3 rows in table, got %d newlines", got)
	}
	if tables[0].TableNumber != 1 {
		t.Errorf("tables are numbered from 1, got %d", tables[0].TableNumber)
	}
	if tables[0].Location != "middle" || tables[0].Confidence != 75.0 {
		t.Errorf("unexpected table metadata: %+v", tables[0])
	}
}

func TestIsTableRow(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"a | b | c", true},
		{"col1    col2    col3    col4", true},
		{"two  runs  only", false},
		{"plain sentence", false},
		{"   ", false},
	}
	for _, c := range cases {
		if got := isTableRow(c.line); got != c.want {
			t.Errorf("isTableRow(%q) = %v, want %v", c.line, got, c.want)
		}
	}
}

func TestExtractFigures(t *testing.T) {
	text := "Refer to Figure 3 for the alignment drawing. Later, fig. 7 shows the cross section."

	figures := NewSegmenter().ExtractFigures(text)
	if len(figures) != 2 {
		t.Fatalf("expected 2 figures, got %d", len(figures))
	}
	if figures[0].FigureNumber != 3 || figures[1].FigureNumber != 7 {
		t.Errorf("unexpected figure numbers: %d, %d", figures[0].FigureNumber, figures[1].FigureNumber)
	}
	for _, f := range figures {
		if f.Page < 1 {
			t.Errorf("figure page must be >= 1, got %d", f.Page)
		}
		if len(f.Description) > 200 {
			t.Errorf("description not truncated: %d chars", len(f.Description))
		}
		if f.FigureType != "diagram" {
			t.Errorf("unexpected figure type %q", f.FigureType)
		}
	}
}

func TestEstimatePageCount(t *testing.T) {
	if got := EstimatePageCount("short"); got != 1 {
		t.Errorf("short text should be 1 page, got %d", got)
	}
	if got := EstimatePageCount(strings.Repeat("x", 9500)); got != 3 {
		t.Errorf("9500 chars should be 3 pages, got %d", got)
	}
}

func TestSegmentDeterministic(t *testing.T) {
	text := strings.Join([]string{
		"1. Introduction",
		"Body one.",
		"2. Scope",
		"a | b",
		"c | d",
		"See Figure 1 for details.",
	}, "\n")

	seg := NewSegmenter()
	first := seg.Segment(text)
	second := seg.Segment(text)

	if len(first.Sections) != len(second.Sections) ||
		len(first.Tables) != len(second.Tables) ||
		len(first.Figures) != len(second.Figures) ||
		first.PageCount != second.PageCount {
		t.Fatalf("segmenter output is not deterministic: %+v vs %+v", first, second)
	}
}
