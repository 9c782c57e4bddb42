package tender

import (
	"regexp"
	"strings"

	"github.com/tenderiq/core/internal/models"
)

const (
	maxWorkItems      = 7
	baseEffortPerItem = 10
	effortPerKeyword  = 5
	maxTotalEffort    = 365
)

var bulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\([a-z]\)|[ivx]+\)|\d+[.)])\s+(.{10,})`)

var complexityKeywords = []string{
	"integration", "migration", "architecture", "security",
	"performance", "scalability", "disaster recovery", "compliance",
}

var technicalStandardRe = regexp.MustCompile(`(?i)\b(IS|IRC|MORTH|ASTM|BIS|ISO)[:\s-]*\d+[\w:./-]*`)

type ScopeExtractor struct{}

func NewScopeExtractor() *ScopeExtractor {
	return &ScopeExtractor{}
}

// ExtractScope builds the scope-of-work block from bullet points in the
// raw text. Effort is heuristic: a base per work item plus a bump per
// complexity keyword, capped at one year.
func (e *ScopeExtractor) ExtractScope(text string, info *models.TenderInfo) *models.ScopeOfWork {
	items := extractWorkItems(text)
	keywordHits := 0
	totalEffort := 0

	components := make([]models.WorkComponent, 0, len(items))
	for i, item := range items {
		hits := countComplexityKeywords(item)
		keywordHits += hits
		effort := baseEffortPerItem + effortPerKeyword*hits
		totalEffort += effort

		components = append(components, models.WorkComponent{
			Description:         item,
			EstimatedEffortDays: effort,
			Priority:            positionPriority(i, len(items)),
		})
	}
	if totalEffort > maxTotalEffort {
		totalEffort = maxTotalEffort
	}

	scope := &models.ScopeOfWork{
		MajorWorkComponents:      components,
		TechnicalStandards:       extractTechnicalStandards(text),
		EstimatedTotalEffortDays: totalEffort,
		ComplexityLevel:          complexityLevel(keywordHits),
		AverageConfidence:        60,
	}

	if info != nil {
		scope.ProjectOverview.Name = info.Title
		if info.EstimatedValue != nil {
			scope.ProjectOverview.Value = info.EstimatedValue.DisplayText
		}
	}

	return scope
}

func extractWorkItems(text string) []string {
	items := make([]string, 0, maxWorkItems)
	for _, line := range strings.Split(text, "\n") {
		m := bulletRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		items = append(items, strings.TrimSpace(m[1]))
		if len(items) == maxWorkItems {
			break
		}
	}
	return items
}

func countComplexityKeywords(item string) int {
	lower := strings.ToLower(item)
	hits := 0
	for _, keyword := range complexityKeywords {
		if strings.Contains(lower, keyword) {
			hits++
		}
	}
	return hits
}

func complexityLevel(keywordHits int) string {
	switch {
	case keywordHits >= 3:
		return "high"
	case keywordHits >= 1:
		return "medium"
	default:
		return "low"
	}
}

// positionPriority assigns priority by list position thirds: items stated
// first are treated as most important.
func positionPriority(index, total int) string {
	if total == 0 {
		return "medium"
	}
	switch {
	case index*3 < total:
		return "high"
	case index*3 < total*2:
		return "medium"
	default:
		return "low"
	}
}

func extractTechnicalStandards(text string) []string {
	matches := technicalStandardRe.FindAllString(text, 10)
	seen := map[string]bool{}
	standards := make([]string, 0, len(matches))
	for _, m := range matches {
		normalized := strings.TrimSpace(m)
		if !seen[normalized] {
			seen[normalized] = true
			standards = append(standards, normalized)
		}
	}
	return standards
}
