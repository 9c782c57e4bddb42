package tender

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tenderiq/core/internal/models"
)

// Keyword extraction of the tender header block. This is the fallback path
// when no AI provider is configured, and the baseline the model output is
// merged over.

var (
	referenceRe = regexp.MustCompile(`(?i)(?:Reference|Tender\s+(?:No|ID)|RFP\s+No)[.:\s]*([A-Z0-9/\-]{4,})`)
	orgRes      = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:issued\s+by|invited\s+by|on\s+behalf\s+of)[: \t]+([A-Z][A-Za-z&., \t]{5,80})`),
		regexp.MustCompile(`(?i)((?:Government|Ministry|Department|Authority|Corporation)\s+of\s+[A-Z][A-Za-z \t]{2,60})`),
		regexp.MustCompile(`(?i)(National\s+Highways?\s+Authority\s+of\s+India)`),
	}
	valueRe = regexp.MustCompile(`(?i)₹?\s*([0-9]+(?:\.[0-9]+)?)\s*(crore|cr|lakhs?|l)\b`)
	dateRe  = regexp.MustCompile(`(?i)(?:submission|closing|due)\s+(?:date|deadline)[:\s]+([0-9]{1,2}[./-][0-9]{1,2}[./-][0-9]{2,4})`)
)

var titleKeywords = []string{
	"construction", "maintenance", "highway", "project",
	"road", "building", "tender for",
}

var titleExclusions = []string{
	"reference", "earnest", "deposit", "emd", "guarantee", "page",
}

var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"highway", "Road Construction"},
	{"road", "Road Construction"},
	{"bridge", "Bridge Construction"},
	{"flyover", "Bridge Construction"},
	{"building", "Building Construction"},
	{"water supply", "Water Infrastructure"},
	{"sewerage", "Water Infrastructure"},
	{"irrigation", "Water Infrastructure"},
	{"electrical", "Electrical Works"},
	{"railway", "Railway Infrastructure"},
	{"maintenance", "Maintenance Works"},
}

type InfoExtractor struct{}

func NewInfoExtractor() *InfoExtractor {
	return &InfoExtractor{}
}

// ExtractInfo pulls the tender header fields out of the raw text.
// Confidence starts at 50 and earns 10 points per recovered field.
func (e *InfoExtractor) ExtractInfo(text string) *models.TenderInfo {
	info := &models.TenderInfo{
		TenderType: "open",
	}
	confidence := 50.0

	if m := referenceRe.FindStringSubmatch(text); m != nil {
		info.ReferenceNumber = strings.TrimSpace(m[1])
		confidence += 10
	}
	if title := extractTitle(text); title != "" {
		info.Title = title
		confidence += 10
	}
	if org := extractOrganization(text); org != "" {
		info.IssuingOrganization = org
		confidence += 10
	}
	if value := ExtractMoney(text); value != nil {
		info.EstimatedValue = value
		confidence += 10
	}
	if m := dateRe.FindStringSubmatch(text); m != nil {
		info.SubmissionDeadline = strings.TrimSpace(m[1])
	}

	info.Category = categorize(text)
	if confidence > 100 {
		confidence = 100
	}
	info.ExtractionConfidence = confidence

	return info
}

// extractTitle scans the first 30 lines for a plausible project title.
func extractTitle(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 30 {
		lines = lines[:30]
	}

	for _, line := range lines {
		candidate := strings.TrimSpace(line)
		if len(candidate) < 20 || len(candidate) > 300 {
			continue
		}
		lower := strings.ToLower(candidate)
		if containsAny(lower, titleExclusions) {
			continue
		}
		if containsAny(lower, titleKeywords) {
			return candidate
		}
	}
	return ""
}

func extractOrganization(text string) string {
	for _, re := range orgRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(strings.Trim(m[1], " .,"))
		}
	}
	return ""
}

func categorize(text string) string {
	lower := strings.ToLower(text)
	for _, c := range categoryKeywords {
		if strings.Contains(lower, c.keyword) {
			return c.category
		}
	}
	return "General Works"
}

// ExtractMoney parses the first currency mention and normalizes it to lakhs.
func ExtractMoney(text string) *models.MoneyAmount {
	m := valueRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil || amount <= 0 {
		return nil
	}

	unit := strings.ToLower(m[2])
	if unit == "crore" || unit == "cr" {
		amount *= 100
	}

	return &models.MoneyAmount{
		Amount:      amount,
		Currency:    "INR",
		DisplayText: strings.TrimSpace(m[0]),
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
