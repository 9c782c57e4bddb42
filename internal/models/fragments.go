package models

import "time"

// MoneyAmount is a monetary value in lakhs with a human-readable rendering.
type MoneyAmount struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	DisplayText string  `json:"display_text"`
}

// TenderInfo is the structured metadata extracted from a tender document.
type TenderInfo struct {
	ReferenceNumber      string       `json:"reference_number"`
	Title                string       `json:"title"`
	IssuingOrganization  string       `json:"issuing_organization"`
	Department           string       `json:"department,omitempty"`
	Category             string       `json:"category"`
	TenderType           string       `json:"tender_type"`
	EstimatedValue       *MoneyAmount `json:"estimated_value,omitempty"`
	PublishedDate        string       `json:"published_date,omitempty"`
	SubmissionDeadline   string       `json:"submission_deadline,omitempty"`
	ExtractionConfidence float64      `json:"extraction_confidence"`
}

// FinancialRequirements captures the monetary obligations stated in a tender.
type FinancialRequirements struct {
	ContractValue            *MoneyAmount `json:"contract_value,omitempty"`
	EMDAmount                *MoneyAmount `json:"emd_amount,omitempty"`
	EMDPercentage            *float64     `json:"emd_percentage,omitempty"`
	PerformanceBankGuarantee *MoneyAmount `json:"performance_bank_guarantee,omitempty"`
	PBGPercentage            *float64     `json:"pbg_percentage,omitempty"`
	ExtractionConfidence     float64      `json:"extraction_confidence"`
}

// OnePager is the narrative executive summary fragment.
type OnePager struct {
	ProjectOverview       string            `json:"project_overview"`
	EligibilityHighlights []string          `json:"eligibility_highlights"`
	ImportantDates        []string          `json:"important_dates"`
	FinancialRequirements []string          `json:"financial_requirements"`
	RiskAnalysis          map[string]string `json:"risk_analysis"`
	ExtractionConfidence  float64           `json:"extraction_confidence"`
}

// ScopeProjectOverview summarizes the physical project behind a tender.
type ScopeProjectOverview struct {
	Name        string `json:"name"`
	Location    string `json:"location,omitempty"`
	TotalLength string `json:"total_length,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Value       string `json:"value,omitempty"`
}

// WorkComponent is one major work item within the scope of work.
type WorkComponent struct {
	Description         string `json:"description"`
	EstimatedEffortDays int    `json:"estimated_effort_days"`
	Priority            string `json:"priority"`
}

// ScopeOfWork is the scope analysis fragment.
type ScopeOfWork struct {
	ProjectOverview          ScopeProjectOverview `json:"project_overview"`
	MajorWorkComponents      []WorkComponent      `json:"major_work_components"`
	TechnicalStandards       []string             `json:"technical_standards_and_specifications"`
	EstimatedTotalEffortDays int                  `json:"estimated_total_effort_days"`
	ComplexityLevel          string               `json:"complexity_level"`
	AverageConfidence        float64              `json:"average_confidence"`
}

// DataSheet is the final rolled-up key/value summary fragment.
type DataSheet struct {
	KeyTenderDetails map[string]string `json:"key_tender_details"`
	FinancialSummary map[string]string `json:"financial_summary"`
	Timeline         map[string]string `json:"timeline"`
}

// SWOTAnalysis is the strengths/weaknesses/opportunities/threats fragment.
type SWOTAnalysis struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
	Confidence    float64  `json:"confidence"`
}

// RiskItem is a single identified risk with qualitative ratings.
type RiskItem struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Likelihood  string  `json:"likelihood"`
	Impact      string  `json:"impact"`
	Mitigation  string  `json:"mitigation,omitempty"`
	Score       float64 `json:"score"`
}

// RiskAssessment aggregates risk items into an overall level.
type RiskAssessment struct {
	OverallScore float64    `json:"overall_score"`
	RiskLevel    string     `json:"risk_level"`
	Risks        []RiskItem `json:"risks"`
}

// ComplianceCheck is one eligibility criterion matched against company capability.
type ComplianceCheck struct {
	Requirement string `json:"requirement"`
	Expected    string `json:"expected"`
	Actual      string `json:"actual"`
	Met         bool   `json:"met"`
}

// ComplianceGap is an unmet requirement with a remediation hint.
type ComplianceGap struct {
	Requirement    string `json:"requirement"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// ComplianceReport is the compliance phase fragment.
type ComplianceReport struct {
	Score   float64           `json:"score"`
	Verdict string            `json:"verdict"`
	Checks  []ComplianceCheck `json:"checks"`
	Gaps    []ComplianceGap   `json:"gaps"`
}

// BidRecommendation is the go/no-go verdict fragment.
type BidRecommendation struct {
	Score     float64  `json:"score"`
	Verdict   string   `json:"verdict"`
	Rationale []string `json:"rationale"`
}

// CostLineItem is one entry in the cost breakdown.
type CostLineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// CostBreakdown estimates execution cost from scope and financial inputs.
type CostBreakdown struct {
	LineItems     []CostLineItem `json:"line_items"`
	Subtotal      float64        `json:"subtotal"`
	Contingency   float64        `json:"contingency"`
	Overhead      float64        `json:"overhead"`
	TotalEstimate float64        `json:"total_estimate"`
	MarginPercent float64        `json:"margin_percent"`
}

// WinProbability is the final likelihood-of-award fragment.
type WinProbability struct {
	Probability float64            `json:"probability"`
	Category    string             `json:"category"`
	Factors     map[string]float64 `json:"factors"`
}

// QualityIndicator is one named contribution to a quality assessment.
// Scores are clamped to [0,100] on construction.
type QualityIndicator struct {
	Name        string   `json:"name"`
	Score       float64  `json:"score"`
	Weight      float64  `json:"weight"`
	Description string   `json:"description"`
	Issues      []string `json:"issues,omitempty"`
}

// QualityAssessment is the weighted rollup of quality indicators.
type QualityAssessment struct {
	OverallScore    float64            `json:"overall_score"`
	QualityLevel    string             `json:"quality_level"`
	ConfidenceLevel string             `json:"confidence_level"`
	Indicators      []QualityIndicator `json:"indicators"`
	AssessedAt      time.Time          `json:"assessed_at"`
}

// AnalysisMetadata is the per-run provenance record.
type AnalysisMetadata struct {
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	DataSources map[string]string `json:"data_sources"`
	Tags        []string          `json:"tags"`
	Extra       map[string]string `json:"extra,omitempty"`
}
