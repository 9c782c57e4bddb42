package models

import "time"

// AnalysisStatus is the lifecycle state of one tender analysis.
type AnalysisStatus string

const (
	AnalysisPending   AnalysisStatus = "pending"
	AnalysisParsing   AnalysisStatus = "parsing"
	AnalysisAnalyzing AnalysisStatus = "analyzing"
	AnalysisCompleted AnalysisStatus = "completed"
	AnalysisFailed    AnalysisStatus = "failed"
)

// IsTerminal reports whether no further status transitions are allowed.
func (s AnalysisStatus) IsTerminal() bool {
	return s == AnalysisCompleted || s == AnalysisFailed
}

// AnalysisModel is the aggregate root for one tender's analysis.
// Exactly one record exists per tender reference; the unique index enforces it.
type AnalysisModel struct {
	Base
	TenderRef     string         `json:"tender_ref"     gorm:"type:varchar(191);uniqueIndex;not null"`
	UserID        string         `json:"user_id"        gorm:"type:char(36);index"`
	Status        AnalysisStatus `json:"status"         gorm:"type:varchar(20);default:pending"`
	Progress      int            `json:"progress"`
	StatusMessage string         `json:"status_message"`
	ErrorMessage  string         `json:"error_message"`
	StartedAt     *time.Time     `json:"analysis_started_at"`
	CompletedAt   *time.Time     `json:"analysis_completed_at"`

	TenderInfo        *TenderInfo            `json:"tender_info"        gorm:"type:longtext;serializer:json"`
	Financial         *FinancialRequirements `json:"financial"          gorm:"type:longtext;serializer:json"`
	OnePager          *OnePager              `json:"one_pager"          gorm:"type:longtext;serializer:json"`
	ScopeOfWork       *ScopeOfWork           `json:"scope_of_work"      gorm:"type:longtext;serializer:json"`
	DataSheet         *DataSheet             `json:"data_sheet"         gorm:"type:longtext;serializer:json"`
	SWOT              *SWOTAnalysis          `json:"swot_analysis"      gorm:"type:longtext;serializer:json"`
	RiskAssessment    *RiskAssessment        `json:"risk_assessment"    gorm:"type:longtext;serializer:json"`
	Compliance        *ComplianceReport      `json:"compliance"         gorm:"type:longtext;serializer:json"`
	BidRecommendation *BidRecommendation     `json:"bid_recommendation" gorm:"type:longtext;serializer:json"`
	CostBreakdown     *CostBreakdown         `json:"cost_breakdown"     gorm:"type:longtext;serializer:json"`
	WinProbability    *WinProbability        `json:"win_probability"    gorm:"type:longtext;serializer:json"`
	Quality           *QualityAssessment     `json:"quality_metrics"    gorm:"type:longtext;serializer:json"`
	Metadata          *AnalysisMetadata      `json:"metadata"           gorm:"type:longtext;serializer:json"`

	RFPSections       []AnalysisRFPSectionModel       `json:"rfp_sections"       gorm:"foreignKey:AnalysisID;constraint:OnDelete:CASCADE"`
	DocumentTemplates []AnalysisDocumentTemplateModel `json:"document_templates" gorm:"foreignKey:AnalysisID;constraint:OnDelete:CASCADE"`
}

func (AnalysisModel) TableName() string { return "analyses" }

// AnalysisRFPSectionModel is a child RFP section row, lifecycle-bound to its analysis.
type AnalysisRFPSectionModel struct {
	Base
	AnalysisID       string      `json:"analysis_id"       gorm:"type:char(36);index;not null"`
	SectionNumber    string      `json:"section_number"`
	Title            string      `json:"title"`
	Summary          string      `json:"summary"           gorm:"type:longtext"`
	KeyRequirements  StringArray `json:"key_requirements"  gorm:"type:longtext"`
	ComplianceIssues StringArray `json:"compliance_issues" gorm:"type:longtext"`
	PageReferences   IntArray    `json:"page_references"   gorm:"type:longtext"`
	OrderIndex       int         `json:"order_index"`
}

func (AnalysisRFPSectionModel) TableName() string { return "analysis_rfp_sections" }

// AnalysisDocumentTemplateModel is a child document-template row, lifecycle-bound to its analysis.
type AnalysisDocumentTemplateModel struct {
	Base
	AnalysisID     string   `json:"analysis_id"     gorm:"type:char(36);index;not null"`
	Name           string   `json:"name"`
	Description    string   `json:"description"     gorm:"type:longtext"`
	RequiredFormat string   `json:"required_format"`
	ContentPreview string   `json:"content_preview" gorm:"type:longtext"`
	PageReferences IntArray `json:"page_references" gorm:"type:longtext"`
	OrderIndex     int      `json:"order_index"`
}

func (AnalysisDocumentTemplateModel) TableName() string { return "analysis_document_templates" }
