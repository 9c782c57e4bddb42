package models

// ExtractedSection is one structural section detected in raw tender text.
type ExtractedSection struct {
	SectionNumber string  `json:"section_number"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Pages         []int   `json:"pages,omitempty"`
	Confidence    float64 `json:"confidence"`
}

// ExtractedTable is one contiguous table block detected in raw tender text.
type ExtractedTable struct {
	TableNumber int     `json:"table_number"`
	Title       string  `json:"title,omitempty"`
	RawContent  string  `json:"raw_content"`
	Page        int     `json:"page"`
	Location    string  `json:"location"`
	Confidence  float64 `json:"confidence"`
}

// ExtractedFigure is one figure reference detected in raw tender text.
type ExtractedFigure struct {
	FigureNumber int     `json:"figure_number"`
	Description  string  `json:"description"`
	FigureType   string  `json:"figure_type"`
	Page         int     `json:"page"`
	Confidence   float64 `json:"confidence"`
}

// QualityWarning flags a suspect aspect of an extraction.
type QualityWarning struct {
	Field          string `json:"field"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation,omitempty"`
}

// QualityRecommendation suggests a follow-up action after extraction.
type QualityRecommendation struct {
	Priority   string `json:"priority"`
	Suggestion string `json:"suggestion"`
	Impact     string `json:"impact"`
}

// ExtractionQualityResult scores a completed structural extraction.
type ExtractionQualityResult struct {
	ExtractionQuality  float64                 `json:"extraction_quality"`
	DataCompleteness   float64                 `json:"data_completeness"`
	OCRUsed            bool                    `json:"ocr_used"`
	OCRConfidence      *float64                `json:"ocr_confidence,omitempty"`
	Warnings           []QualityWarning        `json:"warnings"`
	Recommendations    []QualityRecommendation `json:"recommendations"`
	SectionsExtracted  int                     `json:"sections_extracted"`
	TablesExtracted    int                     `json:"tables_extracted"`
	FiguresExtracted   int                     `json:"figures_extracted"`
	AnnexuresEstimated int                     `json:"annexures_estimated"`
	DomainConfidences  map[string]float64      `json:"domain_confidences"`
}

// ExtractedContentModel persists the raw text plus structural snapshot for one analysis.
type ExtractedContentModel struct {
	Base
	AnalysisID    string             `json:"analysis_id" gorm:"type:char(36);uniqueIndex"`
	RawText       string             `json:"raw_text"    gorm:"type:longtext"`
	PageCount     int                `json:"page_count"`
	Sections      []ExtractedSection `json:"sections"    gorm:"type:longtext;serializer:json"`
	Tables        []ExtractedTable   `json:"tables"      gorm:"type:longtext;serializer:json"`
	Figures       []ExtractedFigure  `json:"figures"     gorm:"type:longtext;serializer:json"`
	OCRUsed       bool               `json:"ocr_used"`
	OCRConfidence *float64           `json:"ocr_confidence,omitempty"`
}

func (ExtractedContentModel) TableName() string { return "extracted_contents" }

// QualityMetricsModel persists the extraction quality snapshot for one analysis.
type QualityMetricsModel struct {
	Base
	AnalysisID        string                   `json:"analysis_id" gorm:"type:char(36);index"`
	ExtractionQuality float64                  `json:"extraction_quality"`
	DataCompleteness  float64                  `json:"data_completeness"`
	Result            *ExtractionQualityResult `json:"result" gorm:"type:longtext;serializer:json"`
}

func (QualityMetricsModel) TableName() string { return "quality_metrics" }
