package extraction

import (
	"context"
	"errors"
	"strings"

	"github.com/tenderiq/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEmptyDocument = errors.New("document contains no extractable text")

// Parser runs the full extraction pass for one document and persists both
// the extracted content and its quality metrics.
type Parser struct {
	db        *gorm.DB
	provider  Provider
	segmenter *Segmenter
	assessor  *QualityAssessor
	log       *zap.Logger
}

func NewParser(db *gorm.DB, provider Provider, log *zap.Logger) *Parser {
	return &Parser{
		db:        db,
		provider:  provider,
		segmenter: NewSegmenter(),
		assessor:  NewQualityAssessor(),
		log:       log,
	}
}

// ParseResult is the in-memory output of one extraction pass, handed to the
// analysis phases that follow.
type ParseResult struct {
	RawText   string
	PageCount int
	Sections  []models.ExtractedSection
	Tables    []models.ExtractedTable
	Figures   []models.ExtractedFigure
	Quality   models.ExtractionQualityResult
}

// Parse extracts, segments and assesses the document, then stores the
// results keyed by analysis ID. Re-running replaces the previous content.
func (p *Parser) Parse(ctx context.Context, analysisID, filename string, data []byte) (*ParseResult, error) {
	text, ocrUsed, ocrConfidence, err := p.provider.ExtractText(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	segments := p.segmenter.Segment(text)
	quality := p.assessor.Assess(AssessInput{
		RawText:       text,
		Sections:      segments.Sections,
		Tables:        segments.Tables,
		Figures:       segments.Figures,
		OCRUsed:       ocrUsed,
		OCRConfidence: ocrConfidence,
	})

	p.log.Info("document parsed",
		zap.String("analysis_id", analysisID),
		zap.Int("pages", segments.PageCount),
		zap.Int("sections", len(segments.Sections)),
		zap.Int("tables", len(segments.Tables)),
		zap.Int("figures", len(segments.Figures)),
		zap.Bool("ocr", ocrUsed),
	)

	content := models.ExtractedContentModel{
		AnalysisID:    analysisID,
		RawText:       text,
		PageCount:     segments.PageCount,
		Sections:      segments.Sections,
		Tables:        segments.Tables,
		Figures:       segments.Figures,
		OCRUsed:       ocrUsed,
		OCRConfidence: ocrConfidence,
	}
	metrics := models.QualityMetricsModel{
		AnalysisID:        analysisID,
		ExtractionQuality: quality.ExtractionQuality,
		DataCompleteness:  quality.DataCompleteness,
		Result:            &quality,
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "analysis_id"}},
			UpdateAll: true,
		}).Create(&content).Error; err != nil {
			return err
		}
		if err := tx.Where("analysis_id = ?", analysisID).Delete(&models.QualityMetricsModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&metrics).Error
	})
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		RawText:   text,
		PageCount: segments.PageCount,
		Sections:  segments.Sections,
		Tables:    segments.Tables,
		Figures:   segments.Figures,
		Quality:   quality,
	}, nil
}

// LoadQuality returns the stored quality metrics for an analysis, or nil when absent.
func (p *Parser) LoadQuality(ctx context.Context, analysisID string) (*models.QualityMetricsModel, error) {
	var metrics models.QualityMetricsModel
	err := p.db.WithContext(ctx).Where("analysis_id = ?", analysisID).
		Order("created_at DESC").First(&metrics).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}

// LoadContent returns the stored extraction for an analysis, or nil when absent.
func (p *Parser) LoadContent(ctx context.Context, analysisID string) (*models.ExtractedContentModel, error) {
	var content models.ExtractedContentModel
	err := p.db.WithContext(ctx).Where("analysis_id = ?", analysisID).First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}
