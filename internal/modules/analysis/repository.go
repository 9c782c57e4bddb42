package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tenderiq/core/internal/models"
	"gorm.io/gorm"
)

var ErrAlreadyExists = errors.New("analysis already exists for tender")

// Store is the persistence boundary for analyses.
type Store interface {
	// GetByTenderRef returns the analysis for a tender, or (nil, nil) when absent.
	// When userID is non-empty the row must belong to that user.
	GetByTenderRef(ctx context.Context, tenderRef, userID string) (*models.AnalysisModel, error)
	GetByID(ctx context.Context, id string) (*models.AnalysisModel, error)
	// CreateForTender inserts a fresh pending analysis. Returns ErrAlreadyExists
	// when another row holds the tender reference.
	CreateForTender(ctx context.Context, tenderRef, userID string) (*models.AnalysisModel, error)
	// Update applies a partial delta to one analysis row.
	Update(ctx context.Context, id string, delta Delta) error
	ReplaceRFPSections(ctx context.Context, analysisID string, sections []models.AnalysisRFPSectionModel) error
	ReplaceDocumentTemplates(ctx context.Context, analysisID string, templates []models.AnalysisDocumentTemplateModel) error
}

// Delta is a partial update to an analysis row. Nil fields are untouched,
// so concurrent phases never clobber each other's fragments.
type Delta struct {
	Status        *models.AnalysisStatus
	Progress      *int
	StatusMessage *string
	ErrorMessage  *string
	StartedAt     *time.Time
	CompletedAt   *time.Time

	TenderInfo        *models.TenderInfo
	Financial         *models.FinancialRequirements
	OnePager          *models.OnePager
	ScopeOfWork       *models.ScopeOfWork
	DataSheet         *models.DataSheet
	SWOT              *models.SWOTAnalysis
	RiskAssessment    *models.RiskAssessment
	Compliance        *models.ComplianceReport
	BidRecommendation *models.BidRecommendation
	CostBreakdown     *models.CostBreakdown
	WinProbability    *models.WinProbability
	Quality           *models.QualityAssessment
	Metadata          *models.AnalysisMetadata
}

// changes renders the delta as a GORM update map.
func (d Delta) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if d.Status != nil {
		changes["status"] = *d.Status
	}
	if d.Progress != nil {
		changes["progress"] = *d.Progress
	}
	if d.StatusMessage != nil {
		changes["status_message"] = *d.StatusMessage
	}
	if d.ErrorMessage != nil {
		changes["error_message"] = *d.ErrorMessage
	}
	if d.StartedAt != nil {
		changes["started_at"] = *d.StartedAt
	}
	if d.CompletedAt != nil {
		changes["completed_at"] = *d.CompletedAt
	}
	if d.TenderInfo != nil {
		changes["tender_info"] = d.TenderInfo
	}
	if d.Financial != nil {
		changes["financial"] = d.Financial
	}
	if d.OnePager != nil {
		changes["one_pager"] = d.OnePager
	}
	if d.ScopeOfWork != nil {
		changes["scope_of_work"] = d.ScopeOfWork
	}
	if d.DataSheet != nil {
		changes["data_sheet"] = d.DataSheet
	}
	if d.SWOT != nil {
		changes["swot"] = d.SWOT
	}
	if d.RiskAssessment != nil {
		changes["risk_assessment"] = d.RiskAssessment
	}
	if d.Compliance != nil {
		changes["compliance"] = d.Compliance
	}
	if d.BidRecommendation != nil {
		changes["bid_recommendation"] = d.BidRecommendation
	}
	if d.CostBreakdown != nil {
		changes["cost_breakdown"] = d.CostBreakdown
	}
	if d.WinProbability != nil {
		changes["win_probability"] = d.WinProbability
	}
	if d.Quality != nil {
		changes["quality"] = d.Quality
	}
	if d.Metadata != nil {
		changes["metadata"] = d.Metadata
	}
	return changes
}

// GormStore is the MySQL-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetByTenderRef(ctx context.Context, tenderRef, userID string) (*models.AnalysisModel, error) {
	query := s.db.WithContext(ctx).
		Preload("RFPSections", orderByIndex).
		Preload("DocumentTemplates", orderByIndex).
		Where("tender_ref = ?", tenderRef)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var analysis models.AnalysisModel
	err := query.First(&analysis).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (s *GormStore) GetByID(ctx context.Context, id string) (*models.AnalysisModel, error) {
	var analysis models.AnalysisModel
	err := s.db.WithContext(ctx).
		Preload("RFPSections", orderByIndex).
		Preload("DocumentTemplates", orderByIndex).
		Where("id = ?", id).
		First(&analysis).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (s *GormStore) CreateForTender(ctx context.Context, tenderRef, userID string) (*models.AnalysisModel, error) {
	analysis := models.AnalysisModel{
		TenderRef: tenderRef,
		UserID:    userID,
		Status:    models.AnalysisPending,
	}
	err := s.db.WithContext(ctx).Create(&analysis).Error
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &analysis, nil
}

func (s *GormStore) Update(ctx context.Context, id string, delta Delta) error {
	changes := delta.changes()
	if len(changes) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.AnalysisModel{}).
		Where("id = ?", id).
		Updates(changes).Error
}

func (s *GormStore) ReplaceRFPSections(ctx context.Context, analysisID string, sections []models.AnalysisRFPSectionModel) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("analysis_id = ?", analysisID).
			Delete(&models.AnalysisRFPSectionModel{}).Error; err != nil {
			return err
		}
		if len(sections) == 0 {
			return nil
		}
		for i := range sections {
			sections[i].AnalysisID = analysisID
			sections[i].OrderIndex = i
		}
		return tx.Create(&sections).Error
	})
}

func (s *GormStore) ReplaceDocumentTemplates(ctx context.Context, analysisID string, templates []models.AnalysisDocumentTemplateModel) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("analysis_id = ?", analysisID).
			Delete(&models.AnalysisDocumentTemplateModel{}).Error; err != nil {
			return err
		}
		if len(templates) == 0 {
			return nil
		}
		for i := range templates {
			templates[i].AnalysisID = analysisID
			templates[i].OrderIndex = i
		}
		return tx.Create(&templates).Error
	})
}

func orderByIndex(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC")
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate")
}
