package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/tenderiq/core/internal/config"
	"github.com/tenderiq/core/internal/models"
	"github.com/tenderiq/core/internal/modules/analysis/events"
	"github.com/tenderiq/core/internal/modules/documents"
	"github.com/tenderiq/core/internal/modules/extraction"
	"github.com/tenderiq/core/internal/modules/intelligence"
	"github.com/tenderiq/core/internal/modules/quality"
	"github.com/tenderiq/core/internal/modules/tender"
	"go.uber.org/zap"
)

// Pipeline phase progress milestones. Progress only moves forward; every
// write lands in the store before the matching event is published.
const (
	progressInitializing = 5
	progressParsed       = 10
	progressTenderInfo   = 25
	progressOnePager     = 40
	progressScope        = 55
	progressRFPSections  = 65
	progressSWOT         = 70
	progressRisk         = 72
	progressCompliance   = 74
	progressBid          = 76
	progressCost         = 78
	progressWin          = 80
	progressQuality      = 85
	progressSummary      = 90
	progressDone         = 100
)

// Event field names for fragment updates.
const (
	FieldTenderInfo     = "tender_info"
	FieldOnePager       = "one_pager"
	FieldScopeOfWork    = "scope_of_work"
	FieldRFPSections    = "rfp_sections"
	FieldSWOT           = "swot_analysis"
	FieldRisk           = "risk_assessment"
	FieldCompliance     = "compliance"
	FieldBid            = "bid_recommendation"
	FieldCost           = "cost_breakdown"
	FieldWinProbability = "win_probability"
	FieldQuality        = "quality_metrics"
	FieldDataSheet      = "data_sheet"
)

// DocumentParser is the extraction step as the pipeline sees it.
type DocumentParser interface {
	Parse(ctx context.Context, analysisID, filename string, data []byte) (*extraction.ParseResult, error)
}

// Pipeline runs the full analysis for one tender document.
type Pipeline struct {
	store      Store
	bus        events.Bus
	source     documents.Source
	parser     DocumentParser
	intel      *intelligence.Service
	indicators *quality.IndicatorsService

	infoExtractor      *tender.InfoExtractor
	financialExtractor *tender.FinancialExtractor
	scopeExtractor     *tender.ScopeExtractor

	company      config.CompanyProfile
	dayRateLakhs float64
	runTimeout   time.Duration
	log          *zap.Logger
}

type PipelineOptions struct {
	Store    Store
	Bus      events.Bus
	Source   documents.Source
	Parser   DocumentParser
	Intel    *intelligence.Service
	Company  config.CompanyProfile
	Pipeline config.PipelineConfig
	Logger   *zap.Logger
}

func NewPipeline(opts PipelineOptions) *Pipeline {
	return &Pipeline{
		store:              opts.Store,
		bus:                opts.Bus,
		source:             opts.Source,
		parser:             opts.Parser,
		intel:              opts.Intel,
		indicators:         quality.NewIndicatorsService(),
		infoExtractor:      tender.NewInfoExtractor(),
		financialExtractor: tender.NewFinancialExtractor(),
		scopeExtractor:     tender.NewScopeExtractor(),
		company:            opts.Company,
		dayRateLakhs:       opts.Pipeline.DayRateLakhs,
		runTimeout:         opts.Pipeline.RunTimeout,
		log:                opts.Logger,
	}
}

// Run executes every analysis phase for one tender. Failures mark the
// analysis failed and close the stream; Run itself only returns transport
// level errors to the task queue.
func (p *Pipeline) Run(ctx context.Context, analysisID, tenderRef string) {
	if p.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.runTimeout)
		defer cancel()
	}

	if err := p.run(ctx, analysisID, tenderRef); err != nil {
		p.fail(analysisID, err)
	}
}

func (p *Pipeline) run(ctx context.Context, analysisID, tenderRef string) error {
	now := time.Now()
	parsing := models.AnalysisParsing
	if err := p.advance(ctx, analysisID, Delta{
		Status:        &parsing,
		Progress:      intPtr(progressInitializing),
		StatusMessage: strPtr("initializing"),
		StartedAt:     &now,
	}, nil); err != nil {
		return err
	}

	data, filename, err := p.source.Fetch(ctx, tenderRef)
	if err != nil {
		return fmt.Errorf("fetch document: %w", err)
	}
	parsed, err := p.parser.Parse(ctx, analysisID, filename, data)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if err := p.advance(ctx, analysisID, Delta{
		Progress:      intPtr(progressParsed),
		StatusMessage: strPtr("parsing-document"),
	}, nil); err != nil {
		return err
	}

	inputs := intelligence.Inputs{
		Company:      p.company,
		DayRateLakhs: p.dayRateLakhs,
	}

	// Phase 2: header and financial extraction.
	analyzing := models.AnalysisAnalyzing
	info := p.infoExtractor.ExtractInfo(parsed.RawText)
	financial := p.financialExtractor.ExtractFinancial(parsed.RawText)
	inputs.TenderInfo = info
	inputs.Financial = financial
	if err := p.advance(ctx, analysisID, Delta{
		Status:        &analyzing,
		Progress:      intPtr(progressTenderInfo),
		StatusMessage: strPtr("extracting-tender-info"),
		TenderInfo:    info,
		Financial:     financial,
	}, update(FieldTenderInfo, info)); err != nil {
		return err
	}

	// Phase 3: narrative fragments.
	scope := p.scopeExtractor.ExtractScope(parsed.RawText, info)
	onePager := tender.BuildOnePager(info, financial, scope)
	if err := p.advance(ctx, analysisID, Delta{
		Progress:      intPtr(progressOnePager),
		StatusMessage: strPtr("generating-onepager"),
		OnePager:      onePager,
	}, update(FieldOnePager, onePager)); err != nil {
		return err
	}

	inputs.Scope = scope
	if err := p.advance(ctx, analysisID, Delta{
		Progress:      intPtr(progressScope),
		StatusMessage: strPtr("analyzing-scope"),
		ScopeOfWork:   scope,
	}, update(FieldScopeOfWork, scope)); err != nil {
		return err
	}

	sections := BuildRFPSections(parsed.Sections)
	if err := p.store.ReplaceRFPSections(ctx, analysisID, sections); err != nil {
		return fmt.Errorf("store rfp sections: %w", err)
	}
	templates := BuildDocumentTemplates(parsed.Sections)
	if err := p.store.ReplaceDocumentTemplates(ctx, analysisID, templates); err != nil {
		return fmt.Errorf("store document templates: %w", err)
	}
	if err := p.advance(ctx, analysisID, Delta{
		Progress:      intPtr(progressRFPSections),
		StatusMessage: strPtr("analyzing-rfp-sections"),
	}, update(FieldRFPSections, sections)); err != nil {
		return err
	}

	swot := p.intel.SWOT(ctx, inputs)
	inputs.SWOT = swot
	if err := p.advance(ctx, analysisID, Delta{
		Progress:      intPtr(progressSWOT),
		StatusMessage: strPtr("analyzing-swot"),
		SWOT:          swot,
	}, update(FieldSWOT, swot)); err != nil {
		return err
	}

	// Phase 4: intelligence calculators, in dependency order.
	risk := p.intel.Risk(inputs)
	inputs.Risk = risk
	if err := p.advance(ctx, analysisID, Delta{
		Progress:       intPtr(progressRisk),
		StatusMessage:  strPtr("assessing-risk"),
		RiskAssessment: risk,
	}, update(FieldRisk, risk)); err != nil {
		return err
	}

	compliance := p.intel.Compliance(inputs)
	inputs.Compliance = compliance
	if err := p.advance(ctx, analysisID, Delta{
		Progress:      intPtr(progressCompliance),
		StatusMessage: strPtr("checking-compliance"),
		Compliance:    compliance,
	}, update(FieldCompliance, compliance)); err != nil {
		return err
	}

	bid := p.intel.Bid(inputs)
	inputs.Bid = bid
	if err := p.advance(ctx, analysisID, Delta{
		Progress:          intPtr(progressBid),
		StatusMessage:     strPtr("scoring-bid"),
		BidRecommendation: bid,
	}, update(FieldBid, bid)); err != nil {
		return err
	}

	cost := p.intel.Cost(inputs)
	if err := p.advance(ctx, analysisID, Delta{
		Progress:      intPtr(progressCost),
		StatusMessage: strPtr("estimating-cost"),
		CostBreakdown: cost,
	}, update(FieldCost, cost)); err != nil {
		return err
	}

	win := p.intel.WinProbability(inputs)
	if err := p.advance(ctx, analysisID, Delta{
		Progress:       intPtr(progressWin),
		StatusMessage:  strPtr("estimating-win-probability"),
		WinProbability: win,
	}, update(FieldWinProbability, win)); err != nil {
		return err
	}

	// Phase 5: quality and summary over the fresh row.
	current, err := p.store.GetByID(ctx, analysisID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("analysis %s disappeared mid-run", analysisID)
	}

	assessment := p.indicators.Assess(quality.InputFromAnalysis(current, &parsed.Quality, true))
	if err := p.advance(ctx, analysisID, Delta{
		Progress:      intPtr(progressQuality),
		StatusMessage: strPtr("assessing-quality"),
		Quality:       &assessment,
	}, update(FieldQuality, assessment)); err != nil {
		return err
	}

	current.Quality = &assessment
	sheet := tender.BuildDataSheet(current)
	metadata := quality.BuildMetadata(current, true)
	if err := p.advance(ctx, analysisID, Delta{
		Progress:      intPtr(progressSummary),
		StatusMessage: strPtr("generating-summary"),
		DataSheet:     sheet,
		Metadata:      metadata,
	}, update(FieldDataSheet, sheet)); err != nil {
		return err
	}

	completed := models.AnalysisCompleted
	finished := time.Now()
	if err := p.advance(ctx, analysisID, Delta{
		Status:        &completed,
		Progress:      intPtr(progressDone),
		StatusMessage: strPtr("completed"),
		CompletedAt:   &finished,
	}, nil); err != nil {
		return err
	}
	p.publish(analysisID, events.Close)

	p.log.Info("analysis completed",
		zap.String("analysis_id", analysisID),
		zap.String("tender_ref", tenderRef),
	)
	return nil
}

// advance persists the delta and only then publishes the fragment event
// plus a status event, so snapshots never lag the stream.
func (p *Pipeline) advance(ctx context.Context, analysisID string, delta Delta, fragment *events.Event) error {
	if err := p.store.Update(ctx, analysisID, delta); err != nil {
		return err
	}
	if fragment != nil {
		p.publish(analysisID, *fragment)
	}
	p.publish(analysisID, statusEvent(delta))
	return nil
}

// fail marks the analysis failed. Uses a fresh context so the terminal
// state is recorded even when the run context is already dead.
func (p *Pipeline) fail(analysisID string, cause error) {
	p.log.Error("analysis failed",
		zap.String("analysis_id", analysisID),
		zap.Error(cause),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	failed := models.AnalysisFailed
	finished := time.Now()
	message := cause.Error()
	if err := p.store.Update(ctx, analysisID, Delta{
		Status:        &failed,
		StatusMessage: strPtr("failed"),
		ErrorMessage:  &message,
		CompletedAt:   &finished,
	}); err != nil {
		p.log.Error("recording failure state failed",
			zap.String("analysis_id", analysisID),
			zap.Error(err),
		)
	}

	p.publish(analysisID, errorEvent(message))
	p.publish(analysisID, events.Close)
}

func (p *Pipeline) publish(analysisID string, evt events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.bus.Publish(ctx, analysisID, evt); err != nil {
		p.log.Warn("event publish failed",
			zap.String("analysis_id", analysisID),
			zap.String("event", evt.Event),
			zap.Error(err),
		)
	}
}

func update(field string, data interface{}) *events.Event {
	return &events.Event{Event: events.TypeUpdate, Field: field, Data: data}
}

func errorEvent(message string) events.Event {
	return events.Event{
		Event: events.TypeError,
		Field: events.FieldError,
		Data:  map[string]interface{}{"message": message},
	}
}

func statusEvent(delta Delta) events.Event {
	payload := map[string]interface{}{}
	if delta.Status != nil {
		payload["status"] = *delta.Status
	}
	if delta.Progress != nil {
		payload["progress"] = *delta.Progress
	}
	if delta.StatusMessage != nil {
		payload["message"] = *delta.StatusMessage
	}
	return events.Event{Event: events.TypeStatus, Field: events.FieldStatus, Data: payload}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
