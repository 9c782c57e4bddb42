package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tenderiq/core/internal/middleware"
	"github.com/tenderiq/core/internal/models"
	"github.com/tenderiq/core/internal/modules/analysis/events"
	"github.com/tenderiq/core/internal/modules/extraction"
	"github.com/tenderiq/core/internal/pkg/response"
	"go.uber.org/zap"
)

// Handler exposes the analysis HTTP surface.
type Handler struct {
	orch   *Orchestrator
	bus    events.Bus
	parser *extraction.Parser
	log    *zap.Logger
}

func NewHandler(orch *Orchestrator, bus events.Bus, parser *extraction.Parser, log *zap.Logger) *Handler {
	return &Handler{orch: orch, bus: bus, parser: parser, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	group := r.Group("/analysis")
	group.POST("/:tenderId", h.trigger)
	group.GET("/:tenderId", h.snapshot)
	group.GET("/:tenderId/stream", h.stream)
	group.GET("/:tenderId/status", h.status)
	group.GET("/:tenderId/rfp-sections", h.rfpSections)
	group.GET("/:tenderId/templates", h.templates)
	group.GET("/:tenderId/quality-report", h.qualityReport)
}

func tenderRefParam(c *gin.Context) (string, bool) {
	ref := strings.TrimSpace(c.Param("tenderId"))
	if ref == "" {
		response.BadRequest(c, "tender id is required")
		return "", false
	}
	return ref, true
}

func (h *Handler) trigger(c *gin.Context) {
	tenderRef, ok := tenderRefParam(c)
	if !ok {
		return
	}

	analysis, started, err := h.orch.Start(c.Request.Context(), tenderRef, middleware.CurrentUserID(c))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if !started && analysis.Status == models.AnalysisCompleted {
		response.OK(c, gin.H{
			"analysis": analysis,
			"message":  "tender already analyzed",
		})
		return
	}
	response.OK(c, gin.H{
		"analysis": analysis,
		"started":  started,
	})
}

func (h *Handler) snapshot(c *gin.Context) {
	tenderRef, ok := tenderRefParam(c)
	if !ok {
		return
	}

	analysis, err := h.orch.Get(c.Request.Context(), tenderRef, middleware.CurrentUserID(c))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, analysis)
}

func (h *Handler) status(c *gin.Context) {
	tenderRef, ok := tenderRefParam(c)
	if !ok {
		return
	}

	analysis, err := h.orch.Get(c.Request.Context(), tenderRef, middleware.CurrentUserID(c))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"status":                analysis.Status,
		"progress":              analysis.Progress,
		"status_message":        analysis.StatusMessage,
		"error_message":         analysis.ErrorMessage,
		"analysis_started_at":   analysis.StartedAt,
		"analysis_completed_at": analysis.CompletedAt,
	})
}

func (h *Handler) rfpSections(c *gin.Context) {
	tenderRef, ok := tenderRefParam(c)
	if !ok {
		return
	}

	analysis, err := h.orch.Get(c.Request.Context(), tenderRef, middleware.CurrentUserID(c))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"sections":    analysis.RFPSections,
		"rfp_summary": SummarizeRFPSections(analysis.RFPSections),
	})
}

func (h *Handler) templates(c *gin.Context) {
	tenderRef, ok := tenderRefParam(c)
	if !ok {
		return
	}

	analysis, err := h.orch.Get(c.Request.Context(), tenderRef, middleware.CurrentUserID(c))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, analysis.DocumentTemplates)
}

func (h *Handler) qualityReport(c *gin.Context) {
	tenderRef, ok := tenderRefParam(c)
	if !ok {
		return
	}

	analysis, err := h.orch.Get(c.Request.Context(), tenderRef, middleware.CurrentUserID(c))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}

	metrics, err := h.parser.LoadQuality(c.Request.Context(), analysis.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	report := gin.H{
		"quality_metrics": analysis.Quality,
		"metadata":        analysis.Metadata,
	}
	if metrics != nil {
		report["extraction"] = metrics.Result
	}
	response.OK(c, report)
}

// stream sends live analysis progress over SSE. Connecting also triggers
// the analysis when the tender has none yet or the last run failed.
func (h *Handler) stream(c *gin.Context) {
	tenderRef, ok := tenderRefParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	analysis, _, err := h.orch.Start(ctx, tenderRef, middleware.CurrentUserID(c))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.Flush()

	h.writeEvent(c, events.Event{
		Event: events.TypeInitialState,
		Field: events.FieldFull,
		Data:  analysis,
	})

	// Terminal analyses get their snapshot and an immediate close, no
	// subscription churn.
	if analysis.Status.IsTerminal() {
		h.writeEvent(c, events.Close)
		return
	}

	sub, err := h.bus.Subscribe(ctx, analysis.ID)
	if err != nil {
		h.writeEvent(c, errorEvent("subscription failed"))
		h.writeEvent(c, events.Close)
		return
	}
	defer sub.Close()

	// Periodic terminal re-check covers events published between the
	// snapshot read and the subscription.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, open := <-sub.Events():
			if !open {
				return
			}
			h.writeEvent(c, evt)
			if evt.Event == events.TypeControl {
				return
			}
		case <-ticker.C:
			current, err := h.orch.store.GetByID(ctx, analysis.ID)
			if err != nil || current == nil {
				continue
			}
			if current.Status.IsTerminal() {
				h.writeEvent(c, events.Event{
					Event: events.TypeInitialState,
					Field: events.FieldFull,
					Data:  current,
				})
				h.writeEvent(c, events.Close)
				return
			}
		}
	}
}

func (h *Handler) writeEvent(c *gin.Context, evt events.Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		h.log.Warn("event marshal failed", zap.Error(err))
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
	c.Writer.Flush()
}
