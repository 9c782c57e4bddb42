package analysis

import (
	"context"
	"errors"
	"sync"

	"github.com/tenderiq/core/internal/models"
	"github.com/tenderiq/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("analysis not found")

const TaskTypeAnalysis = "tender-analysis"

// Orchestrator owns the analysis lifecycle: at most one run per tender at
// a time, idempotent triggers, failed runs restartable.
type Orchestrator struct {
	store    Store
	pipeline *Pipeline
	tasks    *taskqueue.Service
	log      *zap.Logger

	mu      sync.Mutex
	running map[string]struct{}
}

func NewOrchestrator(store Store, pipeline *Pipeline, tasks *taskqueue.Service, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		pipeline: pipeline,
		tasks:    tasks,
		log:      log,
		running:  map[string]struct{}{},
	}
}

type taskPayload struct {
	AnalysisID string `json:"analysis_id"`
	TenderRef  string `json:"tender_ref"`
}

// Get returns the analysis for a tender, enforcing ownership. A row owned
// by a different user reads as not found so existence does not leak.
func (o *Orchestrator) Get(ctx context.Context, tenderRef, userID string) (*models.AnalysisModel, error) {
	analysis, err := o.store.GetByTenderRef(ctx, tenderRef, "")
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, ErrNotFound
	}
	if analysis.UserID != "" && userID != analysis.UserID {
		return nil, ErrNotFound
	}
	return analysis, nil
}

// Start ensures an analysis row exists for the tender and kicks off a run
// when the row is not already live or completed. Returns the row and
// whether a new run was dispatched.
func (o *Orchestrator) Start(ctx context.Context, tenderRef, userID string) (*models.AnalysisModel, bool, error) {
	analysis, err := o.store.GetByTenderRef(ctx, tenderRef, "")
	if err != nil {
		return nil, false, err
	}
	if analysis != nil && analysis.UserID != "" && userID != analysis.UserID {
		return nil, false, ErrNotFound
	}

	if analysis == nil {
		analysis, err = o.store.CreateForTender(ctx, tenderRef, userID)
		if errors.Is(err, ErrAlreadyExists) {
			// Lost the creation race, use the winner's row.
			analysis, err = o.store.GetByTenderRef(ctx, tenderRef, "")
			if err == nil && analysis == nil {
				err = ErrNotFound
			}
		}
		if err != nil {
			return nil, false, err
		}
	}

	switch analysis.Status {
	case models.AnalysisCompleted:
		// Already analyzed, nothing to do.
		return analysis, false, nil
	case models.AnalysisParsing, models.AnalysisAnalyzing:
		return analysis, false, nil
	case models.AnalysisFailed:
		if err := o.reset(ctx, analysis.ID); err != nil {
			return nil, false, err
		}
		analysis.Status = models.AnalysisPending
		analysis.Progress = 0
		analysis.ErrorMessage = ""
	}

	started := o.dispatch(analysis.ID, tenderRef)
	return analysis, started, nil
}

// reset wipes the failure markers before a re-run.
func (o *Orchestrator) reset(ctx context.Context, analysisID string) error {
	pending := models.AnalysisPending
	return o.store.Update(ctx, analysisID, Delta{
		Status:        &pending,
		Progress:      intPtr(0),
		StatusMessage: strPtr(""),
		ErrorMessage:  strPtr(""),
	})
}

// dispatch runs the pipeline in the background, at most once per analysis.
func (o *Orchestrator) dispatch(analysisID, tenderRef string) bool {
	o.mu.Lock()
	if _, live := o.running[analysisID]; live {
		o.mu.Unlock()
		return false
	}
	o.running[analysisID] = struct{}{}
	o.mu.Unlock()

	go func() {
		defer func() {
			o.mu.Lock()
			delete(o.running, analysisID)
			o.mu.Unlock()
		}()

		ctx := context.Background()
		taskID := o.recordTask(ctx, analysisID, tenderRef)

		o.pipeline.Run(ctx, analysisID, tenderRef)

		o.finishTask(ctx, taskID, analysisID)
	}()
	return true
}

func (o *Orchestrator) recordTask(ctx context.Context, analysisID, tenderRef string) string {
	if o.tasks == nil {
		return ""
	}
	task, err := o.tasks.Enqueue(ctx, TaskTypeAnalysis, taskPayload{
		AnalysisID: analysisID,
		TenderRef:  tenderRef,
	}, tenderRef)
	if err != nil {
		o.log.Warn("task enqueue failed", zap.String("analysis_id", analysisID), zap.Error(err))
		return ""
	}
	if err := o.tasks.UpdateStatus(ctx, task.ID, taskqueue.TaskRunning, nil, ""); err != nil {
		o.log.Warn("task status update failed", zap.String("task_id", task.ID), zap.Error(err))
	}
	return task.ID
}

func (o *Orchestrator) finishTask(ctx context.Context, taskID, analysisID string) {
	if o.tasks == nil || taskID == "" {
		return
	}

	status := taskqueue.TaskCompleted
	errMsg := ""
	if analysis, err := o.store.GetByID(ctx, analysisID); err == nil && analysis != nil &&
		analysis.Status == models.AnalysisFailed {
		status = taskqueue.TaskFailed
		errMsg = analysis.ErrorMessage
	}

	if err := o.tasks.UpdateStatus(ctx, taskID, status, nil, errMsg); err != nil {
		o.log.Warn("task status update failed", zap.String("task_id", taskID), zap.Error(err))
	}
}
