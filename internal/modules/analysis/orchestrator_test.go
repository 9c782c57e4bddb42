package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/tenderiq/core/internal/models"
	"github.com/tenderiq/core/internal/modules/analysis/events"
	"go.uber.org/zap"
)

func testOrchestrator(store Store, parser DocumentParser, source fakeSource) *Orchestrator {
	pipe := testPipeline(store, events.NewMemoryBus(), source, parser)
	return NewOrchestrator(store, pipe, nil, zap.NewNop())
}

func waitForTerminal(t *testing.T, store Store, id string) *models.AnalysisModel {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		a, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatal(err)
		}
		if a != nil && a.Status.IsTerminal() {
			return a
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("analysis never reached a terminal state")
	return nil
}

func TestStartCreatesAndRuns(t *testing.T) {
	store := newFakeStore()
	orch := testOrchestrator(store, &fakeParser{}, fakeSource{data: []byte(pipelineDocument)})

	analysis, started, err := orch.Start(t.Context(), "T-1", "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if !started {
		t.Error("fresh tender should dispatch a run")
	}
	if analysis.TenderRef != "T-1" || analysis.UserID != "user-1" {
		t.Errorf("unexpected row: %+v", analysis)
	}

	final := waitForTerminal(t, store, analysis.ID)
	if final.Status != models.AnalysisCompleted {
		t.Errorf("status = %q, error = %q", final.Status, final.ErrorMessage)
	}
}

func TestStartCompletedIsNoOp(t *testing.T) {
	store := newFakeStore()
	a := createPending(t, store, "T-2")
	completed := models.AnalysisCompleted
	_ = store.Update(t.Context(), a.ID, Delta{Status: &completed, Progress: intPtr(100)})

	orch := testOrchestrator(store, &fakeParser{}, fakeSource{data: []byte(pipelineDocument)})
	analysis, started, err := orch.Start(t.Context(), "T-2", "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if started {
		t.Error("completed analysis must not be re-run")
	}
	if analysis.Status != models.AnalysisCompleted {
		t.Errorf("status = %q", analysis.Status)
	}
}

func TestStartFailedResetsAndReruns(t *testing.T) {
	store := newFakeStore()
	a := createPending(t, store, "T-3")
	failed := models.AnalysisFailed
	msg := "boom"
	_ = store.Update(t.Context(), a.ID, Delta{Status: &failed, ErrorMessage: &msg, Progress: intPtr(40)})

	orch := testOrchestrator(store, &fakeParser{}, fakeSource{data: []byte(pipelineDocument)})
	_, started, err := orch.Start(t.Context(), "T-3", "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if !started {
		t.Error("failed analysis should be reset and re-run")
	}

	final := waitForTerminal(t, store, a.ID)
	if final.Status != models.AnalysisCompleted {
		t.Errorf("re-run should complete, got %q (%q)", final.Status, final.ErrorMessage)
	}
	if final.ErrorMessage != "" {
		t.Errorf("error message should be cleared, got %q", final.ErrorMessage)
	}
}

func TestStartAtMostOneRun(t *testing.T) {
	store := newFakeStore()
	blocker := &fakeParser{block: make(chan struct{})}
	orch := testOrchestrator(store, blocker, fakeSource{data: []byte(pipelineDocument)})

	first, started, err := orch.Start(t.Context(), "T-4", "user-1")
	if err != nil || !started {
		t.Fatalf("first start: started=%v err=%v", started, err)
	}

	_, startedAgain, err := orch.Start(t.Context(), "T-4", "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if startedAgain {
		t.Error("second start must not dispatch a concurrent run")
	}

	close(blocker.block)
	waitForTerminal(t, store, first.ID)
}

func TestGetHidesForeignAnalyses(t *testing.T) {
	store := newFakeStore()
	_ = createPending(t, store, "T-5")

	orch := testOrchestrator(store, &fakeParser{}, fakeSource{data: []byte(pipelineDocument)})

	if _, err := orch.Get(t.Context(), "T-5", "user-1"); err != nil {
		t.Errorf("owner should see the analysis: %v", err)
	}
	if _, err := orch.Get(t.Context(), "T-5", "intruder"); err != ErrNotFound {
		t.Errorf("foreign user should get not-found, got %v", err)
	}
	if _, err := orch.Get(t.Context(), "missing", "user-1"); err != ErrNotFound {
		t.Errorf("missing tender should get not-found, got %v", err)
	}
}

func TestStartForeignTenderHidden(t *testing.T) {
	store := newFakeStore()
	_ = createPending(t, store, "T-6")

	orch := testOrchestrator(store, &fakeParser{}, fakeSource{data: []byte(pipelineDocument)})
	if _, _, err := orch.Start(t.Context(), "T-6", "intruder"); err != ErrNotFound {
		t.Errorf("foreign trigger should read as not-found, got %v", err)
	}
}
