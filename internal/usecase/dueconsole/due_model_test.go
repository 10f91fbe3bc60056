package dueconsole

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"firewatch/internal/domain/maintenance"
	"firewatch/internal/usecase/inspection"
)

type stubSource struct {
	report      inspection.DueReport
	reportErr   error
	history     map[string][]maintenance.ServiceRecord
	lastHorizon int
}

func (s *stubSource) DueReport(_ context.Context, _ string, horizonDays int) (inspection.DueReport, error) {
	s.lastHorizon = horizonDays
	return s.report, s.reportErr
}

func (s *stubSource) History(_ context.Context, _ string, assetID string) ([]maintenance.ServiceRecord, error) {
	return s.history[assetID], nil
}

func sampleReport() inspection.DueReport {
	return inspection.DueReport{
		TenantID:    "acme",
		Today:       "2024-06-01",
		HorizonDays: 30,
		Items: []inspection.DueItem{
			{AssetID: "EXT-1", Family: "extinguisher", Category: maintenance.CategoryInspection, DueDate: "2024-05-20", DaysLeft: -12, Urgency: inspection.UrgencyOverdue},
			{AssetID: "HOSE-1", Family: "hose", Category: maintenance.CategoryTier2, DueDate: "2024-06-10", DaysLeft: 9, Urgency: inspection.UrgencyDueSoon},
		},
	}
}

func newTestModel(source Source) *dueModel {
	return NewDueModel(context.Background(), source, Options{TenantID: "acme", HorizonDays: 30}).(*dueModel)
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()

	if cmd == nil {
		t.Fatalf("cmd = nil")
	}
	return cmd()
}

func TestReportLoadSelectsFirstAndLoadsHistory(t *testing.T) {
	source := &stubSource{
		report: sampleReport(),
		history: map[string][]maintenance.ServiceRecord{
			"EXT-1": {{AssetID: "EXT-1", ServiceDate: "2024-04-20", Level: maintenance.LevelInspection, Approved: maintenance.ApprovalYes, ActionPlan: "Keep under periodic monitoring."}},
		},
	}
	model := newTestModel(source)

	msg := runCmd(t, model.loadReportCmd())
	_, cmd := model.Update(msg)
	if !strings.Contains(model.status, "1 overdue") {
		t.Fatalf("status = %q", model.status)
	}

	_, _ = model.Update(runCmd(t, cmd))
	if model.historyAsset != "EXT-1" || len(model.history) != 1 {
		t.Fatalf("history = %q %d", model.historyAsset, len(model.history))
	}

	view := model.View()
	if !strings.Contains(view, "EXT-1") || !strings.Contains(view, "12d late") || !strings.Contains(view, "in 9d") {
		t.Fatalf("View() = %s", view)
	}
}

func TestNavigationAndOverdueFilter(t *testing.T) {
	source := &stubSource{report: sampleReport()}
	model := newTestModel(source)
	_, _ = model.Update(runCmd(t, model.loadReportCmd()))

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyDown})
	if model.selectedIndex != 1 {
		t.Fatalf("selectedIndex = %d", model.selectedIndex)
	}
	if msg, ok := runCmd(t, cmd).(historyLoadedMsg); !ok || msg.assetID != "HOSE-1" {
		t.Fatalf("history cmd msg = %#v", msg)
	}

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	if !model.onlyOverdue || model.selectedIndex != 0 {
		t.Fatalf("onlyOverdue = %v selectedIndex = %d", model.onlyOverdue, model.selectedIndex)
	}
	if got := len(model.visibleItems()); got != 1 {
		t.Fatalf("visibleItems() len = %d", got)
	}

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	if model.selectedIndex != 0 {
		t.Fatalf("selectedIndex past end = %d", model.selectedIndex)
	}
}

func TestHorizonKeysReloadReport(t *testing.T) {
	source := &stubSource{report: sampleReport()}
	model := newTestModel(source)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	runCmd(t, cmd)
	if source.lastHorizon != 37 {
		t.Fatalf("horizon = %d", source.lastHorizon)
	}

	model.horizonDays = 3
	if _, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}}); cmd != nil {
		t.Fatalf("'-' below a week should be a no-op")
	}
}

func TestReportErrorKeepsPreviousItems(t *testing.T) {
	source := &stubSource{report: sampleReport()}
	model := newTestModel(source)
	_, _ = model.Update(runCmd(t, model.loadReportCmd()))

	_, _ = model.Update(reportLoadedMsg{err: errors.New("db locked")})
	if !strings.Contains(model.status, "db locked") {
		t.Fatalf("status = %q", model.status)
	}
	if len(model.report.Items) != 2 {
		t.Fatalf("items = %d", len(model.report.Items))
	}
}

func TestFormatDaysLeft(t *testing.T) {
	cases := map[int]string{-3: "3d late", 0: "today", 5: "in 5d"}
	for days, want := range cases {
		if got := formatDaysLeft(days); got != want {
			t.Fatalf("formatDaysLeft(%d) = %q, want %q", days, got, want)
		}
	}
}
