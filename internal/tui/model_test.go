package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/environment"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/storage"
	"github.com/julianstephens/smartgrow/internal/storage/kv"
	"github.com/julianstephens/smartgrow/internal/tracker"
)

var fixedNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func setupTestModel(t *testing.T) (Model, *tracker.Tracker) {
	t.Helper()
	store := storage.NewStore(kv.NewMemory(), storage.NewUserContext("tester"))
	tr := tracker.New(store, tracker.WithClock(func() time.Time { return fixedNow }))
	m := NewModel(Options{
		Tracker:  tr,
		Reading:  environment.InitialReading(),
		Location: time.UTC,
	})
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, tr
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", next)
	}
	return model
}

// press sends a key and feeds back the message its command produces.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			m = send(t, m, out)
		}
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func seedScan(t *testing.T, tr *tracker.Tracker, plant string, monitor bool) tracker.SaveResult {
	t.Helper()
	res, err := tr.SaveDiagnosis(models.DiagnosisRecord{
		PlantName:  plant,
		Diagnosis:  "Leaf spot",
		Confidence: 0.9,
		Severity:   models.SeverityMild,
	}, monitor, nil)
	if err != nil {
		t.Fatalf("failed to seed scan: %v", err)
	}
	return res
}

func TestTabCycling(t *testing.T) {
	m, _ := setupTestModel(t)

	if m.state != StateDashboard {
		t.Fatalf("expected dashboard, got %d", m.state)
	}
	for i := 1; i <= tabCount; i++ {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if want := SessionState(i % tabCount); m.state != want {
			t.Errorf("after %d tabs expected state %d, got %d", i, want, m.state)
		}
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != StateProfile {
		t.Errorf("expected shift+tab to wrap to profile, got %d", m.state)
	}
}

func TestSampleRaisesAlert(t *testing.T) {
	m, tr := setupTestModel(t)

	prev := environment.Reading{Temperature: 30, Humidity: 60, SoilMoisture: 45, Light: 800}
	cur := prev
	cur.Temperature = 32

	m = send(t, m, SampleMsg{Prev: prev, Cur: cur})

	if m.reading.Temperature != 32 {
		t.Errorf("expected reading to follow the sample, got %v", m.reading.Temperature)
	}
	if m.dashboardModel.Reading.Temperature != 32 {
		t.Errorf("expected dashboard to show the sample, got %v", m.dashboardModel.Reading.Temperature)
	}
	stored := tr.Store().GetAlerts()
	if len(stored) != 1 || stored[0].Title != "Heat Warning" {
		t.Fatalf("expected one heat warning, got %+v", stored)
	}
	if m.alertsModel.Len() != 1 {
		t.Errorf("expected alerts tab to show 1 alert, got %d", m.alertsModel.Len())
	}

	// Staying above the threshold does not fire again.
	next := cur
	next.Temperature = 33
	m = send(t, m, SampleMsg{Prev: cur, Cur: next})
	if got := len(tr.Store().GetAlerts()); got != 1 {
		t.Errorf("expected edge-triggered alert, got %d alerts", got)
	}
}

func TestAlertsPanelShowsNewest(t *testing.T) {
	m, tr := setupTestModel(t)

	for i := 0; i < 12; i++ {
		if _, err := tr.RaiseAlert("Alert", "message", models.AlertInfo); err != nil {
			t.Fatalf("raise failed: %v", err)
		}
	}
	m.refresh()

	if got := m.alertsModel.Len(); got != constants.VisibleAlerts {
		t.Errorf("expected %d visible alerts, got %d", constants.VisibleAlerts, got)
	}

	m.state = StateAlerts
	m = press(t, m, runes("c"))
	if got := len(tr.Store().GetAlerts()); got != 0 {
		t.Errorf("expected alerts cleared, got %d", got)
	}
	if m.alertsModel.Len() != 0 {
		t.Errorf("expected empty alerts tab, got %d", m.alertsModel.Len())
	}
}

func TestDeleteScanConfirm(t *testing.T) {
	m, tr := setupTestModel(t)
	seedScan(t, tr, "Basil", false)
	m.refresh()
	m.state = StateHistory

	m = press(t, m, runes("d"))
	if m.state != StateConfirmDelete {
		t.Fatalf("expected confirm state, got %d", m.state)
	}
	if want := `Delete "Basil" from history?`; m.pending == nil || m.pending.title != want {
		t.Fatalf("expected prompt %q, got %+v", want, m.pending)
	}

	m = press(t, m, runes("n"))
	if m.state != StateHistory {
		t.Errorf("expected to return to history, got %d", m.state)
	}
	if len(tr.Store().GetScans()) != 1 {
		t.Fatal("expected scan kept after cancel")
	}

	m = press(t, m, runes("d"))
	m = press(t, m, runes("y"))
	if len(tr.Store().GetScans()) != 0 {
		t.Error("expected scan deleted after confirm")
	}
	if m.historyModel.Len() != 0 {
		t.Errorf("expected empty history, got %d", m.historyModel.Len())
	}
}

func TestArchiveScanFromHistory(t *testing.T) {
	m, tr := setupTestModel(t)
	seedScan(t, tr, "Basil", false)
	m.refresh()
	m.state = StateHistory

	m = press(t, m, runes("a"))
	scans := tr.Store().GetScans()
	if len(scans) != 1 || !scans[0].Archived {
		t.Fatalf("expected scan archived, got %+v", scans)
	}
	if m.historyModel.Len() != 0 {
		t.Errorf("expected archived scan hidden, got %d", m.historyModel.Len())
	}

	m = press(t, m, runes("v"))
	if !m.historyModel.ShowingArchived() || m.historyModel.Len() != 1 {
		t.Fatalf("expected archive view with 1 scan, got %d", m.historyModel.Len())
	}

	m = press(t, m, runes("a"))
	if tr.Store().GetScans()[0].Archived {
		t.Error("expected scan restored")
	}
}

func TestDeleteSessionConfirm(t *testing.T) {
	m, tr := setupTestModel(t)
	seedScan(t, tr, "Tomato", true)
	m.refresh()
	m.state = StateMonitoring

	m = press(t, m, runes("d"))
	if want := `Delete "Tomato" monitoring session?`; m.pending == nil || m.pending.title != want {
		t.Fatalf("expected prompt %q, got %+v", want, m.pending)
	}
	m = press(t, m, runes("y"))
	if len(tr.Store().GetSessions()) != 0 {
		t.Error("expected session deleted")
	}
	if m.state != StateMonitoring {
		t.Errorf("expected to return to monitoring, got %d", m.state)
	}
}

func TestArchiveSession(t *testing.T) {
	m, tr := setupTestModel(t)
	seedScan(t, tr, "Tomato", true)
	m.refresh()
	m.state = StateMonitoring

	m = press(t, m, runes("a"))
	sessions := tr.Store().GetSessions()
	if len(sessions) != 1 || sessions[0].Status != models.SessionArchived {
		t.Fatalf("expected archived session, got %+v", sessions)
	}
	if m.monitoringModel.Len() != 0 {
		t.Errorf("expected archived session hidden, got %d", m.monitoringModel.Len())
	}
}

func TestToggleLanguage(t *testing.T) {
	m, tr := setupTestModel(t)
	m.state = StateProfile

	m = press(t, m, runes("l"))
	stats := tr.Store().GetStats()
	if stats.Language != models.LanguageTagalog {
		t.Errorf("expected tl, got %q", stats.Language)
	}
	if m.dashboardModel.Language != models.LanguageTagalog {
		t.Errorf("expected dashboard tips in tl, got %q", m.dashboardModel.Language)
	}

	press(t, m, runes("l"))
	if got := tr.Store().GetStats().Language; got != models.LanguageEnglish {
		t.Errorf("expected en, got %q", got)
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupTestModel(t)

	next, cmd := m.Update(runes("q"))
	if !next.(Model).quitting {
		t.Error("expected quitting")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if next.(Model).View() != "" {
		t.Error("expected empty view after quit")
	}
}

func TestSamplesBridge(t *testing.T) {
	s := NewSamples()
	cur := environment.InitialReading()

	go s.Hook(environment.Reading{}, cur)

	msg, ok := s.wait()().(SampleMsg)
	if !ok {
		t.Fatal("expected SampleMsg")
	}
	if msg.Cur != cur {
		t.Errorf("expected %+v, got %+v", cur, msg.Cur)
	}

	s.Close()
	s.Close()

	done := make(chan struct{})
	go func() {
		s.Hook(cur, cur)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Hook blocked after Close")
	}
	if out := s.wait()(); out != nil {
		t.Errorf("expected nil message after Close, got %v", out)
	}
}
