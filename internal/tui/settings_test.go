package tui

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebarvista/vista/internal/device"
	"github.com/rebarvista/vista/internal/session"
)

func openSettings(t *testing.T, m Model) Model {
	t.Helper()
	m.State().SetSettings(device.Settings{DetectionThreshold: 0.7, CameraEnabled: true})
	m, _ = pressKey(t, m, "s")
	if m.activePane != PaneSettings {
		t.Fatal("settings pane did not open")
	}
	return m
}

func TestSettingsFormPopulatesFromCache(t *testing.T) {
	m, srv := testModel(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	m = openSettings(t, m)

	if m.form.threshold != 0.7 || !m.form.camera {
		t.Errorf("form not populated from cache: %+v", m.form)
	}
	if m.form.dirty {
		t.Error("freshly opened form must not be dirty")
	}
}

func TestThresholdAdjustClampsToRange(t *testing.T) {
	m, srv := testModel(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	m = openSettings(t, m)

	// Walk far past the upper bound.
	for i := 0; i < 10; i++ {
		m, _ = pressKey(t, m, "right")
	}
	if m.form.threshold != device.ThresholdMax {
		t.Errorf("expected clamp at %v, got %v", device.ThresholdMax, m.form.threshold)
	}

	// And past the lower bound.
	for i := 0; i < 30; i++ {
		m, _ = pressKey(t, m, "left")
	}
	if m.form.threshold != device.ThresholdMin {
		t.Errorf("expected clamp at %v, got %v", device.ThresholdMin, m.form.threshold)
	}
	if !m.form.dirty {
		t.Error("adjustments must mark the form dirty")
	}
}

// Dragging the threshold produces no network traffic; only submit does.
func TestAdjustingDoesNotTouchNetwork(t *testing.T) {
	requests := 0
	m, srv := testModel(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	m = openSettings(t, m)
	m, _ = pressKey(t, m, "right")
	m, _ = pressKey(t, m, "left")
	m, _ = pressKey(t, m, "c")

	if requests != 0 {
		t.Errorf("expected no requests while adjusting, saw %d", requests)
	}
}

func TestSubmitSendsBothFields(t *testing.T) {
	var got device.Settings
	m, srv := testModel(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/set_config" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	m = openSettings(t, m)
	m, _ = pressKey(t, m, "right") // 0.75
	m, _ = pressKey(t, m, "c")     // camera off

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("submit must produce a save command")
	}

	updated, _ = m.Update(cmd())
	m = updated.(Model)

	if got.DetectionThreshold != 0.75 || got.CameraEnabled {
		t.Errorf("unexpected payload: %+v", got)
	}

	// Success: generic notice, back on the dashboard, cache updated.
	n, ok := m.State().Notice()
	if !ok || n.Level != session.NoticeInfo {
		t.Errorf("expected success notice, got %+v ok=%v", n, ok)
	}
	if m.activePane != PaneDashboard {
		t.Error("successful save must return to the dashboard")
	}
	cached, _ := m.State().Settings()
	if cached.DetectionThreshold != 0.75 {
		t.Errorf("cache not updated: %+v", cached)
	}
}

func TestSubmitFailureIncludesServerReason(t *testing.T) {
	m, srv := testModel(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "threshold out of range"}`))
	}))
	defer srv.Close()

	m = openSettings(t, m)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	n, ok := m.State().Notice()
	if !ok || n.Level != session.NoticeError {
		t.Fatalf("expected error notice, got %+v ok=%v", n, ok)
	}
	if !strings.Contains(n.Text, "threshold out of range") {
		t.Errorf("server reason missing from notice: %q", n.Text)
	}
}

func TestEscClosesSettings(t *testing.T) {
	m, srv := testModel(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	m = openSettings(t, m)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.activePane != PaneDashboard {
		t.Error("esc must return to the dashboard")
	}
}
