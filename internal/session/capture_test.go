package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/rebarvista/vista/internal/device"
)

func onlineState() *State {
	s := NewState()
	s.UpdateConnection(true)
	return s
}

func TestBeginCaptureRejectedWhileDisconnected(t *testing.T) {
	s := NewState()

	_, err := s.BeginCapture()
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if s.Phase() != PhaseIdle {
		t.Error("rejected capture must leave the workflow idle")
	}
}

func TestBeginCaptureRejectedWhileBusy(t *testing.T) {
	s := onlineState()

	if _, err := s.BeginCapture(); err != nil {
		t.Fatalf("first capture rejected: %v", err)
	}
	if _, err := s.BeginCapture(); !errors.Is(err, ErrCaptureBusy) {
		t.Fatalf("expected ErrCaptureBusy, got %v", err)
	}
}

func TestCaptureCommandFailureSurfacesMessage(t *testing.T) {
	s := onlineState()

	id, err := s.BeginCapture()
	if err != nil {
		t.Fatalf("BeginCapture failed: %v", err)
	}

	if !s.CaptureFailed(id, "camera busy") {
		t.Fatal("failure for current capture must apply")
	}

	n, ok := s.Notice()
	if !ok || !strings.Contains(n.Text, "camera busy") {
		t.Errorf("expected verbatim device message in notice, got %+v", n)
	}
	if n.Level != NoticeError {
		t.Errorf("expected error level, got %v", n.Level)
	}
	if s.Phase() != PhaseIdle || !s.CanCapture() {
		t.Error("trigger must be re-enabled after a failed command")
	}
}

func TestCaptureTimesOutWithoutImage(t *testing.T) {
	s := onlineState()

	id, _ := s.BeginCapture()
	s.CaptureAccepted(id)

	if !s.ResolveCapture(id) {
		t.Fatal("watch-window expiry for current capture must apply")
	}

	n, ok := s.Notice()
	if !ok || n.Level != NoticeWarn || !strings.Contains(n.Text, "timed out") {
		t.Errorf("expected timeout warning, got %+v ok=%v", n, ok)
	}
	if s.Phase() != PhaseIdle {
		t.Error("timeout must revert to idle")
	}
}

func TestCaptureSucceedsWhenImageArrives(t *testing.T) {
	s := onlineState()

	id, _ := s.BeginCapture()
	s.CaptureAccepted(id)

	// Delayed refresh picks up the produced result.
	token := s.BeginRefresh()
	s.ApplyLatest(token, &device.LatestData{
		Connected: true, Timestamp: "20240115-150000",
		Segments:  []device.Segment{{SectionID: 1, VolumeCc: 4}},
		HasImage:  true, TotalVolume: 4,
	})
	s.ApplyImage(token, []byte{0xff, 0xd8})

	s.ResolveCapture(id)

	n, ok := s.Notice()
	if !ok || n.Level != NoticeInfo {
		t.Errorf("expected success notice, got %+v ok=%v", n, ok)
	}
}

// Timeout detection tracks image arrival explicitly, so clearing the
// image area back to the placeholder (an unrelated refresh) must not
// turn a received result into a timeout, and a stale image must not
// turn a timeout into a success.
func TestTimeoutDetectionNotFooledByPlaceholderReset(t *testing.T) {
	s := onlineState()

	id, _ := s.BeginCapture()
	s.CaptureAccepted(id)

	token := s.BeginRefresh()
	s.ApplyLatest(token, &device.LatestData{Connected: true, HasImage: true})
	s.ApplyImage(token, []byte{0xff, 0xd8})

	// An unrelated refresh resets the image area to the placeholder
	// before the watch window closes.
	s.BeginRefresh()
	if s.HasImage() {
		t.Fatal("placeholder reset expected")
	}

	s.ResolveCapture(id)

	n, _ := s.Notice()
	if n.Level == NoticeWarn {
		t.Error("result arrived in time; placeholder reset must not cause a timeout")
	}
}

func TestStaleImageDoesNotCountAsArrival(t *testing.T) {
	s := onlineState()

	id, _ := s.BeginCapture()
	s.CaptureAccepted(id)

	// A refresh supersedes the token, then the old image lands late.
	old := s.BeginRefresh()
	s.BeginRefresh()
	if s.ApplyImage(old, []byte{0xff, 0xd8}) {
		t.Fatal("stale image must be dropped")
	}

	s.ResolveCapture(id)

	n, _ := s.Notice()
	if n.Level != NoticeWarn {
		t.Errorf("expected timeout, got %+v", n)
	}
}

func TestStaleCaptureCallbacksIgnored(t *testing.T) {
	s := onlineState()

	first, _ := s.BeginCapture()
	s.CaptureFailed(first, "camera busy")
	s.ClearNotice()

	second, _ := s.BeginCapture()
	s.CaptureAccepted(second)

	// Leftover timers from the first capture fire late.
	if s.CaptureAccepted(first) {
		t.Error("stale accept must be ignored")
	}
	if s.CaptureFailed(first, "old failure") {
		t.Error("stale failure must be ignored")
	}
	if s.ResolveCapture(first) {
		t.Error("stale watch-window expiry must be ignored")
	}

	if s.Phase() != PhaseAwaitingResult {
		t.Error("current capture must be unaffected by stale callbacks")
	}
	if _, ok := s.Notice(); ok {
		t.Error("stale callbacks must not set notices")
	}
}

func TestCanCapture(t *testing.T) {
	s := NewState()
	if s.CanCapture() {
		t.Error("capture must be disabled while connection is unknown")
	}

	s.UpdateConnection(true)
	if !s.CanCapture() {
		t.Error("capture must be enabled when connected and idle")
	}

	s.BeginCapture()
	if s.CanCapture() {
		t.Error("capture must be disabled while busy")
	}
}
