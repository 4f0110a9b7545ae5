package session

import "errors"

// Phase is the capture workflow state. Terminal outcomes (success,
// timeout, failure) revert to PhaseIdle immediately after recording
// their notice, so only the live phases are represented.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRequesting
	PhaseAwaitingResult
)

// ErrNotConnected rejects a capture attempt while the device link is
// down. No network request is made.
var ErrNotConnected = errors.New("device is not connected")

// ErrCaptureBusy rejects a capture attempt while one is in flight.
var ErrCaptureBusy = errors.New("a capture is already in progress")

// Phase returns the current capture workflow phase.
func (s *State) Phase() Phase { return s.phase }

// CaptureBusy reports whether a capture is in flight.
func (s *State) CaptureBusy() bool { return s.phase != PhaseIdle }

// CanCapture reports whether the trigger control should be enabled.
func (s *State) CanCapture() bool { return s.Connected() && !s.CaptureBusy() }

// BeginCapture starts the capture workflow and returns its id. The
// guard runs before any network activity: disconnected or busy
// attempts are rejected with no state change beyond the error.
//
// The image area is cleared so the result can be observed arriving,
// and the current image-arrival mark is recorded; ResolveCapture
// later compares against it instead of inspecting display state, so
// timeout detection cannot be fooled by an unrelated placeholder
// reset.
func (s *State) BeginCapture() (uint64, error) {
	if !s.Connected() {
		return 0, ErrNotConnected
	}
	if s.CaptureBusy() {
		return 0, ErrCaptureBusy
	}

	s.phase = PhaseRequesting
	s.image = nil
	s.captureMark = s.imageMark
	s.captureID++
	s.ClearNotice()
	return s.captureID, nil
}

// CaptureAccepted records that the device accepted the capture
// command. The result is produced asynchronously; the caller schedules
// a delayed refresh and, later, ResolveCapture.
func (s *State) CaptureAccepted(id uint64) bool {
	if id != s.captureID || s.phase != PhaseRequesting {
		return false
	}
	s.phase = PhaseAwaitingResult
	return true
}

// CaptureActive reports whether the given capture id is the current
// one and still awaiting its result. Timer callbacks check this before
// acting so leftover timers from superseded captures do nothing.
func (s *State) CaptureActive(id uint64) bool {
	return id == s.captureID && s.phase == PhaseAwaitingResult
}

// CaptureFailed records a rejected or failed capture command. The
// message is the device's own wording, surfaced verbatim, and the
// trigger control is re-enabled.
func (s *State) CaptureFailed(id uint64, message string) bool {
	if id != s.captureID {
		return false
	}
	s.phase = PhaseIdle
	s.SetNotice(NoticeError, "Capture failed: "+message)
	return true
}

// ResolveCapture closes the watch window for the given capture. If an
// image arrived since the capture began it is a success; otherwise the
// timeout is surfaced. A later, delayed result may still overwrite the
// display through the normal refresh path — the timeout is a warning,
// not a cancellation. Stale ids are ignored.
func (s *State) ResolveCapture(id uint64) bool {
	if id != s.captureID || s.phase != PhaseAwaitingResult {
		return false
	}

	s.phase = PhaseIdle
	if s.imageMark > s.captureMark {
		s.SetNotice(NoticeInfo, "Capture complete")
	} else {
		s.SetNotice(NoticeWarn, "Capture timed out waiting for a result")
	}
	return true
}
