package tui

import (
	"github.com/rebarvista/vista/internal/device"
	"github.com/rebarvista/vista/internal/push"
)

// PushMsg wraps a push-channel event for the Bubble Tea message loop.
// Injected from the listener goroutine via Program.Send.
type PushMsg struct {
	Event push.Event
}

// PushLostMsg signals that the push channel dropped. The dashboard
// keeps working off the periodic poll; the listener is redialed.
type PushLostMsg struct {
	Err error
}

// pollTickMsg fires the fixed-interval connection status poll.
type pollTickMsg struct{}

// statusMsg carries a connection_status poll result.
type statusMsg struct {
	connected bool
	err       error
}

// latestMsg carries a latest-data response under its refresh token.
type latestMsg struct {
	token uint64
	data  *device.LatestData
	err   error
}

// imageMsg carries a fetched image payload under its refresh token.
type imageMsg struct {
	token uint64
	img   []byte
	err   error
}

// captureCmdMsg carries the outcome of the capture command request.
type captureCmdMsg struct {
	id  uint64
	err error
}

// resultDueMsg fires after the fixed result delay to pick up the
// asynchronously produced capture result.
type resultDueMsg struct {
	id uint64
}

// watchExpiredMsg closes a capture's watch window.
type watchExpiredMsg struct {
	id uint64
}

// settingsLoadedMsg carries the device settings fetched at startup.
type settingsLoadedMsg struct {
	settings *device.Settings
	err      error
}

// settingsSavedMsg carries the outcome of a settings submit.
type settingsSavedMsg struct {
	saved device.Settings
	err   error
}

// exportDoneMsg carries the outcome of an export operation.
type exportDoneMsg struct {
	path string
	err  error
}

// noticeExpiredMsg auto-dismisses the status message it was scheduled for.
type noticeExpiredMsg struct {
	id int
}
