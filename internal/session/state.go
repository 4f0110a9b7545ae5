// Package session owns the dashboard's mutable state: the connection
// flag, the currently displayed capture session, the cached device
// settings and the capture workflow phase.
//
// All state lives in one State object owned by a single event loop
// (the TUI's Update function or a CLI command); render code reads it
// through accessors and never mutates. Connection changes from the
// periodic poll, the push channel and failed fetches all funnel
// through one transition method so there is a single consistent path.
//
// Every refresh takes a monotonically increasing sequence token.
// Responses and timers carry the token they were issued under and are
// dropped when it no longer matches, so a stale callback can never
// overwrite fresher state.
package session

import (
	"fmt"

	"github.com/rebarvista/vista/internal/device"
)

// Connection is the tri-state link status. It starts Unknown on every
// process start and becomes a plain online/offline boolean after the
// first poll, push event or fetch.
type Connection int

const (
	ConnUnknown Connection = iota
	ConnOnline
	ConnOffline
)

// Row is one rendered volume-table row. Exports serialize these
// display strings, not the underlying floats, so files always match
// what the user saw on screen.
type Row struct {
	Section string
	Volume  string
	Width   string
	Length  string
	Height  string
}

// NoticeLevel classifies a user-visible status message.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarn
	NoticeError
)

// Notice is a dismissable user-visible message.
type Notice struct {
	Level NoticeLevel
	Text  string
}

// State is the dashboard state controller.
type State struct {
	conn Connection

	// Displayed capture session. Replaced wholesale on refresh,
	// never merged.
	timestamp   string
	segments    []device.Segment
	totalVolume float64
	imageFlag   bool
	image       []byte

	// Cached device settings, for form display only.
	settings    device.Settings
	settingsSet bool

	// Refresh sequencing.
	seq uint64

	// Capture workflow (capture.go).
	phase       Phase
	captureID   uint64
	imageMark   uint64
	captureMark uint64

	notice    Notice
	noticeSet bool
}

// NewState returns a State in the initial "connecting" condition with
// no session data displayed.
func NewState() *State {
	return &State{conn: ConnUnknown}
}

// ── connection ──

// Connection returns the current link status.
func (s *State) Connection() Connection { return s.conn }

// Connected reports whether the device link is up.
func (s *State) Connected() bool { return s.conn == ConnOnline }

// UpdateConnection is the single transition path for the connection
// flag. The status poll, push-channel events and failed fetches all
// route through here.
func (s *State) UpdateConnection(connected bool) {
	if connected {
		s.conn = ConnOnline
	} else {
		s.conn = ConnOffline
	}
}

// ── refresh ──

// BeginRefresh clears the displayed session and issues a new sequence
// token. The display stays cleared until a response carrying this
// token arrives, so stale data is never shown during a fetch.
func (s *State) BeginRefresh() uint64 {
	s.timestamp = ""
	s.segments = nil
	s.totalVolume = 0
	s.imageFlag = false
	s.image = nil

	s.seq++
	return s.seq
}

// ApplyLatest installs a latest-data response. Responses issued under
// an older token are dropped; the return value reports whether the
// response was applied.
func (s *State) ApplyLatest(token uint64, data *device.LatestData) bool {
	if token != s.seq {
		return false
	}

	s.UpdateConnection(data.Connected)
	s.timestamp = data.Timestamp
	s.segments = data.Segments
	s.totalVolume = data.TotalVolume
	s.imageFlag = data.HasImage
	return true
}

// ApplyImage installs a fetched image payload for the current token.
func (s *State) ApplyImage(token uint64, img []byte) bool {
	if token != s.seq {
		return false
	}

	s.image = img
	s.imageMark++
	return true
}

// RefreshFailed records a transport failure for the given token. The
// device is marked disconnected and the display stays cleared.
func (s *State) RefreshFailed(token uint64) bool {
	if token != s.seq {
		return false
	}

	s.UpdateConnection(false)
	return true
}

// ── displayed session ──

// Timestamp returns the raw device timestamp of the displayed session,
// or "" when none is shown.
func (s *State) Timestamp() string { return s.timestamp }

// Segments returns the displayed segments.
func (s *State) Segments() []device.Segment { return s.segments }

// PanelVisible reports whether the volume table panel should be shown.
func (s *State) PanelVisible() bool { return len(s.segments) > 0 }

// ImageExpected reports whether the device flagged an image as
// available for the displayed session.
func (s *State) ImageExpected() bool { return s.imageFlag }

// HasImage reports whether an image payload is currently held.
func (s *State) HasImage() bool { return len(s.image) > 0 }

// Image returns the held JPEG payload, nil when none.
func (s *State) Image() []byte { return s.image }

// Rows returns the volume table as rendered display strings, one per
// segment, all numerics with exactly two decimals.
func (s *State) Rows() []Row {
	rows := make([]Row, 0, len(s.segments))
	for _, seg := range s.segments {
		rows = append(rows, Row{
			Section: fmt.Sprintf("%d", seg.SectionID),
			Volume:  fmt.Sprintf("%.2f", seg.VolumeCc),
			Width:   fmt.Sprintf("%.2f", seg.WidthCm),
			Length:  fmt.Sprintf("%.2f", seg.LengthCm),
			Height:  fmt.Sprintf("%.2f", seg.HeightCm),
		})
	}
	return rows
}

// TotalText returns the displayed total volume formatted to two
// decimals. This is always the device-supplied total, never a sum
// recomputed from the rows.
func (s *State) TotalText() string {
	return fmt.Sprintf("%.2f", s.totalVolume)
}

// TotalLabel returns the on-screen total volume label.
func (s *State) TotalLabel() string {
	return fmt.Sprintf("Total Volume: %s cc", s.TotalText())
}

// ── settings cache ──

// SetSettings caches the device settings for form display.
func (s *State) SetSettings(cfg device.Settings) {
	s.settings = cfg
	s.settingsSet = true
}

// Settings returns the cached settings and whether they were loaded.
func (s *State) Settings() (device.Settings, bool) {
	return s.settings, s.settingsSet
}

// ── notices ──

// SetNotice replaces the current user-visible message.
func (s *State) SetNotice(level NoticeLevel, text string) {
	s.notice = Notice{Level: level, Text: text}
	s.noticeSet = true
}

// Notice returns the current message and whether one is set.
func (s *State) Notice() (Notice, bool) {
	return s.notice, s.noticeSet
}

// ClearNotice dismisses the current message.
func (s *State) ClearNotice() {
	s.notice = Notice{}
	s.noticeSet = false
}
