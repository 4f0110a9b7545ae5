package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebarvista/vista/internal/config"
	"github.com/rebarvista/vista/internal/device"
	"github.com/rebarvista/vista/internal/export"
	"github.com/rebarvista/vista/internal/push"
	"github.com/rebarvista/vista/internal/session"
	"github.com/rebarvista/vista/pkg/timeutil"
)

// Pane represents which screen is active.
type Pane int

const (
	PaneDashboard Pane = iota
	PaneSettings
)

// noticeTTL is how long status messages stay on screen before
// auto-expiring.
const noticeTTL = 4 * time.Second

// Model is the root Bubble Tea model for the Vista dashboard.
// All mutable dashboard state lives in the session controller; the
// model adds only UI concerns (active pane, form scratch values,
// spinner, layout). Rendering is delegated to component functions in
// separate files.
type Model struct {
	cfg    *config.Config
	client *device.Client
	state  *session.State

	activePane Pane
	form       settingsForm
	spin       spinner.Model

	width  int
	height int

	// noticeID invalidates pending auto-expiry timers when a newer
	// notice replaces an older one.
	noticeID int
}

// NewModel creates the dashboard model.
func NewModel(cfg *config.Config, client *device.Client) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorBlue)

	return Model{
		cfg:    cfg,
		client: client,
		state:  session.NewState(),
		spin:   sp,
	}
}

// State exposes the session controller, used by the push bridge and tests.
func (m Model) State() *session.State { return m.state }

// ────────────────────────────────────────────────────────────
// Init
// ────────────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	token := m.state.BeginRefresh()
	return tea.Batch(
		m.fetchLatest(token),
		m.loadSettings(),
		m.pollTick(),
		m.spin.Tick,
	)
}

// ────────────────────────────────────────────────────────────
// Commands
// ────────────────────────────────────────────────────────────

func (m Model) fetchLatest(token uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.RequestTimeout)
		defer cancel()
		data, err := m.client.LatestData(ctx)
		return latestMsg{token: token, data: data, err: err}
	}
}

func (m Model) fetchImage(token uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.RequestTimeout)
		defer cancel()
		img, err := m.client.LatestImage(ctx)
		return imageMsg{token: token, img: img, err: err}
	}
}

func (m Model) triggerCapture(id uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.RequestTimeout)
		defer cancel()
		return captureCmdMsg{id: id, err: m.client.TriggerCapture(ctx)}
	}
}

func (m Model) loadSettings() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.RequestTimeout)
		defer cancel()
		s, err := m.client.GetConfig(ctx)
		return settingsLoadedMsg{settings: s, err: err}
	}
}

func (m Model) saveSettings(s device.Settings) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.RequestTimeout)
		defer cancel()
		return settingsSavedMsg{saved: s, err: m.client.SetConfig(ctx, s)}
	}
}

func (m Model) pollStatus() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.RequestTimeout)
		defer cancel()
		connected, err := m.client.ConnectionStatus(ctx)
		return statusMsg{connected: connected, err: err}
	}
}

func (m Model) pollTick() tea.Cmd {
	return tea.Tick(m.cfg.PollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (m Model) resultDue(id uint64) tea.Cmd {
	return tea.Tick(m.cfg.ResultDelay, func(time.Time) tea.Msg {
		return resultDueMsg{id: id}
	})
}

func (m Model) watchExpiry(id uint64) tea.Cmd {
	return tea.Tick(m.cfg.WatchWindow, func(time.Time) tea.Msg {
		return watchExpiredMsg{id: id}
	})
}

func (m Model) expireNotice(id int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

// notify sets a status message and schedules its auto-expiry.
func (m *Model) notify(level session.NoticeLevel, text string) tea.Cmd {
	m.state.SetNotice(level, text)
	m.noticeID++
	return m.expireNotice(m.noticeID)
}

// keepNotice schedules expiry for a notice the session controller
// already set (capture failures, timeouts).
func (m *Model) keepNotice() tea.Cmd {
	m.noticeID++
	return m.expireNotice(m.noticeID)
}

// ────────────────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case pollTickMsg:
		// Strictly periodic, no backoff: reschedule regardless of
		// what the probe returns.
		return m, tea.Batch(m.pollStatus(), m.pollTick())

	case statusMsg:
		if msg.err != nil {
			m.state.UpdateConnection(false)
		} else {
			m.state.UpdateConnection(msg.connected)
		}
		return m, nil

	case PushMsg:
		return m.handlePush(msg.Event)

	case PushLostMsg:
		// Display degrades silently; the 30s poll keeps the
		// connection flag honest until the bridge redials.
		return m, nil

	case latestMsg:
		if msg.err != nil {
			m.state.RefreshFailed(msg.token)
			return m, nil
		}
		if !m.state.ApplyLatest(msg.token, msg.data) {
			return m, nil
		}
		if msg.data.HasImage {
			return m, m.fetchImage(msg.token)
		}
		return m, nil

	case imageMsg:
		if msg.err != nil {
			// Image area stays on the placeholder.
			return m, nil
		}
		m.state.ApplyImage(msg.token, msg.img)
		return m, nil

	case captureCmdMsg:
		if msg.err != nil {
			var devErr *device.DeviceError
			if errors.As(msg.err, &devErr) {
				m.state.CaptureFailed(msg.id, devErr.Message)
			} else {
				m.state.UpdateConnection(false)
				m.state.CaptureFailed(msg.id, msg.err.Error())
			}
			return m, m.keepNotice()
		}
		if !m.state.CaptureAccepted(msg.id) {
			return m, nil
		}
		return m, tea.Batch(m.resultDue(msg.id), m.watchExpiry(msg.id))

	case resultDueMsg:
		if !m.state.CaptureActive(msg.id) {
			return m, nil
		}
		token := m.state.BeginRefresh()
		return m, m.fetchLatest(token)

	case watchExpiredMsg:
		if m.state.ResolveCapture(msg.id) {
			return m, m.keepNotice()
		}
		return m, nil

	case settingsLoadedMsg:
		if msg.err == nil && msg.settings != nil {
			m.state.SetSettings(*msg.settings)
			if m.activePane == PaneSettings && !m.form.dirty {
				m.form.populate(*msg.settings)
			}
		}
		return m, nil

	case settingsSavedMsg:
		m.form.saving = false
		if msg.err != nil {
			return m, m.notify(session.NoticeError, "Failed to update settings: "+msg.err.Error())
		}
		m.state.SetSettings(msg.saved)
		m.activePane = PaneDashboard
		return m, m.notify(session.NoticeInfo, "Settings updated")

	case exportDoneMsg:
		if msg.err != nil {
			return m, m.notify(session.NoticeWarn, "Export failed: "+msg.err.Error())
		}
		return m, m.notify(session.NoticeInfo, "Exported "+msg.path)

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.state.ClearNotice()
		}
		return m, nil
	}

	return m, nil
}

// handlePush routes push-channel events into the same state-update
// paths the poll and fetches use.
func (m Model) handlePush(ev push.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case push.KindConnection:
		m.state.UpdateConnection(ev.Connected)
		return m, nil

	case push.KindNewData:
		token := m.state.BeginRefresh()
		return m, m.fetchLatest(token)

	case push.KindError:
		m.state.UpdateConnection(false)
		return m, m.notify(session.NoticeError, ev.Message)
	}
	return m, nil
}

// handleKey routes keyboard input based on the active pane.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// ── Global ──

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	if m.activePane == PaneSettings {
		return m.handleSettingsKey(key)
	}

	// ── Dashboard ──

	switch key {
	case "r":
		token := m.state.BeginRefresh()
		return m, m.fetchLatest(token)

	case "t", " ":
		id, err := m.state.BeginCapture()
		if err != nil {
			// Precondition failure: warn, no network call.
			return m, m.notify(session.NoticeWarn, captureGuardMessage(err))
		}
		return m, m.triggerCapture(id)

	case "s":
		m.activePane = PaneSettings
		m.form = settingsForm{}
		if cached, ok := m.state.Settings(); ok {
			m.form.populate(cached)
		}
		return m, nil

	case "e":
		return m.exportCSV()

	case "i":
		return m.exportImage()

	case "p":
		return m.exportReport()

	case "esc":
		m.state.ClearNotice()
		return m, nil
	}

	return m, nil
}

func captureGuardMessage(err error) string {
	switch {
	case errors.Is(err, session.ErrNotConnected):
		return "Cannot capture: device is not connected"
	case errors.Is(err, session.ErrCaptureBusy):
		return "Capture already in progress"
	default:
		return err.Error()
	}
}

// ────────────────────────────────────────────────────────────
// Exports
// ────────────────────────────────────────────────────────────

func (m Model) exportCSV() (tea.Model, tea.Cmd) {
	rows := m.state.Rows()
	if len(rows) == 0 {
		return m, m.notify(session.NoticeWarn, "No segment data to export")
	}

	total := m.state.TotalText()
	dir := m.cfg.ExportDir
	return m, func() tea.Msg {
		path, err := export.WriteCSV(dir, time.Now(), rows, total)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m Model) exportImage() (tea.Model, tea.Cmd) {
	rows := m.state.Rows()
	if len(rows) == 0 {
		return m, m.notify(session.NoticeWarn, "No segment data to export")
	}
	if !m.state.HasImage() {
		return m, m.notify(session.NoticeWarn, "No image loaded")
	}

	img := m.state.Image()
	dir := m.cfg.ExportDir
	return m, func() tea.Msg {
		path, err := export.WriteImage(dir, time.Now(), rows, img)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m Model) exportReport() (tea.Model, tea.Cmd) {
	rows := m.state.Rows()
	if len(rows) == 0 {
		return m, m.notify(session.NoticeWarn, "No segment data to export")
	}

	rep := export.Report{
		CaptureLabel: timeutil.FormatCaptureStamp(m.state.Timestamp()),
		GeneratedAt:  time.Now(),
		Rows:         rows,
		TotalLabel:   m.state.TotalLabel(),
		Image:        m.state.Image(),
	}
	dir := m.cfg.ExportDir
	return m, func() tea.Msg {
		path, err := export.WriteReport(dir, rep)
		return exportDoneMsg{path: path, err: err}
	}
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Connecting..."
	}

	header := renderHeader(&m)
	footer := renderFooter(&m)

	bodyHeight := m.height - 2 // header + footer

	var body string
	if m.activePane == PaneSettings {
		body = renderSettings(&m, bodyHeight)
	} else {
		body = renderDashboard(&m, bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
