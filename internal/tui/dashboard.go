package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebarvista/vista/internal/session"
	"github.com/rebarvista/vista/pkg/timeutil"
)

// renderDashboard assembles the two-panel dashboard view.
func renderDashboard(m *Model, totalHeight int) string {
	// Responsive: stack vertically on narrow terminals.
	if m.width < 70 {
		table := renderTablePanel(m, m.width, totalHeight/2)
		capture := renderCapturePanel(m, m.width, totalHeight-totalHeight/2)
		return lipgloss.JoinVertical(lipgloss.Left, table, capture)
	}

	leftWidth := m.width * 55 / 100
	rightWidth := m.width - leftWidth

	table := renderTablePanel(m, leftWidth, totalHeight)
	capture := renderCapturePanel(m, rightWidth, totalHeight)

	return lipgloss.JoinHorizontal(lipgloss.Top, table, capture)
}

// renderTablePanel renders the per-segment volume table. The panel is
// replaced by an empty-state hint when no session is displayed.
func renderTablePanel(m *Model, width, height int) string {
	title := panelTitleStyle.Render("Volume Analysis")

	var lines []string
	lines = append(lines, title)
	lines = append(lines, "")

	if !m.state.PanelVisible() {
		lines = append(lines, emptyStateStyle.Render(
			"No analysis results yet.\n\nPress t to trigger a capture."))
	} else {
		lines = append(lines, tableHeaderStyle.Render(fmt.Sprintf(
			"%-12s %12s %11s %12s %12s",
			"Segment No.", "Volume (cc)", "Width (cm)", "Length (cm)", "Height (cm)")))

		for _, r := range m.state.Rows() {
			lines = append(lines, tableRowStyle.Render(fmt.Sprintf(
				"%-12s %12s %11s %12s %12s",
				r.Section, r.Volume, r.Width, r.Length, r.Height)))
		}

		lines = append(lines, "")
		lines = append(lines, tableTotalStyle.Render(m.state.TotalLabel()))
	}

	if len(lines) > height-2 && height > 2 {
		lines = lines[:height-2]
	}

	return panelStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

// renderCapturePanel renders capture status, image state and settings
// summary.
func renderCapturePanel(m *Model, width, height int) string {
	title := panelTitleStyle.Render("Capture")

	var lines []string
	lines = append(lines, title)
	lines = append(lines, "")

	// ── Workflow status ──

	switch m.state.Phase() {
	case session.PhaseRequesting:
		lines = append(lines, m.spin.View()+detailDimStyle.Render(" Requesting capture..."))
	case session.PhaseAwaitingResult:
		lines = append(lines, m.spin.View()+detailDimStyle.Render(" Analyzing..."))
	default:
		if m.state.CanCapture() {
			lines = append(lines, detailDimStyle.Render("Ready. Press t to capture."))
		} else {
			lines = append(lines, detailDimStyle.Render("Capture unavailable while disconnected."))
		}
	}
	lines = append(lines, "")

	// ── Session metadata ──

	if ts := m.state.Timestamp(); ts != "" {
		lines = append(lines, detailRow("Captured", timeutil.FormatCaptureStamp(ts)))
		if at, err := timeutil.ParseCaptureStamp(ts); err == nil {
			lines = append(lines, detailRow("Age", timeutil.RelativeTime(at)))
		}
		lines = append(lines, detailRow("Segments", fmt.Sprintf("%d", len(m.state.Segments()))))
	}

	// ── Image state ──

	lines = append(lines, "")
	switch {
	case m.state.HasImage():
		lines = append(lines, detailRow("Image",
			fmt.Sprintf("loaded (%.1f KB)", float64(len(m.state.Image()))/1024)))
		lines = append(lines, detailDimStyle.Render("Press i to export the JPEG."))
	case m.state.ImageExpected():
		lines = append(lines, detailRow("Image", "fetching..."))
	default:
		lines = append(lines, detailRow("Image", "none"))
	}

	// ── Device settings summary ──

	if cfg, ok := m.state.Settings(); ok {
		lines = append(lines, "")
		lines = append(lines, detailRow("Threshold", fmt.Sprintf("%.2f", cfg.DetectionThreshold)))
		lines = append(lines, detailRow("Camera", onOff(cfg.CameraEnabled)))
	}

	if len(lines) > height-2 && height > 2 {
		lines = lines[:height-2]
	}

	return panelStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

// ── helpers ──

func detailRow(label, value string) string {
	return detailLabelStyle.Render(fmt.Sprintf("%-10s", label)) + detailValueStyle.Render(value)
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
