package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebarvista/vista/internal/device"
)

// settingsForm holds the scratch values of the settings pane. Nothing
// touches the network while the user adjusts them; only an explicit
// submit sends the update.
type settingsForm struct {
	threshold float64
	camera    bool
	dirty     bool
	saving    bool
}

// populate fills the form from the cached device settings.
func (f *settingsForm) populate(s device.Settings) {
	f.threshold = device.NormalizeThreshold(s.DetectionThreshold)
	f.camera = s.CameraEnabled
	f.dirty = false
}

// handleSettingsKey processes keys while the settings pane is active.
func (m Model) handleSettingsKey(key string) (tea.Model, tea.Cmd) {
	if m.form.saving {
		return m, nil
	}

	switch key {
	case "left", "h":
		m.form.threshold = device.NormalizeThreshold(m.form.threshold - device.ThresholdStep)
		m.form.dirty = true
		return m, nil

	case "right", "l":
		m.form.threshold = device.NormalizeThreshold(m.form.threshold + device.ThresholdStep)
		m.form.dirty = true
		return m, nil

	case "c":
		m.form.camera = !m.form.camera
		m.form.dirty = true
		return m, nil

	case "enter":
		m.form.saving = true
		return m, m.saveSettings(device.Settings{
			DetectionThreshold: m.form.threshold,
			CameraEnabled:      m.form.camera,
		})

	case "esc":
		m.activePane = PaneDashboard
		return m, nil
	}

	return m, nil
}

// renderSettings renders the settings pane. The threshold label
// mirrors the slider live as it is adjusted.
func renderSettings(m *Model, height int) string {
	title := panelTitleStyle.Render("Device Settings")

	var lines []string
	lines = append(lines, title)
	lines = append(lines, "")

	if _, ok := m.state.Settings(); !ok {
		lines = append(lines, emptyStateStyle.Render(
			"Settings not loaded from the device yet."))
	}

	lines = append(lines, formLabelStyle.Render("Detection threshold")+
		"  "+formValueStyle.Render(fmt.Sprintf("%.2f", m.form.threshold)))
	lines = append(lines, renderSlider(m.form.threshold, 30))
	lines = append(lines, "")
	lines = append(lines, formLabelStyle.Render("Camera")+
		"  "+formValueStyle.Render(onOff(m.form.camera)))
	lines = append(lines, "")

	if m.form.saving {
		lines = append(lines, m.spin.View()+formHintStyle.Render(" Saving..."))
	} else if m.form.dirty {
		lines = append(lines, formHintStyle.Render("Unsaved changes — press enter to apply."))
	} else {
		lines = append(lines, formHintStyle.Render("Adjust with ←/→, toggle camera with c."))
	}

	if len(lines) > height-2 && height > 2 {
		lines = lines[:height-2]
	}

	return panelStyle.Width(m.width).Height(height).Render(strings.Join(lines, "\n"))
}

// renderSlider draws the threshold position inside its valid range.
func renderSlider(value float64, width int) string {
	span := device.ThresholdMax - device.ThresholdMin
	pos := int(float64(width) * (value - device.ThresholdMin) / span)
	if pos < 0 {
		pos = 0
	}
	if pos > width {
		pos = width
	}

	return sliderFillStyle.Render(strings.Repeat("━", pos)) +
		formValueStyle.Render("┃") +
		sliderEmptyStyle.Render(strings.Repeat("─", width-pos)) +
		formHintStyle.Render(fmt.Sprintf("  %.1f-%.1f", device.ThresholdMin, device.ThresholdMax))
}
