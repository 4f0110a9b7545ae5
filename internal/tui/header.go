package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebarvista/vista/internal/session"
	"github.com/rebarvista/vista/pkg/timeutil"
)

// renderHeader produces the top bar:
//
//	VISTA  |  raspberrypi.local:5000  |  Last capture 2024-01-15 14:30:22  |  CONNECTED
func renderHeader(m *Model) string {
	brand := headerBrandStyle.Render("VISTA")
	sep := headerSepStyle.Render(" │ ")

	var parts []string
	parts = append(parts, brand)
	parts = append(parts, sep)
	parts = append(parts, headerMetaStyle.Render(hostOf(m.client.BaseURL())))

	if ts := m.state.Timestamp(); ts != "" {
		parts = append(parts, sep)
		parts = append(parts, headerMetaStyle.Render(
			"Last capture "+timeutil.FormatCaptureStamp(ts)))
	}

	left := strings.Join(parts, "")
	banner := renderBanner(m.state.Connection())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(banner) - 2
	if gap < 0 {
		gap = 0
	}

	return headerBarStyle.Width(m.width).Render(
		left + strings.Repeat(" ", gap) + banner)
}

// renderBanner renders the connection status banner.
func renderBanner(conn session.Connection) string {
	switch conn {
	case session.ConnOnline:
		return bannerOnlineStyle.Render("CONNECTED")
	case session.ConnOffline:
		return bannerOfflineStyle.Render("DISCONNECTED")
	default:
		return bannerUnknownStyle.Render("CONNECTING")
	}
}

// renderFooter produces the bottom bar: status message on the left,
// keyboard hints on the right.
func renderFooter(m *Model) string {
	var left string
	if n, ok := m.state.Notice(); ok {
		switch n.Level {
		case session.NoticeError:
			left = statusErrorStyle.Render(n.Text)
		case session.NoticeWarn:
			left = statusWarnStyle.Render(n.Text)
		default:
			left = statusInfoStyle.Render(n.Text)
		}
	}

	var right string
	if m.activePane == PaneSettings {
		right = renderHints([]hint{
			{"←→", "threshold"},
			{"c", "camera"},
			{"enter", "save"},
			{"esc", "cancel"},
		})
	} else {
		right = renderHints([]hint{
			{"t", "capture"},
			{"r", "refresh"},
			{"e", "csv"},
			{"i", "image"},
			{"p", "report"},
			{"s", "settings"},
			{"q", "quit"},
		})
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		Background(colorBgSurface).
		Width(m.width).
		Render(bar)
}

type hint struct {
	key  string
	desc string
}

func renderHints(hints []hint) string {
	var parts []string
	for _, h := range hints {
		parts = append(parts,
			hintKeyStyle.Render(h.key)+" "+hintDescStyle.Render(h.desc))
	}
	return strings.Join(parts, hintDescStyle.Render("  "))
}

// hostOf strips the scheme off a device URL for compact display.
func hostOf(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[i+3:]
	}
	return url
}
