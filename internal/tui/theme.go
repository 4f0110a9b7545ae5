package tui

import "github.com/charmbracelet/lipgloss"

// ────────────────────────────────────────────────────────────
// Color Palette — GitHub Dark aesthetic
// ────────────────────────────────────────────────────────────
//
// All colors are defined here. No ad-hoc color literals anywhere.

var (
	// Base
	colorBg        = lipgloss.Color("#0d1117")
	colorBgSurface = lipgloss.Color("#1c2128")

	// Text
	colorText      = lipgloss.Color("#e6edf3")
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")

	// Accents
	colorBlue   = lipgloss.Color("#58a6ff")
	colorGreen  = lipgloss.Color("#3fb950")
	colorRed    = lipgloss.Color("#f85149")
	colorYellow = lipgloss.Color("#d29922")

	// Structural
	colorDivider = lipgloss.Color("#30363d")
)

// Header bar
var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// Connection banner
var (
	bannerOnlineStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBg).
				Background(colorGreen).
				Padding(0, 1)

	bannerOfflineStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBg).
				Background(colorRed).
				Padding(0, 1)

	bannerUnknownStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBg).
				Background(colorYellow).
				Padding(0, 1)
)

// Panel chrome
var (
	panelStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.Border{
			Top:    "─",
			Bottom: "",
			Left:   "",
			Right:  "",
		}).
		BorderForeground(colorDivider)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)
)

// Volume table
var (
	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true)

	tableRowStyle = lipgloss.NewStyle().
			Foreground(colorText)

	tableTotalStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(1, 2)
)

// Detail rows
var (
	detailLabelStyle = lipgloss.NewStyle().
				Foreground(colorBlue)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(colorText)

	detailDimStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// Settings form
var (
	formLabelStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	formValueStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	formHintStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	sliderFillStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	sliderEmptyStyle = lipgloss.NewStyle().
				Foreground(colorTextMuted)
)

// Footer / status bar
var (
	statusInfoStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Background(colorBgSurface).
			Padding(0, 1)

	statusWarnStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Background(colorBgSurface).
			Padding(0, 1)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Background(colorBgSurface).
				Padding(0, 1)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)
)
