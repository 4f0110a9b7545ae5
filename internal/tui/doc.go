// Package tui implements the Vista terminal dashboard.
//
// Built with Charmbracelet's BubbleTea, Lipgloss, and Bubbles
// libraries. The Bubble Tea event loop is the dashboard's single
// thread of execution: network requests and fixed timers run as
// tea.Cmd closures and resume via typed messages, so shared state is
// only ever touched from Update.
//
// Component architecture:
//
//	model.go     — root model, message routing, commands, Init/Update
//	theme.go     — centralized color + style definitions
//	header.go    — top bar with connection banner, footer with hints
//	dashboard.go — volume table + capture status panels
//	settings.go  — device settings form (threshold slider, camera)
//	messages.go  — tea.Msg types for responses, timers and push events
package tui
