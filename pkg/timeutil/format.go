// Package timeutil provides time parsing and formatting utilities for Vista.
//
// The analysis device stamps each capture session with a compact
// "YYYYMMDD-HHMMSS" identifier (its results directory name); newer firmware
// reports RFC 3339 instead. This package handles both and produces the
// human-readable forms used by the TUI and the export file names.
package timeutil

import (
	"fmt"
	"time"
)

// DeviceStamp is the compact timestamp layout used by the device for
// capture sessions and result directories.
const DeviceStamp = "20060102-150405"

// displayLayout is how capture timestamps are shown in the TUI and reports.
const displayLayout = "2006-01-02 15:04:05"

// ParseCaptureStamp parses a capture timestamp as reported by the device.
// It accepts the compact device stamp, RFC 3339, and the bare ISO form
// without an offset. Stamps without zone information are taken as local
// time, matching how the device generates them.
func ParseCaptureStamp(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(DeviceStamp, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized capture timestamp %q", s)
}

// FormatCaptureStamp renders a device capture timestamp for display.
// Unparseable stamps are returned verbatim rather than hidden.
func FormatCaptureStamp(s string) string {
	t, err := ParseCaptureStamp(s)
	if err != nil {
		return s
	}
	return t.Format(displayLayout)
}

// Stamp renders a time in the compact device layout. Used to timestamp
// export file names the same way the device names its sessions.
func Stamp(t time.Time) string {
	return t.Format(DeviceStamp)
}

// RelativeTime returns a human-readable relative time string.
// Examples: "just now", "5s ago", "2m ago", "1h ago"
func RelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Second:
		return "just now"
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
}
