package timeutil

import (
	"testing"
	"time"
)

func TestParseCaptureStampDeviceLayout(t *testing.T) {
	got, err := ParseCaptureStamp("20240115-143022")
	if err != nil {
		t.Fatalf("ParseCaptureStamp failed: %v", err)
	}

	want := time.Date(2024, 1, 15, 14, 30, 22, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseCaptureStampISO(t *testing.T) {
	got, err := ParseCaptureStamp("2024-01-15T14:30:22")
	if err != nil {
		t.Fatalf("ParseCaptureStamp failed: %v", err)
	}

	// The compact stamp and the bare ISO form describe the same local instant.
	compact, err := ParseCaptureStamp("20240115-143022")
	if err != nil {
		t.Fatalf("ParseCaptureStamp failed: %v", err)
	}
	if !got.Equal(compact) {
		t.Errorf("ISO form %v != compact form %v", got, compact)
	}
}

func TestParseCaptureStampInvalid(t *testing.T) {
	if _, err := ParseCaptureStamp("yesterday"); err == nil {
		t.Error("expected error for unparseable stamp")
	}
}

func TestFormatCaptureStamp(t *testing.T) {
	if got := FormatCaptureStamp("20240115-143022"); got != "2024-01-15 14:30:22" {
		t.Errorf("expected '2024-01-15 14:30:22', got %q", got)
	}

	// Unparseable input passes through untouched.
	if got := FormatCaptureStamp("???"); got != "???" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestStampRoundTrip(t *testing.T) {
	at := time.Date(2024, 1, 15, 14, 30, 22, 0, time.Local)
	s := Stamp(at)
	if s != "20240115-143022" {
		t.Fatalf("expected 20240115-143022, got %s", s)
	}

	back, err := ParseCaptureStamp(s)
	if err != nil {
		t.Fatalf("round trip parse failed: %v", err)
	}
	if !back.Equal(at) {
		t.Errorf("round trip mismatch: %v != %v", back, at)
	}
}

func TestRelativeTime(t *testing.T) {
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{5 * time.Second, "5s ago"},
		{2 * time.Minute, "2m ago"},
		{3 * time.Hour, "3h ago"},
		{48 * time.Hour, "2d ago"},
	}

	for _, c := range cases {
		got := RelativeTime(time.Now().Add(-c.ago))
		if got != c.want {
			t.Errorf("RelativeTime(-%v) = %q, want %q", c.ago, got, c.want)
		}
	}
}
