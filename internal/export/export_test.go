package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rebarvista/vista/internal/session"
)

var testRows = []session.Row{
	{Section: "1", Volume: "12.50", Width: "2.00", Length: "25.00", Height: "2.00"},
	{Section: "2", Volume: "7.25", Width: "1.50", Length: "20.00", Height: "1.50"},
	{Section: "3", Volume: "0.00", Width: "0.00", Length: "0.00", Height: "0.00"},
}

func TestCSVDocumentShape(t *testing.T) {
	doc, err := CSVDocument(testRows, "19.75")
	if err != nil {
		t.Fatalf("CSVDocument failed: %v", err)
	}

	lines := strings.Split(string(doc), "\n")
	// N rows -> header + N + total = N+2 lines.
	if len(lines) != len(testRows)+2 {
		t.Fatalf("expected %d lines, got %d", len(testRows)+2, len(lines))
	}
	if lines[0] != CSVHeader {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "1,12.50,2.00,25.00,2.00" {
		t.Errorf("row values must match rendered text exactly, got %q", lines[1])
	}
	if lines[len(lines)-1] != "Total,,,,19.75" {
		t.Errorf("unexpected total row: %q", lines[len(lines)-1])
	}
}

func TestCSVDocumentEmptyTable(t *testing.T) {
	if _, err := CSVDocument(nil, "0.00"); !errors.Is(err, ErrNoSegments) {
		t.Errorf("expected ErrNoSegments, got %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2024, 1, 15, 14, 30, 22, 0, time.Local)

	path, err := WriteCSV(dir, at, testRows, "19.75")
	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if filepath.Base(path) != "rebar_data_20240115-143022.csv" {
		t.Errorf("unexpected file name: %s", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export not written: %v", err)
	}
}

func TestWriteImage(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2024, 1, 15, 14, 30, 22, 0, time.Local)
	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0}

	path, err := WriteImage(dir, at, testRows, jpeg)
	if err != nil {
		t.Fatalf("WriteImage failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if len(got) != len(jpeg) {
		t.Errorf("image payload altered on export")
	}
	if filepath.Base(path) != "rebar_image_20240115-143022.jpg" {
		t.Errorf("unexpected file name: %s", filepath.Base(path))
	}
}

func TestWriteImageGuards(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	if _, err := WriteImage(dir, now, nil, []byte{1}); !errors.Is(err, ErrNoSegments) {
		t.Errorf("empty table: expected ErrNoSegments, got %v", err)
	}
	// The no-image warning is distinct from the empty-table one.
	if _, err := WriteImage(dir, now, testRows, nil); !errors.Is(err, ErrNoImage) {
		t.Errorf("missing image: expected ErrNoImage, got %v", err)
	}
}

func TestReportHTML(t *testing.T) {
	rep := Report{
		CaptureLabel: "2024-01-15 14:30:22",
		GeneratedAt:  time.Date(2024, 1, 15, 15, 0, 0, 0, time.Local),
		Rows:         testRows,
		TotalLabel:   "Total Volume: 19.75 cc",
		Image:        []byte{0xff, 0xd8, 0xff, 0xe0},
	}

	doc, err := ReportHTML(rep)
	if err != nil {
		t.Fatalf("ReportHTML failed: %v", err)
	}
	html := string(doc)

	for _, want := range []string{
		"Rebar Analysis Report",
		"2024-01-15 14:30:22",
		"Total Volume: 19.75 cc",
		"<td>12.50</td>",
		"data:image/jpeg;base64,",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestReportHTMLWithoutImage(t *testing.T) {
	rep := Report{
		CaptureLabel: "2024-01-15 14:30:22",
		GeneratedAt:  time.Now(),
		Rows:         testRows,
		TotalLabel:   "Total Volume: 19.75 cc",
	}

	// Missing image is best effort: skipped, not an error.
	doc, err := ReportHTML(rep)
	if err != nil {
		t.Fatalf("ReportHTML failed: %v", err)
	}
	if strings.Contains(string(doc), "<img") {
		t.Error("report must omit the image tag when no image is held")
	}
}

func TestReportHTMLEmptyTable(t *testing.T) {
	if _, err := ReportHTML(Report{GeneratedAt: time.Now()}); !errors.Is(err, ErrNoSegments) {
		t.Errorf("expected ErrNoSegments, got %v", err)
	}
}
