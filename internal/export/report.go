package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/rebarvista/vista/internal/session"
	"github.com/rebarvista/vista/pkg/timeutil"
)

// Report carries everything the document export renders.
type Report struct {
	// CaptureLabel is the formatted timestamp of the displayed session.
	CaptureLabel string
	// GeneratedAt stamps the document and its file name.
	GeneratedAt time.Time
	// Rows is the volume table exactly as rendered on screen.
	Rows []session.Row
	// TotalLabel is the on-screen total volume line.
	TotalLabel string
	// Image is the processed JPEG, embedded below the table when
	// present. Missing images are skipped, never an error.
	Image []byte
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Rebar Analysis Report</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 2em; color: #1c2128; }
h1 { font-size: 1.4em; border-bottom: 2px solid #1f6feb; padding-bottom: 0.3em; }
p.meta { color: #57606a; }
table { border-collapse: collapse; margin-top: 1em; }
th, td { border: 1px solid #d0d7de; padding: 0.4em 0.9em; text-align: right; }
th { background: #f6f8fa; }
p.total { font-weight: bold; margin-top: 1em; }
img { margin-top: 1.5em; max-width: 100%; border: 1px solid #d0d7de; }
</style>
</head>
<body>
<h1>Rebar Analysis Report</h1>
<p class="meta">Capture: {{.CaptureLabel}}<br>Generated: {{.Generated}}</p>
<table>
<tr><th>Segment No.</th><th>Volume (cc)</th><th>Width (cm)</th><th>Length (cm)</th><th>Height (cm)</th></tr>
{{range .Rows}}<tr><td>{{.Section}}</td><td>{{.Volume}}</td><td>{{.Width}}</td><td>{{.Length}}</td><td>{{.Height}}</td></tr>
{{end}}</table>
<p class="total">{{.TotalLabel}}</p>
{{if .ImageData}}<img src="data:image/jpeg;base64,{{.ImageData}}" alt="Processed capture">
{{end}}</body>
</html>
`))

// ReportHTML renders the document export as a standalone HTML page.
func ReportHTML(rep Report) ([]byte, error) {
	if len(rep.Rows) == 0 {
		return nil, ErrNoSegments
	}

	view := struct {
		CaptureLabel string
		Generated    string
		Rows         []session.Row
		TotalLabel   string
		ImageData    string
	}{
		CaptureLabel: rep.CaptureLabel,
		Generated:    rep.GeneratedAt.Format("2006-01-02 15:04:05"),
		Rows:         rep.Rows,
		TotalLabel:   rep.TotalLabel,
	}
	if len(rep.Image) > 0 {
		view.ImageData = base64.StdEncoding.EncodeToString(rep.Image)
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteReport writes the document export into dir with a timestamped
// name and returns the file path.
func WriteReport(dir string, rep Report) (string, error) {
	doc, err := ReportHTML(rep)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("rebar_report_%s.html", timeutil.Stamp(rep.GeneratedAt))
	return writeFile(dir, name, doc)
}
