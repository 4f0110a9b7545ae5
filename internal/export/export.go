// Package export turns the currently displayed capture session into
// downloadable files: a CSV of the volume table, the processed JPEG
// image, and a self-contained HTML report.
//
// Exports serialize the rendered display strings (session.Row), not
// the original numeric payload, so a file always matches the screen
// character for character. All operations are stateless on their
// input and fail fast when there is nothing to export.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rebarvista/vista/internal/session"
	"github.com/rebarvista/vista/pkg/timeutil"
)

// ErrNoSegments rejects an export when the volume table is empty.
var ErrNoSegments = errors.New("no segment data to export")

// ErrNoImage rejects an image export when no image is loaded.
var ErrNoImage = errors.New("no image loaded")

// CSVHeader is the fixed five-column header of tabular exports.
const CSVHeader = "Segment No.,Volume (cc),Width (cm),Length (cm),Height (cm)"

// CSVDocument serializes rendered table rows plus the trailing total
// row. N rows produce exactly N+2 lines.
func CSVDocument(rows []session.Row, totalText string) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoSegments
	}

	var b strings.Builder
	b.WriteString(CSVHeader)
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s\n",
			r.Section, r.Volume, r.Width, r.Length, r.Height))
	}
	b.WriteString(fmt.Sprintf("Total,,,,%s", totalText))

	return []byte(b.String()), nil
}

// WriteCSV writes the tabular export into dir with a timestamped name
// and returns the file path.
func WriteCSV(dir string, at time.Time, rows []session.Row, totalText string) (string, error) {
	doc, err := CSVDocument(rows, totalText)
	if err != nil {
		return "", err
	}
	return writeFile(dir, fmt.Sprintf("rebar_data_%s.csv", timeutil.Stamp(at)), doc)
}

// WriteImage re-offers the held JPEG payload as a timestamped file.
// The table guard runs first; a loaded table without an image gets
// the distinct ErrNoImage.
func WriteImage(dir string, at time.Time, rows []session.Row, img []byte) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoSegments
	}
	if len(img) == 0 {
		return "", ErrNoImage
	}
	return writeFile(dir, fmt.Sprintf("rebar_image_%s.jpg", timeutil.Stamp(at)), img)
}

func writeFile(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export %s: %w", path, err)
	}
	return path, nil
}
