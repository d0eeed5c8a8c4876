// Package report serializes a run's findings into the two importable
// report files and a console summary. The tab-separated file is the
// machine-import surface for the tracker; the markdown file is the
// human-readable weekly report.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/entrhq/patrol/pkg/audit"
	"github.com/entrhq/patrol/pkg/logging"
)

const (
	// TSVFileName is the tab-separated import file written per run.
	TSVFileName = "notion-import.tsv"

	// MarkdownFileName is the human-readable report written per run.
	MarkdownFileName = "weekly-report.md"
)

// columns is the exported column order, shared by both formats. The
// header text matches the tracker's import template verbatim, so the
// file can be imported without remapping.
var columns = []string{
	"No.",
	"Screenshot (Files & media, leave empty)",
	"Bug Link (Repro URL)",
	"Repeated",
	"Priority",
	"Device / Platform",
	"Description of Issue",
	"Recommendation / Fix Suggestion",
	"Status",
	"Date Found",
	"Notes / Validation Comments",
}

var newlineRun = regexp.MustCompile(`[\r\n]+`)

// Writer writes the run's export files under one output directory.
type Writer struct {
	dir    string
	logger *logging.Logger
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	logger, _ := logging.New("report")
	return &Writer{dir: dir, logger: logger}
}

// WriteAll writes both export files. The two writes are independent: a
// failure in one never blocks the other, and both files are written
// even when the run recorded no findings (header row only). All errors
// are collected and returned together.
func (w *Writer) WriteAll(findings []audit.Finding) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	var errs []error
	if err := w.WriteTSV(findings); err != nil {
		w.logger.Errorf("tsv export failed: %v", err)
		errs = append(errs, err)
	}
	if err := w.WriteMarkdown(findings); err != nil {
		w.logger.Errorf("markdown export failed: %v", err)
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		w.logger.Infof("exports written: %d findings under %s", len(findings), w.dir)
	}
	return errors.Join(errs...)
}

// WriteTSV writes the tab-separated import file. Every field value is
// sanitized so no embedded tab or newline can break the row and column
// structure.
func (w *Writer) WriteTSV(findings []audit.Finding) error {
	var sb strings.Builder
	sb.WriteString(strings.Join(columns, "\t"))
	sb.WriteString("\n")

	for _, f := range findings {
		row := fieldValues(f)
		for i, v := range row {
			row[i] = sanitizeTSV(v)
		}
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}

	path := filepath.Join(w.dir, TSVFileName)
	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("write tsv export: %w", err)
	}
	return nil
}

// WriteMarkdown writes the pipe-delimited report table. Values are not
// sanitized; an embedded pipe or newline breaking a cell is an accepted
// limitation of the human-readable format.
func (w *Writer) WriteMarkdown(findings []audit.Finding) error {
	var sb strings.Builder

	sb.WriteString("| " + strings.Join(columns, " | ") + " |\n")

	separator := make([]string, len(columns))
	for i := range separator {
		separator[i] = "---"
	}
	sb.WriteString("| " + strings.Join(separator, " | ") + " |\n")

	for _, f := range findings {
		sb.WriteString("| " + strings.Join(fieldValues(f), " | ") + " |\n")
	}

	path := filepath.Join(w.dir, MarkdownFileName)
	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("write markdown export: %w", err)
	}
	return nil
}

// fieldValues returns one finding's values in column order. The
// Screenshot column stays empty: the tracker's file property is
// attached manually, and the notes already carry the local filename.
func fieldValues(f audit.Finding) []string {
	return []string{
		f.ID,
		"",
		f.URL,
		string(f.Repeated),
		string(f.Priority),
		string(f.Platform),
		f.Description,
		f.Recommendation,
		string(f.Status),
		f.DateFound,
		f.Notes,
	}
}

// sanitizeTSV makes a value safe for one tab-separated cell: tabs
// become single spaces and any newline sequence collapses to a single
// space.
func sanitizeTSV(v string) string {
	v = newlineRun.ReplaceAllString(v, " ")
	return strings.ReplaceAll(v, "\t", " ")
}
