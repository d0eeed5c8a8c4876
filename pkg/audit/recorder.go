package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/entrhq/patrol/pkg/logging"
)

// Screenshotter captures a full-page screenshot to a file path. It is
// the one collaborator capability the Recorder needs directly.
type Screenshotter interface {
	Screenshot(path string) error
}

// Capture describes one detected anomaly with everything the report
// needs to reproduce it.
type Capture struct {
	Language       Language
	Priority       Priority
	URL            string
	Description    string
	Recommendation string

	// Repeated defaults to RepeatedNo when left empty.
	Repeated Repeated

	// Steps are the ordered reproduction steps.
	Steps []string

	// Expected and Actual contrast what should have happened with what
	// was observed.
	Expected string
	Actual   string

	// ScreenshotHint tells a human re-verifier what to photograph.
	ScreenshotHint string

	// ExtraNotes is optional free-form context; when empty no Extra
	// fragment appears in the notes.
	ExtraNotes string
}

// RecorderOptions configures a Recorder for one run.
type RecorderOptions struct {
	// IDs allocates finding identifiers. Defaults to a fresh allocator
	// starting at 1.
	IDs *IDAllocator

	// Screenshots captures finding screenshots. May be nil, in which
	// case captures are skipped (and logged).
	Screenshots Screenshotter

	// Filter optionally suppresses findings by URL.
	Filter *URLFilter

	// Platform is stamped onto every finding. Defaults to desktop web.
	Platform Platform

	// Date is the run date stamped onto every finding.
	Date string

	// ScreenshotsDir is where per-finding images are written.
	ScreenshotsDir string

	// Logger defaults to a run-scoped "recorder" logger.
	Logger *logging.Logger
}

// Recorder owns the run's finding sequence: it allocates identifiers,
// captures screenshots and appends fully-populated findings. There is a
// single writer per run, so no locking.
type Recorder struct {
	ids      *IDAllocator
	shots    Screenshotter
	filter   *URLFilter
	platform Platform
	date     string
	dir      string
	logger   *logging.Logger

	findings []Finding
}

// NewRecorder creates a Recorder and ensures its screenshots directory
// exists.
func NewRecorder(opts RecorderOptions) (*Recorder, error) {
	if opts.IDs == nil {
		opts.IDs = NewIDAllocator(1)
	}
	if opts.Platform == "" {
		opts.Platform = PlatformDesktopWeb
	}
	if opts.Logger == nil {
		// The fallback logger returned on error still works.
		opts.Logger, _ = logging.New("recorder")
	}

	if opts.ScreenshotsDir != "" {
		if err := os.MkdirAll(opts.ScreenshotsDir, 0755); err != nil {
			return nil, fmt.Errorf("create screenshots directory: %w", err)
		}
	}

	return &Recorder{
		ids:      opts.IDs,
		shots:    opts.Screenshots,
		filter:   opts.Filter,
		platform: opts.Platform,
		date:     opts.Date,
		dir:      opts.ScreenshotsDir,
		logger:   opts.Logger,
	}, nil
}

// Capture records one finding: it allocates the next identifier, takes
// a best-effort screenshot, synthesizes the notes narrative and appends
// the finding to the run. A failed screenshot is logged and otherwise
// ignored, so a flaky capture can never abort the sweep. Findings at
// ignored URLs are dropped before an identifier is consumed, keeping
// the numbering contiguous.
func (r *Recorder) Capture(c Capture) {
	if r.filter.Ignored(c.URL) {
		r.logger.Infof("suppressed finding at %s: %s", c.URL, c.Description)
		return
	}

	id := r.ids.Next()
	file := id + ".png"

	if r.shots == nil {
		r.logger.Warnf("no screenshotter available, skipping capture for finding %s", id)
	} else if err := r.shots.Screenshot(filepath.Join(r.dir, file)); err != nil {
		r.logger.Warnf("screenshot for finding %s failed: %v", id, err)
	}

	repeated := c.Repeated
	if repeated == "" {
		repeated = RepeatedNo
	}

	r.findings = append(r.findings, Finding{
		ID:             id,
		URL:            c.URL,
		Repeated:       repeated,
		Priority:       c.Priority,
		Platform:       r.platform,
		Description:    c.Description,
		Recommendation: c.Recommendation,
		Status:         StatusOpen,
		DateFound:      r.date,
		Notes:          synthesizeNotes(c, file),
		ScreenshotFile: file,
	})

	r.logger.Infof("finding %s [%s] %s", id, c.Priority, c.Description)
}

// synthesizeNotes builds the notes narrative from its fragments, in
// fixed order: language, steps, expected, actual, screenshot guidance,
// optional extra context, local filename. No fragment is ever dropped
// silently; only the Extra fragment is conditional.
func synthesizeNotes(c Capture, file string) string {
	parts := []string{
		fmt.Sprintf("Language: %s.", c.Language),
		"Steps: " + strings.Join(c.Steps, " "),
		"Expected: " + c.Expected,
		"Actual: " + c.Actual,
		"Screenshot: " + c.ScreenshotHint + " Include URL bar.",
	}
	if c.ExtraNotes != "" {
		parts = append(parts, "Extra: "+c.ExtraNotes)
	}
	parts = append(parts, "Local file: "+file)
	return strings.Join(parts, " ")
}

// Findings returns the findings recorded so far, in emission order.
func (r *Recorder) Findings() []Finding {
	out := make([]Finding, len(r.findings))
	copy(out, r.findings)
	return out
}

// HasUrgent reports whether any recorded finding is Urgent.
func (r *Recorder) HasUrgent() bool {
	for _, f := range r.findings {
		if f.Priority == PriorityUrgent {
			return true
		}
	}
	return false
}
