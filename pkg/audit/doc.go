// Package audit implements the core of the patrol run: the finding
// model, run-scoped identifier and date resolution, the weekly rotation
// selector, the finding recorder and the check runner.
//
// # Architecture
//
// The package is built around three core pieces:
//
//  1. Recorder: owns the run's finding sequence. Capture allocates the
//     next identifier, takes a best-effort screenshot, synthesizes the
//     notes narrative and appends an immutable Finding.
//  2. Runner: drives the fixed check sequence against a Page — the
//     must-not-break sweep in English then Arabic, followed by the
//     week's rotating feature check in both languages.
//  3. Rotation selector: pure functions mapping a calendar date to one
//     of four feature areas, so every run of the same week inspects the
//     same area without any stored state.
//
// # Collaborator
//
// The browser is abstracted behind the Page interface: navigation with
// an HTTP status signal, body text and visibility reads, a layout
// direction probe, clicks and screenshot capture. pkg/browser provides
// the Playwright-backed implementation; tests drive the runner with a
// scripted page.
//
// # Failure policy
//
// Checks are heuristic signals against an uncontrolled third-party
// page, not strict assertions. Anything the site does wrong becomes a
// Finding; anything the collaborator does wrong (navigation timeout,
// missed click, failed screenshot) is logged and collapsed into an
// absence marker, and the sweep continues. Only collaborator startup
// failures abort a run.
package audit
