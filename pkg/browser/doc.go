// Package browser provides the Playwright-backed page session the audit
// drives.
//
// One run owns exactly one Session: a headless (or headed) Chromium
// page with a fixed viewport, bounded per-operation timeouts and a
// short settle delay after every navigation. The Session implements the
// collaborator surface the audit package defines — navigation with an
// HTTP status signal, body text and visibility reads, a layout
// direction probe, clicks and full-page screenshot capture.
//
// Launch failures are the one fatal condition of a run; every later
// degradation (timeouts, missed selectors, failed captures) surfaces as
// an error the caller is expected to absorb.
package browser
