package audit

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/entrhq/patrol/pkg/logging"
)

// Page is the browser collaborator surface the checks need. pkg/browser
// provides the Playwright-backed implementation; tests script their own.
type Page interface {
	// Navigate loads url and returns the HTTP status of the main
	// document response. A failed or statusless navigation returns 0.
	Navigate(url string) (int, error)

	// BodyText returns the page's visible body text.
	BodyText() (string, error)

	// IsVisible reports whether an element matching selector is
	// currently visible.
	IsVisible(selector string) bool

	// Click clicks the first element matching selector.
	Click(selector string) error

	// LayoutDirection returns the document's effective direction,
	// normally "ltr" or "rtl".
	LayoutDirection() (string, error)

	// Screenshot captures a full-page screenshot to path.
	Screenshot(path string) error

	// CurrentURL returns the page's current location.
	CurrentURL() string
}

// localeSelectors lists, per language, the switcher elements tried in
// order. The site's header markup varies between layouts, so misses on
// individual selectors are expected and swallowed.
var localeSelectors = map[Language][]string{
	LanguageEN: {
		"[data-testid='language-switcher'] a[href*='/en']",
		"a[href*='lang=en']",
		"text=English",
	},
	LanguageAR: {
		"[data-testid='language-switcher'] a[href*='/ar']",
		"a[href*='lang=ar']",
		"text=العربية",
	},
}

// headerLogoSelectors matches a recognizable brand mark in the header.
// Any one visible match passes the check.
var headerLogoSelectors = []string{
	"header img[alt*='logo' i]",
	"header img[alt*='almosafer' i]",
	"header [class*='logo' i] img",
	"header a[href='/'] img",
}

// RunnerConfig carries the check policy for one run. Thresholds are
// deliberately tunable: every check is a heuristic signal against a
// page we do not control, and generous bounds keep false positives
// down.
type RunnerConfig struct {
	// BaseURL is the site origin audited paths are appended to.
	BaseURL string

	// TrustPages are the paths swept by the trust-page check.
	TrustPages []string

	// UnknownRoute is the deliberately bogus path probing not-found
	// handling.
	UnknownRoute string

	// MinBodyChars is the minimum visible text length, in characters,
	// for the rotation page to count as rendered.
	MinBodyChars int

	// HealthyStatusMin and HealthyStatusMax bound the HTTP statuses a
	// trust page may return: min inclusive, max exclusive.
	HealthyStatusMin int
	HealthyStatusMax int

	// Timezone aligns the rotation calendar with the dates stamped on
	// findings. An unknown zone falls back to the local clock.
	Timezone string

	// Logger defaults to a run-scoped "runner" logger.
	Logger *logging.Logger
}

// Runner drives the fixed check sequence for one run: the
// must-not-break checks in English then Arabic, then the week's
// rotating feature check in both languages. Checks are strictly
// sequential on the single shared page; a check raising findings never
// stops its siblings.
type Runner struct {
	page     Page
	recorder *Recorder
	cfg      RunnerConfig
	logger   *logging.Logger
}

// NewRunner creates a Runner over the given page and recorder.
func NewRunner(page Page, recorder *Recorder, cfg RunnerConfig) *Runner {
	if cfg.TrustPages == nil {
		cfg.TrustPages = []string{"/contact", "/terms", "/privacy", "/about"}
	}
	if cfg.UnknownRoute == "" {
		cfg.UnknownRoute = "/this-page-should-not-exist"
	}
	if cfg.MinBodyChars <= 0 {
		cfg.MinBodyChars = 50
	}
	if cfg.HealthyStatusMin == 0 && cfg.HealthyStatusMax == 0 {
		cfg.HealthyStatusMin = 200
		cfg.HealthyStatusMax = 400
	}
	if cfg.Logger == nil {
		cfg.Logger, _ = logging.New("runner")
	}

	return &Runner{
		page:     page,
		recorder: recorder,
		cfg:      cfg,
		logger:   cfg.Logger,
	}
}

// Run executes the full sweep. The rotation area is resolved once per
// run. Context expiry stops launching further checks but is not an
// error: whatever was recorded up to that point still gets exported by
// the caller.
func (r *Runner) Run(ctx context.Context) {
	area := AreaForDate(r.rotationDate())
	r.logger.Infof("audit run started: base=%s rotation=%s", r.cfg.BaseURL, area)

	for _, lang := range []Language{LanguageEN, LanguageAR} {
		if ctx.Err() != nil {
			r.logger.Warnf("run deadline reached before %s baseline sweep", lang)
			return
		}
		r.baselineSweep(ctx, lang)
	}

	for _, lang := range []Language{LanguageEN, LanguageAR} {
		if ctx.Err() != nil {
			r.logger.Warnf("run deadline reached before %s rotation sweep", lang)
			return
		}
		r.rotationSweep(lang, area)
	}

	r.logger.Infof("audit run finished: %d findings", len(r.recorder.findings))
}

// rotationDate is the current time in the run's configured timezone, so
// the week selection matches the calendar the findings are dated in.
func (r *Runner) rotationDate() time.Time {
	now := time.Now()
	if loc, err := time.LoadLocation(r.cfg.Timezone); err == nil {
		now = now.In(loc)
	}
	return now
}

// baselineSweep runs the four must-not-break states for one language:
// home and locale, header sanity, trust pages, unknown-route handling.
func (r *Runner) baselineSweep(ctx context.Context, lang Language) {
	r.logger.Infof("baseline sweep (%s)", lang)

	r.checkHomeAndLocale(lang)
	if ctx.Err() != nil {
		return
	}
	r.checkHeaderLogo(lang)
	if ctx.Err() != nil {
		return
	}
	r.checkTrustPages(ctx, lang)
	if ctx.Err() != nil {
		return
	}
	r.checkUnknownRoute(lang)
}

// checkHomeAndLocale opens the home page and switches to the target
// language. For Arabic the resulting layout direction must be
// right-to-left; anything else is an Urgent finding. The English switch
// is attempted for symmetry but raises no direction finding.
func (r *Runner) checkHomeAndLocale(lang Language) {
	status, err := r.page.Navigate(r.cfg.BaseURL)
	if err != nil {
		r.logger.Warnf("home navigation (%s) failed: %v", lang, err)
	} else {
		r.logger.Debugf("home loaded (%s) with status %d", lang, status)
	}

	r.switchLocale(lang)

	if lang != LanguageAR {
		return
	}

	dir, err := r.page.LayoutDirection()
	if err != nil {
		r.logger.Warnf("layout direction read failed: %v", err)
		dir = ""
	}
	if strings.EqualFold(strings.TrimSpace(dir), "rtl") {
		r.logger.Debugf("layout direction is rtl after Arabic switch")
		return
	}

	r.recorder.Capture(Capture{
		Language:       lang,
		Priority:       PriorityUrgent,
		URL:            r.page.CurrentURL(),
		Description:    "RTL layout not applied after switching to Arabic",
		Recommendation: "Apply dir=\"rtl\" on the document when the Arabic locale is active so the layout mirrors correctly",
		Steps: []string{
			"Open the home page.",
			"Switch the site language to Arabic.",
		},
		Expected:       "The page layout flips to right-to-left.",
		Actual:         fmt.Sprintf("Layout direction reported %q after the switch.", dir),
		ScreenshotHint: "Capture the full home page after the language switch.",
	})
}

// switchLocale tries the known switcher selectors until one click
// lands. A miss on every selector is logged and the sweep continues on
// whatever locale the page is in.
func (r *Runner) switchLocale(lang Language) {
	for _, selector := range localeSelectors[lang] {
		if err := r.page.Click(selector); err == nil {
			r.logger.Debugf("switched locale to %s via %q", lang, selector)
			return
		}
	}
	r.logger.Warnf("no locale switcher matched for %s, continuing on current locale", lang)
}

// checkHeaderLogo verifies a recognizable brand image is visible in the
// header of the page currently loaded.
func (r *Runner) checkHeaderLogo(lang Language) {
	for _, selector := range headerLogoSelectors {
		if r.page.IsVisible(selector) {
			r.logger.Debugf("header logo visible (%s) via %q", lang, selector)
			return
		}
	}

	r.recorder.Capture(Capture{
		Language:       lang,
		Priority:       PriorityUrgent,
		URL:            r.page.CurrentURL(),
		Description:    "Header logo is missing or not visible on the home page",
		Recommendation: "Restore the brand logo in the site header so guests can always navigate back to home",
		Steps: []string{
			"Open the home page.",
			"Look at the site header.",
		},
		Expected:       "The brand logo is visible in the header.",
		Actual:         "No recognizable logo image was visible in the header.",
		ScreenshotHint: "Capture the top of the page including the full header.",
	})
}

// checkTrustPages navigates each trust path and classifies the HTTP
// response. Navigation failures count as status 0, which lands outside
// the healthy range and is reported like any other bad status.
func (r *Runner) checkTrustPages(ctx context.Context, lang Language) {
	for _, path := range r.cfg.TrustPages {
		if ctx.Err() != nil {
			r.logger.Warnf("run deadline reached during trust-page sweep (%s)", lang)
			return
		}

		url := r.pageURL(path)
		status, err := r.page.Navigate(url)
		if err != nil {
			r.logger.Warnf("trust page %s (%s) navigation failed: %v", path, lang, err)
			status = 0
		}
		if r.healthy(status) {
			r.logger.Debugf("trust page %s (%s) healthy: %d", path, lang, status)
			continue
		}

		r.recorder.Capture(Capture{
			Language:       lang,
			Priority:       PriorityModerate,
			URL:            url,
			Description:    fmt.Sprintf("Trust page %s returned status %d", path, status),
			Recommendation: fmt.Sprintf("Fix the route so %s loads for guests; policy pages must always be reachable", path),
			Steps: []string{
				fmt.Sprintf("Navigate directly to %s.", url),
			},
			Expected:       "The page loads with a successful HTTP status.",
			Actual:         fmt.Sprintf("Observed HTTP status %d.", status),
			ScreenshotHint: "Capture whatever rendered at the URL.",
		})
	}
}

// checkUnknownRoute opens a path that cannot exist and verifies the
// error state shows the guest something. The HTTP status is irrelevant
// here: a 404 is the correct response, only a blank page is a finding.
func (r *Runner) checkUnknownRoute(lang Language) {
	url := r.pageURL(r.cfg.UnknownRoute)
	status, err := r.page.Navigate(url)
	if err != nil {
		r.logger.Warnf("unknown-route navigation (%s) failed: %v", lang, err)
	} else {
		r.logger.Debugf("unknown route (%s) returned %d", lang, status)
	}

	text, err := r.page.BodyText()
	if err != nil {
		r.logger.Warnf("unknown-route body read (%s) failed: %v", lang, err)
		text = ""
	}
	if strings.TrimSpace(text) != "" {
		return
	}

	r.recorder.Capture(Capture{
		Language:       lang,
		Priority:       PriorityLow,
		URL:            url,
		Description:    "Unknown route renders a blank page with no guidance",
		Recommendation: "Serve a proper not-found page with a way back into the main site",
		Steps: []string{
			fmt.Sprintf("Navigate to the non-existent path %s.", r.cfg.UnknownRoute),
		},
		Expected:       "A helpful error page with visible content.",
		Actual:         "The rendered page has no visible text.",
		ScreenshotHint: "Capture the full blank page.",
	})
}

// rotationSweep opens the week's feature page and applies the
// blank-content heuristic. The area was resolved once at run start.
func (r *Runner) rotationSweep(lang Language, area Area) {
	path := PathForArea(area)
	url := r.pageURL(path)
	r.logger.Infof("rotation sweep (%s): %s at %s", lang, area, path)

	status, err := r.page.Navigate(url)
	if err != nil {
		r.logger.Warnf("rotation page %s (%s) navigation failed: %v", path, lang, err)
	} else {
		r.logger.Debugf("rotation page %s (%s) returned %d", path, lang, status)
	}

	text, err := r.page.BodyText()
	if err != nil {
		r.logger.Warnf("rotation body read (%s) failed: %v", lang, err)
		text = ""
	}

	length := utf8.RuneCountInString(strings.TrimSpace(text))
	if length >= r.cfg.MinBodyChars {
		r.logger.Debugf("rotation page %s (%s) rendered %d characters", path, lang, length)
		return
	}

	r.recorder.Capture(Capture{
		Language:       lang,
		Priority:       PriorityModerate,
		URL:            url,
		Description:    fmt.Sprintf("The %s page at %s looks blank or unrendered", area, path),
		Recommendation: fmt.Sprintf("Check whether the %s page renders its content for guests", area),
		Steps: []string{
			fmt.Sprintf("Navigate to %s.", url),
			"Wait for the page to settle.",
		},
		Expected:       "The page renders its full content.",
		Actual:         fmt.Sprintf("Visible body text is only %d characters.", length),
		ScreenshotHint: "Capture the whole page as rendered.",
	})
}

// pageURL joins the base URL with an absolute site path.
func (r *Runner) pageURL(path string) string {
	return strings.TrimRight(r.cfg.BaseURL, "/") + path
}

// healthy reports whether an HTTP status falls in the configured
// healthy range.
func (r *Runner) healthy(status int) bool {
	return status >= r.cfg.HealthyStatusMin && status < r.cfg.HealthyStatusMax
}
