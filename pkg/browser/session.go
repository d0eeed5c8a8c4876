package browser

import (
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/patrol/pkg/logging"
)

// Default values for browser operations, in milliseconds where applicable.
const (
	// DefaultNavTimeoutMS bounds a single navigation.
	DefaultNavTimeoutMS = 45000.0

	// DefaultSettleMS is the pause after navigation before the page is
	// read, giving client-side rendering a chance to finish.
	DefaultSettleMS = 2000.0

	// DefaultActionTimeoutMS bounds clicks and element reads. Kept
	// short: a selector that has not matched within a few seconds is
	// treated as absent.
	DefaultActionTimeoutMS = 5000.0

	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// Options configures a new browser session.
type Options struct {
	// Headless controls whether the browser runs without a visible
	// window.
	Headless bool

	// Width and Height set the viewport. Zero values fall back to the
	// defaults.
	Width  int
	Height int

	// NavTimeoutMS bounds a single navigation (milliseconds).
	NavTimeoutMS float64

	// SettleMS is the post-navigation settle delay (milliseconds).
	SettleMS float64
}

// Session is one live browser page shared by the whole run. All
// operations are strictly sequential; the Session is not safe for
// concurrent use and the audit never needs it to be.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	navTimeoutMS float64
	settleMS     float64
	logger       *logging.Logger
}

// Launch installs the Playwright driver if needed, starts Chromium and
// opens the run's single page. Any failure here is fatal to the run.
func Launch(opts Options) (*Session, error) {
	if opts.Width == 0 {
		opts.Width = DefaultViewportWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultViewportHeight
	}
	if opts.NavTimeoutMS <= 0 {
		opts.NavTimeoutMS = DefaultNavTimeoutMS
	}
	if opts.SettleMS < 0 {
		opts.SettleMS = DefaultSettleMS
	}

	logger, _ := logging.New("browser")

	// Keep driver output away from the console report.
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Width,
			Height: opts.Height,
		},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(DefaultActionTimeoutMS)

	logger.Infof("browser session started: headless=%t viewport=%dx%d", opts.Headless, opts.Width, opts.Height)

	return &Session{
		pw:           pw,
		browser:      browser,
		context:      context,
		page:         page,
		navTimeoutMS: opts.NavTimeoutMS,
		settleMS:     opts.SettleMS,
		logger:       logger,
	}, nil
}

// Navigate loads url, waits for the DOM plus the settle delay, and
// returns the HTTP status of the main document response. Navigations
// without a response (data: URLs, some redirect edge cases) return 0.
func (s *Session) Navigate(url string) (int, error) {
	resp, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(s.navTimeoutMS),
	})
	if err != nil {
		return 0, fmt.Errorf("navigation failed: %w", err)
	}

	if s.settleMS > 0 {
		s.page.WaitForTimeout(s.settleMS)
	}

	if resp == nil {
		return 0, nil
	}
	return resp.Status(), nil
}

// BodyText returns the page's visible body text. When the direct read
// fails the raw HTML is parsed instead, so a flaky page state degrades
// to a best-effort answer rather than an error.
func (s *Session) BodyText() (string, error) {
	text, err := s.page.InnerText("body", playwright.PageInnerTextOptions{
		Timeout: playwright.Float(DefaultActionTimeoutMS),
	})
	if err == nil {
		return text, nil
	}
	s.logger.Warnf("body text read failed, falling back to raw HTML: %v", err)

	content, contentErr := s.page.Content()
	if contentErr != nil {
		return "", fmt.Errorf("body text extraction failed: %w", err)
	}
	return visibleText(content), nil
}

// IsVisible reports whether an element matching selector is currently
// visible. Probe failures count as not visible.
func (s *Session) IsVisible(selector string) bool {
	visible, err := s.page.IsVisible(selector)
	if err != nil {
		s.logger.Debugf("visibility probe %q failed: %v", selector, err)
		return false
	}
	return visible
}

// Click clicks the first element matching selector, bounded by the
// action timeout.
func (s *Session) Click(selector string) error {
	err := s.page.Click(selector, playwright.PageClickOptions{
		Timeout: playwright.Float(DefaultActionTimeoutMS),
	})
	if err != nil {
		return fmt.Errorf("click %q failed: %w", selector, err)
	}
	return nil
}

// LayoutDirection returns the document's effective text direction: the
// dir attribute when present, otherwise the computed style direction.
func (s *Session) LayoutDirection() (string, error) {
	result, err := s.page.Evaluate(`() => document.documentElement.getAttribute("dir") || getComputedStyle(document.documentElement).direction || ""`)
	if err != nil {
		return "", fmt.Errorf("layout direction read failed: %w", err)
	}

	dir, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("layout direction read returned %T", result)
	}
	return dir, nil
}

// Screenshot captures a full-page screenshot to path.
func (s *Session) Screenshot(path string) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

// CurrentURL returns the page's current location.
func (s *Session) CurrentURL() string {
	return s.page.URL()
}

// Close tears the session down in reverse order of creation. Page,
// context and browser close errors are ignored so cleanup always
// reaches the driver.
func (s *Session) Close() error {
	_ = s.page.Close()
	_ = s.context.Close()
	_ = s.browser.Close()

	if err := s.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}

	s.logger.Infof("browser session closed")
	return nil
}
