package audit

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://site.test"

// stubPage scripts the browser collaborator for runner tests. Defaults
// describe a perfectly healthy site: every navigation returns 200,
// every page has plenty of text, the logo is visible and the layout
// goes right-to-left after the Arabic switch.
type stubPage struct {
	statuses   map[string]int
	navErrs    map[string]error
	bodies     map[string]string
	direction  string
	dirErr     error
	logoHidden bool
	clickFail  bool
	shotErr    error

	currentURL string
	visited    []string
	shots      []string
}

func newHealthyPage() *stubPage {
	return &stubPage{
		statuses:  make(map[string]int),
		navErrs:   make(map[string]error),
		bodies:    make(map[string]string),
		direction: "rtl",
	}
}

func (p *stubPage) Navigate(url string) (int, error) {
	p.visited = append(p.visited, url)
	p.currentURL = url
	if err, ok := p.navErrs[url]; ok {
		return 0, err
	}
	if status, ok := p.statuses[url]; ok {
		return status, nil
	}
	return 200, nil
}

func (p *stubPage) BodyText() (string, error) {
	if body, ok := p.bodies[p.currentURL]; ok {
		return body, nil
	}
	return strings.Repeat("Plenty of rendered guest content. ", 10), nil
}

func (p *stubPage) IsVisible(string) bool { return !p.logoHidden }

func (p *stubPage) Click(string) error {
	if p.clickFail {
		return errors.New("element not found")
	}
	return nil
}

func (p *stubPage) LayoutDirection() (string, error) { return p.direction, p.dirErr }

func (p *stubPage) Screenshot(path string) error {
	p.shots = append(p.shots, path)
	return p.shotErr
}

func (p *stubPage) CurrentURL() string { return p.currentURL }

func newTestRunner(t *testing.T, page *stubPage) (*Runner, *Recorder) {
	t.Helper()

	recorder, err := NewRecorder(RecorderOptions{
		Screenshots:    page,
		Platform:       PlatformDesktopWeb,
		Date:           "17-08-2026",
		ScreenshotsDir: filepath.Join(t.TempDir(), "screenshots"),
	})
	require.NoError(t, err)

	runner := NewRunner(page, recorder, RunnerConfig{
		BaseURL:  testBase,
		Timezone: "UTC",
	})
	return runner, recorder
}

// rotationURL is the page the runner will probe this week.
func rotationURL() string {
	return testBase + PathForArea(AreaForDate(time.Now().UTC()))
}

func TestRunHealthySiteRaisesNoFindings(t *testing.T) {
	page := newHealthyPage()
	runner, recorder := newTestRunner(t, page)

	runner.Run(context.Background())

	assert.Empty(t, recorder.Findings())
	assert.Empty(t, page.shots)
}

func TestRunVisitSequence(t *testing.T) {
	page := newHealthyPage()
	runner, _ := newTestRunner(t, page)

	runner.Run(context.Background())

	baseline := []string{
		testBase,
		testBase + "/contact",
		testBase + "/terms",
		testBase + "/privacy",
		testBase + "/about",
		testBase + "/this-page-should-not-exist",
	}
	want := append([]string{}, baseline...)
	want = append(want, baseline...)
	want = append(want, rotationURL(), rotationURL())

	assert.Equal(t, want, page.visited)
}

func TestRunRTLAppliedRaisesNoDirectionFinding(t *testing.T) {
	page := newHealthyPage()
	page.direction = "rtl"
	runner, recorder := newTestRunner(t, page)

	runner.Run(context.Background())

	for _, f := range recorder.Findings() {
		assert.NotContains(t, f.Description, "RTL")
	}
}

func TestRunRTLNotAppliedRaisesUrgent(t *testing.T) {
	page := newHealthyPage()
	page.direction = "ltr"
	runner, recorder := newTestRunner(t, page)

	runner.Run(context.Background())

	findings := recorder.Findings()
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, PriorityUrgent, f.Priority)
	assert.Equal(t, "RTL layout not applied after switching to Arabic", f.Description)
	assert.Contains(t, f.Notes, "Language: AR.")
	assert.Contains(t, f.Notes, `Layout direction reported "ltr"`)

	// The screenshot was taken for this finding.
	require.Len(t, page.shots, 1)
	assert.True(t, strings.HasSuffix(page.shots[0], "00001.png"))
}

func TestRunDirectionReadFailureRaisesUrgent(t *testing.T) {
	page := newHealthyPage()
	page.dirErr = errors.New("evaluate failed")
	runner, recorder := newTestRunner(t, page)

	runner.Run(context.Background())

	findings := recorder.Findings()
	require.Len(t, findings, 1)
	assert.Equal(t, PriorityUrgent, findings[0].Priority)
	assert.Contains(t, findings[0].Description, "RTL")
}

func TestRunMissingLogoRaisesUrgentPerLanguage(t *testing.T) {
	page := newHealthyPage()
	page.logoHidden = true
	runner, recorder := newTestRunner(t, page)

	runner.Run(context.Background())

	findings := recorder.Findings()
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, PriorityUrgent, f.Priority)
		assert.Contains(t, f.Description, "logo")
	}
	assert.Contains(t, findings[0].Notes, "Language: EN.")
	assert.Contains(t, findings[1].Notes, "Language: AR.")
}

func TestRunTrustPage404RaisesModeratePerLanguage(t *testing.T) {
	page := newHealthyPage()
	page.statuses[testBase+"/terms"] = 404
	runner, recorder := newTestRunner(t, page)

	runner.Run(context.Background())

	findings := recorder.Findings()
	require.Len(t, findings, 2)

	for _, f := range findings {
		assert.Equal(t, PriorityModerate, f.Priority)
		assert.Equal(t, "Trust page /terms returned status 404", f.Description)
		assert.Equal(t, testBase+"/terms", f.URL)
		assert.Contains(t, f.Notes, "Observed HTTP status 404.")
	}

	// Exactly one finding per language pass.
	assert.Contains(t, findings[0].Notes, "Language: EN.")
	assert.Contains(t, findings[1].Notes, "Language: AR.")
}

func TestRunTrustPageNavigationFailureCountsAsStatusZero(t *testing.T) {
	page := newHealthyPage()
	page.navErrs[testBase+"/privacy"] = errors.New("net::ERR_CONNECTION_RESET")
	runner, recorder := newTestRunner(t, page)

	runner.Run(context.Background())

	findings := recorder.Findings()
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, PriorityModerate, f.Priority)
		assert.Equal(t, "Trust page /privacy returned status 0", f.Description)
	}
}

func TestRunBlankUnknownRouteRaisesLowPerLanguage(t *testing.T) {
	page := newHealthyPage()
	page.bodies[testBase+"/this-page-should-not-exist"] = " \n\t "
	runner, recorder := newTestRunner(t, page)

	runner.Run(context.Background())

	findings := recorder.Findings()
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, PriorityLow, f.Priority)
		assert.Contains(t, f.Description, "Unknown route")
	}
}

func TestRunUnknownRoute404WithContentIsHealthy(t *testing.T) {
	page := newHealthyPage()
	page.statuses[testBase+"/this-page-should-not-exist"] = 404
	page.bodies[testBase+"/this-page-should-not-exist"] = "Sorry, we could not find that page. Try searching for your trip instead."
	runner, recorder := newTestRunner(t, page)

	runner.Run(context.Background())

	assert.Empty(t, recorder.Findings())
}

func TestRunBlankRotationPageRaisesModeratePerLanguage(t *testing.T) {
	page := newHealthyPage()
	page.bodies[rotationURL()] = "tiny text!"
	runner, recorder := newTestRunner(t, page)

	runner.Run(context.Background())

	area := AreaForDate(time.Now().UTC())
	path := PathForArea(area)

	findings := recorder.Findings()
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, PriorityModerate, f.Priority)
		assert.Contains(t, f.Description, string(area))
		assert.Contains(t, f.Description, path)
		assert.Contains(t, f.Notes, "Visible body text is only 10 characters.")
	}
	assert.Contains(t, findings[0].Notes, "Language: EN.")
	assert.Contains(t, findings[1].Notes, "Language: AR.")
}

func TestRunLocaleSwitcherMissIsTolerated(t *testing.T) {
	page := newHealthyPage()
	page.clickFail = true
	runner, recorder := newTestRunner(t, page)

	runner.Run(context.Background())

	// The site happens to already be right-to-left, so nothing to report.
	assert.Empty(t, recorder.Findings())
}

func TestRunContinuesAcrossFailingChecks(t *testing.T) {
	page := newHealthyPage()
	page.direction = "ltr"
	page.logoHidden = true
	page.statuses[testBase+"/terms"] = 500
	runner, recorder := newTestRunner(t, page)

	runner.Run(context.Background())

	// EN: logo, terms. AR: rtl, logo, terms.
	findings := recorder.Findings()
	require.Len(t, findings, 5)

	ids := make([]string, 0, len(findings))
	for _, f := range findings {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"00001", "00002", "00003", "00004", "00005"}, ids)

	// Later checks still ran: the full visit sequence completed.
	assert.Equal(t, testBase+PathForArea(AreaForDate(time.Now().UTC())),
		page.visited[len(page.visited)-1])
}

func TestRunStopsAtContextExpiry(t *testing.T) {
	page := newHealthyPage()
	runner, recorder := newTestRunner(t, page)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner.Run(ctx)

	assert.Empty(t, page.visited)
	assert.Empty(t, recorder.Findings())
}

func TestRunScreenshotFailureDoesNotStopSweep(t *testing.T) {
	page := newHealthyPage()
	page.direction = "ltr"
	page.statuses[testBase+"/about"] = 503
	page.shotErr = errors.New("disk full")
	runner, recorder := newTestRunner(t, page)

	runner.Run(context.Background())

	// rtl finding plus one 503 finding per language.
	require.Len(t, recorder.Findings(), 3)
	for _, f := range recorder.Findings() {
		assert.True(t, strings.HasSuffix(f.ScreenshotFile, ".png"))
	}
}
