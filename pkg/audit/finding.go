package audit

import "fmt"

// Priority is the severity of a finding, fixed by the check that raised it.
type Priority string

const (
	PriorityUrgent   Priority = "Urgent"
	PriorityModerate Priority = "Moderate"
	PriorityLow      Priority = "Low"
)

// Platform identifies the surface a run audits. One run targets exactly
// one platform.
type Platform string

const (
	PlatformDesktopWeb Platform = "Desktop Web"
	PlatformMobileWeb  Platform = "Mobile Web"
	PlatformAndroid    Platform = "Android"
	PlatformIOS        Platform = "iOS"
)

// ParsePlatform maps a configuration token to its Platform.
func ParsePlatform(token string) (Platform, error) {
	switch token {
	case "desktop-web":
		return PlatformDesktopWeb, nil
	case "mobile-web":
		return PlatformMobileWeb, nil
	case "android":
		return PlatformAndroid, nil
	case "ios":
		return PlatformIOS, nil
	default:
		return "", fmt.Errorf("unknown platform %q (want desktop-web, mobile-web, android or ios)", token)
	}
}

// Viewport returns the default browser viewport for the platform.
func (p Platform) Viewport() (width, height int) {
	switch p {
	case PlatformMobileWeb, PlatformIOS:
		return 390, 844
	case PlatformAndroid:
		return 412, 915
	default:
		return 1280, 720
	}
}

// Status is the triage state of a finding. Findings are always created
// Open; the other states exist for the tracker the reports are imported
// into.
type Status string

const (
	StatusOpen     Status = "Open"
	StatusFixed    Status = "Fixed"
	StatusVerified Status = "Verified"
)

// Repeated marks whether the same anomaly was already seen in the run.
// The current checks never deduplicate, so every finding is recorded as
// RepeatedNo; the field is kept for the tracker schema.
type Repeated string

const (
	RepeatedYes Repeated = "Yes"
	RepeatedNo  Repeated = "No"
)

// Language tags which language pass of the sweep observed an anomaly.
type Language string

const (
	LanguageEN Language = "EN"
	LanguageAR Language = "AR"
)

// Finding is one recorded anomaly with full audit context. It is
// created by the Recorder at detection time and immutable afterwards.
type Finding struct {
	// ID is a 5-digit zero-padded number, unique and strictly
	// increasing within a run.
	ID string

	// URL is the location the anomaly was observed at.
	URL string

	Repeated Repeated
	Priority Priority
	Platform Platform

	// Description is a short summary of the anomaly.
	Description string

	// Recommendation is the suggested remediation.
	Recommendation string

	Status Status

	// DateFound is the run date, shared by all findings of one run.
	DateFound string

	// Notes is the synthesized narrative: language, reproduction steps,
	// expected versus actual, screenshot guidance and the local
	// screenshot filename.
	Notes string

	// ScreenshotFile is the image captured at detection time, named
	// <id>.png under the run's screenshots directory.
	ScreenshotFile string
}
