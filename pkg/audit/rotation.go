package audit

import "time"

// Area is a feature area of the site eligible for the weekly rotating
// check.
type Area string

const (
	AreaActivities Area = "activities"
	AreaFlights    Area = "flights"
	AreaHotels     Area = "hotels"
	AreaPackages   Area = "packages"
)

// rotationAreas is the fixed rotation order. Index 0 is picked when the
// week number is divisible by four.
var rotationAreas = [4]Area{AreaActivities, AreaFlights, AreaHotels, AreaPackages}

var areaPaths = map[Area]string{
	AreaActivities: "/activities",
	AreaFlights:    "/flights",
	AreaHotels:     "/hotels",
	AreaPackages:   "/packages",
}

// WeekNumber returns the 1-based week of t's year, counting complete
// seven-day blocks since January 1. January 1 through 7 is week 1.
func WeekNumber(t time.Time) int {
	return (t.YearDay()-1)/7 + 1
}

// AreaForDate selects the feature area under rotation for t's calendar
// week. It is a pure function of the date: the same date always yields
// the same area, and four consecutive weeks visit all four areas
// exactly once each.
func AreaForDate(t time.Time) Area {
	return rotationAreas[WeekNumber(t)%4]
}

// PathForArea maps a feature area to the site path probed by the
// rotating check. Unrecognized areas fall back to the generic explore
// page so a stale configuration still checks something.
func PathForArea(area Area) string {
	if path, ok := areaPaths[area]; ok {
		return path
	}
	return "/explore"
}
