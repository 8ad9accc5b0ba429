// Package daylight decides whether there is enough light to take a picture.
// Daylight is the interval between civil dawn and civil dusk, the moments
// the sun's centre is 6 degrees below the horizon.
package daylight

import (
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// CivilDepression is the solar elevation, in degrees, bounding civil twilight.
const CivilDepression = -6.0

// Polar marks days on which the sun never crosses the civil depression.
type Polar int

const (
	NotPolar Polar = iota
	AlwaysLight
	AlwaysDark
)

// Window is the daylight interval of one civil date.
type Window struct {
	Date  time.Time // local midnight
	Dawn  time.Time
	Dusk  time.Time
	Polar Polar
}

// Contains reports whether t lies strictly between dawn and dusk. The exact
// dawn and dusk instants count as night.
func (w Window) Contains(t time.Time) bool {
	switch w.Polar {
	case AlwaysLight:
		return true
	case AlwaysDark:
		return false
	}
	return t.After(w.Dawn) && t.Before(w.Dusk)
}

// Gate answers the capture question for a fixed location.
type Gate struct {
	loc    Location
	window func(loc Location, date time.Time) Window
}

// New returns a Gate for loc.
func New(loc Location) *Gate {
	return &Gate{loc: loc, window: civilWindow}
}

// Location returns the location the gate was built for.
func (g *Gate) Location() Location {
	return g.loc
}

// Window returns the daylight window of the civil date t falls on, in the
// gate's timezone.
func (g *Gate) Window(t time.Time) Window {
	local := t.In(g.loc.TZ)
	y, m, d := local.Date()
	return g.window(g.loc, time.Date(y, m, d, 0, 0, 0, 0, g.loc.TZ))
}

// ShouldCapture reports whether t falls in daylight.
func (g *Gate) ShouldCapture(t time.Time) bool {
	return g.Window(t).Contains(t)
}

// civilWindow returns the window whose solar noon falls on date in the
// location's timezone. The sunrise calculation works on solar days at the
// given longitude, which near the date line are shifted a day against the
// local calendar, so the neighbouring days are tried as well.
func civilWindow(loc Location, date time.Time) Window {
	for _, offset := range []int{0, -1, 1} {
		y, m, d := date.AddDate(0, 0, offset).Date()
		dawn, dusk := sunrise.TimeOfElevation(loc.Latitude, loc.Longitude, CivilDepression, y, m, d)
		if dawn.IsZero() || dusk.IsZero() {
			continue
		}
		if sameDate(dawn.Add(dusk.Sub(dawn)/2).In(loc.TZ), date) {
			return Window{Date: date, Dawn: dawn, Dusk: dusk}
		}
	}
	return Window{Date: date, Polar: polarKind(loc.Latitude, date)}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// polarKind tells midnight sun from polar night using the sun's elevation at
// local noon.
func polarKind(latitude float64, date time.Time) Polar {
	if noonElevation(latitude, date.YearDay()) > CivilDepression {
		return AlwaysLight
	}
	return AlwaysDark
}

func noonElevation(latitude float64, yearDay int) float64 {
	declination := 23.44 * math.Sin(2*math.Pi*float64(284+yearDay)/365)
	return 90 - math.Abs(latitude-declination)
}
