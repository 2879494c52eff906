// Package twilight computes the local clock times at which the Sun's center
// crosses elevation thresholds below the horizon: sunrise and sunset, plus
// civil, nautical, and astronomical twilight. One threshold-parameterized
// solve serves all four phenomena; consumers such as calendar and diary
// applications query it per day to annotate dates.
package twilight

import (
	"errors"
	"time"

	"github.com/chrissnell/daybreak/pkg/ephemeris"
)

// Elevation thresholds, in degrees, of the Sun's center for each phenomenon.
// -0.61 is the altitude of the middle of the Sun when it rises or sets.
const (
	ThresholdSunrise      = -0.61
	ThresholdCivil        = -6.0
	ThresholdNautical     = -12.0
	ThresholdAstronomical = -18.0
)

// DefaultToleranceMinutes is the convergence tolerance of the bisection
// solver, in minutes of time. The solver stops when successive midpoint
// estimates differ by less than this value.
const DefaultToleranceMinutes = 0.5

// referenceLatitude is the fixed latitude at which the season flag is
// derived. At 10°N the Sun rises and sets on every date, and the day length
// genuinely straddles 12 hours across the year.
const referenceLatitude = 10.0

var (
	// ErrLocationNotConfigured is returned when a solve is requested for a
	// location whose latitude, longitude, or UTC offset was never supplied.
	ErrLocationNotConfigured = errors.New("twilight: location not configured")

	// ErrNoConvergence is returned if the bisection iteration cap is reached.
	// It indicates an internal fault and is never used for the ordinary
	// "Sun does not reach this threshold today" outcome.
	ErrNoConvergence = errors.New("twilight: bisection failed to converge")
)

// Ephemeris is the narrow surface the solver needs from a solar position
// model: altitude at an instant, and exact local solar noon for a date.
// ephemeris.Model satisfies it.
type Ephemeris interface {
	Altitude(tp ephemeris.TimePair, lat, lon float64) float64
	ExactLocalNoon(date time.Time, lon float64) ephemeris.TimePair
}

// Location describes an observer. The zero value is unusable: latitude,
// longitude, and UTC offset must all be supplied through NewLocation before
// any solve, and the solver rejects an unset Location rather than computing
// with undefined geography.
type Location struct {
	name         string
	timezone     string
	lat          float64
	lon          float64
	utcOffsetMin int
	configured   bool
}

// NewLocation builds a fully-configured Location. Latitude is in degrees
// north-positive, longitude in degrees east-positive, and utcOffsetMinutes is
// the standard-time offset from UTC in minutes (e.g. -300 for UTC-5).
func NewLocation(lat, lon float64, utcOffsetMinutes int) Location {
	return Location{
		lat:          lat,
		lon:          lon,
		utcOffsetMin: utcOffsetMinutes,
		configured:   true,
	}
}

// WithName returns a copy of the location carrying a display name for
// report output.
func (l Location) WithName(name string) Location {
	l.name = name
	return l
}

// WithTimezone returns a copy of the location carrying an IANA time zone
// name, used by the report layer to apply daylight-saving adjustments.
func (l Location) WithTimezone(tz string) Location {
	l.timezone = tz
	return l
}

// Name returns the display name, which may be empty.
func (l Location) Name() string { return l.name }

// Timezone returns the IANA time zone name, which may be empty.
func (l Location) Timezone() string { return l.timezone }

// Latitude returns degrees north-positive.
func (l Location) Latitude() float64 { return l.lat }

// Longitude returns degrees east-positive.
func (l Location) Longitude() float64 { return l.lon }

// UTCOffsetMinutes returns the standard-time offset from UTC in minutes.
func (l Location) UTCOffsetMinutes() int { return l.utcOffsetMin }

func (l Location) validate() error {
	if !l.configured {
		return ErrLocationNotConfigured
	}
	return nil
}

// Result holds the outcome of one threshold solve for one date. Morning and
// Evening are local standard-time hours of day; each is meaningful only when
// its Has flag is set. An instant is absent when the Sun never reaches the
// threshold on that date, or when the UT crossing rolls onto an adjacent
// local calendar date.
type Result struct {
	Morning    float64
	Evening    float64
	HasMorning bool
	HasEvening bool

	// DayLength is the time in hours the Sun spends above the threshold.
	// When both crossings exist it is their UT difference; in the polar
	// degenerate case it is forced to exactly 24 or exactly 0.
	DayLength float64
}

// Calculator runs threshold solves against a solar position model. The zero
// value is not usable; construct with NewCalculator. Calculators are
// stateless between calls and safe for concurrent use.
type Calculator struct {
	eph        Ephemeris
	tolMinutes float64
}

// NewCalculator returns a Calculator backed by the given ephemeris. A nil
// ephemeris selects the built-in model; a non-positive tolerance selects
// DefaultToleranceMinutes.
func NewCalculator(eph Ephemeris, toleranceMinutes float64) *Calculator {
	if eph == nil {
		eph = ephemeris.Model{}
	}
	if toleranceMinutes <= 0 {
		toleranceMinutes = DefaultToleranceMinutes
	}
	return &Calculator{eph: eph, tolMinutes: toleranceMinutes}
}

// ForThreshold computes the morning and evening crossings of the given
// elevation threshold for one date and location, along with the day length.
//
// The polar degenerate case (Sun never reaching the threshold) is
// disambiguated between continuous day and continuous night by a season flag
// derived from a sunrise-threshold solve at a fixed reference latitude of
// 10°N with the same longitude: the flag is set when that reference day is
// longer than 12 hours, marking northern spring/summer. The reference solve
// always uses the sunrise threshold, whatever threshold is being computed:
// time above the deeper thresholds exceeds 12 hours at 10°N on every date of
// the year, so only the daylight span carries the season signal.
func (c *Calculator) ForThreshold(date time.Time, loc Location, threshold float64) (Result, error) {
	if err := loc.validate(); err != nil {
		return Result{}, err
	}

	midday := c.eph.ExactLocalNoon(date, loc.lon)

	refRise, okRefRise, err := findCrossing(c.eph, morning, referenceLatitude, loc.lon, midday, ThresholdSunrise, c.tolMinutes)
	if err != nil {
		return Result{}, err
	}
	refSet, okRefSet, err := findCrossing(c.eph, evening, referenceLatitude, loc.lon, midday, ThresholdSunrise, c.tolMinutes)
	if err != nil {
		return Result{}, err
	}
	springOrSummer := okRefRise && okRefSet && refSet-refRise > 12

	rise, okRise, err := findCrossing(c.eph, morning, loc.lat, loc.lon, midday, threshold, c.tolMinutes)
	if err != nil {
		return Result{}, err
	}
	set, okSet, err := findCrossing(c.eph, evening, loc.lat, loc.lon, midday, threshold, c.tolMinutes)
	if err != nil {
		return Result{}, err
	}

	var res Result
	if okRise && okSet {
		res.DayLength = set - rise
	} else if (loc.lat > 0 && springOrSummer) || (loc.lat < 0 && !springOrSummer) {
		res.DayLength = 24
	} else {
		res.DayLength = 0
	}

	// Shift each crossing to local standard time and keep it only if it
	// still falls on the requested calendar date.
	offset := float64(loc.utcOffsetMin) / 60.0
	if okRise {
		if local := rise + offset; local >= 0 && local < 24 {
			res.Morning = local
			res.HasMorning = true
		}
	}
	if okSet {
		if local := set + offset; local >= 0 && local < 24 {
			res.Evening = local
			res.HasEvening = true
		}
	}

	return res, nil
}

// SunriseSunset is the sunrise/sunset convenience wrapper: ForThreshold at
// -0.61°, returning rise, set, and day length together.
func (c *Calculator) SunriseSunset(date time.Time, loc Location) (Result, error) {
	return c.ForThreshold(date, loc, ThresholdSunrise)
}

// Table holds one date's results for all four standard thresholds.
type Table struct {
	Sunrise      Result
	Civil        Result
	Nautical     Result
	Astronomical Result
}

// ForDate computes the full standard table for one date and location.
func (c *Calculator) ForDate(date time.Time, loc Location) (Table, error) {
	var tbl Table
	var err error

	if tbl.Sunrise, err = c.ForThreshold(date, loc, ThresholdSunrise); err != nil {
		return Table{}, err
	}
	if tbl.Civil, err = c.ForThreshold(date, loc, ThresholdCivil); err != nil {
		return Table{}, err
	}
	if tbl.Nautical, err = c.ForThreshold(date, loc, ThresholdNautical); err != nil {
		return Table{}, err
	}
	if tbl.Astronomical, err = c.ForThreshold(date, loc, ThresholdAstronomical); err != nil {
		return Table{}, err
	}
	return tbl, nil
}
