// Package ephemeris implements a low-precision solar position model suitable
// for rise/set and twilight work. It answers one question for the solver: how
// high is the Sun's center, in degrees, at a given instant and location.
//
// The formulas are the standard NOAA/Meeus truncated series (mean longitude,
// mean anomaly, equation of center, obliquity), good to well under a tenth of
// a degree in altitude, which translates to a few seconds of time at the
// horizon. Julian dates and Greenwich sidereal time come from the meeus
// library rather than hand-rolled expansions.
package ephemeris

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"
)

// J2000 is the Julian date of the J2000.0 epoch (2000 Jan 1.5 TT).
const J2000 = 2451545.0

// daysPerCentury is the number of days in a Julian century.
const daysPerCentury = 36525.0

// siderealRatio converts an interval of UT hours to sidereal hours.
const siderealRatio = 1.00273790935

// TimePair is the time coordinate consumed by the altitude function: the
// Julian-century offset of the target date's midnight UT, plus a real
// hour-of-day UT. Produced once per date and passed around unchanged.
type TimePair struct {
	Centuries float64 // Julian centuries since J2000.0 for 0h UT of the date
	UT        float64 // hours of day UT
}

// Model is the stateless solar position model. All methods are pure and safe
// for concurrent use.
type Model struct{}

// JulianCenturies returns the Julian-century offset from J2000.0 for 0h UT
// on the calendar date of t.
func (Model) JulianCenturies(date time.Time) float64 {
	y, m, d := date.Date()
	jd0 := julian.CalendarGregorianToJD(y, int(m), float64(d))
	return (jd0 - J2000) / daysPerCentury
}

// SiderealMidnight returns Greenwich mean sidereal time, in hours, at 0h UT
// on the calendar date of t.
func (Model) SiderealMidnight(date time.Time) float64 {
	y, m, d := date.Date()
	jd0 := julian.CalendarGregorianToJD(y, int(m), float64(d))
	return sidereal.Mean(jd0).Hour()
}

// Altitude returns the altitude of the Sun's center, in degrees, for an
// observer at lat/lon (degrees, north and east positive) at the instant
// described by tp. Negative values mean the Sun is below the horizon.
func (Model) Altitude(tp TimePair, lat, lon float64) float64 {
	// Fold the hour of day into the century offset so the Sun's coordinates
	// track intra-day motion (~1 degree of ecliptic longitude per day).
	T := tp.Centuries + tp.UT/(24*daysPerCentury)
	ra, dec := sunEquatorial(T)

	// Local sidereal time from the midnight value, advanced at the sidereal
	// rate and rotated to the observer's meridian.
	jd0 := tp.Centuries*daysPerCentury + J2000
	gmst0 := sidereal.Mean(jd0).Hour()
	lstDeg := unit.PMod(gmst0+tp.UT*siderealRatio, 24)*15 + lon

	// Hour angle, wrapped to (-180, 180]
	ha := unit.PMod(lstDeg-ra+180, 360) - 180

	latRad := unit.AngleFromDeg(lat).Rad()
	decRad := unit.AngleFromDeg(dec).Rad()
	haRad := unit.AngleFromDeg(ha).Rad()

	sinAlt := math.Sin(latRad)*math.Sin(decRad) +
		math.Cos(latRad)*math.Cos(decRad)*math.Cos(haRad)
	return unit.Angle(math.Asin(sinAlt)).Deg()
}

// ExactLocalNoon returns the TimePair of exact local solar noon (transit of
// the Sun over the observer's meridian) for the given date and longitude.
// The equation of time depends weakly on the time of day it is evaluated at,
// so the correction is iterated twice.
func (m Model) ExactLocalNoon(date time.Time, lon float64) TimePair {
	t0 := m.JulianCenturies(date)
	ut := 12.0 - lon/15.0
	for i := 0; i < 2; i++ {
		eot := EquationOfTime(t0 + ut/(24*daysPerCentury))
		ut = 12.0 - lon/15.0 - eot/60.0
	}
	return TimePair{Centuries: t0, UT: ut}
}

// EquationOfTime returns apparent minus mean solar time, in minutes, at the
// given Julian-century offset.
func EquationOfTime(T float64) float64 {
	L0 := unit.PMod(280.46646+T*(36000.76983+T*0.0003032), 360)
	M := unit.PMod(357.52911+T*(35999.05029-T*0.0001537), 360)
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)

	eps0 := meanObliquity(T)
	y := math.Tan(unit.AngleFromDeg(eps0/2).Rad())
	y *= y

	L0r := unit.AngleFromDeg(L0).Rad()
	Mr := unit.AngleFromDeg(M).Rad()

	eRad := y*math.Sin(2*L0r) -
		2*e*math.Sin(Mr) +
		4*e*y*math.Sin(Mr)*math.Cos(2*L0r) -
		0.5*y*y*math.Sin(4*L0r) -
		1.25*e*e*math.Sin(2*Mr)
	return unit.Angle(eRad).Deg() * 4
}

// Declination returns the Sun's declination, in degrees, at the given
// Julian-century offset.
func Declination(T float64) float64 {
	_, dec := sunEquatorial(T)
	return dec
}

// sunEquatorial returns the Sun's apparent right ascension and declination,
// both in degrees, at the given Julian-century offset.
func sunEquatorial(T float64) (ra, dec float64) {
	L0 := unit.PMod(280.46646+T*(36000.76983+T*0.0003032), 360)
	M := unit.PMod(357.52911+T*(35999.05029-T*0.0001537), 360)
	Mr := unit.AngleFromDeg(M).Rad()

	// Equation of center
	C := math.Sin(Mr)*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(2*Mr)*(0.019993-T*0.000101) +
		math.Sin(3*Mr)*0.000289

	// Apparent longitude, corrected for nutation and aberration
	omega := unit.AngleFromDeg(125.04 - 1934.136*T).Rad()
	lambda := L0 + C - 0.00569 - 0.00478*math.Sin(omega)
	lambdaRad := unit.AngleFromDeg(lambda).Rad()

	eps := meanObliquity(T) + 0.00256*math.Cos(omega)
	epsRad := unit.AngleFromDeg(eps).Rad()

	raRad := math.Atan2(math.Cos(epsRad)*math.Sin(lambdaRad), math.Cos(lambdaRad))
	ra = unit.PMod(unit.Angle(raRad).Deg(), 360)
	dec = unit.Angle(math.Asin(math.Sin(epsRad) * math.Sin(lambdaRad))).Deg()
	return ra, dec
}

// meanObliquity returns the mean obliquity of the ecliptic, in degrees.
func meanObliquity(T float64) float64 {
	return 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
}
