// Package report renders twilight results as human-readable lines for
// calendar and diary annotation: "06:24: Sunrise", "20:58: Astronomical
// twilight ends", or "No sunrise" when the Sun never reaches the threshold.
//
// The core solver works in local standard time; this layer applies the
// daylight-saving adjustment from the location's IANA time zone, when one is
// configured, before formatting.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/chrissnell/daybreak/pkg/twilight"
)

// Reporter formats solver output for one calculator. All methods are safe
// for concurrent use.
type Reporter struct {
	calc *twilight.Calculator
}

// NewReporter returns a Reporter backed by the given calculator. A nil
// calculator selects one with default settings.
func NewReporter(calc *twilight.Calculator) *Reporter {
	if calc == nil {
		calc = twilight.NewCalculator(nil, 0)
	}
	return &Reporter{calc: calc}
}

// Sunrise returns the sunrise line for the date, e.g. "06:24: Sunrise",
// or "No sunrise" on dates without one.
func (r *Reporter) Sunrise(date time.Time, loc twilight.Location) (string, error) {
	res, err := r.calc.SunriseSunset(date, loc)
	if err != nil {
		return "", err
	}
	return line(date, loc, res.Morning, res.HasMorning, "Sunrise", "No sunrise"), nil
}

// Sunset returns the sunset line for the date.
func (r *Reporter) Sunset(date time.Time, loc twilight.Location) (string, error) {
	res, err := r.calc.SunriseSunset(date, loc)
	if err != nil {
		return "", err
	}
	return line(date, loc, res.Evening, res.HasEvening, "Sunset", "No sunset"), nil
}

// MorningCivil returns the civil dawn line for the date.
func (r *Reporter) MorningCivil(date time.Time, loc twilight.Location) (string, error) {
	return r.twilightLine(date, loc, twilight.ThresholdCivil, "Civil", true)
}

// EveningCivil returns the civil dusk line for the date.
func (r *Reporter) EveningCivil(date time.Time, loc twilight.Location) (string, error) {
	return r.twilightLine(date, loc, twilight.ThresholdCivil, "Civil", false)
}

// MorningNautical returns the nautical dawn line for the date.
func (r *Reporter) MorningNautical(date time.Time, loc twilight.Location) (string, error) {
	return r.twilightLine(date, loc, twilight.ThresholdNautical, "Nautical", true)
}

// EveningNautical returns the nautical dusk line for the date.
func (r *Reporter) EveningNautical(date time.Time, loc twilight.Location) (string, error) {
	return r.twilightLine(date, loc, twilight.ThresholdNautical, "Nautical", false)
}

// MorningAstronomical returns the astronomical dawn line for the date.
func (r *Reporter) MorningAstronomical(date time.Time, loc twilight.Location) (string, error) {
	return r.twilightLine(date, loc, twilight.ThresholdAstronomical, "Astronomical", true)
}

// EveningAstronomical returns the astronomical dusk line for the date.
func (r *Reporter) EveningAstronomical(date time.Time, loc twilight.Location) (string, error) {
	return r.twilightLine(date, loc, twilight.ThresholdAstronomical, "Astronomical", false)
}

// Summary returns the full per-date block: a header naming the location,
// then one line per phenomenon from astronomical dawn through astronomical
// dusk.
func (r *Reporter) Summary(date time.Time, loc twilight.Location) (string, error) {
	tbl, err := r.calc.ForDate(date, loc)
	if err != nil {
		return "", err
	}

	header := date.Format("2006-01-02")
	if loc.Name() != "" {
		header += " at " + loc.Name()
	}

	lines := []string{
		header,
		line(date, loc, tbl.Astronomical.Morning, tbl.Astronomical.HasMorning, "Astronomical twilight begins", "No astronomical twilight"),
		line(date, loc, tbl.Nautical.Morning, tbl.Nautical.HasMorning, "Nautical twilight begins", "No nautical twilight"),
		line(date, loc, tbl.Civil.Morning, tbl.Civil.HasMorning, "Civil twilight begins", "No civil twilight"),
		line(date, loc, tbl.Sunrise.Morning, tbl.Sunrise.HasMorning, "Sunrise", "No sunrise"),
		line(date, loc, tbl.Sunrise.Evening, tbl.Sunrise.HasEvening, "Sunset", "No sunset"),
		line(date, loc, tbl.Civil.Evening, tbl.Civil.HasEvening, "Civil twilight ends", "No civil twilight"),
		line(date, loc, tbl.Nautical.Evening, tbl.Nautical.HasEvening, "Nautical twilight ends", "No nautical twilight"),
		line(date, loc, tbl.Astronomical.Evening, tbl.Astronomical.HasEvening, "Astronomical twilight ends", "No astronomical twilight"),
		fmt.Sprintf("Day length: %s", Duration(tbl.Sunrise.DayLength)),
	}
	return strings.Join(lines, "\n"), nil
}

func (r *Reporter) twilightLine(date time.Time, loc twilight.Location, threshold float64, kind string, isMorning bool) (string, error) {
	res, err := r.calc.ForThreshold(date, loc, threshold)
	if err != nil {
		return "", err
	}
	none := "No " + strings.ToLower(kind) + " twilight"
	if isMorning {
		return line(date, loc, res.Morning, res.HasMorning, kind+" twilight begins", none), nil
	}
	return line(date, loc, res.Evening, res.HasEvening, kind+" twilight ends", none), nil
}

func line(date time.Time, loc twilight.Location, hour float64, ok bool, label, none string) string {
	if !ok {
		return none
	}
	return fmt.Sprintf("%s: %s", Clock(dstAdjust(date, loc, hour)), label)
}

// dstAdjust converts a local standard-time hour to wall-clock time by adding
// the difference between the zone offset in effect at that instant and the
// location's standard UTC offset. Sampling the offset at the instant itself
// keeps pre-transition instants on a DST changeover day in the old offset.
// Locations without an IANA zone name, or with one the host cannot resolve,
// keep standard time.
func dstAdjust(date time.Time, loc twilight.Location, hour float64) float64 {
	if loc.Timezone() == "" {
		return hour
	}
	tz, err := time.LoadLocation(loc.Timezone())
	if err != nil {
		return hour
	}
	y, m, d := date.Date()
	utcSec := int(math.Round(hour*3600)) - loc.UTCOffsetMinutes()*60
	_, offset := time.Date(y, m, d, 0, 0, utcSec, 0, time.UTC).In(tz).Zone()
	return hour + float64(offset)/3600 - float64(loc.UTCOffsetMinutes())/60
}

// Clock renders an hour-of-day value as HH:MM, rounding to the nearest
// minute and wrapping at midnight.
func Clock(hour float64) string {
	minutes := int(math.Round(hour * 60))
	minutes = ((minutes % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Duration renders a number of hours as "13h37m".
func Duration(hours float64) string {
	minutes := int(math.Round(hours * 60))
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
