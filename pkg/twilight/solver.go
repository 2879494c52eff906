package twilight

import (
	"math"

	"github.com/chrissnell/daybreak/pkg/ephemeris"
)

// direction selects which half of the day the solver searches: morning scans
// up to 12 hours before local-noon UT, evening up to 12 hours after.
type direction int

const (
	morning direction = -1
	evening direction = 1
)

// maxBisectionIterations caps the narrowing loop. The bracket halves every
// pass, so 11 iterations already resolve a 12-hour window below 0.5 minutes;
// the cap exists only to turn a broken altitude function into a reportable
// error instead of a hang.
const maxBisectionIterations = 64

// findCrossing locates the UT hour at which the Sun's altitude equals
// threshold on the morning or evening side of the given local solar noon.
// The second return is false when the Sun never reaches the threshold on that
// side of the day, which is a domain outcome, not an error.
//
// The bracketing test and the narrowing comparisons are deliberately
// asymmetric: the far bound must be strictly below the threshold and noon
// strictly above it, and during narrowing a midpoint exactly on the threshold
// moves neither bound, which makes the next midpoint repeat and the loop
// terminate. Altering any of these comparisons shifts behavior at polar
// boundary dates.
func findCrossing(eph Ephemeris, dir direction, lat, lon float64, midday ephemeris.TimePair, threshold, tolMinutes float64) (float64, bool, error) {
	altitudeAt := func(ut float64) float64 {
		return eph.Altitude(ephemeris.TimePair{Centuries: midday.Centuries, UT: ut}, lat, lon)
	}

	utmin := midday.UT + float64(dir)*12.0 // far from noon
	utmax := midday.UT                     // at noon

	if altitudeAt(utmin) >= threshold || altitudeAt(utmax) <= threshold {
		return 0, false, nil
	}

	tol := tolMinutes / 60.0

	// Convergence is measured between consecutive real midpoints; the +Inf
	// seed can never satisfy the test, so at least two midpoints are always
	// evaluated. A midpoint exactly on the threshold moves neither bound,
	// repeats on the next pass, and converges with zero distance.
	prev := math.Inf(1)

	for iter := 0; iter < maxBisectionIterations; iter++ {
		mid := (utmin + utmax) / 2
		h := altitudeAt(mid)
		if h < threshold {
			utmin = mid
		}
		if h > threshold {
			utmax = mid
		}
		if math.Abs(mid-prev) < tol {
			return mid, true, nil
		}
		prev = mid
	}

	return 0, false, ErrNoConvergence
}
