package twilight

import (
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats"
)

func TestForThresholdRequiresConfiguredLocation(t *testing.T) {
	calc := NewCalculator(nil, 0)

	_, err := calc.ForThreshold(time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), Location{}, ThresholdSunrise)
	if !errors.Is(err, ErrLocationNotConfigured) {
		t.Errorf("expected ErrLocationNotConfigured, got %v", err)
	}
}

func TestSunriseSunsetOrdering(t *testing.T) {
	calc := NewCalculator(nil, 0)

	tests := []struct {
		name string
		date time.Time
		loc  Location
	}{
		{"Washington DC spring", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), NewLocation(38.9, -77.0, -300)},
		{"Berlin autumn", time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC), NewLocation(52.5, 13.4, 60)},
		{"Sydney winter", time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), NewLocation(-33.9, 151.2, 600)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.SunriseSunset(tt.date, tt.loc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !res.HasMorning || !res.HasEvening {
				t.Fatalf("expected both instants, got %+v", res)
			}
			if !(res.Morning < res.Evening) {
				t.Errorf("sunrise %.4fh not before sunset %.4fh", res.Morning, res.Evening)
			}
			if diff := math.Abs(res.DayLength - (res.Evening - res.Morning)); diff > 1e-9 {
				t.Errorf("day length %.6fh does not match evening-morning %.6fh", res.DayLength, res.Evening-res.Morning)
			}
		})
	}
}

func TestThresholdMonotonicity(t *testing.T) {
	calc := NewCalculator(nil, 0)
	date := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	loc := NewLocation(38.9, -77.0, -300)

	tbl, err := calc.ForDate(date, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Each deeper threshold begins earlier in the morning and ends later in
	// the evening.
	mornings := []float64{tbl.Astronomical.Morning, tbl.Nautical.Morning, tbl.Civil.Morning, tbl.Sunrise.Morning}
	evenings := []float64{tbl.Sunrise.Evening, tbl.Civil.Evening, tbl.Nautical.Evening, tbl.Astronomical.Evening}

	for _, res := range []Result{tbl.Sunrise, tbl.Civil, tbl.Nautical, tbl.Astronomical} {
		if !res.HasMorning || !res.HasEvening {
			t.Fatalf("expected all instants present, got %+v", res)
		}
	}
	if !sort.Float64sAreSorted(mornings) {
		t.Errorf("morning instants not ordered deepest-first: %v", mornings)
	}
	if !sort.Float64sAreSorted(evenings) {
		t.Errorf("evening instants not ordered shallowest-first: %v", evenings)
	}
}

func TestEquatorSymmetryAboutNoon(t *testing.T) {
	calc := NewCalculator(nil, 0)
	loc := NewLocation(0.0, 0.0, 0)

	for _, date := range []time.Time{
		time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC),
	} {
		res, err := calc.SunriseSunset(date, loc)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", date.Format("2006-01-02"), err)
		}
		if !res.HasMorning || !res.HasEvening {
			t.Fatalf("%s: expected both instants", date.Format("2006-01-02"))
		}

		noon := calc.eph.ExactLocalNoon(date, 0.0).UT
		forenoon := noon - res.Morning
		afternoon := res.Evening - noon
		if diff := math.Abs(forenoon-afternoon) * 60; diff > 5 {
			t.Errorf("%s: rise/set asymmetry about noon = %.2f min, expected < 5", date.Format("2006-01-02"), diff)
		}
	}
}

func TestPolarDegenerateCases(t *testing.T) {
	calc := NewCalculator(nil, 0)

	tests := []struct {
		name      string
		date      time.Time
		loc       Location
		threshold float64
		dayLength float64
	}{
		{"arctic midsummer", time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), NewLocation(80.0, 0.0, 0), ThresholdSunrise, 24},
		{"arctic midwinter", time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), NewLocation(80.0, 0.0, 0), ThresholdSunrise, 0},
		{"antarctic midsummer", time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), NewLocation(-80.0, 0.0, 0), ThresholdSunrise, 24},
		{"antarctic midwinter", time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), NewLocation(-80.0, 0.0, 0), ThresholdSunrise, 0},
		{"no astronomical night at 60N midsummer", time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), NewLocation(60.0, 0.0, 0), ThresholdAstronomical, 24},
		// At 80N around the December solstice the Sun peaks near -13°, so
		// the time above the civil and nautical thresholds must be zero,
		// not a full day.
		{"no civil twilight at 80N midwinter", time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), NewLocation(80.0, 0.0, 0), ThresholdCivil, 0},
		{"no nautical twilight at 80N midwinter", time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), NewLocation(80.0, 0.0, 0), ThresholdNautical, 0},
		{"no civil twilight at 80S midwinter", time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), NewLocation(-80.0, 0.0, 0), ThresholdCivil, 0},
		{"continuous civil day at 80S midsummer", time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), NewLocation(-80.0, 0.0, 0), ThresholdCivil, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.ForThreshold(tt.date, tt.loc, tt.threshold)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.HasMorning || res.HasEvening {
				t.Errorf("expected no crossings, got %+v", res)
			}
			if res.DayLength != tt.dayLength {
				t.Errorf("day length = %v, expected exactly %v", res.DayLength, tt.dayLength)
			}
		})
	}
}

func TestWashingtonAstronomicalDusk(t *testing.T) {
	// The motivating real-world scenario: in Washington, DC on a spring date,
	// astronomical twilight ends roughly 80-100 minutes after sunset.
	calc := NewCalculator(nil, 0)
	date := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	loc := NewLocation(38.9, -77.0, -300)

	sun, err := calc.SunriseSunset(date, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	astro, err := calc.ForThreshold(date, loc, ThresholdAstronomical)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sun.HasEvening || !astro.HasEvening {
		t.Fatalf("expected evening instants: sun=%+v astro=%+v", sun, astro)
	}

	gap := (astro.Evening - sun.Evening) * 60
	if gap < 80 || gap > 100 {
		t.Errorf("astronomical dusk %.1f min after sunset, expected 80-100", gap)
	}
}

func TestUTCOffsetRollsInstantOffDate(t *testing.T) {
	// With an extreme western offset, the morning UT crossing lands before
	// local midnight and must be dropped; the evening one survives, and the
	// day length is still derived from the UT pair.
	calc := NewCalculator(nil, 0)
	date := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	loc := NewLocation(45.0, 0.0, -720)

	res, err := calc.SunriseSunset(date, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.HasMorning {
		t.Errorf("expected morning instant dropped after offset shift, got %.4fh", res.Morning)
	}
	if !res.HasEvening {
		t.Error("expected evening instant retained")
	}
	if res.DayLength < 14 || res.DayLength > 17 {
		t.Errorf("day length = %.2fh, expected midsummer value near 15.5h", res.DayLength)
	}
}

func TestIdempotence(t *testing.T) {
	calc := NewCalculator(nil, 0)
	date := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	loc := NewLocation(38.9, -77.0, -300)

	a, errA := calc.ForThreshold(date, loc, ThresholdNautical)
	b, errB := calc.ForThreshold(date, loc, ThresholdNautical)
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v %v", errA, errB)
	}
	if a != b {
		t.Errorf("repeated solve not bit-identical: %+v vs %+v", a, b)
	}
}

func TestYearSweepConsistency(t *testing.T) {
	// Day length at 45N should stay within sane bounds all year and both
	// crossings should always exist.
	calc := NewCalculator(nil, 0)
	loc := NewLocation(45.0, 0.0, 0)

	var lengths []float64
	for doy := 0; doy < 366; doy++ {
		date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, doy)
		res, err := calc.SunriseSunset(date, loc)
		if err != nil {
			t.Fatalf("day %d: unexpected error: %v", doy, err)
		}
		if !res.HasMorning || !res.HasEvening {
			t.Fatalf("day %d: unexpected polar conditions at 45N", doy)
		}
		lengths = append(lengths, res.DayLength)
	}

	if min := floats.Min(lengths); min < 8.0 {
		t.Errorf("minimum day length %.2fh below expected winter floor", min)
	}
	if max := floats.Max(lengths); max > 16.5 {
		t.Errorf("maximum day length %.2fh above expected summer ceiling", max)
	}
}
