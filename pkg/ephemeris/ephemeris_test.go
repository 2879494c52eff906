package ephemeris

import (
	"math"
	"testing"
	"time"
)

func TestJulianCenturies(t *testing.T) {
	var m Model

	tests := []struct {
		name     string
		date     time.Time
		expected float64
		tol      float64
	}{
		{
			name:     "J2000 epoch date (2000-01-01 0h UT is half a day before epoch)",
			date:     time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: -0.5 / 36525.0,
			tol:      1e-9,
		},
		{
			name:     "one Julian century after epoch",
			date:     time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: (36525.0 - 0.5) / 36525.0,
			tol:      1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.JulianCenturies(tt.date)
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("JulianCenturies = %.10f, expected %.10f", got, tt.expected)
			}
		})
	}
}

func TestSiderealMidnight(t *testing.T) {
	var m Model

	// GMST at 2000-01-01 0h UT is 6h 39m 52.3s (6.6645h), a standard
	// almanac value.
	got := m.SiderealMidnight(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	if math.Abs(got-6.6645) > 0.001 {
		t.Errorf("SiderealMidnight = %.4fh, expected ~6.6645h", got)
	}
}

func TestDeclination(t *testing.T) {
	var m Model

	tests := []struct {
		name     string
		date     time.Time
		expected float64 // degrees
		tol      float64
	}{
		{"March equinox", time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), 0.0, 0.5},
		{"June solstice", time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), 23.43, 0.1},
		{"December solstice", time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), -23.43, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Declination(m.JulianCenturies(tt.date))
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("declination = %.3f°, expected %.2f° ±%.2f", got, tt.expected, tt.tol)
			}
		})
	}
}

func TestEquationOfTime(t *testing.T) {
	var m Model

	// Classic extremes of the equation of time: around Nov 3 the apparent sun
	// leads the mean sun by ~16.4 minutes; around Feb 11 it lags by ~14.2.
	tests := []struct {
		name     string
		date     time.Time
		expected float64 // minutes
		tol      float64
	}{
		{"early November maximum", time.Date(2024, 11, 3, 12, 0, 0, 0, time.UTC), 16.4, 0.5},
		{"mid February minimum", time.Date(2024, 2, 11, 12, 0, 0, 0, time.UTC), -14.2, 0.5},
		{"mid April zero crossing", time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC), 0.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EquationOfTime(m.JulianCenturies(tt.date))
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("equation of time = %.2f min, expected %.1f ±%.1f", got, tt.expected, tt.tol)
			}
		})
	}
}

func TestAltitudeAtLocalNoon(t *testing.T) {
	var m Model

	// At exact local noon the Sun's altitude should be 90 - |lat - dec|
	// to within the model's accuracy.
	tests := []struct {
		name string
		date time.Time
		lat  float64
		lon  float64
	}{
		{"equator at equinox", time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), 0.0, 0.0},
		{"mid northern latitude", time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), 45.0, -105.0},
		{"southern latitude east longitude", time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), -33.9, 151.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noon := m.ExactLocalNoon(tt.date, tt.lon)
			alt := m.Altitude(noon, tt.lat, tt.lon)

			dec := Declination(noon.Centuries + noon.UT/(24*36525))
			expected := 90.0 - math.Abs(tt.lat-dec)

			if math.Abs(alt-expected) > 0.2 {
				t.Errorf("noon altitude = %.3f°, expected %.3f° ±0.2", alt, expected)
			}
		})
	}
}

func TestAltitudeDayNightContrast(t *testing.T) {
	var m Model

	// Twelve hours away from local noon the Sun should be well below the
	// horizon at mid latitudes near the equinox.
	noon := m.ExactLocalNoon(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), 0.0)
	midnight := TimePair{Centuries: noon.Centuries, UT: noon.UT + 12}

	if alt := m.Altitude(noon, 40.0, 0.0); alt < 30 {
		t.Errorf("noon altitude = %.2f°, expected well above horizon", alt)
	}
	if alt := m.Altitude(midnight, 40.0, 0.0); alt > -30 {
		t.Errorf("midnight altitude = %.2f°, expected well below horizon", alt)
	}
}
