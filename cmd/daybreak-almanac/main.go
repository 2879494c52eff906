package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/daybreak/pkg/report"
	"github.com/chrissnell/daybreak/pkg/twilight"
)

func main() {
	var (
		dateStr   string
		lat       float64
		lon       float64
		utcOffset int
		tz        string
		name      string
		yearMode  bool
	)

	flag.StringVar(&dateStr, "date", "", "Date to compute for (YYYY-MM-DD, default today)")
	flag.Float64Var(&lat, "lat", 0, "Latitude in degrees, north positive")
	flag.Float64Var(&lon, "lon", 0, "Longitude in degrees, east positive")
	flag.IntVar(&utcOffset, "utc-offset", 0, "Standard-time UTC offset in minutes (e.g. -300 for UTC-5)")
	flag.StringVar(&tz, "tz", "", "IANA time zone name for daylight-saving adjustment (optional)")
	flag.StringVar(&name, "name", "", "Display name for the location (optional)")
	flag.BoolVar(&yearMode, "year", false, "Print an annual day-length summary instead of one date's table")
	flag.Parse()

	var date time.Time
	if dateStr == "" {
		now := time.Now().UTC()
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		var err error
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			os.Exit(1)
		}
	}

	loc := twilight.NewLocation(lat, lon, utcOffset)
	if name != "" {
		loc = loc.WithName(name)
	}
	if tz != "" {
		loc = loc.WithTimezone(tz)
	}

	if yearMode {
		if err := printYearSummary(date.Year(), loc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	r := report.NewReporter(nil)
	summary, err := r.Summary(date, loc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(summary)
}

func printYearSummary(year int, loc twilight.Location) error {
	calc := twilight.NewCalculator(nil, 0)

	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	var lengths []float64
	var polarDay, polarNight int

	for d := start; d.Year() == year; d = d.AddDate(0, 0, 1) {
		res, err := calc.SunriseSunset(d, loc)
		if err != nil {
			return err
		}
		lengths = append(lengths, res.DayLength)
		if !res.HasMorning && !res.HasEvening {
			if res.DayLength == 24 {
				polarDay++
			} else {
				polarNight++
			}
		}
	}

	shortest := floats.MinIdx(lengths)
	longest := floats.MaxIdx(lengths)

	fmt.Printf("Day length summary for %d\n", year)
	fmt.Printf("  Mean:     %s\n", report.Duration(stat.Mean(lengths, nil)))
	fmt.Printf("  Shortest: %s on %s\n", report.Duration(lengths[shortest]), start.AddDate(0, 0, shortest).Format("Jan 2"))
	fmt.Printf("  Longest:  %s on %s\n", report.Duration(lengths[longest]), start.AddDate(0, 0, longest).Format("Jan 2"))
	if polarDay > 0 {
		fmt.Printf("  Days without sunset:  %d\n", polarDay)
	}
	if polarNight > 0 {
		fmt.Printf("  Days without sunrise: %d\n", polarNight)
	}
	return nil
}
