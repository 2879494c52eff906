package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/chrissnell/daybreak/internal/constants"
	"github.com/chrissnell/daybreak/internal/log"
	"github.com/chrissnell/daybreak/pkg/report"
	"github.com/chrissnell/daybreak/pkg/responseformat"
	"github.com/chrissnell/daybreak/pkg/twilight"
)

// Handlers contains all HTTP handlers for the API server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// PhenomenonResponse is one threshold's times in API form. Times are local
// clock strings; null means the Sun never reaches the threshold that day.
type PhenomenonResponse struct {
	Threshold float64 `json:"threshold"`
	Morning   *string `json:"morning"`
	Evening   *string `json:"evening"`
	DayLength float64 `json:"day_length_hours"`
}

// TwilightResponse is the full per-date table for a location
type TwilightResponse struct {
	Location     string             `json:"location"`
	Date         string             `json:"date"`
	Sunrise      PhenomenonResponse `json:"sunrise"`
	Civil        PhenomenonResponse `json:"civil"`
	Nautical     PhenomenonResponse `json:"nautical"`
	Astronomical PhenomenonResponse `json:"astronomical"`
}

// LocationResponse describes one configured location
type LocationResponse struct {
	Name             string  `json:"name"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	UTCOffsetMinutes int     `json:"utc_offset_minutes"`
	Timezone         string  `json:"timezone,omitempty"`
}

// GetHealth handles health check requests
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.writeResponse(w, req, map[string]string{
		"status":  "ok",
		"version": constants.Version,
	})
}

// GetLocations returns the configured observer locations
func (h *Handlers) GetLocations(w http.ResponseWriter, req *http.Request) {
	resp := make([]LocationResponse, 0, len(h.controller.cfg.Locations))
	for _, ld := range h.controller.cfg.Locations {
		loc, err := h.controller.cfg.Location(ld.Name)
		if err != nil {
			// Incompletely configured locations are listed nowhere rather
			// than listed with invented coordinates.
			continue
		}
		resp = append(resp, LocationResponse{
			Name:             loc.Name(),
			Latitude:         loc.Latitude(),
			Longitude:        loc.Longitude(),
			UTCOffsetMinutes: loc.UTCOffsetMinutes(),
			Timezone:         loc.Timezone(),
		})
	}
	h.writeResponse(w, req, resp)
}

// GetTwilight returns the full threshold table for a date and location
func (h *Handlers) GetTwilight(w http.ResponseWriter, req *http.Request) {
	loc, date, ok := h.resolveQuery(w, req)
	if !ok {
		return
	}

	tbl, err := h.controller.calc.ForDate(date, loc)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "twilight computation failed")
		log.Errorf("twilight computation for %s failed: %v", loc.Name(), err)
		return
	}

	if store := h.controller.store; store != nil && store.DB != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.SaveTable(ctx, loc.Name(), date, tbl); err != nil {
				log.Errorf("error saving almanac table for %s: %v", loc.Name(), err)
			}
		}()
	}

	h.writeResponse(w, req, TwilightResponse{
		Location:     loc.Name(),
		Date:         date.Format("2006-01-02"),
		Sunrise:      phenomenon(twilight.ThresholdSunrise, tbl.Sunrise),
		Civil:        phenomenon(twilight.ThresholdCivil, tbl.Civil),
		Nautical:     phenomenon(twilight.ThresholdNautical, tbl.Nautical),
		Astronomical: phenomenon(twilight.ThresholdAstronomical, tbl.Astronomical),
	})
}

// GetAlmanac returns previously stored threshold rows for a date and location
func (h *Handlers) GetAlmanac(w http.ResponseWriter, req *http.Request) {
	store := h.controller.store
	if store == nil || store.DB == nil {
		h.writeError(w, http.StatusNotFound, "almanac storage is not configured")
		return
	}

	loc, date, ok := h.resolveQuery(w, req)
	if !ok {
		return
	}

	entries, err := store.GetEntries(req.Context(), loc.Name(), date)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "almanac lookup failed")
		log.Errorf("almanac lookup for %s failed: %v", loc.Name(), err)
		return
	}
	h.writeResponse(w, req, entries)
}

// GetSunrise returns only the sunrise/sunset pair for a date and location
func (h *Handlers) GetSunrise(w http.ResponseWriter, req *http.Request) {
	loc, date, ok := h.resolveQuery(w, req)
	if !ok {
		return
	}

	res, err := h.controller.calc.SunriseSunset(date, loc)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "sunrise computation failed")
		log.Errorf("sunrise computation for %s failed: %v", loc.Name(), err)
		return
	}

	h.writeResponse(w, req, struct {
		Location string             `json:"location"`
		Date     string             `json:"date"`
		Sunrise  PhenomenonResponse `json:"sunrise"`
	}{
		Location: loc.Name(),
		Date:     date.Format("2006-01-02"),
		Sunrise:  phenomenon(twilight.ThresholdSunrise, res),
	})
}

// resolveQuery parses the location and date query parameters, writing the
// appropriate error response when either is unusable
func (h *Handlers) resolveQuery(w http.ResponseWriter, req *http.Request) (twilight.Location, time.Time, bool) {
	name := req.URL.Query().Get("location")
	if name == "" {
		h.writeError(w, http.StatusBadRequest, "location parameter is required")
		return twilight.Location{}, time.Time{}, false
	}

	loc, err := h.controller.cfg.Location(name)
	if err != nil {
		if errors.Is(err, twilight.ErrLocationNotConfigured) {
			h.writeError(w, http.StatusNotFound, "unknown or incompletely configured location")
			return twilight.Location{}, time.Time{}, false
		}
		h.writeError(w, http.StatusInternalServerError, "location lookup failed")
		return twilight.Location{}, time.Time{}, false
	}

	dateStr := req.URL.Query().Get("date")
	if dateStr == "" {
		now := time.Now().UTC()
		return loc, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD form")
		return twilight.Location{}, time.Time{}, false
	}
	return loc, date, true
}

func (h *Handlers) writeResponse(w http.ResponseWriter, req *http.Request, data any) {
	if err := h.formatter.WriteResponse(w, req, data); err != nil {
		log.Errorf("error writing response: %v", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error": "` + msg + `"}`))
}

func phenomenon(threshold float64, res twilight.Result) PhenomenonResponse {
	p := PhenomenonResponse{
		Threshold: threshold,
		DayLength: res.DayLength,
	}
	if res.HasMorning {
		v := report.Clock(res.Morning)
		p.Morning = &v
	}
	if res.HasEvening {
		v := report.Clock(res.Evening)
		p.Evening = &v
	}
	return p
}
