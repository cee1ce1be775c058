package api

import (
	"encoding/json/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/venuetable/venuetable-server/internal/http/response"
	"github.com/venuetable/venuetable-server/internal/scroll"
)

// handleTimetable returns the full rendering contract for one day.
// Query: day (2006-01-02), defaults to today.
func (s *Server) handleTimetable(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if dayStr := r.URL.Query().Get("day"); dayStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dayStr, time.Local)
		if err != nil {
			response.BadRequest(w, "day must be formatted as 2006-01-02", s.logger)
			return
		}
		day = parsed
	}

	view, err := s.timetableService.Timetable(r.Context(), day)
	if err != nil {
		s.logger.Error("Failed to assemble timetable", "error", err, "day", day.Format("2006-01-02"))
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, view, s.logger)
}

// handleTimetableDays returns the day navigation strip for an inclusive date
// range. Query: from, to (2006-01-02); defaults to the current month.
func (s *Server) handleTimetableDays(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, -1)

	if fromStr := query.Get("from"); fromStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
		if err != nil {
			response.BadRequest(w, "from must be formatted as 2006-01-02", s.logger)
			return
		}
		from = parsed
	}
	if toStr := query.Get("to"); toStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
		if err != nil {
			response.BadRequest(w, "to must be formatted as 2006-01-02", s.logger)
			return
		}
		to = parsed
	}

	days, err := s.timetableService.Days(r.Context(), from, to)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, days, s.logger)
}

// scrollResult is the response body for scroll callbacks.
type scrollResult struct {
	Accepted bool                           `json:"accepted"`
	Offsets  map[scroll.Pane]scroll.Offsets `json:"offsets"`
}

// handleScroll forwards a pane's scroll callback to the coordinator.
// A rejected callback is the echo of a direct write and not an error.
func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	pane := scroll.Pane(chi.URLParam(r, "pane"))
	if !pane.Valid() {
		response.BadRequest(w, "pane must be one of ruler, header, body", s.logger)
		return
	}

	var offsets scroll.Offsets
	if err := json.UnmarshalRead(r.Body, &offsets); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	accepted, snapshot := s.timetableService.Scroll(pane, offsets)
	response.Success(w, scrollResult{Accepted: accepted, Offsets: snapshot}, s.logger)
}
