package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"iri2020/internal/config"
	"iri2020/internal/iri"
	"iri2020/internal/metrics"
	"iri2020/internal/settings"
)

// maxBodyBytes bounds request bodies; altitude lists are the largest part.
const maxBodyBytes = 1 << 20

type gridRequest struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	N   int     `json:"n"`
}

type altitudeRequest struct {
	Altitudes []float64    `json:"altitudes,omitempty"`
	Grid      *gridRequest `json:"alt_grid,omitempty"`
}

type evaluateRequest struct {
	Time     *time.Time      `json:"time,omitempty"`
	Lat      *float64        `json:"lat"`
	Lon      *float64        `json:"lon"`
	Settings json.RawMessage `json:"settings,omitempty"`
	altitudeRequest
}

type lowLevelRequest struct {
	Lat       *float64        `json:"lat"`
	Lon       *float64        `json:"lon"`
	Year      int             `json:"year"`
	Day       int             `json:"day"`
	UTSeconds float64         `json:"ut_seconds"`
	Settings  json.RawMessage `json:"settings,omitempty"`
	altitudeRequest
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	source := s.settingsSource
	s.mu.RUnlock()

	checks := map[string]string{
		"model":    "ok",
		"settings": source,
	}
	status := "healthy"
	httpStatus := http.StatusOK

	if s.Fetcher != nil && !s.Config.MockupMode {
		files, err := s.Fetcher.Status(r.Context())
		switch {
		case err != nil:
			checks["reference_data"] = "error"
			status, httpStatus = "unhealthy", http.StatusServiceUnavailable
		default:
			checks["reference_data"] = "ok"
			for _, f := range files {
				if !f.Present {
					checks["reference_data"] = "missing " + f.Name
					status, httpStatus = "unhealthy", http.StatusServiceUnavailable
					break
				}
				if !f.Fresh {
					checks["reference_data"] = "stale"
				}
			}
		}
	}

	writeJSON(w, httpStatus, map[string]interface{}{
		"status":      status,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"version":     config.GetVersion(),
		"mockup_mode": s.Config.MockupMode,
		"checks":      checks,
	})
}

// HandleSettings returns the active defaults and every categorical choice
func (s *Server) HandleSettings(w http.ResponseWriter, r *http.Request) {
	def, c := s.Defaults()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"settings": def,
		"compiled": c,
		"variants": settings.Variants(),
	})
}

// HandleCompile compiles a partial settings record over the defaults
func (s *Server) HandleCompile(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	c, err := s.compile(body)
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleEvaluate runs the model for a timestamp, location and altitude grid.
// GET takes query parameters, POST a JSON body.
func (s *Server) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	var err error
	if r.Method == http.MethodGet {
		req, err = evaluateFromQuery(r)
	} else {
		err = decodeJSON(w, r, &req)
	}
	if err != nil {
		s.handleError(w, err)
		return
	}
	if req.Lat == nil || req.Lon == nil {
		s.handleError(w, fmt.Errorf("%w: lat and lon are required", settings.ErrInvalidInput))
		return
	}

	alts, err := s.altitudes(req.altitudeRequest)
	if err != nil {
		s.handleError(w, err)
		return
	}
	c, err := s.compile(req.Settings)
	if err != nil {
		s.handleError(w, err)
		return
	}

	when := time.Now().UTC()
	if req.Time != nil {
		when = *req.Time
	}

	_, res, err := s.Model.Evaluate(r.Context(), when, *req.Lat, *req.Lon, alts, c)
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleLowLevel runs the model with explicit year, day and UT seconds
func (s *Server) HandleLowLevel(w http.ResponseWriter, r *http.Request) {
	var req lowLevelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if req.Lat == nil || req.Lon == nil {
		s.handleError(w, fmt.Errorf("%w: lat and lon are required", settings.ErrInvalidInput))
		return
	}

	alts, err := s.altitudes(req.altitudeRequest)
	if err != nil {
		s.handleError(w, err)
		return
	}
	c, err := s.compile(req.Settings)
	if err != nil {
		s.handleError(w, err)
		return
	}

	_, res, err := s.Model.LowLevel(r.Context(), *req.Lat, *req.Lon, alts, req.Year, req.Day, req.UTSeconds, c)
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleDataStatus reports the reference data files
func (s *Server) HandleDataStatus(w http.ResponseWriter, r *http.Request) {
	if s.Fetcher == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"files": []interface{}{}})
		return
	}
	files, err := s.Fetcher.Status(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data_dir": s.Model.DataDir(),
		"files":    files,
	})
}

// compile merges a partial JSON settings record over the defaults. An empty
// record reuses the cached default compilation. The logfile is fixed by the
// service configuration and can't be set per request.
func (s *Server) compile(raw json.RawMessage) (*settings.Compiled, error) {
	def, c := s.Defaults()
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed == "{}" {
		return c, nil
	}
	merged, err := settings.Decode(settings.FormatJSON, raw, def)
	if err != nil {
		return nil, err
	}
	if merged.LogFile != def.LogFile {
		return nil, fmt.Errorf("%w: logfile can't be set per request", settings.ErrInvalidInput)
	}
	c, err = merged.Compile()
	if err != nil {
		return nil, err
	}
	metrics.SettingsCompilations.Inc()
	return c, nil
}

// altitudes resolves an explicit list or a grid, defaulting to the standard grid.
func (s *Server) altitudes(req altitudeRequest) ([]float64, error) {
	var alts []float64
	switch {
	case len(req.Altitudes) > 0 && req.Grid != nil:
		return nil, fmt.Errorf("%w: give either altitudes or alt_grid, not both", settings.ErrInvalidInput)
	case len(req.Altitudes) > 0:
		alts = req.Altitudes
	case req.Grid != nil:
		if req.Grid.N > s.Config.MaxAltitudes {
			return nil, fmt.Errorf("%w: %d altitudes exceeds the limit of %d", settings.ErrInvalidInput, req.Grid.N, s.Config.MaxAltitudes)
		}
		grid, err := iri.AltGrid(req.Grid.Min, req.Grid.Max, req.Grid.N)
		if err != nil {
			return nil, err
		}
		alts = grid
	default:
		alts = iri.DefaultAltGrid()
	}
	if len(alts) > s.Config.MaxAltitudes {
		return nil, fmt.Errorf("%w: %d altitudes exceeds the limit of %d", settings.ErrInvalidInput, len(alts), s.Config.MaxAltitudes)
	}
	return alts, nil
}

// evaluateFromQuery reads time, lat, lon and either alt=100,200 or
// alt_min/alt_max/alt_n from the URL.
func evaluateFromQuery(r *http.Request) (evaluateRequest, error) {
	q := r.URL.Query()
	var req evaluateRequest

	if v := q.Get("time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return req, fmt.Errorf("%w: time must be RFC 3339: %v", settings.ErrInvalidInput, err)
		}
		req.Time = &t
	}

	var err error
	if req.Lat, err = optionalFloat(q.Get("lat"), "lat"); err != nil {
		return req, err
	}
	if req.Lon, err = optionalFloat(q.Get("lon"), "lon"); err != nil {
		return req, err
	}

	if v := q.Get("alt"); v != "" {
		for _, part := range strings.Split(v, ",") {
			a, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return req, fmt.Errorf("%w: bad altitude %q", settings.ErrInvalidInput, part)
			}
			req.Altitudes = append(req.Altitudes, a)
		}
	}
	if q.Has("alt_min") || q.Has("alt_max") || q.Has("alt_n") {
		g := gridRequest{Min: iri.DefaultMinAltitude, Max: iri.DefaultMaxAltitude, N: iri.DefaultAltitudes}
		if v := q.Get("alt_min"); v != "" {
			if g.Min, err = strconv.ParseFloat(v, 64); err != nil {
				return req, fmt.Errorf("%w: bad alt_min %q", settings.ErrInvalidInput, v)
			}
		}
		if v := q.Get("alt_max"); v != "" {
			if g.Max, err = strconv.ParseFloat(v, 64); err != nil {
				return req, fmt.Errorf("%w: bad alt_max %q", settings.ErrInvalidInput, v)
			}
		}
		if v := q.Get("alt_n"); v != "" {
			if g.N, err = strconv.Atoi(v); err != nil {
				return req, fmt.Errorf("%w: bad alt_n %q", settings.ErrInvalidInput, v)
			}
		}
		req.Grid = &g
	}
	return req, nil
}

func optionalFloat(v, name string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad %s %q", settings.ErrInvalidInput, name, v)
	}
	return &f, nil
}
