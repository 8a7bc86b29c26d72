// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package server

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/wneessen/sunspot/internal/logger"
	"github.com/wneessen/sunspot/internal/service"
)

// maxBodySize limits the size of request bodies (1 MiB)
const maxBodySize = 1 << 20

const (
	contentTypeJSON    = "application/json"
	contentTypeGeoJSON = "application/geo+json"
	formatGeoJSON      = "geojson"
)

//go:embed templates/*.html
var templates embed.FS

var indexTpl = template.Must(template.ParseFS(templates, "templates/index.html"))

type sunlightRequest struct {
	Location     string   `json:"location"`
	RadiusMeters *float64 `json:"radius_meters"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type indexData struct {
	DefaultRadius float64
	MaxRadius     float64
	Version       string
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := indexData{
		DefaultRadius: s.config.Estimation.DefaultRadius,
		MaxRadius:     s.config.Estimation.MaxRadius,
		Version:       s.version,
	}
	if err := indexTpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render index page", logger.Err(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSunlight(w http.ResponseWriter, r *http.Request) {
	var body sunlightRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := decoder.Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	body.Location = strings.TrimSpace(body.Location)
	if body.Location == "" {
		s.writeError(w, http.StatusBadRequest, "Location is required.")
		return
	}
	req := service.Request{Location: body.Location}
	if body.RadiusMeters != nil {
		if *body.RadiusMeters <= 0 {
			s.writeError(w, http.StatusBadRequest, "radius_meters must be a positive number.")
			return
		}
		req.Radius = *body.RadiusMeters
	}

	report, err := s.estimator.Estimate(r.Context(), req)
	if err != nil {
		s.writeEstimateError(w, r, err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), formatGeoJSON) {
		data, err := s.presenter.GeoJSON(report)
		if err != nil {
			s.logger.Error("failed to render GeoJSON", logger.Err(err))
			s.writeError(w, http.StatusInternalServerError, "Failed to render GeoJSON.")
			return
		}
		w.Header().Set("Content-Type", contentTypeGeoJSON)
		w.WriteHeader(http.StatusOK)
		if _, err = w.Write(data); err != nil {
			s.logger.Error("failed to write response", logger.Err(err))
		}
		return
	}

	s.writeJSON(w, http.StatusOK, s.presenter.Response(report))
}

func (s *Server) writeEstimateError(w http.ResponseWriter, r *http.Request, err error) {
	var stepErr *service.StepError
	switch {
	case errors.Is(err, service.ErrLocationRequired):
		s.writeError(w, http.StatusBadRequest, "Location is required.")
	case errors.Is(err, service.ErrInvalidRadius):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTimeout):
		s.writeError(w, http.StatusGatewayTimeout, "Estimation timed out.")
	case errors.Is(err, service.ErrGeocoding) && errors.As(err, &stepErr):
		s.writeError(w, http.StatusInternalServerError, "Geocoding failed: "+stepErr.Err.Error())
	case errors.Is(err, service.ErrSolarPosition) && errors.As(err, &stepErr):
		s.writeError(w, http.StatusInternalServerError, "Solar position calculation failed: "+stepErr.Err.Error())
	default:
		s.logger.Error("sunlight estimation failed", logger.Err(err),
			slog.String("request_id", middleware.GetReqID(r.Context())))
		s.writeError(w, http.StatusInternalServerError, "Internal server error.")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode JSON response", logger.Err(err))
	}
}
