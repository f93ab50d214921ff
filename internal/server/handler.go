// Package server exposes generation over HTTP for API load testing
// and demo environments: post a plan, get counts back, then export the
// generated graph as NDJSON or a Bundle.
package server

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/legitrace/fhirsynth/internal/plan"
	"github.com/legitrace/fhirsynth/internal/synth"
	"github.com/legitrace/fhirsynth/internal/validate"
	"github.com/legitrace/fhirsynth/internal/writer"
)

// Server holds the last generated dataset. One dataset at a time; a
// new generation replaces the previous one.
type Server struct {
	logger     zerolog.Logger
	maxPersons int

	mu     sync.Mutex
	plan   *plan.Plan
	graph  *synth.Graph
	result *validate.Result
}

// New returns a server. maxPersons caps the population size accepted
// over HTTP so a stray request cannot exhaust memory.
func New(logger zerolog.Logger, maxPersons int) *Server {
	return &Server{logger: logger, maxPersons: maxPersons}
}

// Register mounts the routes on an echo instance.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.POST("/generate", s.Generate)
	e.GET("/export/ndjson/:type", s.ExportNDJSON)
	e.GET("/export/bundle", s.ExportBundle)
	e.GET("/validation", s.Validation)
}

// GenerateResponse is the body returned by POST /generate.
type GenerateResponse struct {
	Seed       int64          `json:"seed"`
	Total      int            `json:"total"`
	Counts     map[string]int `json:"counts"`
	Valid      bool           `json:"valid"`
	Errors     int            `json:"errors"`
	Warnings   int            `json:"warnings"`
	DurationMS int64          `json:"duration_ms"`
}

// Generate accepts a plan document (JSON or YAML), runs a full
// generation, validates it, and keeps the graph for export.
func (s *Server) Generate(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "read body: "+err.Error())
	}

	p, err := plan.Parse(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if p.Population.Persons > s.maxPersons {
		return echo.NewHTTPError(http.StatusBadRequest,
			"population.persons exceeds the server limit")
	}

	start := time.Now()
	gen, err := synth.NewGenerator(p, s.logger)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	graph, err := gen.Generate()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	result := validate.Dataset(graph, p)

	s.mu.Lock()
	s.plan, s.graph, s.result = p, graph, result
	s.mu.Unlock()

	s.logger.Info().
		Int64("seed", p.Seed).
		Int("resources", graph.Len()).
		Bool("valid", result.IsValid()).
		Msg("dataset generated")

	return c.JSON(http.StatusOK, GenerateResponse{
		Seed:       p.Seed,
		Total:      graph.Len(),
		Counts:     graph.CountByType(),
		Valid:      result.IsValid(),
		Errors:     len(result.Errors),
		Warnings:   len(result.Warnings),
		DurationMS: time.Since(start).Milliseconds(),
	})
}

// ExportNDJSON streams one resource type from the last generated
// dataset as NDJSON.
func (s *Server) ExportNDJSON(c echo.Context) error {
	s.mu.Lock()
	graph := s.graph
	s.mu.Unlock()

	if graph == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no dataset generated yet")
	}

	resourceType := c.Param("type")
	if len(graph.IDs(resourceType)) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no resources of type "+resourceType)
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/x-ndjson")
	c.Response().WriteHeader(http.StatusOK)
	return writer.EncodeTypeNDJSON(c.Response(), graph, resourceType)
}

// ExportBundle streams the last generated dataset as a Bundle. The
// bundle type comes from the generating plan unless overridden with
// the ?type= query parameter.
func (s *Server) ExportBundle(c echo.Context) error {
	s.mu.Lock()
	graph, p := s.graph, s.plan
	s.mu.Unlock()

	if graph == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no dataset generated yet")
	}

	bundleType := c.QueryParam("type")
	if bundleType == "" {
		bundleType = p.Outputs.BundleType
	}
	switch bundleType {
	case "", "collection", "transaction":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown bundle type "+bundleType)
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Response().WriteHeader(http.StatusOK)
	return writer.EncodeBundle(c.Response(), graph, bundleType)
}

// ValidationResponse is the body returned by GET /validation.
type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Summary  string   `json:"summary"`
}

// Validation returns the validator findings for the last generation.
func (s *Server) Validation(c echo.Context) error {
	s.mu.Lock()
	result := s.result
	s.mu.Unlock()

	if result == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no dataset generated yet")
	}
	return c.JSON(http.StatusOK, ValidationResponse{
		Valid:    result.IsValid(),
		Errors:   result.Errors,
		Warnings: result.Warnings,
		Summary:  result.Summary(),
	})
}

// Health reports liveness.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
