package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/hyperjump/lindenview/internal/config"
	"github.com/hyperjump/lindenview/internal/explain"
	"github.com/hyperjump/lindenview/internal/models"
	"github.com/hyperjump/lindenview/internal/table"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type renderResponse struct {
	RenderID string `json:"render_id"`
	*models.ResultTable
	TotalHits    int64    `json:"total_hits"`
	Cost         int64    `json:"cost"`
	Facets       string   `json:"facets,omitempty"`
	Aggregations string   `json:"aggregations,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

type explainResponse struct {
	Summary  string   `json:"summary"`
	Warnings []string `json:"warnings,omitempty"`
}

type schemaBody struct {
	Fields []string `json:"fields"`
}

// renderOptions reads ?fields= and ?depth= on top of the server defaults.
func (s *Server) renderOptions(r *http.Request) (*models.RenderOptions, error) {
	opts := &models.RenderOptions{DepthCap: s.depthCap}
	q := r.URL.Query()
	if v := q.Get("fields"); v != "" {
		opts.Fields = models.ParseFieldList(v)
	}
	if v := q.Get("depth"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("depth must be an integer")
		}
		opts.DepthCap = depth
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var result models.SearchResult
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&result); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := result.Err(); err != nil {
		s.logger.Warn("search service reported failure", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = s.schema.Fields()
	}
	renderID := uuid.NewString()
	summarizer := explain.NewSummarizer(opts.DepthCap)
	s.logger.Debug("render request",
		zap.String("render_id", renderID),
		zap.Int("hits", len(result.Hits)),
		zap.Strings("fields", fields),
		zap.Int("depth_cap", summarizer.DepthCap()),
	)

	tbl, buildErr := table.NewBuilder(table.WithSummarizer(summarizer)).Build(result.Hits, fields)
	if buildErr != nil {
		s.logger.Warn("render degraded", zap.String("render_id", renderID), zap.Error(buildErr))
	}
	w.Header().Set("X-Render-ID", renderID)
	s.respondJSON(w, http.StatusOK, &renderResponse{
		RenderID:     renderID,
		ResultTable:  tbl,
		TotalHits:    result.TotalHits,
		Cost:         result.Cost,
		Facets:       result.PrettyFacets(),
		Aggregations: result.PrettyAggregations(),
		Warnings:     errorMessages(buildErr),
	})
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var root models.ExplanationNode
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&root); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	summary, sumErr := explain.Summarize(&root, opts.DepthCap)
	if sumErr != nil {
		s.logger.Debug("explanation rendered with substitutions", zap.Error(sumErr))
	}
	s.respondJSON(w, http.StatusOK, &explainResponse{Summary: summary, Warnings: errorMessages(sumErr)})
}

func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, &schemaBody{Fields: s.schema.Fields()})
}

// handlePutSchema replaces the field list. When the config names a schema file,
// that file owns the list and the request is refused.
func (s *Server) handlePutSchema(w http.ResponseWriter, r *http.Request) {
	if s.fullConfig != nil && s.fullConfig.Schema.ConfigPath != "" {
		s.respondError(w, http.StatusConflict,
			fmt.Sprintf("schema fields are loaded from %s; edit that file instead", s.fullConfig.Schema.ConfigPath))
		return
	}
	var body schemaBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, f := range body.Fields {
		if f == "" {
			s.respondError(w, http.StatusBadRequest, "field names cannot be empty")
			return
		}
	}
	if body.Fields == nil {
		body.Fields = []string{}
	}
	s.logger.Debug("schema update request", zap.Strings("fields", body.Fields))
	s.schema.Set(body.Fields)
	if s.configPath != "" && s.fullConfig != nil {
		s.configMu.Lock()
		s.fullConfig.Schema.Fields = body.Fields
		err := config.Save(s.configPath, s.fullConfig)
		s.configMu.Unlock()
		if err != nil {
			s.logger.Warn("failed to persist schema fields", zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, &body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func errorMessages(err error) []string {
	errs := multierr.Errors(err)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return msgs
}
