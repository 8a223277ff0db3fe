package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/hlog"

	"auto-intel/pipeline/internal/analysis"
	"auto-intel/pipeline/internal/models"
	"auto-intel/pipeline/internal/server/pagination"
	"auto-intel/pipeline/internal/server/storage"
)

const defaultLimit = 100
const maxLimit = 1000
const iso8601Format = time.RFC3339

// ArticlesResponse is the payload for the articles endpoint.
type ArticlesResponse struct {
	Items      []models.Article `json:"items"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

// ReviewsResponse is the payload for the reviews endpoint.
type ReviewsResponse struct {
	Items      []models.CarReview `json:"items"`
	NextCursor *string            `json:"next_cursor,omitempty"`
}

// RecordsHandler serves paginated record listings.
type RecordsHandler struct {
	repo storage.RecordRepository
}

// NewRecordsHandler creates a new handler instance.
func NewRecordsHandler(repo storage.RecordRepository) *RecordsHandler {
	return &RecordsHandler{repo: repo}
}

// pageParams holds the validated pagination inputs of a listing request.
type pageParams struct {
	limit      int
	since      *time.Time
	cursorTime *time.Time
	cursorLink *string
}

// parsePageParams validates limit/since/cursor query parameters, writing the
// error response itself when validation fails.
func parsePageParams(w http.ResponseWriter, r *http.Request) (pageParams, bool) {
	log := hlog.FromRequest(r)
	query := r.URL.Query()

	params := pageParams{limit: defaultLimit}

	if limitStr := query.Get("limit"); limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err != nil || parsedLimit <= 0 || parsedLimit > maxLimit {
			log.Warn().Err(err).Str("limit", limitStr).Msg("Invalid 'limit' parameter value")
			http.Error(w, fmt.Sprintf("Invalid 'limit' parameter: must be between 1 and %d", maxLimit), http.StatusBadRequest)
			return params, false
		}
		params.limit = parsedLimit
	}

	cursorStr := query.Get("cursor")
	sinceStr := query.Get("since")

	switch {
	case cursorStr != "":
		ts, link, err := pagination.DecodeCursor(cursorStr)
		if err != nil {
			log.Warn().Err(err).Str("cursor", cursorStr).Msg("Invalid 'cursor' parameter")
			http.Error(w, "Invalid 'cursor' parameter", http.StatusBadRequest)
			return params, false
		}
		params.cursorTime = &ts
		params.cursorLink = &link
	case sinceStr != "":
		parsedSince, err := time.Parse(iso8601Format, sinceStr)
		if err != nil {
			log.Warn().Err(err).Str("since", sinceStr).Msg("Invalid 'since' parameter format")
			http.Error(w, "Invalid 'since' parameter: use RFC3339 format (e.g., 2025-03-28T15:00:00Z)", http.StatusBadRequest)
			return params, false
		}
		utcSince := parsedSince.UTC()
		params.since = &utcSince
	default:
		log.Warn().Msg("Missing required parameter: 'since' or 'cursor'")
		http.Error(w, "Missing required parameter: 'since' or 'cursor'", http.StatusBadRequest)
		return params, false
	}

	return params, true
}

// GetArticles handles requests for persisted news articles.
func (h *RecordsHandler) GetArticles(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	log.Debug().Msg("Processing articles request")

	params, ok := parsePageParams(w, r)
	if !ok {
		return
	}

	items, err := h.repo.FetchArticles(r.Context(), params.limit+1, params.since, params.cursorTime, params.cursorLink) // Fetch one extra
	if err != nil {
		log.Error().Err(err).Msg("Error fetching articles from repository")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	response := ArticlesResponse{Items: items}
	if len(items) > params.limit {
		response.Items = items[:params.limit]
		last := response.Items[len(response.Items)-1]
		cursor := pagination.EncodeCursor(last.CreatedAt.UTC(), last.Link)
		response.NextCursor = &cursor
	}

	writeJSON(w, r, response)
}

// GetReviews handles requests for persisted car reviews.
func (h *RecordsHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	log.Debug().Msg("Processing reviews request")

	params, ok := parsePageParams(w, r)
	if !ok {
		return
	}

	items, err := h.repo.FetchReviews(r.Context(), params.limit+1, params.since, params.cursorTime, params.cursorLink)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching reviews from repository")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	response := ReviewsResponse{Items: items}
	if len(items) > params.limit {
		response.Items = items[:params.limit]
		last := response.Items[len(response.Items)-1]
		cursor := pagination.EncodeCursor(last.CreatedAt.UTC(), last.Link)
		response.NextCursor = &cursor
	}

	writeJSON(w, r, response)
}

// AnalysisHandler serves the cached analysis report.
type AnalysisHandler struct {
	cache *analysis.Cache
}

// NewAnalysisHandler creates a handler over an analysis cache.
func NewAnalysisHandler(cache *analysis.Cache) *AnalysisHandler {
	return &AnalysisHandler{cache: cache}
}

// GetReport returns the current analysis report, recomputing it when stale.
func (h *AnalysisHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	report, err := h.cache.Report(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error computing analysis report")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, report)
}

// Refresh recomputes the analysis report immediately.
func (h *AnalysisHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	report, err := h.cache.Refresh(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error refreshing analysis report")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, report)
}

func writeJSON(w http.ResponseWriter, r *http.Request, payload any) {
	log := hlog.FromRequest(r)

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling JSON response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, writeErr := w.Write(jsonBytes); writeErr != nil {
		log.Error().Err(writeErr).Msg("Error writing JSON response body to client")
	}
	log.Debug().Int("bytes_written", len(jsonBytes)).Msg("Response completed")
}
