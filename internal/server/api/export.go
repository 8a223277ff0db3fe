package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"auto-intel/pipeline/internal/database"
	"auto-intel/pipeline/internal/export"
)

// ExportHandler streams record tables as CSV downloads.
type ExportHandler struct {
	db *database.DB
}

// NewExportHandler creates a handler over the record database.
func NewExportHandler(db *database.DB) *ExportHandler {
	return &ExportHandler{db: db}
}

// Articles writes every stored article as a CSV attachment.
func (h *ExportHandler) Articles(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "article_news", export.WriteArticles)
}

// Reviews writes every stored review as a CSV attachment.
func (h *ExportHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "car_reviews", export.WriteReviews)
}

func (h *ExportHandler) serve(w http.ResponseWriter, r *http.Request, name string, write export.WriteFunc) {
	log := hlog.FromRequest(r)

	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().UTC().Format("200601021504"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	rows, err := write(r.Context(), h.db, w)
	if err != nil {
		// Headers may already be sent, so the best we can do is log.
		log.Error().Err(err).Str("export", name).Msg("Error streaming CSV export")
		return
	}
	log.Info().Str("export", name).Int("rows", rows).Msg("CSV export completed")
}
