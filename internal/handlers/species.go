package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/pokequest/pkg/storage"
)

type SpeciesHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewSpeciesHandler(log *slog.Logger, storage storage.Storage) *SpeciesHandler {
	return &SpeciesHandler{log: log, storage: storage}
}

// ServeHTTP routes:
// GET /v1/species      - List species IDs and names
// GET /v1/species/{id} - Full species record
func (h *SpeciesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/species"), "/")
	if id == "" {
		h.list(w, r)
		return
	}
	if !validID(id) {
		writeError(w, h.log, http.StatusBadRequest, "Invalid species ID")
		return
	}

	sp, err := h.storage.GetSpecies(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, h.log, http.StatusNotFound, "Species not found")
			return
		}
		h.log.Error("Failed to load species", "error", err, "id", id)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to load species")
		return
	}
	writeJSON(w, h.log, http.StatusOK, sp)
}

func (h *SpeciesHandler) list(w http.ResponseWriter, r *http.Request) {
	ids, err := h.storage.ListSpecies(r.Context())
	if err != nil {
		h.log.Error("Failed to list species", "error", err)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to list species")
		return
	}

	list := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		sp, err := h.storage.GetSpecies(r.Context(), id)
		if err != nil {
			h.log.Warn("Failed to load species", "error", err, "id", id)
			continue
		}
		list = append(list, map[string]any{
			"id":    sp.ID,
			"name":  sp.Name,
			"types": sp.Types,
		})
	}
	writeJSON(w, h.log, http.StatusOK, list)
}
