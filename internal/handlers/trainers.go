package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/pokequest/pkg/actor"
	"github.com/jwebster45206/pokequest/pkg/storage"
)

type TrainerHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewTrainerHandler(log *slog.Logger, storage storage.Storage) *TrainerHandler {
	return &TrainerHandler{
		log:     log,
		storage: storage,
	}
}

// ServeHTTP routes:
// GET /v1/trainers      - List trainer summaries
// GET /v1/trainers/{id} - Trainer with its d20 stats
func (h *TrainerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}
	if r.URL.Path == "/v1/trainers" || r.URL.Path == "/v1/trainers/" {
		h.listTrainers(w, r)
		return
	}
	h.handleGet(w, r)
}

func (h *TrainerHandler) listTrainers(w http.ResponseWriter, r *http.Request) {
	ids, err := h.storage.ListTrainers(r.Context())
	if err != nil {
		h.log.Error("Failed to list trainers", "error", err)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to list trainers")
		return
	}

	// Initialize as empty slice instead of nil
	list := make([]map[string]any, 0)
	for _, id := range ids {
		spec, err := h.storage.GetTrainerSpec(r.Context(), id)
		if err != nil {
			h.log.Warn("Failed to load trainer spec", "error", err, "id", id)
			continue
		}
		list = append(list, map[string]any{
			"id":       spec.ID,
			"name":     spec.Name,
			"pronouns": spec.Pronouns,
			"hometown": spec.Hometown,
			"badges":   len(spec.Badges),
		})
	}
	writeJSON(w, h.log, http.StatusOK, list)
}

func (h *TrainerHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/v1/trainers/"))
	if !validID(id) {
		writeError(w, h.log, http.StatusBadRequest, "Invalid trainer ID")
		return
	}

	spec, err := h.storage.GetTrainerSpec(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, h.log, http.StatusNotFound, "Trainer not found")
			return
		}
		h.log.Error("Failed to load trainer spec", "error", err, "id", id)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to load trainer")
		return
	}

	trainer, err := actor.NewTrainerFromSpec(spec)
	if err != nil {
		h.log.Error("Failed to build trainer from spec", "error", err, "id", id)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to build trainer")
		return
	}

	// Trainer.MarshalJSON reads current values from the Actor
	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"trainer": trainer,
		"summary": trainer.Summary(),
	})
}
