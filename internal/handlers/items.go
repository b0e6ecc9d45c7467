package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/pokequest/pkg/battle"
	"github.com/jwebster45206/pokequest/pkg/storage"
)

type ItemHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewItemHandler(log *slog.Logger, storage storage.Storage) *ItemHandler {
	return &ItemHandler{log: log, storage: storage}
}

// ServeHTTP handles GET /v1/items, returning every item definition.
func (h *ItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	ids, err := h.storage.ListItems(r.Context())
	if err != nil {
		h.log.Error("Failed to list items", "error", err)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to list items")
		return
	}

	items := make([]*battle.InventoryItem, 0, len(ids))
	for _, id := range ids {
		item, err := h.storage.GetItem(r.Context(), id)
		if err != nil {
			h.log.Warn("Failed to load item", "error", err, "id", id)
			continue
		}
		items = append(items, item)
	}
	writeJSON(w, h.log, http.StatusOK, items)
}
