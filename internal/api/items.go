package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/access"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// ItemsHandler handles the minimal item surface the ownership model needs:
// items exist inside inventories, mirror the inventory's owner, and get
// bulk-reassigned on transfer.
type ItemsHandler struct {
	DB     *sql.DB
	Policy access.Policy
}

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List handles GET /api/inventories/{id}/items. Requires view.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := inventoryID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if requireLevel(w, r, h.DB, h.Policy, id, model.LevelView) == nil {
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/inventories/{id}/items. Requires edit_items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := inventoryID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := requireLevel(w, r, h.DB, h.Policy, id, model.LevelEditItems)
	if user == nil {
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, id, req.Name, req.Description)
	if err != nil {
		slog.Error("failed to create item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	slog.Info("item created", "user", user.Username, "inventory_id", id, "item", item.Name)
	jsonResponse(w, http.StatusCreated, item)
}
