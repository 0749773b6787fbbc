package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/zaloga/internal/access"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// InventoriesHandler handles inventory endpoints. Every protected operation
// resolves the acting user's effective permission level fresh before
// proceeding.
type InventoriesHandler struct {
	DB     *sql.DB
	Policy access.Policy
}

type createInventoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateInventoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type permissionResponse struct {
	InventoryID int64       `json:"inventory_id"`
	Level       model.Level `json:"level"`
}

// inventoryID parses the {id} path value.
func inventoryID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid inventory id")
	}
	return id, nil
}

// requireLevel resolves the acting user's level on an inventory and checks
// it against the minimum. Returns the user on success, or writes the error
// response and returns nil.
func requireLevel(w http.ResponseWriter, r *http.Request, db *sql.DB, pol access.Policy, id int64, minimum model.Level) *model.User {
	user, err := actingUser(r, db)
	if err != nil {
		accessError(w, err)
		return nil
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return nil
	}

	level, err := access.Resolve(r.Context(), db, pol, user, id)
	if err != nil {
		accessError(w, err)
		return nil
	}
	if !level.AtLeast(minimum) {
		jsonError(w, http.StatusForbidden, "insufficient permissions")
		return nil
	}
	return user
}

// List handles GET /api/inventories: everything the user owns, has a share
// on, or can reach through an all-access grant.
func (h *InventoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r, h.DB)
	if err != nil {
		accessError(w, err)
		return
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	inventories, err := store.ListAccessibleInventories(r.Context(), h.DB, user.ID)
	if err != nil {
		slog.Error("failed to list inventories", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list inventories")
		return
	}
	if inventories == nil {
		inventories = []model.Inventory{}
	}
	jsonResponse(w, http.StatusOK, inventories)
}

// Create handles POST /api/inventories. The creator becomes the owner.
func (h *InventoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r, h.DB)
	if err != nil {
		accessError(w, err)
		return
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createInventoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	inv, err := store.CreateInventory(r.Context(), h.DB, req.Name, req.Description, user.ID)
	if err != nil {
		slog.Error("failed to create inventory", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create inventory")
		return
	}

	slog.Info("inventory created", "user", user.Username, "inventory", inv.Name)
	jsonResponse(w, http.StatusCreated, inv)
}

// Get handles GET /api/inventories/{id}. Requires view.
func (h *InventoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := inventoryID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if requireLevel(w, r, h.DB, h.Policy, id, model.LevelView) == nil {
		return
	}

	inv, err := store.GetInventory(r.Context(), h.DB, id)
	if err != nil || inv == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get inventory")
		return
	}
	jsonResponse(w, http.StatusOK, inv)
}

// Update handles PUT /api/inventories/{id}. Requires edit_inventory.
func (h *InventoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := inventoryID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := requireLevel(w, r, h.DB, h.Policy, id, model.LevelEditInventory)
	if user == nil {
		return
	}

	var req updateInventoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateInventory(r.Context(), h.DB, id, req.Name, req.Description); err != nil {
		slog.Error("failed to update inventory", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update inventory")
		return
	}

	slog.Info("inventory updated", "user", user.Username, "inventory_id", id)
	inv, _ := store.GetInventory(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, inv)
}

// Delete handles DELETE /api/inventories/{id}. Owner-only.
func (h *InventoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := inventoryID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := requireLevel(w, r, h.DB, h.Policy, id, model.LevelOwner)
	if user == nil {
		return
	}

	if err := store.DeleteInventory(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete inventory", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete inventory")
		return
	}

	slog.Info("inventory deleted", "user", user.Username, "inventory_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "inventory deleted"})
}

// Permission handles GET /api/inventories/{id}/permission: the acting
// user's own effective level, resolved fresh.
func (h *InventoriesHandler) Permission(w http.ResponseWriter, r *http.Request) {
	id, err := inventoryID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := actingUser(r, h.DB)
	if err != nil {
		accessError(w, err)
		return
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	level, err := access.Resolve(r.Context(), h.DB, h.Policy, user, id)
	if err != nil {
		accessError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, permissionResponse{InventoryID: id, Level: level})
}
