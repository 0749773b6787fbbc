package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/zaloga/internal/access"
	"github.com/erazemk/zaloga/internal/model"
)

// SharesHandler handles inventory share endpoints. Authorization lives in
// the access package; the handler only parses, delegates, and maps errors.
type SharesHandler struct {
	DB     *sql.DB
	Policy access.Policy
}

type createShareRequest struct {
	SharedWithUsername string      `json:"shared_with_username"`
	PermissionLevel    model.Level `json:"permission_level"`
}

type updateShareRequest struct {
	PermissionLevel model.Level `json:"permission_level"`
}

// List handles GET /api/inventories/{id}/shares. Owner-only.
func (h *SharesHandler) List(w http.ResponseWriter, r *http.Request) {
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

	shares, err := access.ListShares(r.Context(), h.DB, h.Policy, user, id)
	if err != nil {
		accessError(w, err)
		return
	}
	if shares == nil {
		shares = []model.InventoryShare{}
	}
	jsonResponse(w, http.StatusOK, shares)
}

// Create handles POST /api/inventories/{id}/shares. Owner-only.
func (h *SharesHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req createShareRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SharedWithUsername == "" {
		jsonError(w, http.StatusBadRequest, "shared_with_username required")
		return
	}

	share, err := access.CreateShare(r.Context(), h.DB, h.Policy, user, id, req.SharedWithUsername, req.PermissionLevel)
	if err != nil {
		accessError(w, err)
		return
	}

	slog.Info("share created", "user", user.Username, "inventory_id", id,
		"shared_with", share.SharedWithUsername, "level", share.PermissionLevel)
	jsonResponse(w, http.StatusCreated, share)
}

// Update handles PUT /api/shares/{id}. Owner-only.
func (h *SharesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid share id")
		return
	}

	user, err := actingUser(r, h.DB)
	if err != nil {
		accessError(w, err)
		return
	}

	var req updateShareRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	share, err := access.UpdateShare(r.Context(), h.DB, h.Policy, user, id, req.PermissionLevel)
	if err != nil {
		accessError(w, err)
		return
	}

	slog.Info("share updated", "user", user.Username, "share_id", id, "level", share.PermissionLevel)
	jsonResponse(w, http.StatusOK, share)
}

// Delete handles DELETE /api/shares/{id}. Owner-only.
func (h *SharesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid share id")
		return
	}

	user, err := actingUser(r, h.DB)
	if err != nil {
		accessError(w, err)
		return
	}

	if err := access.DeleteShare(r.Context(), h.DB, h.Policy, user, id); err != nil {
		accessError(w, err)
		return
	}

	slog.Info("share deleted", "user", user.Username, "share_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "share deleted"})
}

// Given handles GET /api/shares/given.
func (h *SharesHandler) Given(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r, h.DB)
	if err != nil {
		accessError(w, err)
		return
	}

	shares, err := access.ListSharesGiven(r.Context(), h.DB, user)
	if err != nil {
		accessError(w, err)
		return
	}
	if shares == nil {
		shares = []model.InventoryShare{}
	}
	jsonResponse(w, http.StatusOK, shares)
}

// Received handles GET /api/shares/received.
func (h *SharesHandler) Received(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r, h.DB)
	if err != nil {
		accessError(w, err)
		return
	}

	shares, err := access.ListSharesReceived(r.Context(), h.DB, user)
	if err != nil {
		accessError(w, err)
		return
	}
	if shares == nil {
		shares = []model.InventoryShare{}
	}
	jsonResponse(w, http.StatusOK, shares)
}
