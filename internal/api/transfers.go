package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/access"
	"github.com/erazemk/zaloga/internal/model"
)

// TransfersHandler handles ownership transfer endpoints.
type TransfersHandler struct {
	DB     *sql.DB
	Policy access.Policy
}

type transferRequest struct {
	NewOwnerUsername string `json:"new_owner_username"`
}

// Transfer handles POST /api/inventories/{id}/transfer. Owner-only and
// irreversible: the inventory, its items, and nothing else move to the new
// owner, and every share on the inventory is dropped.
func (h *TransfersHandler) Transfer(w http.ResponseWriter, r *http.Request) {
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

	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NewOwnerUsername == "" {
		jsonError(w, http.StatusBadRequest, "new_owner_username required")
		return
	}

	result, err := access.TransferOwnership(r.Context(), h.DB, h.Policy, user, id, req.NewOwnerUsername)
	if err != nil {
		accessError(w, err)
		return
	}

	slog.Info("ownership transferred", "user", user.Username, "inventory_id", id,
		"new_owner", result.NewOwner.Username, "items", result.ItemsTransferred)
	jsonResponse(w, http.StatusOK, result)
}

// History handles GET /api/inventories/{id}/transfers. Owner-only.
func (h *TransfersHandler) History(w http.ResponseWriter, r *http.Request) {
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

	transfers, err := access.ListTransfers(r.Context(), h.DB, h.Policy, user, id)
	if err != nil {
		accessError(w, err)
		return
	}
	if transfers == nil {
		transfers = []model.OwnershipTransfer{}
	}
	jsonResponse(w, http.StatusOK, transfers)
}
