package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/zaloga/internal/access"
	"github.com/erazemk/zaloga/internal/model"
)

// GrantsHandler handles all-access grant endpoints.
type GrantsHandler struct {
	DB *sql.DB
}

type createGrantRequest struct {
	GranteeUsername string `json:"grantee_username"`
}

// Create handles POST /api/grants. Self-service: the acting user is the
// grantor and the grant covers only their own inventories.
func (h *GrantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r, h.DB)
	if err != nil {
		accessError(w, err)
		return
	}

	var req createGrantRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GranteeUsername == "" {
		jsonError(w, http.StatusBadRequest, "grantee_username required")
		return
	}

	grant, err := access.CreateGrant(r.Context(), h.DB, user, req.GranteeUsername)
	if err != nil {
		accessError(w, err)
		return
	}

	slog.Info("all-access grant created", "grantor", grant.GrantorUsername, "grantee", grant.GranteeUsername)
	jsonResponse(w, http.StatusCreated, grant)
}

// Revoke handles DELETE /api/grants/{id}. Grantor-only.
func (h *GrantsHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid grant id")
		return
	}

	user, err := actingUser(r, h.DB)
	if err != nil {
		accessError(w, err)
		return
	}

	if err := access.RevokeGrant(r.Context(), h.DB, user, id); err != nil {
		accessError(w, err)
		return
	}

	slog.Info("all-access grant revoked", "user", user.Username, "grant_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "grant revoked"})
}

// Given handles GET /api/grants/given.
func (h *GrantsHandler) Given(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r, h.DB)
	if err != nil {
		accessError(w, err)
		return
	}

	grants, err := access.ListGrantsGiven(r.Context(), h.DB, user)
	if err != nil {
		accessError(w, err)
		return
	}
	if grants == nil {
		grants = []model.AllAccessGrant{}
	}
	jsonResponse(w, http.StatusOK, grants)
}

// Received handles GET /api/grants/received.
func (h *GrantsHandler) Received(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r, h.DB)
	if err != nil {
		accessError(w, err)
		return
	}

	grants, err := access.ListGrantsReceived(r.Context(), h.DB, user)
	if err != nil {
		accessError(w, err)
		return
	}
	if grants == nil {
		grants = []model.AllAccessGrant{}
	}
	jsonResponse(w, http.StatusOK, grants)
}
