package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/zaloga/internal/access"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, pol access.Policy) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	inventoriesHandler := &InventoriesHandler{DB: db, Policy: pol}
	itemsHandler := &ItemsHandler{DB: db, Policy: pol}
	sharesHandler := &SharesHandler{DB: db, Policy: pol}
	grantsHandler := &GrantsHandler{DB: db}
	transfersHandler := &TransfersHandler{DB: db, Policy: pol}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// User directory management (admin only).
	mux.Handle("GET /api/users", authMW(RequireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(RequireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(RequireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("DELETE /api/users/{id}", authMW(RequireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Inventories: per-inventory permission checks happen in the handlers
	// through the resolver, not here, because the level depends on the row.
	mux.Handle("GET /api/inventories", authMW(http.HandlerFunc(inventoriesHandler.List)))
	mux.Handle("POST /api/inventories", authMW(http.HandlerFunc(inventoriesHandler.Create)))
	mux.Handle("GET /api/inventories/{id}", authMW(http.HandlerFunc(inventoriesHandler.Get)))
	mux.Handle("PUT /api/inventories/{id}", authMW(http.HandlerFunc(inventoriesHandler.Update)))
	mux.Handle("DELETE /api/inventories/{id}", authMW(http.HandlerFunc(inventoriesHandler.Delete)))
	mux.Handle("GET /api/inventories/{id}/permission", authMW(http.HandlerFunc(inventoriesHandler.Permission)))

	// Items.
	mux.Handle("GET /api/inventories/{id}/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/inventories/{id}/items", authMW(http.HandlerFunc(itemsHandler.Create)))

	// Shares.
	mux.Handle("GET /api/inventories/{id}/shares", authMW(http.HandlerFunc(sharesHandler.List)))
	mux.Handle("POST /api/inventories/{id}/shares", authMW(http.HandlerFunc(sharesHandler.Create)))
	mux.Handle("PUT /api/shares/{id}", authMW(http.HandlerFunc(sharesHandler.Update)))
	mux.Handle("DELETE /api/shares/{id}", authMW(http.HandlerFunc(sharesHandler.Delete)))
	mux.Handle("GET /api/shares/given", authMW(http.HandlerFunc(sharesHandler.Given)))
	mux.Handle("GET /api/shares/received", authMW(http.HandlerFunc(sharesHandler.Received)))

	// All-access grants.
	mux.Handle("POST /api/grants", authMW(http.HandlerFunc(grantsHandler.Create)))
	mux.Handle("DELETE /api/grants/{id}", authMW(http.HandlerFunc(grantsHandler.Revoke)))
	mux.Handle("GET /api/grants/given", authMW(http.HandlerFunc(grantsHandler.Given)))
	mux.Handle("GET /api/grants/received", authMW(http.HandlerFunc(grantsHandler.Received)))

	// Ownership transfer.
	mux.Handle("POST /api/inventories/{id}/transfer", authMW(http.HandlerFunc(transfersHandler.Transfer)))
	mux.Handle("GET /api/inventories/{id}/transfers", authMW(http.HandlerFunc(transfersHandler.History)))

	return mux
}
