package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    is_admin      INTEGER NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS inventories (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    description   TEXT,
    owner_user_id INTEGER NOT NULL REFERENCES users(id),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_inventories_owner
    ON inventories(owner_user_id);

CREATE TABLE IF NOT EXISTS items (
    id            INTEGER PRIMARY KEY,
    inventory_id  INTEGER NOT NULL REFERENCES inventories(id),
    name          TEXT NOT NULL,
    description   TEXT,
    owner_user_id INTEGER NOT NULL REFERENCES users(id),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_inventory
    ON items(inventory_id);

CREATE TABLE IF NOT EXISTS inventory_shares (
    id                  INTEGER PRIMARY KEY,
    inventory_id        INTEGER NOT NULL REFERENCES inventories(id),
    shared_with_user_id INTEGER NOT NULL REFERENCES users(id),
    permission_level    TEXT NOT NULL CHECK (permission_level IN ('view', 'edit_items', 'edit_inventory')),
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_shares_inventory_user
    ON inventory_shares(inventory_id, shared_with_user_id);

CREATE TABLE IF NOT EXISTS all_access_grants (
    id              INTEGER PRIMARY KEY,
    grantor_user_id INTEGER NOT NULL REFERENCES users(id),
    grantee_user_id INTEGER NOT NULL REFERENCES users(id),
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (grantor_user_id != grantee_user_id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_grants_grantor_grantee
    ON all_access_grants(grantor_user_id, grantee_user_id);

CREATE TABLE IF NOT EXISTS ownership_transfers (
    id                INTEGER PRIMARY KEY,
    inventory_id      INTEGER NOT NULL REFERENCES inventories(id),
    from_user_id      INTEGER NOT NULL REFERENCES users(id),
    to_user_id        INTEGER NOT NULL REFERENCES users(id),
    items_transferred INTEGER NOT NULL,
    transferred_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transfers_inventory
    ON ownership_transfers(inventory_id);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
