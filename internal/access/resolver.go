package access

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// Policy holds explicit access-control policy toggles.
type Policy struct {
	// AdminOverride makes platform admins resolve to owner level on every
	// inventory. Off by default: the is_admin flag is for managing users,
	// not other people's inventories, so elevation has to be an explicit
	// operator decision.
	AdminOverride bool
}

// Resolve computes the effective permission level of a user on an inventory
// from all applicable sources: ownership, an all-access grant from the
// owner, and a direct share. The highest-ranked source wins.
//
// "No access" is a valid result (LevelNone), never an error; converting an
// insufficient level into a denial is the caller's job. Results must not be
// cached: share and grant revocations take effect on the very next call.
func Resolve(ctx context.Context, db *sql.DB, pol Policy, user *model.User, inventoryID int64) (model.Level, error) {
	if user == nil {
		return model.LevelNone, ErrUnauthorized
	}

	inv, err := store.GetInventory(ctx, db, inventoryID)
	if err != nil {
		return model.LevelNone, err
	}
	if inv == nil {
		return model.LevelNone, fmt.Errorf("inventory %d: %w", inventoryID, ErrNotFound)
	}

	return resolveLevel(ctx, db, pol, user, inv)
}

// resolveLevel is Resolve for an already-loaded inventory row.
func resolveLevel(ctx context.Context, db *sql.DB, pol Policy, user *model.User, inv *model.Inventory) (model.Level, error) {
	if user.ID == inv.OwnerUserID {
		return model.LevelOwner, nil
	}
	if pol.AdminOverride && user.IsAdmin {
		return model.LevelOwner, nil
	}

	level := model.LevelNone

	var grantCount int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM all_access_grants
		 WHERE grantor_user_id = ? AND grantee_user_id = ?`,
		inv.OwnerUserID, user.ID,
	).Scan(&grantCount)
	if err != nil {
		return model.LevelNone, fmt.Errorf("checking all-access grant: %w", err)
	}
	if grantCount > 0 {
		level = model.MaxLevel(level, model.LevelAllAccess)
	}

	var shared model.Level
	err = db.QueryRowContext(ctx,
		`SELECT permission_level FROM inventory_shares
		 WHERE inventory_id = ? AND shared_with_user_id = ?`,
		inv.ID, user.ID,
	).Scan(&shared)
	if err != nil && err != sql.ErrNoRows {
		return model.LevelNone, fmt.Errorf("checking share: %w", err)
	}
	if err == nil {
		level = model.MaxLevel(level, shared)
	}

	return level, nil
}

// requireOwner loads an inventory and verifies the acting user resolves to
// owner level on it. Used by every share mutation and the transfer
// preconditions.
func requireOwner(ctx context.Context, db *sql.DB, pol Policy, user *model.User, inventoryID int64) (*model.Inventory, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}

	inv, err := store.GetInventory(ctx, db, inventoryID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory %d: %w", inventoryID, ErrNotFound)
	}

	level, err := resolveLevel(ctx, db, pol, user, inv)
	if err != nil {
		return nil, err
	}
	if level != model.LevelOwner {
		return nil, fmt.Errorf("user %d is not the owner of inventory %d: %w", user.ID, inv.ID, ErrForbidden)
	}
	return inv, nil
}
