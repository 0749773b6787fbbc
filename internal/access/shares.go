package access

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// CreateShare shares an inventory with another user at the given level.
// Only the inventory's owner may share; an all-access grantee may not
// re-share. The grantee is looked up by username, may not be the owner, and
// may not already hold a share on the inventory (use UpdateShare instead).
func CreateShare(ctx context.Context, db *sql.DB, pol Policy, actingUser *model.User, inventoryID int64, granteeUsername string, level model.Level) (*model.InventoryShare, error) {
	if !model.ShareableLevel(level) {
		return nil, fmt.Errorf("permission level %q: %w", level, ErrValidation)
	}

	inv, err := requireOwner(ctx, db, pol, actingUser, inventoryID)
	if err != nil {
		return nil, err
	}

	grantee, err := store.GetUserByUsername(ctx, db, granteeUsername)
	if err != nil {
		return nil, err
	}
	if grantee == nil {
		return nil, fmt.Errorf("user %q: %w", granteeUsername, ErrNotFound)
	}
	if grantee.ID == inv.OwnerUserID {
		return nil, fmt.Errorf("cannot share an inventory with its owner: %w", ErrConflict)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO inventory_shares (inventory_id, shared_with_user_id, permission_level)
		 VALUES (?, ?, ?)`,
		inv.ID, grantee.ID, level,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("inventory %d is already shared with %q: %w", inv.ID, granteeUsername, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("creating share: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting share id: %w", err)
	}

	return getShare(ctx, db, id)
}

// UpdateShare replaces a share's permission level in place. The share's
// creation time is untouched. Owner-only.
func UpdateShare(ctx context.Context, db *sql.DB, pol Policy, actingUser *model.User, shareID int64, newLevel model.Level) (*model.InventoryShare, error) {
	if !model.ShareableLevel(newLevel) {
		return nil, fmt.Errorf("permission level %q: %w", newLevel, ErrValidation)
	}

	share, err := getShare(ctx, db, shareID)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, fmt.Errorf("share %d: %w", shareID, ErrNotFound)
	}

	if _, err := requireOwner(ctx, db, pol, actingUser, share.InventoryID); err != nil {
		return nil, err
	}

	_, err = db.ExecContext(ctx,
		`UPDATE inventory_shares SET permission_level = ? WHERE id = ?`,
		newLevel, shareID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating share: %w", err)
	}

	return getShare(ctx, db, shareID)
}

// DeleteShare removes a share. Owner-only; revocation is visible to the next
// Resolve call.
func DeleteShare(ctx context.Context, db *sql.DB, pol Policy, actingUser *model.User, shareID int64) error {
	share, err := getShare(ctx, db, shareID)
	if err != nil {
		return err
	}
	if share == nil {
		return fmt.Errorf("share %d: %w", shareID, ErrNotFound)
	}

	if _, err := requireOwner(ctx, db, pol, actingUser, share.InventoryID); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM inventory_shares WHERE id = ?`, shareID); err != nil {
		return fmt.Errorf("deleting share: %w", err)
	}
	return nil
}

// ListShares returns all shares on an inventory with grantee usernames
// joined. Owner-only view.
func ListShares(ctx context.Context, db *sql.DB, pol Policy, actingUser *model.User, inventoryID int64) ([]model.InventoryShare, error) {
	inv, err := requireOwner(ctx, db, pol, actingUser, inventoryID)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT s.id, s.inventory_id, s.shared_with_user_id, s.permission_level, s.created_at,
		        u.username AS shared_with_username, inv.name AS inventory_name
		 FROM inventory_shares s
		 JOIN users u ON u.id = s.shared_with_user_id
		 JOIN inventories inv ON inv.id = s.inventory_id
		 WHERE s.inventory_id = ?
		 ORDER BY u.username`, inv.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing shares: %w", err)
	}
	defer rows.Close()

	return scanShares(rows)
}

// ListSharesGiven returns all shares on inventories the user owns.
func ListSharesGiven(ctx context.Context, db *sql.DB, user *model.User) ([]model.InventoryShare, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}

	rows, err := db.QueryContext(ctx,
		`SELECT s.id, s.inventory_id, s.shared_with_user_id, s.permission_level, s.created_at,
		        u.username AS shared_with_username, inv.name AS inventory_name
		 FROM inventory_shares s
		 JOIN users u ON u.id = s.shared_with_user_id
		 JOIN inventories inv ON inv.id = s.inventory_id
		 WHERE inv.owner_user_id = ?
		 ORDER BY inv.name, u.username`, user.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing shares given: %w", err)
	}
	defer rows.Close()

	return scanShares(rows)
}

// ListSharesReceived returns all shares granted to the user.
func ListSharesReceived(ctx context.Context, db *sql.DB, user *model.User) ([]model.InventoryShare, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}

	rows, err := db.QueryContext(ctx,
		`SELECT s.id, s.inventory_id, s.shared_with_user_id, s.permission_level, s.created_at,
		        u.username AS shared_with_username, inv.name AS inventory_name
		 FROM inventory_shares s
		 JOIN users u ON u.id = s.shared_with_user_id
		 JOIN inventories inv ON inv.id = s.inventory_id
		 WHERE s.shared_with_user_id = ?
		 ORDER BY inv.name`, user.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing shares received: %w", err)
	}
	defer rows.Close()

	return scanShares(rows)
}

// getShare returns a share by ID with usernames joined, or nil if absent.
func getShare(ctx context.Context, db *sql.DB, id int64) (*model.InventoryShare, error) {
	s := &model.InventoryShare{}
	err := db.QueryRowContext(ctx,
		`SELECT s.id, s.inventory_id, s.shared_with_user_id, s.permission_level, s.created_at,
		        u.username AS shared_with_username, inv.name AS inventory_name
		 FROM inventory_shares s
		 JOIN users u ON u.id = s.shared_with_user_id
		 JOIN inventories inv ON inv.id = s.inventory_id
		 WHERE s.id = ?`, id,
	).Scan(&s.ID, &s.InventoryID, &s.SharedWithUserID, &s.PermissionLevel, &s.CreatedAt,
		&s.SharedWithUsername, &s.InventoryName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting share: %w", err)
	}
	return s, nil
}

func scanShares(rows *sql.Rows) ([]model.InventoryShare, error) {
	var shares []model.InventoryShare
	for rows.Next() {
		var s model.InventoryShare
		if err := rows.Scan(&s.ID, &s.InventoryID, &s.SharedWithUserID, &s.PermissionLevel, &s.CreatedAt,
			&s.SharedWithUsername, &s.InventoryName); err != nil {
			return nil, fmt.Errorf("scanning share: %w", err)
		}
		shares = append(shares, s)
	}
	return shares, rows.Err()
}
