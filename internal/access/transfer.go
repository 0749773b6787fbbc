package access

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

// TransferOwnership reassigns an inventory and all its items to a new owner
// and deletes every share on the inventory, in a single transaction. Shares
// were granted at the old owner's discretion and have no meaning under the
// new owner; all-access grants are grantor-scoped and are not touched.
//
// Every precondition is validated inside the transaction, so a failure
// leaves no partial state and a concurrent reader sees either the fully
// pre-transfer or fully post-transfer inventory. There is no undo: the
// former owner resolves to none afterwards unless the new owner re-grants.
func TransferOwnership(ctx context.Context, db *sql.DB, pol Policy, actingUser *model.User, inventoryID int64, newOwnerUsername string) (*model.TransferResult, error) {
	if actingUser == nil {
		return nil, ErrUnauthorized
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var ownerID int64
	err = tx.QueryRowContext(ctx,
		`SELECT owner_user_id FROM inventories WHERE id = ?`, inventoryID,
	).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("inventory %d: %w", inventoryID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading inventory owner: %w", err)
	}

	if actingUser.ID != ownerID && !(pol.AdminOverride && actingUser.IsAdmin) {
		return nil, fmt.Errorf("only the current owner may transfer inventory %d: %w", inventoryID, ErrForbidden)
	}

	newOwner := &model.User{}
	err = tx.QueryRowContext(ctx,
		`SELECT id, username, is_admin, created_at FROM users
		 WHERE username = ? AND deleted_at IS NULL`, newOwnerUsername,
	).Scan(&newOwner.ID, &newOwner.Username, &newOwner.IsAdmin, &newOwner.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", newOwnerUsername, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading new owner: %w", err)
	}

	if newOwner.ID == ownerID {
		return nil, fmt.Errorf("inventory %d is already owned by %q: %w", inventoryID, newOwnerUsername, ErrConflict)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE inventories SET owner_user_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		newOwner.ID, inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("reassigning inventory owner: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE items SET owner_user_id = ?, updated_at = CURRENT_TIMESTAMP WHERE inventory_id = ?`,
		newOwner.ID, inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("reassigning item owners: %w", err)
	}
	itemsTransferred, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("counting transferred items: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM inventory_shares WHERE inventory_id = ?`, inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("deleting shares: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ownership_transfers (inventory_id, from_user_id, to_user_id, items_transferred)
		 VALUES (?, ?, ?, ?)`,
		inventoryID, ownerID, newOwner.ID, itemsTransferred,
	)
	if err != nil {
		return nil, fmt.Errorf("recording transfer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transfer: %w", err)
	}

	return &model.TransferResult{
		NewOwner:         newOwner,
		ItemsTransferred: int(itemsTransferred),
	}, nil
}

// ListTransfers returns the transfer history of an inventory with usernames
// joined. Owner-only view.
func ListTransfers(ctx context.Context, db *sql.DB, pol Policy, actingUser *model.User, inventoryID int64) ([]model.OwnershipTransfer, error) {
	inv, err := requireOwner(ctx, db, pol, actingUser, inventoryID)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT t.id, t.inventory_id, t.from_user_id, t.to_user_id, t.items_transferred, t.transferred_at,
		        fu.username AS from_username, tu.username AS to_username
		 FROM ownership_transfers t
		 JOIN users fu ON fu.id = t.from_user_id
		 JOIN users tu ON tu.id = t.to_user_id
		 WHERE t.inventory_id = ?
		 ORDER BY t.transferred_at DESC`, inv.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	defer rows.Close()

	var transfers []model.OwnershipTransfer
	for rows.Next() {
		var t model.OwnershipTransfer
		if err := rows.Scan(&t.ID, &t.InventoryID, &t.FromUserID, &t.ToUserID, &t.ItemsTransferred, &t.TransferredAt,
			&t.FromUsername, &t.ToUsername); err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}
