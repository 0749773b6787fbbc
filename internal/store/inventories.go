package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

// CreateInventory creates a new inventory owned by the given user.
func CreateInventory(ctx context.Context, db *sql.DB, name, description string, ownerUserID int64) (*model.Inventory, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO inventories (name, description, owner_user_id) VALUES (?, ?, ?)`,
		name, description, ownerUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating inventory: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting inventory id: %w", err)
	}

	return GetInventory(ctx, db, id)
}

// GetInventory returns an inventory by ID with the owner's username joined.
func GetInventory(ctx context.Context, db *sql.DB, id int64) (*model.Inventory, error) {
	inv := &model.Inventory{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT inv.id, inv.name, inv.description, inv.owner_user_id,
		        inv.created_at, inv.updated_at, u.username AS owner_username
		 FROM inventories inv
		 JOIN users u ON u.id = inv.owner_user_id
		 WHERE inv.id = ?`, id,
	).Scan(&inv.ID, &inv.Name, &description, &inv.OwnerUserID,
		&inv.CreatedAt, &inv.UpdatedAt, &inv.OwnerUsername)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting inventory: %w", err)
	}
	inv.Description = description.String
	return inv, nil
}

// ListAccessibleInventories returns every inventory the user can see: owned
// by them, shared with them, or covered by an all-access grant they received.
func ListAccessibleInventories(ctx context.Context, db *sql.DB, userID int64) ([]model.Inventory, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT inv.id, inv.name, inv.description, inv.owner_user_id,
		        inv.created_at, inv.updated_at, u.username AS owner_username
		 FROM inventories inv
		 JOIN users u ON u.id = inv.owner_user_id
		 LEFT JOIN inventory_shares s
		        ON s.inventory_id = inv.id AND s.shared_with_user_id = ?
		 LEFT JOIN all_access_grants g
		        ON g.grantor_user_id = inv.owner_user_id AND g.grantee_user_id = ?
		 WHERE inv.owner_user_id = ? OR s.id IS NOT NULL OR g.id IS NOT NULL
		 ORDER BY inv.name`, userID, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing accessible inventories: %w", err)
	}
	defer rows.Close()

	return scanInventories(rows)
}

// UpdateInventory updates an inventory's name and description.
func UpdateInventory(ctx context.Context, db *sql.DB, id int64, name, description string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE inventories SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		name, description, id,
	)
	if err != nil {
		return fmt.Errorf("updating inventory: %w", err)
	}
	return nil
}

// DeleteInventory removes an inventory along with its items and shares.
func DeleteInventory(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_shares WHERE inventory_id = ?`, id); err != nil {
		return fmt.Errorf("deleting inventory shares: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE inventory_id = ?`, id); err != nil {
		return fmt.Errorf("deleting inventory items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM inventories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting inventory: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing inventory deletion: %w", err)
	}
	return nil
}

func scanInventories(rows *sql.Rows) ([]model.Inventory, error) {
	var inventories []model.Inventory
	for rows.Next() {
		var inv model.Inventory
		var description sql.NullString
		if err := rows.Scan(&inv.ID, &inv.Name, &description, &inv.OwnerUserID,
			&inv.CreatedAt, &inv.UpdatedAt, &inv.OwnerUsername); err != nil {
			return nil, fmt.Errorf("scanning inventory: %w", err)
		}
		inv.Description = description.String
		inventories = append(inventories, inv)
	}
	return inventories, rows.Err()
}
