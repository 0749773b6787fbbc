package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

// CreateItem creates an item inside an inventory. The item's owner mirrors
// the inventory's current owner.
func CreateItem(ctx context.Context, db *sql.DB, inventoryID int64, name, description string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (inventory_id, name, description, owner_user_id)
		 SELECT id, ?, ?, owner_user_id FROM inventories WHERE id = ?`,
		name, description, inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking item insert: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("inventory %d not found", inventoryID)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	i := &model.Item{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, inventory_id, name, description, owner_user_id, created_at, updated_at
		 FROM items WHERE id = ?`, id,
	).Scan(&i.ID, &i.InventoryID, &i.Name, &description, &i.OwnerUserID, &i.CreatedAt, &i.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	i.Description = description.String
	return i, nil
}

// ListItems returns all items in an inventory.
func ListItems(ctx context.Context, db *sql.DB, inventoryID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, inventory_id, name, description, owner_user_id, created_at, updated_at
		 FROM items WHERE inventory_id = ? ORDER BY name`, inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var i model.Item
		var description sql.NullString
		if err := rows.Scan(&i.ID, &i.InventoryID, &i.Name, &description, &i.OwnerUserID, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		i.Description = description.String
		items = append(items, i)
	}
	return items, rows.Err()
}
