package model

import "time"

// Inventory is a collection of item records with exactly one owner.
// The owner reference is only ever rewritten by an ownership transfer.
type Inventory struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerUserID int64     `json:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	OwnerUsername string `json:"owner_username,omitempty"`
}

// Item is a physical-item record inside an inventory. Its owner mirrors the
// inventory's owner and is kept in sync by ownership transfers.
type Item struct {
	ID          int64     `json:"id"`
	InventoryID int64     `json:"inventory_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerUserID int64     `json:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
