package model

import "time"

// InventoryShare grants one user a graded permission level on one inventory.
// At most one share exists per (inventory, user) pair, and the shared-with
// user is never the inventory's owner.
type InventoryShare struct {
	ID               int64     `json:"id"`
	InventoryID      int64     `json:"inventory_id"`
	SharedWithUserID int64     `json:"shared_with_user_id"`
	PermissionLevel  Level     `json:"permission_level"`
	CreatedAt        time.Time `json:"created_at"`

	// Joined fields (not always populated).
	SharedWithUsername string `json:"shared_with_username,omitempty"`
	InventoryName      string `json:"inventory_name,omitempty"`
}

// AllAccessGrant gives the grantee edit_inventory-equivalent access to every
// inventory the grantor owns, now and in the future. Grants are
// grantor-scoped, never inventory-scoped, so ownership transfers do not
// touch them.
type AllAccessGrant struct {
	ID            int64     `json:"id"`
	GrantorUserID int64     `json:"grantor_user_id"`
	GranteeUserID int64     `json:"grantee_user_id"`
	CreatedAt     time.Time `json:"created_at"`

	// Joined fields (not always populated).
	GrantorUsername string `json:"grantor_username,omitempty"`
	GranteeUsername string `json:"grantee_username,omitempty"`
}
