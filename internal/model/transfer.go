package model

import "time"

// OwnershipTransfer is the audit record of a completed ownership transfer.
type OwnershipTransfer struct {
	ID               int64     `json:"id"`
	InventoryID      int64     `json:"inventory_id"`
	FromUserID       int64     `json:"from_user_id"`
	ToUserID         int64     `json:"to_user_id"`
	ItemsTransferred int       `json:"items_transferred"`
	TransferredAt    time.Time `json:"transferred_at"`

	// Joined fields (not always populated).
	FromUsername string `json:"from_username,omitempty"`
	ToUsername   string `json:"to_username,omitempty"`
}

// TransferResult is returned by a successful ownership transfer.
type TransferResult struct {
	NewOwner         *User `json:"new_owner"`
	ItemsTransferred int   `json:"items_transferred"`
}
