package access

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

func addTestItems(t *testing.T, database *sql.DB, inv *model.Inventory, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := store.CreateItem(context.Background(), database, inv.ID, name, ""); err != nil {
			t.Fatalf("CreateItem(%q): %v", name, err)
		}
	}
}

func TestTransferOwnership(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	newTestUser(t, database, "bob", false)
	dana := newTestUser(t, database, "dana", false)
	inv := newTestInventory(t, database, "Garage", alice)
	addTestItems(t, database, inv, "Drill", "Ladder", "Toolbox")

	if _, err := CreateShare(ctx, database, Policy{}, alice, inv.ID, "bob", model.LevelEditItems); err != nil {
		t.Fatalf("CreateShare: %v", err)
	}

	result, err := TransferOwnership(ctx, database, Policy{}, alice, inv.ID, "dana")
	if err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}
	if result.NewOwner.ID != dana.ID {
		t.Errorf("expected new owner dana (%d), got %d", dana.ID, result.NewOwner.ID)
	}
	if result.ItemsTransferred != 3 {
		t.Errorf("expected 3 items transferred, got %d", result.ItemsTransferred)
	}

	// Inventory and every item now belong to dana.
	got, _ := store.GetInventory(ctx, database, inv.ID)
	if got.OwnerUserID != dana.ID {
		t.Errorf("expected inventory owner %d, got %d", dana.ID, got.OwnerUserID)
	}
	items, _ := store.ListItems(ctx, database, inv.ID)
	for _, item := range items {
		if item.OwnerUserID != dana.ID {
			t.Errorf("item %q still owned by %d", item.Name, item.OwnerUserID)
		}
	}

	// All shares on the inventory are gone.
	shares, err := ListShares(ctx, database, Policy{}, dana, inv.ID)
	if err != nil {
		t.Fatalf("ListShares: %v", err)
	}
	if len(shares) != 0 {
		t.Errorf("expected 0 shares after transfer, got %d", len(shares))
	}

	// The former owner is locked out unless dana re-grants.
	level, _ := Resolve(ctx, database, Policy{}, alice, inv.ID)
	if level != model.LevelNone {
		t.Errorf("expected none for former owner, got %q", level)
	}
}

func TestTransferToUnknownUserLeavesStateUntouched(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	bob := newTestUser(t, database, "bob", false)
	inv := newTestInventory(t, database, "Garage", alice)
	addTestItems(t, database, inv, "Drill", "Ladder")

	if _, err := CreateShare(ctx, database, Policy{}, alice, inv.ID, "bob", model.LevelView); err != nil {
		t.Fatalf("CreateShare: %v", err)
	}

	_, err := TransferOwnership(ctx, database, Policy{}, alice, inv.ID, "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, _ := store.GetInventory(ctx, database, inv.ID)
	if got.OwnerUserID != alice.ID {
		t.Errorf("expected owner unchanged, got %d", got.OwnerUserID)
	}
	items, _ := store.ListItems(ctx, database, inv.ID)
	for _, item := range items {
		if item.OwnerUserID != alice.ID {
			t.Errorf("item %q owner changed to %d", item.Name, item.OwnerUserID)
		}
	}
	shares, _ := ListShares(ctx, database, Policy{}, alice, inv.ID)
	if len(shares) != 1 {
		t.Errorf("expected share untouched, got %d shares", len(shares))
	}
	if level, _ := Resolve(ctx, database, Policy{}, bob, inv.ID); level != model.LevelView {
		t.Errorf("expected bob's share intact, got %q", level)
	}
}

func TestTransferToCurrentOwnerRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	inv := newTestInventory(t, database, "Garage", alice)

	_, err := TransferOwnership(ctx, database, Policy{}, alice, inv.ID, "alice")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestTransferRequiresOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	bob := newTestUser(t, database, "bob", false)
	newTestUser(t, database, "dana", false)
	inv := newTestInventory(t, database, "Garage", alice)

	// Even an all-access grantee may not transfer.
	if _, err := CreateGrant(ctx, database, alice, "bob"); err != nil {
		t.Fatalf("CreateGrant: %v", err)
	}

	_, err := TransferOwnership(ctx, database, Policy{}, bob, inv.ID, "dana")
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestTransferMissingInventory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	newTestUser(t, database, "dana", false)

	_, err := TransferOwnership(ctx, database, Policy{}, alice, 9999, "dana")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTransferLeavesGrantsUntouched(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	carol := newTestUser(t, database, "carol", false)
	dana := newTestUser(t, database, "dana", false)
	eve := newTestUser(t, database, "eve", false)
	garage := newTestInventory(t, database, "Garage", alice)
	attic := newTestInventory(t, database, "Attic", alice)

	// Alice granted carol; dana granted eve.
	if _, err := CreateGrant(ctx, database, alice, "carol"); err != nil {
		t.Fatalf("CreateGrant: %v", err)
	}
	if _, err := CreateGrant(ctx, database, dana, "eve"); err != nil {
		t.Fatalf("CreateGrant: %v", err)
	}

	if _, err := TransferOwnership(ctx, database, Policy{}, alice, garage.ID, "dana"); err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}

	// Alice's grant no longer covers the garage (she is not its owner)
	// but still covers her remaining inventory.
	if level, _ := Resolve(ctx, database, Policy{}, carol, garage.ID); level != model.LevelNone {
		t.Errorf("expected none for carol on garage, got %q", level)
	}
	if level, _ := Resolve(ctx, database, Policy{}, carol, attic.ID); level != model.LevelAllAccess {
		t.Errorf("expected all_access for carol on attic, got %q", level)
	}

	// Dana's pre-existing grant to eve now covers the garage automatically.
	if level, _ := Resolve(ctx, database, Policy{}, eve, garage.ID); level != model.LevelAllAccess {
		t.Errorf("expected all_access for eve on garage, got %q", level)
	}
}

func TestTransferHistory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	dana := newTestUser(t, database, "dana", false)
	inv := newTestInventory(t, database, "Garage", alice)
	addTestItems(t, database, inv, "Drill")

	if _, err := TransferOwnership(ctx, database, Policy{}, alice, inv.ID, "dana"); err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}

	transfers, err := ListTransfers(ctx, database, Policy{}, dana, inv.ID)
	if err != nil {
		t.Fatalf("ListTransfers: %v", err)
	}
	if len(transfers) != 1 {
		t.Fatalf("expected 1 transfer record, got %d", len(transfers))
	}
	tr := transfers[0]
	if tr.FromUserID != alice.ID || tr.ToUserID != dana.ID {
		t.Errorf("unexpected transfer endpoints: %d -> %d", tr.FromUserID, tr.ToUserID)
	}
	if tr.ItemsTransferred != 1 {
		t.Errorf("expected 1 item recorded, got %d", tr.ItemsTransferred)
	}
	if tr.FromUsername != "alice" || tr.ToUsername != "dana" {
		t.Errorf("unexpected usernames: %q -> %q", tr.FromUsername, tr.ToUsername)
	}

	// History is an owner-only view; the former owner is locked out.
	if _, err := ListTransfers(ctx, database, Policy{}, alice, inv.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for former owner, got %v", err)
	}
}
