package access

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
)

func TestShareLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	bob := newTestUser(t, database, "bob", false)
	inv := newTestInventory(t, database, "Garage", alice)

	share, err := CreateShare(ctx, database, Policy{}, alice, inv.ID, "bob", model.LevelEditItems)
	if err != nil {
		t.Fatalf("CreateShare: %v", err)
	}
	if share.SharedWithUserID != bob.ID {
		t.Errorf("expected share for bob (%d), got user %d", bob.ID, share.SharedWithUserID)
	}
	if share.PermissionLevel != model.LevelEditItems {
		t.Errorf("expected edit_items, got %q", share.PermissionLevel)
	}

	level, _ := Resolve(ctx, database, Policy{}, bob, inv.ID)
	if level != model.LevelEditItems {
		t.Errorf("expected edit_items after share, got %q", level)
	}

	// Raise the level in place; created_at stays.
	updated, err := UpdateShare(ctx, database, Policy{}, alice, share.ID, model.LevelEditInventory)
	if err != nil {
		t.Fatalf("UpdateShare: %v", err)
	}
	if updated.PermissionLevel != model.LevelEditInventory {
		t.Errorf("expected edit_inventory, got %q", updated.PermissionLevel)
	}
	if !updated.CreatedAt.Equal(share.CreatedAt) {
		t.Errorf("expected created_at unchanged, got %v != %v", updated.CreatedAt, share.CreatedAt)
	}

	level, _ = Resolve(ctx, database, Policy{}, bob, inv.ID)
	if level != model.LevelEditInventory {
		t.Errorf("expected edit_inventory after update, got %q", level)
	}

	if err := DeleteShare(ctx, database, Policy{}, alice, share.ID); err != nil {
		t.Fatalf("DeleteShare: %v", err)
	}

	level, _ = Resolve(ctx, database, Policy{}, bob, inv.ID)
	if level != model.LevelNone {
		t.Errorf("expected none after delete, got %q", level)
	}
}

func TestCreateShareRejectsNonOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	bob := newTestUser(t, database, "bob", false)
	newTestUser(t, database, "carol", false)
	inv := newTestInventory(t, database, "Garage", alice)

	_, err := CreateShare(ctx, database, Policy{}, bob, inv.ID, "carol", model.LevelView)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateShareRejectsAllAccessGrantee(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	bob := newTestUser(t, database, "bob", false)
	newTestUser(t, database, "carol", false)
	inv := newTestInventory(t, database, "Garage", alice)

	// An all-access grantee resolves below owner and may not re-share.
	if _, err := CreateGrant(ctx, database, alice, "bob"); err != nil {
		t.Fatalf("CreateGrant: %v", err)
	}
	if level, _ := Resolve(ctx, database, Policy{}, bob, inv.ID); level != model.LevelAllAccess {
		t.Fatalf("expected all_access for bob, got %q", level)
	}

	_, err := CreateShare(ctx, database, Policy{}, bob, inv.ID, "carol", model.LevelView)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for grantee re-share, got %v", err)
	}
}

func TestCreateShareRejectsOwnerAsGrantee(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	inv := newTestInventory(t, database, "Garage", alice)

	_, err := CreateShare(ctx, database, Policy{}, alice, inv.ID, "alice", model.LevelView)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for self-share, got %v", err)
	}
}

func TestCreateShareRejectsDuplicate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	newTestUser(t, database, "bob", false)
	inv := newTestInventory(t, database, "Garage", alice)

	if _, err := CreateShare(ctx, database, Policy{}, alice, inv.ID, "bob", model.LevelView); err != nil {
		t.Fatalf("CreateShare: %v", err)
	}

	_, err := CreateShare(ctx, database, Policy{}, alice, inv.ID, "bob", model.LevelEditItems)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate share, got %v", err)
	}

	// Still exactly one row.
	shares, err := ListShares(ctx, database, Policy{}, alice, inv.ID)
	if err != nil {
		t.Fatalf("ListShares: %v", err)
	}
	if len(shares) != 1 {
		t.Errorf("expected 1 share, got %d", len(shares))
	}
}

func TestCreateShareRejectsUnknownGrantee(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	inv := newTestInventory(t, database, "Garage", alice)

	_, err := CreateShare(ctx, database, Policy{}, alice, inv.ID, "nobody", model.LevelView)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateShareRejectsBadLevel(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	newTestUser(t, database, "bob", false)
	inv := newTestInventory(t, database, "Garage", alice)

	for _, level := range []model.Level{model.LevelOwner, model.LevelAllAccess, model.LevelNone, "sudo"} {
		_, err := CreateShare(ctx, database, Policy{}, alice, inv.ID, "bob", level)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("level %q: expected ErrValidation, got %v", level, err)
		}
	}
}

func TestUpdateDeleteShareRequireOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	bob := newTestUser(t, database, "bob", false)
	inv := newTestInventory(t, database, "Garage", alice)

	share, err := CreateShare(ctx, database, Policy{}, alice, inv.ID, "bob", model.LevelView)
	if err != nil {
		t.Fatalf("CreateShare: %v", err)
	}

	// The grantee may not touch their own share row.
	if _, err := UpdateShare(ctx, database, Policy{}, bob, share.ID, model.LevelEditInventory); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for grantee update, got %v", err)
	}
	if err := DeleteShare(ctx, database, Policy{}, bob, share.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for grantee delete, got %v", err)
	}
}

func TestListSharesGivenAndReceived(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	bob := newTestUser(t, database, "bob", false)
	newTestUser(t, database, "carol", false)
	garage := newTestInventory(t, database, "Garage", alice)
	attic := newTestInventory(t, database, "Attic", alice)

	CreateShare(ctx, database, Policy{}, alice, garage.ID, "bob", model.LevelView)
	CreateShare(ctx, database, Policy{}, alice, attic.ID, "bob", model.LevelEditItems)
	CreateShare(ctx, database, Policy{}, alice, garage.ID, "carol", model.LevelView)

	given, err := ListSharesGiven(ctx, database, alice)
	if err != nil {
		t.Fatalf("ListSharesGiven: %v", err)
	}
	if len(given) != 3 {
		t.Errorf("expected 3 shares given, got %d", len(given))
	}

	received, err := ListSharesReceived(ctx, database, bob)
	if err != nil {
		t.Fatalf("ListSharesReceived: %v", err)
	}
	if len(received) != 2 {
		t.Errorf("expected 2 shares received, got %d", len(received))
	}
	for _, s := range received {
		if s.SharedWithUserID != bob.ID {
			t.Errorf("received share %d belongs to user %d, not bob", s.ID, s.SharedWithUserID)
		}
	}
}

func TestListSharesForbiddenForNonOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	bob := newTestUser(t, database, "bob", false)
	inv := newTestInventory(t, database, "Garage", alice)

	CreateShare(ctx, database, Policy{}, alice, inv.ID, "bob", model.LevelView)

	if _, err := ListShares(ctx, database, Policy{}, bob, inv.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}
