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

func newTestUser(t *testing.T, database *sql.DB, username string, isAdmin bool) *model.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), database, username, "hash", isAdmin)
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", username, err)
	}
	return user
}

func newTestInventory(t *testing.T, database *sql.DB, name string, owner *model.User) *model.Inventory {
	t.Helper()
	inv, err := store.CreateInventory(context.Background(), database, name, "", owner.ID)
	if err != nil {
		t.Fatalf("CreateInventory(%q): %v", name, err)
	}
	return inv
}

func TestResolveOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	inv := newTestInventory(t, database, "Garage", alice)

	level, err := Resolve(ctx, database, Policy{}, alice, inv.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if level != model.LevelOwner {
		t.Errorf("expected owner, got %q", level)
	}
}

func TestResolveNoAccess(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	bob := newTestUser(t, database, "bob", false)
	inv := newTestInventory(t, database, "Garage", alice)

	level, err := Resolve(ctx, database, Policy{}, bob, inv.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if level != model.LevelNone {
		t.Errorf("expected none, got %q", level)
	}
}

func TestResolveShareLevel(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	bob := newTestUser(t, database, "bob", false)
	inv := newTestInventory(t, database, "Garage", alice)

	if _, err := CreateShare(ctx, database, Policy{}, alice, inv.ID, "bob", model.LevelEditItems); err != nil {
		t.Fatalf("CreateShare: %v", err)
	}

	level, err := Resolve(ctx, database, Policy{}, bob, inv.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if level != model.LevelEditItems {
		t.Errorf("expected edit_items, got %q", level)
	}
}

func TestResolveGrantBeatsShare(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	bob := newTestUser(t, database, "bob", false)
	inv := newTestInventory(t, database, "Garage", alice)

	// Both a share at edit_items and an all-access grant exist; the
	// resolver takes the maximum.
	if _, err := CreateShare(ctx, database, Policy{}, alice, inv.ID, "bob", model.LevelEditItems); err != nil {
		t.Fatalf("CreateShare: %v", err)
	}
	if _, err := CreateGrant(ctx, database, alice, "bob"); err != nil {
		t.Fatalf("CreateGrant: %v", err)
	}

	level, err := Resolve(ctx, database, Policy{}, bob, inv.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if level != model.LevelAllAccess {
		t.Errorf("expected all_access, got %q", level)
	}
}

func TestResolveMissingInventory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)

	_, err := Resolve(ctx, database, Policy{}, alice, 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveNilUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	inv := newTestInventory(t, database, "Garage", alice)

	_, err := Resolve(ctx, database, Policy{}, nil, inv.ID)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestResolveAdminNotElevatedByDefault(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	admin := newTestUser(t, database, "admin", true)
	inv := newTestInventory(t, database, "Garage", alice)

	level, err := Resolve(ctx, database, Policy{}, admin, inv.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if level != model.LevelNone {
		t.Errorf("expected none for admin without override, got %q", level)
	}

	level, err = Resolve(ctx, database, Policy{AdminOverride: true}, admin, inv.ID)
	if err != nil {
		t.Fatalf("Resolve with override: %v", err)
	}
	if level != model.LevelOwner {
		t.Errorf("expected owner for admin with override, got %q", level)
	}
}

func TestRevocationVisibleImmediately(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, database, "alice", false)
	bob := newTestUser(t, database, "bob", false)
	inv := newTestInventory(t, database, "Garage", alice)

	share, err := CreateShare(ctx, database, Policy{}, alice, inv.ID, "bob", model.LevelView)
	if err != nil {
		t.Fatalf("CreateShare: %v", err)
	}
	grant, err := CreateGrant(ctx, database, alice, "bob")
	if err != nil {
		t.Fatalf("CreateGrant: %v", err)
	}

	if err := DeleteShare(ctx, database, Policy{}, alice, share.ID); err != nil {
		t.Fatalf("DeleteShare: %v", err)
	}
	if err := RevokeGrant(ctx, database, alice, grant.ID); err != nil {
		t.Fatalf("RevokeGrant: %v", err)
	}

	// The very next resolve must reflect both removals.
	level, err := Resolve(ctx, database, Policy{}, bob, inv.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if level != model.LevelNone {
		t.Errorf("expected none after revocation, got %q", level)
	}
}
