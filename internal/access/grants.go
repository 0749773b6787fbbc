package access

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// CreateGrant gives the grantee all-access to every inventory the grantor
// owns, present and future. Granting is self-service: no inventory-level
// permission check applies because the grant only ever covers the grantor's
// own inventories.
func CreateGrant(ctx context.Context, db *sql.DB, grantor *model.User, granteeUsername string) (*model.AllAccessGrant, error) {
	if grantor == nil {
		return nil, ErrUnauthorized
	}

	grantee, err := store.GetUserByUsername(ctx, db, granteeUsername)
	if err != nil {
		return nil, err
	}
	if grantee == nil {
		return nil, fmt.Errorf("user %q: %w", granteeUsername, ErrNotFound)
	}
	if grantee.ID == grantor.ID {
		return nil, fmt.Errorf("cannot grant all-access to yourself: %w", ErrConflict)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO all_access_grants (grantor_user_id, grantee_user_id) VALUES (?, ?)`,
		grantor.ID, grantee.ID,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("all-access grant to %q already exists: %w", granteeUsername, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("creating grant: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting grant id: %w", err)
	}

	return getGrant(ctx, db, id)
}

// RevokeGrant deletes a grant. Only the grantor may revoke; the revocation
// covers every inventory the grantor owns and takes effect on the next
// Resolve call with no enumeration step.
func RevokeGrant(ctx context.Context, db *sql.DB, actingUser *model.User, grantID int64) error {
	if actingUser == nil {
		return ErrUnauthorized
	}

	grant, err := getGrant(ctx, db, grantID)
	if err != nil {
		return err
	}
	if grant == nil {
		return fmt.Errorf("grant %d: %w", grantID, ErrNotFound)
	}
	if grant.GrantorUserID != actingUser.ID {
		return fmt.Errorf("only the grantor may revoke a grant: %w", ErrForbidden)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM all_access_grants WHERE id = ?`, grantID); err != nil {
		return fmt.Errorf("revoking grant: %w", err)
	}
	return nil
}

// ListGrantsGiven returns all grants the user has made.
func ListGrantsGiven(ctx context.Context, db *sql.DB, user *model.User) ([]model.AllAccessGrant, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	return listGrants(ctx, db, `g.grantor_user_id = ?`, user.ID)
}

// ListGrantsReceived returns all grants made to the user.
func ListGrantsReceived(ctx context.Context, db *sql.DB, user *model.User) ([]model.AllAccessGrant, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	return listGrants(ctx, db, `g.grantee_user_id = ?`, user.ID)
}

func listGrants(ctx context.Context, db *sql.DB, where string, userID int64) ([]model.AllAccessGrant, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT g.id, g.grantor_user_id, g.grantee_user_id, g.created_at,
		        gr.username AS grantor_username, ge.username AS grantee_username
		 FROM all_access_grants g
		 JOIN users gr ON gr.id = g.grantor_user_id
		 JOIN users ge ON ge.id = g.grantee_user_id
		 WHERE `+where+`
		 ORDER BY g.created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing grants: %w", err)
	}
	defer rows.Close()

	var grants []model.AllAccessGrant
	for rows.Next() {
		var g model.AllAccessGrant
		if err := rows.Scan(&g.ID, &g.GrantorUserID, &g.GranteeUserID, &g.CreatedAt,
			&g.GrantorUsername, &g.GranteeUsername); err != nil {
			return nil, fmt.Errorf("scanning grant: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// getGrant returns a grant by ID with usernames joined, or nil if absent.
func getGrant(ctx context.Context, db *sql.DB, id int64) (*model.AllAccessGrant, error) {
	g := &model.AllAccessGrant{}
	err := db.QueryRowContext(ctx,
		`SELECT g.id, g.grantor_user_id, g.grantee_user_id, g.created_at,
		        gr.username AS grantor_username, ge.username AS grantee_username
		 FROM all_access_grants g
		 JOIN users gr ON gr.id = g.grantor_user_id
		 JOIN users ge ON ge.id = g.grantee_user_id
		 WHERE g.id = ?`, id,
	).Scan(&g.ID, &g.GrantorUserID, &g.GranteeUserID, &g.CreatedAt,
		&g.GrantorUsername, &g.GranteeUsername)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting grant: %w", err)
	}
	return g, nil
}
