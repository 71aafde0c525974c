package auth

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/scool-backend/internal/data/repos/testutil"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "usertokenrepo")

	makeToken := func(access, refresh string) *types.UserToken {
		return &types.UserToken{
			UserID:       u.ID,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresAt:    time.Now().Add(1 * time.Hour),
		}
	}

	t1 := makeToken("access-1", "refresh-1")
	if _, err := repo.Create(dbc, []*types.UserToken{t1}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if t1.ID == 0 {
		t.Fatalf("Create: want assigned id")
	}

	if rows, err := repo.GetByUserIDs(dbc, []uint{u.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserIDs: err=%v len=%d", err, len(rows))
	}
	if got, err := repo.GetByAccessToken(dbc, "access-1"); err != nil || got == nil || got.ID != t1.ID {
		t.Fatalf("GetByAccessToken: err=%v got=%+v", err, got)
	}
	if got, err := repo.GetByRefreshToken(dbc, "refresh-1"); err != nil || got == nil || got.ID != t1.ID {
		t.Fatalf("GetByRefreshToken: err=%v got=%+v", err, got)
	}
	if got, err := repo.GetByRefreshToken(dbc, "nope"); err != nil || got != nil {
		t.Fatalf("GetByRefreshToken missing: want nil,nil got=%+v,%v", got, err)
	}
	if got, err := repo.GetByAccessToken(dbc, ""); err != nil || got != nil {
		t.Fatalf("GetByAccessToken empty: want nil,nil got=%+v,%v", got, err)
	}

	if _, err := repo.Create(dbc, []*types.UserToken{makeToken("access-1", "refresh-x")}); err == nil {
		t.Fatalf("Create duplicate access token: want error")
	}
}

func TestUserTokenRepoDelete(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, db, "tokens")
	rows, err := repo.Create(dbc, []*types.UserToken{
		{UserID: u.ID, AccessToken: "a1", RefreshToken: "r1"},
		{UserID: u.ID, AccessToken: "a2", RefreshToken: "r2"},
		{UserID: u.ID, AccessToken: "a3", RefreshToken: "r3"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.DeleteByIDs(dbc, []uint{rows[0].ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if left, _ := repo.GetByUserIDs(dbc, []uint{u.ID}); len(left) != 2 {
		t.Fatalf("after DeleteByIDs: want=2 got=%d", len(left))
	}
	if err := repo.DeleteByUserIDs(dbc, []uint{u.ID}); err != nil {
		t.Fatalf("DeleteByUserIDs: %v", err)
	}
	if left, _ := repo.GetByUserIDs(dbc, []uint{u.ID}); len(left) != 0 {
		t.Fatalf("after DeleteByUserIDs: want=0 got=%d", len(left))
	}
}
