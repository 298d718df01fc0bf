package adminrepo

import (
	"context"
	"testing"

	"github.com/tripmatch-app/tripmatch-api/internal/adapters/postgres/testutil"
	"github.com/tripmatch-app/tripmatch-api/internal/domain"
)

func TestRepo_IsAdmin(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)
	ctx := context.Background()
	repo := NewRepo(pool)

	const granted = domain.UserID("it-admin-1")
	if _, err := pool.Exec(ctx,
		`INSERT INTO admin_users (user_id) VALUES ($1) ON CONFLICT DO NOTHING`,
		string(granted)); err != nil {
		t.Fatalf("seed grant: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM admin_users WHERE user_id = $1`, string(granted))
	})

	ok, err := repo.IsAdmin(ctx, granted)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	ok, err = repo.IsAdmin(ctx, "it-nobody")
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}
