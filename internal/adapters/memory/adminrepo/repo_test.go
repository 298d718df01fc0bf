package adminrepo

import (
	"context"
	"testing"
)

func TestRepo_GrantRevoke(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRepo()

	ok, err := repo.IsAdmin(ctx, "u1")
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}

	repo.Grant("u1")
	ok, err = repo.IsAdmin(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}

	repo.Revoke("u1")
	ok, err = repo.IsAdmin(ctx, "u1")
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}
