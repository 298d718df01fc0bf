package adminrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
)

// Repo is a Postgres implementation of adminrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) IsAdmin(ctx context.Context, user domain.UserID) (bool, error) {
	if r.pool == nil {
		return false, errors.New("nil postgres pool")
	}
	var ok bool
	row := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM admin_users WHERE user_id = $1)
	`, string(user))
	if err := row.Scan(&ok); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No grant is the normal false case.
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
