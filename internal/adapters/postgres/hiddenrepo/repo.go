package hiddenrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tripmatch-app/tripmatch-api/internal/adapters/postgres"
	"github.com/tripmatch-app/tripmatch-api/internal/domain"
	"github.com/tripmatch-app/tripmatch-api/internal/ports/out/hiddenrepo"
)

// Repo is a Postgres implementation of hiddenrepo.Repository.
//
// Both mutations are single-row, single-statement writes. Conflict handling
// leans entirely on the store: the primary key makes a double hide fail with
// a uniqueness violation, the foreign key makes a dangling hide fail with a
// referential-integrity violation, and the affected-row count makes a double
// unhide report that there was nothing to undo. No pre-reads, no transactions.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) MarkHidden(ctx context.Context, id domain.TripID, at time.Time) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(id))
	if err != nil {
		return hiddenrepo.ErrTripNotFound
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO hidden_trips (trip_id, created_at)
		VALUES ($1, $2)
	`, tripUUID, at.UTC())
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok {
			switch pe.Code {
			case postgres.UniqueViolationCode:
				return hiddenrepo.ErrAlreadyHidden
			case postgres.ForeignKeyViolationCode:
				return hiddenrepo.ErrTripNotFound
			case postgres.InsufficientPrivilegeCode:
				return hiddenrepo.ErrUnauthorized
			}
		}
		return err
	}
	return nil
}

func (r *Repo) UnmarkHidden(ctx context.Context, id domain.TripID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(id))
	if err != nil {
		return hiddenrepo.ErrNotHidden
	}

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM hidden_trips
		WHERE trip_id = $1
	`, tripUUID)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.InsufficientPrivilegeCode {
			return hiddenrepo.ErrUnauthorized
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return hiddenrepo.ErrNotHidden
	}
	return nil
}

func (r *Repo) IsHidden(ctx context.Context, id domain.TripID) (bool, error) {
	if r.pool == nil {
		return false, errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(id))
	if err != nil {
		return false, nil
	}

	var hidden bool
	row := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM hidden_trips WHERE trip_id = $1)
	`, tripUUID)
	if err := row.Scan(&hidden); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return hidden, nil
}

func (r *Repo) ListHiddenIDs(ctx context.Context) ([]domain.TripID, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT trip_id FROM hidden_trips ORDER BY trip_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.TripID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, domain.TripID(id.String()))
	}
	return out, rows.Err()
}
