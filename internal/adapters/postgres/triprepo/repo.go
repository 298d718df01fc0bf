package triprepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tripmatch-app/tripmatch-api/internal/adapters/postgres"
	"github.com/tripmatch-app/tripmatch-api/internal/domain"
	"github.com/tripmatch-app/tripmatch-api/internal/ports/out/triprepo"
)

// Repo is a Postgres implementation of triprepo.Repository.
//
// Public listings read from v_public_trips, a view that anti-joins the
// moderation ledger. The exclusion is evaluated atomically per query, so a
// hide that commits mid-pagination is reflected in every subsequent page.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const tripColumns = `
	id,
	host_user_id,
	title,
	city,
	country,
	start_date,
	end_date,
	flexible_dates,
	rooms,
	spare_beds,
	is_public,
	created_at,
	updated_at
`

func (r *Repo) Create(ctx context.Context, t domain.Trip) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(t.ID))
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO trips (
				id,
				host_user_id,
				title,
				city,
				country,
				start_date,
				end_date,
				flexible_dates,
				rooms,
				spare_beds,
				is_public,
				created_at,
				updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		`,
			tripUUID,
			string(t.HostID),
			t.Title,
			t.Location.City,
			t.Location.Country,
			datePtr(t.StartDate),
			datePtr(t.EndDate),
			t.FlexibleDates,
			t.Rooms.Rooms,
			t.Rooms.SpareBeds,
			t.IsPublic,
			t.CreatedAt.UTC(),
			t.UpdatedAt.UTC(),
		)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
				return triprepo.ErrAlreadyExists
			}
			return err
		}

		for _, joinee := range t.JoineeIDs {
			_, err := tx.Exec(ctx, `
				INSERT INTO trip_joinees (trip_id, user_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, tripUUID, string(joinee))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repo) Delete(ctx context.Context, id domain.TripID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(id))
	if err != nil {
		return triprepo.ErrNotFound
	}

	// Joinees and the hidden marker go with the trip via ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, tripUUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	if r.pool == nil {
		return domain.Trip{}, errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Trip{}, triprepo.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, tripUUID)
	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, triprepo.ErrNotFound
		}
		return domain.Trip{}, err
	}

	joinees, err := loadJoinees(ctx, r.pool, tripUUID)
	if err != nil {
		return domain.Trip{}, err
	}
	t.JoineeIDs = joinees
	return t, nil
}

func (r *Repo) ListByHostOrJoinee(ctx context.Context, user domain.UserID) ([]domain.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trips t
		WHERE t.host_user_id = $1
		   OR EXISTS (
		     SELECT 1 FROM trip_joinees j
		     WHERE j.trip_id = t.id AND j.user_id = $1
		   )
		ORDER BY t.start_date ASC NULLS LAST, t.created_at ASC, t.id ASC
	`, string(user))
	if err != nil {
		return nil, err
	}
	ts, err := collectTrips(rows)
	if err != nil {
		return nil, err
	}
	if err := attachJoinees(ctx, r.pool, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (r *Repo) ListPublic(ctx context.Context, f triprepo.SearchFilters) ([]domain.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+tripColumns+`
		FROM v_public_trips
		WHERE ($1 = '' OR city = $1)
		  AND ($2 = '' OR country = $2)
		  AND (
		    flexible_dates
		    OR start_date IS NULL
		    OR end_date IS NULL
		    OR (
		      ($3::date IS NULL OR end_date >= $3)
		      AND ($4::date IS NULL OR start_date <= $4)
		    )
		  )
		ORDER BY start_date ASC NULLS LAST, created_at ASC, id ASC
	`, f.City, f.Country, datePtr(f.From), datePtr(f.To))
	if err != nil {
		return nil, err
	}
	ts, err := collectTrips(rows)
	if err != nil {
		return nil, err
	}
	if err := attachJoinees(ctx, r.pool, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (r *Repo) ListAll(ctx context.Context) ([]domain.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		ORDER BY start_date ASC NULLS LAST, created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	ts, err := collectTrips(rows)
	if err != nil {
		return nil, err
	}
	if err := attachJoinees(ctx, r.pool, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// --- helpers ---

func scanTrip(row pgx.Row) (domain.Trip, error) {
	var (
		id        uuid.UUID
		host      string
		title     string
		city      string
		country   string
		startDate pgtype.Date
		endDate   pgtype.Date
		flexible  bool
		rooms     int
		spareBeds int
		isPublic  bool
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(
		&id,
		&host,
		&title,
		&city,
		&country,
		&startDate,
		&endDate,
		&flexible,
		&rooms,
		&spareBeds,
		&isPublic,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.Trip{}, err
	}
	return domain.Trip{
		ID:            domain.TripID(id.String()),
		HostID:        domain.UserID(host),
		Title:         title,
		Location:      domain.Location{City: city, Country: country},
		StartDate:     dateToTimePtr(startDate),
		EndDate:       dateToTimePtr(endDate),
		FlexibleDates: flexible,
		Rooms:         domain.RoomConfig{Rooms: rooms, SpareBeds: spareBeds},
		IsPublic:      isPublic,
		CreatedAt:     createdAt.UTC(),
		UpdatedAt:     updatedAt.UTC(),
	}, nil
}

func collectTrips(rows pgx.Rows) ([]domain.Trip, error) {
	defer rows.Close()
	out := make([]domain.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortTrips(out)
	return out, nil
}

func loadJoinees(ctx context.Context, q interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}, tripUUID uuid.UUID) ([]domain.UserID, error) {
	rows, err := q.Query(ctx, `
		SELECT user_id
		FROM trip_joinees
		WHERE trip_id = $1
		ORDER BY user_id ASC
	`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.UserID, 0)
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		out = append(out, domain.UserID(uid))
	}
	return out, rows.Err()
}

// attachJoinees fills JoineeIDs for a listed result set with one query.
func attachJoinees(ctx context.Context, q interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}, ts []domain.Trip) error {
	if len(ts) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(ts))
	idx := make(map[domain.TripID]int, len(ts))
	for i, t := range ts {
		u, err := uuid.Parse(string(t.ID))
		if err != nil {
			continue
		}
		ids = append(ids, u)
		idx[t.ID] = i
	}

	rows, err := q.Query(ctx, `
		SELECT trip_id, user_id
		FROM trip_joinees
		WHERE trip_id = ANY($1)
		ORDER BY user_id ASC
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tid uuid.UUID
			uid string
		)
		if err := rows.Scan(&tid, &uid); err != nil {
			return err
		}
		if i, ok := idx[domain.TripID(tid.String())]; ok {
			ts[i].JoineeIDs = append(ts[i].JoineeIDs, domain.UserID(uid))
		}
	}
	return rows.Err()
}

func datePtr(t *time.Time) pgtype.Date {
	var d pgtype.Date
	if t == nil {
		d.Valid = false
		return d
	}
	tt := t.UTC()
	d.Time = time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC)
	d.Valid = true
	return d
}

func dateToTimePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}

func sortTrips(ts []domain.Trip) {
	// Mirror the in-memory sorting rule for determinism.
	sort.Slice(ts, func(i, j int) bool {
		a := ts[i]
		b := ts[j]
		ad, bd := a.StartDate, b.StartDate

		if ad != nil && bd != nil {
			if !ad.Equal(*bd) {
				return ad.Before(*bd)
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return string(a.ID) < string(b.ID)
		}
		if ad != nil && bd == nil {
			return true
		}
		if ad == nil && bd != nil {
			return false
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return string(a.ID) < string(b.ID)
	})
}
