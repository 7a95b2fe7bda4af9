package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/om-adella-promo/internal/model"
)

// LocationRepo appends captured locations and lists them for the admin view.
type LocationRepo struct {
	db *sql.DB
}

// NewLocationRepo constructs a LocationRepo with the provided DB handle.
func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

// Insert appends loc.  ID is populated from the generated key; a zero
// CreatedAt is set to the current UTC time.
func (r *LocationRepo) Insert(ctx context.Context, loc *model.Location) error {
	if loc.CreatedAt.IsZero() {
		loc.CreatedAt = time.Now().UTC()
	}
	const q = "INSERT INTO locations (latitude, longitude, source, created_at) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, loc.Latitude, loc.Longitude, loc.Source, loc.CreatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	loc.ID = uint64(id)
	return nil
}

// ListRecent returns up to limit locations, newest first.
func (r *LocationRepo) ListRecent(ctx context.Context, limit int) ([]*model.Location, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT id, latitude, longitude, source, created_at
	           FROM locations ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Location, 0, limit)
	for rows.Next() {
		l := new(model.Location)
		if err := rows.Scan(&l.ID, &l.Latitude, &l.Longitude, &l.Source, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountBySource returns the number of captured rows per source tag.
func (r *LocationRepo) CountBySource(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT source, COUNT(*) FROM locations GROUP BY source")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			src string
			n   int
		)
		if err := rows.Scan(&src, &n); err != nil {
			return nil, err
		}
		out[src] = n
	}
	return out, rows.Err()
}
