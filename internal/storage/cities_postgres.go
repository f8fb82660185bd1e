package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// queryTimeout is applied to every database query.
const queryTimeout = 5 * time.Second

// ErrConflict is returned when an insert or update violates a uniqueness
// constraint (e.g. duplicate city name). Callers should use errors.Is.
var ErrConflict = errors.New("storage: conflict")

// pgCitiesRepository is the pgx-backed implementation of CitiesRepository.
type pgCitiesRepository struct {
	pool *pgxpool.Pool
}

// NewCitiesRepository creates a CitiesRepository backed by the given pool.
func NewCitiesRepository(pool *pgxpool.Pool) CitiesRepository {
	return &pgCitiesRepository{pool: pool}
}

func (r *pgCitiesRepository) CreateCity(ctx context.Context, name string) (*City, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c City
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cities (name) VALUES ($1) RETURNING id, name`,
		name,
	).Scan(&c.ID, &c.Name)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("storage: CreateCity: city %q: %w", name, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: CreateCity: %w", err)
	}

	return &c, nil
}

func (r *pgCitiesRepository) GetCityByID(ctx context.Context, id int32) (*City, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c City
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM cities WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: GetCityByID: %w", err)
	}

	return &c, nil
}

func (r *pgCitiesRepository) GetCityByName(ctx context.Context, name string) (*City, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c City
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM cities WHERE name = $1`,
		name,
	).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: GetCityByName: %w", err)
	}

	return &c, nil
}

func (r *pgCitiesRepository) ListCities(ctx context.Context) ([]City, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT id, name FROM cities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("storage: ListCities: %w", err)
	}
	defer rows.Close()

	var cities []City
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("storage: ListCities: scan: %w", err)
		}
		cities = append(cities, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: ListCities: %w", err)
	}
	return cities, nil
}

func (r *pgCitiesRepository) UpdateCity(ctx context.Context, id int32, name string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx,
		`UPDATE cities SET name = $1 WHERE id = $2`,
		name, id,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("storage: UpdateCity: city %q: %w", name, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("storage: UpdateCity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: UpdateCity: city %d does not exist", id)
	}
	return nil
}

func (r *pgCitiesRepository) DeleteCity(ctx context.Context, id int32) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `DELETE FROM cities WHERE id = $1`, id); err != nil {
		return fmt.Errorf("storage: DeleteCity: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
