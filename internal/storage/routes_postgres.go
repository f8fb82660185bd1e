package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgRoutesRepository is the pgx-backed implementation of RoutesRepository.
type pgRoutesRepository struct {
	pool *pgxpool.Pool
}

// NewRoutesRepository creates a RoutesRepository backed by the given pool.
func NewRoutesRepository(pool *pgxpool.Pool) RoutesRepository {
	return &pgRoutesRepository{pool: pool}
}

func (r *pgRoutesRepository) CreateRoute(ctx context.Context, fromCityID, toCityID int32, distanceKM float64) (*Route, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rt Route
	err := r.pool.QueryRow(ctx,
		`INSERT INTO routes (from_city_id, to_city_id, distance_km)
         VALUES ($1, $2, $3)
         RETURNING id, from_city_id, to_city_id, distance_km`,
		fromCityID, toCityID, distanceKM,
	).Scan(&rt.ID, &rt.FromCityID, &rt.ToCityID, &rt.DistanceKM)
	if err != nil {
		return nil, fmt.Errorf("storage: CreateRoute: %w", err)
	}

	return &rt, nil
}

func (r *pgRoutesRepository) GetRouteByID(ctx context.Context, id int32) (*Route, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rt Route
	err := r.pool.QueryRow(ctx,
		`SELECT id, from_city_id, to_city_id, distance_km FROM routes WHERE id = $1`,
		id,
	).Scan(&rt.ID, &rt.FromCityID, &rt.ToCityID, &rt.DistanceKM)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: GetRouteByID: %w", err)
	}

	return &rt, nil
}

func (r *pgRoutesRepository) ListRoutes(ctx context.Context) ([]Route, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT id, from_city_id, to_city_id, distance_km FROM routes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("storage: ListRoutes: %w", err)
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		var rt Route
		if err := rows.Scan(&rt.ID, &rt.FromCityID, &rt.ToCityID, &rt.DistanceKM); err != nil {
			return nil, fmt.Errorf("storage: ListRoutes: scan: %w", err)
		}
		routes = append(routes, rt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: ListRoutes: %w", err)
	}
	return routes, nil
}

func (r *pgRoutesRepository) UpdateRoute(ctx context.Context, route *Route) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx,
		`UPDATE routes SET from_city_id = $1, to_city_id = $2, distance_km = $3 WHERE id = $4`,
		route.FromCityID, route.ToCityID, route.DistanceKM, route.ID,
	)
	if err != nil {
		return fmt.Errorf("storage: UpdateRoute: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: UpdateRoute: route %d does not exist", route.ID)
	}
	return nil
}

func (r *pgRoutesRepository) DeleteRoute(ctx context.Context, id int32) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("storage: DeleteRoute: %w", err)
	}
	return nil
}

// RouteExistsBetween treats the city pair as undirected, unlike traversal.
// See RoutesRepository for why this asymmetry is intentional.
func (r *pgRoutesRepository) RouteExistsBetween(ctx context.Context, cityA, cityB int32) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
            SELECT 1 FROM routes
            WHERE (from_city_id = $1 AND to_city_id = $2)
               OR (from_city_id = $2 AND to_city_id = $1)
        )`,
		cityA, cityB,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("storage: RouteExistsBetween: %w", err)
	}

	return exists, nil
}
