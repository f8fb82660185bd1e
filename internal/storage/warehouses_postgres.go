package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgWarehousesRepository is the pgx-backed implementation of WarehousesRepository.
type pgWarehousesRepository struct {
	pool *pgxpool.Pool
}

// NewWarehousesRepository creates a WarehousesRepository backed by the given pool.
func NewWarehousesRepository(pool *pgxpool.Pool) WarehousesRepository {
	return &pgWarehousesRepository{pool: pool}
}

func (r *pgWarehousesRepository) CreateWarehouse(ctx context.Context, w *Warehouse) (*Warehouse, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.pool.QueryRow(ctx,
		`INSERT INTO warehouses (name, address, city_id)
         VALUES ($1, $2, $3)
         RETURNING id`,
		w.Name, w.Address, w.CityID,
	).Scan(&w.ID)
	if err != nil {
		return nil, fmt.Errorf("storage: CreateWarehouse: %w", err)
	}

	return w, nil
}

func (r *pgWarehousesRepository) GetWarehouseByID(ctx context.Context, id int32) (*Warehouse, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var w Warehouse
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, address, city_id FROM warehouses WHERE id = $1`,
		id,
	).Scan(&w.ID, &w.Name, &w.Address, &w.CityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: GetWarehouseByID: %w", err)
	}

	return &w, nil
}

func (r *pgWarehousesRepository) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	return r.list(ctx, `SELECT id, name, address, city_id FROM warehouses ORDER BY id`)
}

func (r *pgWarehousesRepository) ListWarehousesByCity(ctx context.Context, cityID int32) ([]Warehouse, error) {
	return r.list(ctx,
		`SELECT id, name, address, city_id FROM warehouses WHERE city_id = $1 ORDER BY id`,
		cityID)
}

func (r *pgWarehousesRepository) list(ctx context.Context, sql string, args ...any) ([]Warehouse, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: list warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Address, &w.CityID); err != nil {
			return nil, fmt.Errorf("storage: list warehouses: scan: %w", err)
		}
		warehouses = append(warehouses, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: list warehouses: %w", err)
	}
	return warehouses, nil
}

func (r *pgWarehousesRepository) UpdateWarehouse(ctx context.Context, w *Warehouse) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx,
		`UPDATE warehouses SET name = $1, address = $2, city_id = $3 WHERE id = $4`,
		w.Name, w.Address, w.CityID, w.ID,
	)
	if err != nil {
		return fmt.Errorf("storage: UpdateWarehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: UpdateWarehouse: warehouse %d does not exist", w.ID)
	}
	return nil
}

func (r *pgWarehousesRepository) DeleteWarehouse(ctx context.Context, id int32) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("storage: DeleteWarehouse: %w", err)
	}
	return nil
}
