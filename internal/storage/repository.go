// Package storage provides PostgreSQL-backed repository implementations.
package storage

import "context"

// City represents a node in the delivery network.
type City struct {
	ID   int32
	Name string
}

// Route represents a directed, weighted edge between two cities.
// Traversal follows the stored FromCityID -> ToCityID orientation only;
// a reverse route must exist as its own row to be traversable.
type Route struct {
	ID         int32
	FromCityID int32
	ToCityID   int32
	DistanceKM float64
}

// Warehouse represents a fulfilment facility located in exactly one city.
// Multiple warehouses may share a city.
type Warehouse struct {
	ID      int32
	Name    string
	Address string
	CityID  int32
}

// CitiesRepository defines operations on the cities table.
type CitiesRepository interface {
	// CreateCity inserts a new city. The city name must be unique.
	CreateCity(ctx context.Context, name string) (*City, error)

	// GetCityByID returns a city by ID, or (nil, nil) if not found.
	GetCityByID(ctx context.Context, id int32) (*City, error)

	// GetCityByName returns a city by its exact display name, or (nil, nil).
	GetCityByName(ctx context.Context, name string) (*City, error)

	// ListCities returns all cities ordered by ID.
	ListCities(ctx context.Context) ([]City, error)

	// UpdateCity renames a city.
	UpdateCity(ctx context.Context, id int32, name string) error

	// DeleteCity removes a city. Routes and warehouses referencing it are
	// removed by the schema's ON DELETE CASCADE.
	DeleteCity(ctx context.Context, id int32) error
}

// RoutesRepository defines operations on the routes table.
type RoutesRepository interface {
	// CreateRoute inserts a new directed route. distanceKM must be positive;
	// the schema enforces this with a CHECK constraint as well.
	CreateRoute(ctx context.Context, fromCityID, toCityID int32, distanceKM float64) (*Route, error)

	// GetRouteByID returns a route by ID, or (nil, nil) if not found.
	GetRouteByID(ctx context.Context, id int32) (*Route, error)

	// ListRoutes returns all routes ordered by ID.
	ListRoutes(ctx context.Context) ([]Route, error)

	// UpdateRoute replaces the endpoints and distance of an existing route.
	UpdateRoute(ctx context.Context, r *Route) error

	// DeleteRoute removes a route by ID.
	DeleteRoute(ctx context.Context, id int32) error

	// RouteExistsBetween reports whether any route connects the two cities in
	// EITHER direction. Traversal is strictly directed; this check is used by
	// route creation to reject duplicate pairs and deliberately treats the
	// pair as undirected. Do not reuse it for reachability questions.
	RouteExistsBetween(ctx context.Context, cityA, cityB int32) (bool, error)
}

// WarehousesRepository defines operations on the warehouses table.
type WarehousesRepository interface {
	// CreateWarehouse inserts a new warehouse.
	CreateWarehouse(ctx context.Context, w *Warehouse) (*Warehouse, error)

	// GetWarehouseByID returns a warehouse by ID, or (nil, nil) if not found.
	GetWarehouseByID(ctx context.Context, id int32) (*Warehouse, error)

	// ListWarehouses returns all warehouses ordered by ID.
	ListWarehouses(ctx context.Context) ([]Warehouse, error)

	// ListWarehousesByCity returns the warehouses located in the given city,
	// ordered by ID.
	ListWarehousesByCity(ctx context.Context, cityID int32) ([]Warehouse, error)

	// UpdateWarehouse updates the mutable fields of a warehouse.
	UpdateWarehouse(ctx context.Context, w *Warehouse) error

	// DeleteWarehouse removes a warehouse by ID.
	DeleteWarehouse(ctx context.Context, id int32) error
}
