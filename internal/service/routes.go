// Package service implements the routing queries and the warehouse overlay
// on top of the graph kernel and the storage repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Eropik/estore-logistics-api/internal/graph"
	"github.com/Eropik/estore-logistics-api/internal/storage"
)

// Sentinel errors for the routing services. Callers should use errors.Is.
var (
	// ErrCityNotFound is returned when a requested city id or name does not
	// exist. A missing *path* between two known cities is not an error; it
	// surfaces as RouteSummary.Found == false.
	ErrCityNotFound = errors.New("service: city not found")

	// ErrWarehouseNotFound is returned when a requested warehouse id does
	// not exist, or when a nearest/reachable query finds no warehouse.
	ErrWarehouseNotFound = errors.New("service: warehouse not found")

	// ErrSameWarehouse is returned when a warehouse-to-warehouse operation
	// is given the same warehouse on both ends.
	ErrSameWarehouse = errors.New("service: origin and destination warehouses are identical")

	// ErrInvalidDistance is returned for non-positive distance budgets.
	ErrInvalidDistance = errors.New("service: distance must be positive")

	// ErrInvalidPrice is returned for non-positive price-per-km values.
	ErrInvalidPrice = errors.New("service: price per km must be positive")

	// ErrNoRoute is returned by delivery-cost estimation when no route
	// connects the two warehouses' cities.
	ErrNoRoute = errors.New("service: no route found")
)

// RouteSummary is the externally visible description of a (possibly absent)
// path between two cities. When Found is false every other field is zero.
type RouteSummary struct {
	Found        bool
	From         storage.City
	To           storage.City
	Path         []storage.City
	Intermediate []storage.City
	DistanceKM   float64
	Stops        int
	Label        string
}

// PathInfo describes one enumerated path from a query origin.
type PathInfo struct {
	Destination storage.City
	DistanceKM  float64
	Stops       int
	Path        []storage.City
	Label       string
}

// DirectRoute is a single-hop connection between two cities.
type DirectRoute struct {
	RouteID    int32
	From       storage.City
	To         storage.City
	DistanceKM float64
}

// RouteService answers path queries over the city-route graph. Each query
// loads a fresh snapshot of the graph from storage, so results reflect the
// committed state at query time; no derived paths are cached across writes.
type RouteService struct {
	cities     storage.CitiesRepository
	routes     storage.RoutesRepository
	warehouses storage.WarehousesRepository
	limits     graph.Limits
}

// NewRouteService creates a RouteService. limits bounds every traversal;
// zero values select the graph package defaults.
func NewRouteService(
	cities storage.CitiesRepository,
	routes storage.RoutesRepository,
	warehouses storage.WarehousesRepository,
	limits graph.Limits,
) *RouteService {
	return &RouteService{
		cities:     cities,
		routes:     routes,
		warehouses: warehouses,
		limits:     limits,
	}
}

// snapshot loads the committed graph state for one query.
func (s *RouteService) snapshot(ctx context.Context) (*graph.Snapshot, error) {
	cities, err := s.cities.ListCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: load cities: %w", err)
	}

	routes, err := s.routes.ListRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: load routes: %w", err)
	}

	warehouses, err := s.warehouses.ListWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: load warehouses: %w", err)
	}

	return graph.BuildSnapshot(cities, routes, warehouses), nil
}

// AllRoutesFrom enumerates every simple path leaving the named city,
// ordered by hop count, then distance.
func (s *RouteService) AllRoutesFrom(ctx context.Context, cityName string) ([]PathInfo, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	origin, ok := snap.CityByName(cityName)
	if !ok {
		return nil, fmt.Errorf("service: AllRoutesFrom: city %q: %w", cityName, ErrCityNotFound)
	}

	walks, err := graph.Expand(snap, origin.ID, s.limits)
	if err != nil {
		return nil, fmt.Errorf("service: AllRoutesFrom: %w", err)
	}

	sort.SliceStable(walks, func(i, j int) bool {
		if walks[i].Hops != walks[j].Hops {
			return walks[i].Hops < walks[j].Hops
		}
		return walks[i].DistanceKM < walks[j].DistanceKM
	})

	infos := make([]PathInfo, 0, len(walks))
	for _, w := range walks {
		infos = append(infos, pathInfo(snap, w))
	}
	return infos, nil
}

// ShortestRoute returns the best path between two cities identified by ID.
// "Best" is fewest hops first, then smallest distance among equal-hop paths.
// Unknown IDs yield ErrCityNotFound; two known but disconnected cities yield
// a summary with Found == false.
func (s *RouteService) ShortestRoute(ctx context.Context, fromID, toID int32) (*RouteSummary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	from, ok := snap.City(fromID)
	if !ok {
		return nil, fmt.Errorf("service: ShortestRoute: city %d: %w", fromID, ErrCityNotFound)
	}
	to, ok := snap.City(toID)
	if !ok {
		return nil, fmt.Errorf("service: ShortestRoute: city %d: %w", toID, ErrCityNotFound)
	}

	return s.shortestBetween(snap, from, to)
}

// ShortestRouteByName is ShortestRoute keyed by city display names.
func (s *RouteService) ShortestRouteByName(ctx context.Context, fromName, toName string) (*RouteSummary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	from, ok := snap.CityByName(fromName)
	if !ok {
		return nil, fmt.Errorf("service: ShortestRouteByName: city %q: %w", fromName, ErrCityNotFound)
	}
	to, ok := snap.CityByName(toName)
	if !ok {
		return nil, fmt.Errorf("service: ShortestRouteByName: city %q: %w", toName, ErrCityNotFound)
	}

	return s.shortestBetween(snap, from, to)
}

// shortestBetween enumerates from `from` and selects the lexicographic
// (hops, distance) minimum among paths ending at `to`.
func (s *RouteService) shortestBetween(snap *graph.Snapshot, from, to storage.City) (*RouteSummary, error) {
	walks, err := graph.Expand(snap, from.ID, s.limits)
	if err != nil {
		return nil, fmt.Errorf("service: shortest route: %w", err)
	}

	best, found := selectShortest(walks, to.ID)
	if !found {
		return &RouteSummary{}, nil
	}

	return assembleSummary(snap, from, to, best), nil
}

// selectShortest picks the walk ending at destID with the fewest hops,
// breaking ties by smallest distance. The first walk encountered wins any
// remaining tie.
func selectShortest(walks []graph.Walk, destID int32) (graph.Walk, bool) {
	var best graph.Walk
	found := false

	for _, w := range walks {
		if w.Terminus() != destID {
			continue
		}
		if !found || w.Hops < best.Hops || (w.Hops == best.Hops && w.DistanceKM < best.DistanceKM) {
			best = w
			found = true
		}
	}

	return best, found
}

// DirectRoutesFrom returns the single-hop routes leaving the given city,
// ordered by distance ascending.
func (s *RouteService) DirectRoutesFrom(ctx context.Context, cityID int32) ([]DirectRoute, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	origin, ok := snap.City(cityID)
	if !ok {
		return nil, fmt.Errorf("service: DirectRoutesFrom: city %d: %w", cityID, ErrCityNotFound)
	}

	var out []DirectRoute
	for _, e := range snap.EdgesFrom(origin.ID) {
		to, _ := snap.City(e.ToCityID)
		out = append(out, DirectRoute{
			RouteID:    e.RouteID,
			From:       origin,
			To:         to,
			DistanceKM: e.DistanceKM,
		})
	}

	sortDirectRoutes(out)
	return out, nil
}

// DirectRoutesTo returns the single-hop routes arriving at the given city,
// ordered by distance ascending.
func (s *RouteService) DirectRoutesTo(ctx context.Context, cityID int32) ([]DirectRoute, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	dest, ok := snap.City(cityID)
	if !ok {
		return nil, fmt.Errorf("service: DirectRoutesTo: city %d: %w", cityID, ErrCityNotFound)
	}

	var out []DirectRoute
	for _, r := range snap.Routes() {
		if r.ToCityID != dest.ID {
			continue
		}
		from, _ := snap.City(r.FromCityID)
		out = append(out, DirectRoute{
			RouteID:    r.ID,
			From:       from,
			To:         dest,
			DistanceKM: r.DistanceKM,
		})
	}

	sortDirectRoutes(out)
	return out, nil
}

// DirectRoutesWithin returns the single-hop routes leaving the given city
// whose distance does not exceed maxKM, ordered by distance ascending.
func (s *RouteService) DirectRoutesWithin(ctx context.Context, cityID int32, maxKM float64) ([]DirectRoute, error) {
	if maxKM <= 0 {
		return nil, fmt.Errorf("service: DirectRoutesWithin: budget %v: %w", maxKM, ErrInvalidDistance)
	}

	routes, err := s.DirectRoutesFrom(ctx, cityID)
	if err != nil {
		return nil, err
	}

	within := routes[:0]
	for _, r := range routes {
		if r.DistanceKM <= maxKM {
			within = append(within, r)
		}
	}
	return within, nil
}

func sortDirectRoutes(routes []DirectRoute) {
	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].DistanceKM < routes[j].DistanceKM
	})
}

// pathInfo shapes a walk for listing responses.
func pathInfo(snap *graph.Snapshot, w graph.Walk) PathInfo {
	dest, _ := snap.City(w.Terminus())
	return PathInfo{
		Destination: dest,
		DistanceKM:  w.DistanceKM,
		Stops:       w.Hops,
		Path:        resolvePath(snap, w),
		Label:       w.Label(snap),
	}
}

// assembleSummary resolves a selected walk into the RouteSummary shape:
// full path including endpoints, intermediate cities without them.
func assembleSummary(snap *graph.Snapshot, from, to storage.City, w graph.Walk) *RouteSummary {
	path := resolvePath(snap, w)

	var intermediate []storage.City
	if len(path) > 2 {
		intermediate = path[1 : len(path)-1]
	}

	return &RouteSummary{
		Found:        true,
		From:         from,
		To:           to,
		Path:         path,
		Intermediate: intermediate,
		DistanceKM:   w.DistanceKM,
		Stops:        w.Hops,
		Label:        w.Label(snap),
	}
}

func resolvePath(snap *graph.Snapshot, w graph.Walk) []storage.City {
	path := make([]storage.City, 0, len(w.CityIDs))
	for _, id := range w.CityIDs {
		c, _ := snap.City(id)
		path = append(path, c)
	}
	return path
}
