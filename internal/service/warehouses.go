package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Eropik/estore-logistics-api/internal/graph"
	"github.com/Eropik/estore-logistics-api/internal/storage"
	"github.com/google/uuid"
)

// WarehouseDistance pairs a warehouse with the travelled distance of one
// path reaching its city. The same warehouse may appear more than once in a
// listing when several distinct paths reach its city; the enumerator does
// not deduplicate by destination and neither does this layer.
type WarehouseDistance struct {
	Warehouse  storage.Warehouse
	DistanceKM float64
	Stops      int
}

// WarehouseRoute is a path between two warehouses.
type WarehouseRoute struct {
	From    storage.Warehouse
	To      storage.Warehouse
	Summary RouteSummary
}

// DeliveryEstimate is a priced delivery quote between two warehouses.
type DeliveryEstimate struct {
	QuoteID    uuid.UUID
	From       storage.Warehouse
	To         storage.Warehouse
	DistanceKM float64
	PricePerKM float64
	Cost       float64
}

// WarehouseService answers facility-siting and delivery questions by mapping
// warehouses onto the city graph and delegating path work to RouteService.
type WarehouseService struct {
	routeSvc   *RouteService
	warehouses storage.WarehousesRepository
}

// NewWarehouseService creates a WarehouseService.
func NewWarehouseService(routeSvc *RouteService, warehouses storage.WarehousesRepository) *WarehouseService {
	return &WarehouseService{
		routeSvc:   routeSvc,
		warehouses: warehouses,
	}
}

// NearestWarehouse finds the warehouse reachable from the given city at the
// smallest travelled distance. Warehouses in the city itself are not
// candidates: only cities reached by at least one route qualify. When
// several warehouses tie, the first one encountered in enumeration order
// wins. Returns ErrWarehouseNotFound when no warehouse is reachable.
func (s *WarehouseService) NearestWarehouse(ctx context.Context, cityID int32) (*WarehouseDistance, error) {
	matches, err := s.reachableFrom(ctx, cityID, 0)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("service: NearestWarehouse: city %d: %w", cityID, ErrWarehouseNotFound)
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.DistanceKM < best.DistanceKM {
			best = m
		}
	}
	return &best, nil
}

// OptimalWarehouseFor is the delivery-planning alias of NearestWarehouse:
// the cheapest facility to dispatch from is the nearest one.
func (s *WarehouseService) OptimalWarehouseFor(ctx context.Context, cityID int32) (*WarehouseDistance, error) {
	return s.NearestWarehouse(ctx, cityID)
}

// WarehousesWithin lists every warehouse reachable from the given city on a
// path of cumulative distance at most maxKM, ordered by distance ascending.
// Duplicate warehouses at different distances are preserved.
func (s *WarehouseService) WarehousesWithin(ctx context.Context, cityID int32, maxKM float64) ([]WarehouseDistance, error) {
	if maxKM <= 0 {
		return nil, fmt.Errorf("service: WarehousesWithin: budget %v: %w", maxKM, ErrInvalidDistance)
	}

	matches, err := s.reachableFrom(ctx, cityID, maxKM)
	if err != nil {
		return nil, err
	}

	sortByDistance(matches)
	return matches, nil
}

// RouteBetweenWarehouses returns the best path between the cities of two
// distinct warehouses, using the same fewest-hops-then-distance selection as
// city queries. Summary.Found is false when the cities are not connected —
// including the case of two warehouses sharing a city, since a path must
// traverse at least one route.
func (s *WarehouseService) RouteBetweenWarehouses(ctx context.Context, fromWID, toWID int32) (*WarehouseRoute, error) {
	if fromWID == toWID {
		return nil, fmt.Errorf("service: RouteBetweenWarehouses: warehouse %d: %w", fromWID, ErrSameWarehouse)
	}

	from, err := s.getWarehouse(ctx, fromWID)
	if err != nil {
		return nil, err
	}
	to, err := s.getWarehouse(ctx, toWID)
	if err != nil {
		return nil, err
	}

	summary, err := s.routeSvc.ShortestRoute(ctx, from.CityID, to.CityID)
	if err != nil {
		return nil, err
	}

	return &WarehouseRoute{
		From:    *from,
		To:      *to,
		Summary: *summary,
	}, nil
}

// ReachableWarehouses lists every warehouse reachable from the given
// warehouse's city, ordered by distance ascending, excluding the origin
// warehouse itself. Duplicates per destination are preserved.
func (s *WarehouseService) ReachableWarehouses(ctx context.Context, warehouseID int32) ([]WarehouseDistance, error) {
	origin, err := s.getWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	matches, err := s.reachableFrom(ctx, origin.CityID, 0)
	if err != nil {
		return nil, err
	}

	filtered := matches[:0]
	for _, m := range matches {
		if m.Warehouse.ID == origin.ID {
			continue
		}
		filtered = append(filtered, m)
	}

	sortByDistance(filtered)
	return filtered, nil
}

// EstimateDeliveryCost prices a delivery between two warehouses as route
// distance times pricePerKM. Returns ErrNoRoute when the warehouses' cities
// are not connected.
func (s *WarehouseService) EstimateDeliveryCost(ctx context.Context, fromWID, toWID int32, pricePerKM float64) (*DeliveryEstimate, error) {
	if pricePerKM <= 0 {
		return nil, fmt.Errorf("service: EstimateDeliveryCost: price %v: %w", pricePerKM, ErrInvalidPrice)
	}

	route, err := s.RouteBetweenWarehouses(ctx, fromWID, toWID)
	if err != nil {
		return nil, err
	}
	if !route.Summary.Found {
		return nil, fmt.Errorf("service: EstimateDeliveryCost: warehouses %d -> %d: %w", fromWID, toWID, ErrNoRoute)
	}

	return &DeliveryEstimate{
		QuoteID:    uuid.New(),
		From:       route.From,
		To:         route.To,
		DistanceKM: route.Summary.DistanceKM,
		PricePerKM: pricePerKM,
		Cost:       route.Summary.DistanceKM * pricePerKM,
	}, nil
}

// reachableFrom joins every enumerated path from cityID against the
// warehouses at its terminus. maxKM > 0 drops paths above the budget.
// Match order follows enumeration order; callers sort as needed.
func (s *WarehouseService) reachableFrom(ctx context.Context, cityID int32, maxKM float64) ([]WarehouseDistance, error) {
	snap, err := s.routeSvc.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	origin, ok := snap.City(cityID)
	if !ok {
		return nil, fmt.Errorf("service: city %d: %w", cityID, ErrCityNotFound)
	}

	walks, err := graph.Expand(snap, origin.ID, s.routeSvc.limits)
	if err != nil {
		return nil, fmt.Errorf("service: warehouse search: %w", err)
	}

	var matches []WarehouseDistance
	for _, w := range walks {
		if maxKM > 0 && w.DistanceKM > maxKM {
			continue
		}
		for _, wh := range snap.WarehousesIn(w.Terminus()) {
			matches = append(matches, WarehouseDistance{
				Warehouse:  wh,
				DistanceKM: w.DistanceKM,
				Stops:      w.Hops,
			})
		}
	}
	return matches, nil
}

// getWarehouse resolves a warehouse ID or fails with ErrWarehouseNotFound.
func (s *WarehouseService) getWarehouse(ctx context.Context, id int32) (*storage.Warehouse, error) {
	w, err := s.warehouses.GetWarehouseByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: fetch warehouse %d: %w", id, err)
	}
	if w == nil {
		return nil, fmt.Errorf("service: warehouse %d: %w", id, ErrWarehouseNotFound)
	}
	return w, nil
}

func sortByDistance(matches []WarehouseDistance) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKM < matches[j].DistanceKM
	})
}
