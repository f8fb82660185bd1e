// Package graph holds the in-memory city-route graph and the path
// enumeration kernel every routing query is built on.
//
// A Snapshot is an immutable copy of the persisted graph, built once per
// query. Concurrent queries may share a Snapshot freely; nothing in this
// package mutates it after construction.
package graph

import (
	"sort"

	"github.com/Eropik/estore-logistics-api/internal/storage"
)

// Edge is a directed, weighted connection to a neighbouring city.
type Edge struct {
	RouteID    int32
	ToCityID   int32
	DistanceKM float64
}

// Snapshot is a read-only view of the city-route graph plus the warehouse
// overlay, keyed for the lookups the query layer needs.
type Snapshot struct {
	cities     map[int32]storage.City
	byName     map[string]int32
	out        map[int32][]Edge
	routes     []storage.Route
	warehouses map[int32][]storage.Warehouse
}

// BuildSnapshot assembles a Snapshot from persisted rows.
//
// Adjacency lists are sorted by (neighbour ID, distance) so that expansion
// order — and therefore tie-breaking among equally good paths — is
// deterministic for a given graph, query after query.
func BuildSnapshot(cities []storage.City, routes []storage.Route, warehouses []storage.Warehouse) *Snapshot {
	s := &Snapshot{
		cities:     make(map[int32]storage.City, len(cities)),
		byName:     make(map[string]int32, len(cities)),
		out:        make(map[int32][]Edge),
		routes:     routes,
		warehouses: make(map[int32][]storage.Warehouse),
	}

	for _, c := range cities {
		s.cities[c.ID] = c
		s.byName[c.Name] = c.ID
	}

	for _, r := range routes {
		// A route is traversable only in its stored direction.
		s.out[r.FromCityID] = append(s.out[r.FromCityID], Edge{
			RouteID:    r.ID,
			ToCityID:   r.ToCityID,
			DistanceKM: r.DistanceKM,
		})
	}

	for id := range s.out {
		edges := s.out[id]
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].ToCityID != edges[j].ToCityID {
				return edges[i].ToCityID < edges[j].ToCityID
			}
			return edges[i].DistanceKM < edges[j].DistanceKM
		})
	}

	for _, w := range warehouses {
		s.warehouses[w.CityID] = append(s.warehouses[w.CityID], w)
	}

	return s
}

// City returns the city with the given ID.
func (s *Snapshot) City(id int32) (storage.City, bool) {
	c, ok := s.cities[id]
	return c, ok
}

// CityByName returns the city with the given exact display name.
func (s *Snapshot) CityByName(name string) (storage.City, bool) {
	id, ok := s.byName[name]
	if !ok {
		return storage.City{}, false
	}
	return s.cities[id], true
}

// EdgesFrom returns the outgoing edges of the given city, in deterministic
// order. The returned slice must not be modified.
func (s *Snapshot) EdgesFrom(cityID int32) []Edge {
	return s.out[cityID]
}

// Routes returns every route row the snapshot was built from.
// The returned slice must not be modified.
func (s *Snapshot) Routes() []storage.Route {
	return s.routes
}

// WarehousesIn returns the warehouses located in the given city.
// The returned slice must not be modified.
func (s *Snapshot) WarehousesIn(cityID int32) []storage.Warehouse {
	return s.warehouses[cityID]
}
