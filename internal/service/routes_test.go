package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Eropik/estore-logistics-api/internal/graph"
	"github.com/Eropik/estore-logistics-api/internal/storage"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

// memStore is an in-memory implementation of the cities, routes and
// warehouses repositories, seeded per test case.
type memStore struct {
	cities     []storage.City
	routes     []storage.Route
	warehouses []storage.Warehouse
	listErr    error
}

func (m *memStore) CreateCity(_ context.Context, name string) (*storage.City, error) {
	c := storage.City{ID: int32(len(m.cities) + 1), Name: name}
	m.cities = append(m.cities, c)
	return &c, nil
}

func (m *memStore) GetCityByID(_ context.Context, id int32) (*storage.City, error) {
	for _, c := range m.cities {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetCityByName(_ context.Context, name string) (*storage.City, error) {
	for _, c := range m.cities {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListCities(_ context.Context) ([]storage.City, error) {
	return m.cities, m.listErr
}

func (m *memStore) UpdateCity(_ context.Context, _ int32, _ string) error { return nil }
func (m *memStore) DeleteCity(_ context.Context, _ int32) error           { return nil }

func (m *memStore) CreateRoute(_ context.Context, from, to int32, dist float64) (*storage.Route, error) {
	r := storage.Route{ID: int32(len(m.routes) + 1), FromCityID: from, ToCityID: to, DistanceKM: dist}
	m.routes = append(m.routes, r)
	return &r, nil
}

func (m *memStore) GetRouteByID(_ context.Context, id int32) (*storage.Route, error) {
	for _, r := range m.routes {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListRoutes(_ context.Context) ([]storage.Route, error) {
	return m.routes, m.listErr
}

func (m *memStore) UpdateRoute(_ context.Context, _ *storage.Route) error { return nil }
func (m *memStore) DeleteRoute(_ context.Context, _ int32) error          { return nil }

func (m *memStore) RouteExistsBetween(_ context.Context, a, b int32) (bool, error) {
	for _, r := range m.routes {
		if (r.FromCityID == a && r.ToCityID == b) || (r.FromCityID == b && r.ToCityID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateWarehouse(_ context.Context, w *storage.Warehouse) (*storage.Warehouse, error) {
	w.ID = int32(len(m.warehouses) + 1)
	m.warehouses = append(m.warehouses, *w)
	return w, nil
}

func (m *memStore) GetWarehouseByID(_ context.Context, id int32) (*storage.Warehouse, error) {
	for _, w := range m.warehouses {
		if w.ID == id {
			w := w
			return &w, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListWarehouses(_ context.Context) ([]storage.Warehouse, error) {
	return m.warehouses, m.listErr
}

func (m *memStore) ListWarehousesByCity(_ context.Context, cityID int32) ([]storage.Warehouse, error) {
	var out []storage.Warehouse
	for _, w := range m.warehouses {
		if w.CityID == cityID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memStore) UpdateWarehouse(_ context.Context, _ *storage.Warehouse) error { return nil }
func (m *memStore) DeleteWarehouse(_ context.Context, _ int32) error              { return nil }

// volgaStore seeds the three-city fixture:
//
//	Moscow(1) -> Kazan(2)  800 km
//	Kazan(2)  -> Samara(3) 600 km
//	Moscow(1) -> Samara(3) 1000 km
func volgaStore() *memStore {
	return &memStore{
		cities: []storage.City{
			{ID: 1, Name: "Moscow"},
			{ID: 2, Name: "Kazan"},
			{ID: 3, Name: "Samara"},
		},
		routes: []storage.Route{
			{ID: 1, FromCityID: 1, ToCityID: 2, DistanceKM: 800},
			{ID: 2, FromCityID: 2, ToCityID: 3, DistanceKM: 600},
			{ID: 3, FromCityID: 1, ToCityID: 3, DistanceKM: 1000},
		},
	}
}

func newRouteService(store *memStore) *RouteService {
	return NewRouteService(store, store, store, graph.Limits{})
}

// ---------------------------------------------------------------------------
// Shortest route
// ---------------------------------------------------------------------------

func TestShortestRoute_HopCountDominatesDistance(t *testing.T) {
	svc := newRouteService(volgaStore())

	// Direct Moscow -> Samara is 1000 km over 1 hop; via Kazan it is
	// 1400 km over 2 hops. Fewest hops wins even though more paths exist.
	summary, err := svc.ShortestRoute(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !summary.Found {
		t.Fatal("expected a route to be found")
	}
	if summary.Stops != 1 {
		t.Errorf("stops = %d, want 1", summary.Stops)
	}
	if summary.DistanceKM != 1000 {
		t.Errorf("distance = %v, want 1000", summary.DistanceKM)
	}
	if summary.Label != "Moscow -> Samara" {
		t.Errorf("label = %q, want %q", summary.Label, "Moscow -> Samara")
	}
	if len(summary.Intermediate) != 0 {
		t.Errorf("intermediate = %+v, want empty", summary.Intermediate)
	}
}

func TestShortestRoute_TieBrokenByDistance(t *testing.T) {
	// Two 2-hop paths A->D: via B costs 20, via C costs 10. A cheaper
	// 3-hop path via E and F must not win.
	store := &memStore{
		cities: []storage.City{
			{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"},
			{ID: 4, Name: "D"}, {ID: 5, Name: "E"}, {ID: 6, Name: "F"},
		},
		routes: []storage.Route{
			{ID: 1, FromCityID: 1, ToCityID: 2, DistanceKM: 10},
			{ID: 2, FromCityID: 2, ToCityID: 4, DistanceKM: 10},
			{ID: 3, FromCityID: 1, ToCityID: 3, DistanceKM: 5},
			{ID: 4, FromCityID: 3, ToCityID: 4, DistanceKM: 5},
			{ID: 5, FromCityID: 1, ToCityID: 5, DistanceKM: 1},
			{ID: 6, FromCityID: 5, ToCityID: 6, DistanceKM: 1},
			{ID: 7, FromCityID: 6, ToCityID: 4, DistanceKM: 1},
		},
	}
	svc := newRouteService(store)

	summary, err := svc.ShortestRoute(context.Background(), 1, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Label != "A -> C -> D" {
		t.Errorf("label = %q, want %q", summary.Label, "A -> C -> D")
	}
	if summary.Stops != 2 || summary.DistanceKM != 10 {
		t.Errorf("got %d stops / %v km, want 2 stops / 10 km", summary.Stops, summary.DistanceKM)
	}
}

func TestShortestRoute_DisconnectedCitiesNotFound(t *testing.T) {
	store := volgaStore()
	store.cities = append(store.cities, storage.City{ID: 4, Name: "Irkutsk"})
	svc := newRouteService(store)

	summary, err := svc.ShortestRoute(context.Background(), 1, 4)
	if err != nil {
		t.Fatalf("disconnected cities must not error, got: %v", err)
	}

	if summary.Found {
		t.Fatalf("expected found=false, got %+v", summary)
	}
	if summary.Label != "" || len(summary.Path) != 0 || summary.DistanceKM != 0 {
		t.Errorf("not-found summary must be empty, got %+v", summary)
	}
}

func TestShortestRoute_EdgeDirectionNotReversible(t *testing.T) {
	// Kazan -> Moscow requires a stored reverse route; there is none.
	svc := newRouteService(volgaStore())

	summary, err := svc.ShortestRoute(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Found {
		t.Fatalf("expected found=false for reverse traversal, got %+v", summary)
	}
}

func TestShortestRoute_UnknownCity(t *testing.T) {
	svc := newRouteService(volgaStore())

	_, err := svc.ShortestRoute(context.Background(), 1, 99)
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("err = %v, want ErrCityNotFound", err)
	}
}

func TestShortestRouteByName(t *testing.T) {
	svc := newRouteService(volgaStore())

	summary, err := svc.ShortestRouteByName(context.Background(), "Moscow", "Samara")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Found || summary.DistanceKM != 1000 {
		t.Errorf("got %+v, want found 1000 km route", summary)
	}

	if _, err := svc.ShortestRouteByName(context.Background(), "Moscow", "Omsk"); !errors.Is(err, ErrCityNotFound) {
		t.Errorf("err = %v, want ErrCityNotFound", err)
	}
}

func TestShortestRoute_IntermediateCities(t *testing.T) {
	store := volgaStore()
	// Remove the direct edge so Moscow -> Samara must pass through Kazan.
	store.routes = store.routes[:2]
	svc := newRouteService(store)

	summary, err := svc.ShortestRoute(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !summary.Found {
		t.Fatal("expected a route")
	}
	if len(summary.Path) != 3 {
		t.Fatalf("path = %+v, want 3 cities", summary.Path)
	}
	if len(summary.Intermediate) != 1 || summary.Intermediate[0].Name != "Kazan" {
		t.Errorf("intermediate = %+v, want [Kazan]", summary.Intermediate)
	}
	if summary.DistanceKM != 1400 || summary.Stops != 2 {
		t.Errorf("got %v km / %d stops, want 1400 / 2", summary.DistanceKM, summary.Stops)
	}
}

// ---------------------------------------------------------------------------
// All routes from
// ---------------------------------------------------------------------------

func TestAllRoutesFrom_OrderedByHopsThenDistance(t *testing.T) {
	svc := newRouteService(volgaStore())

	paths, err := svc.AllRoutesFrom(context.Background(), "Moscow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantLabels := []string{
		"Moscow -> Kazan",
		"Moscow -> Samara",
		"Moscow -> Kazan -> Samara",
	}
	if len(paths) != len(wantLabels) {
		t.Fatalf("got %d paths, want %d: %+v", len(paths), len(wantLabels), paths)
	}
	for i, p := range paths {
		if p.Label != wantLabels[i] {
			t.Errorf("paths[%d] = %q, want %q", i, p.Label, wantLabels[i])
		}
	}
}

func TestAllRoutesFrom_UnknownCity(t *testing.T) {
	svc := newRouteService(volgaStore())

	_, err := svc.AllRoutesFrom(context.Background(), "Omsk")
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("err = %v, want ErrCityNotFound", err)
	}
}

func TestAllRoutesFrom_Idempotent(t *testing.T) {
	svc := newRouteService(volgaStore())

	first, err := svc.AllRoutesFrom(context.Background(), "Moscow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.AllRoutesFrom(context.Background(), "Moscow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated query differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAllRoutesFrom_SearchLimitSurfaces(t *testing.T) {
	store := volgaStore()
	svc := NewRouteService(store, store, store, graph.Limits{MaxPaths: 1})

	_, err := svc.AllRoutesFrom(context.Background(), "Moscow")
	if !errors.Is(err, graph.ErrSearchLimit) {
		t.Fatalf("err = %v, want graph.ErrSearchLimit", err)
	}
}

// ---------------------------------------------------------------------------
// Direct routes
// ---------------------------------------------------------------------------

func TestDirectRoutesFrom_OrderedByDistance(t *testing.T) {
	svc := newRouteService(volgaStore())

	routes, err := svc.DirectRoutesFrom(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(routes))
	}
	if routes[0].DistanceKM != 800 || routes[1].DistanceKM != 1000 {
		t.Errorf("distances = [%v %v], want [800 1000]", routes[0].DistanceKM, routes[1].DistanceKM)
	}
}

func TestDirectRoutesTo(t *testing.T) {
	svc := newRouteService(volgaStore())

	routes, err := svc.DirectRoutesTo(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(routes))
	}
	if routes[0].From.Name != "Kazan" || routes[1].From.Name != "Moscow" {
		t.Errorf("origins = [%s %s], want [Kazan Moscow]", routes[0].From.Name, routes[1].From.Name)
	}
}

func TestDirectRoutesWithin_BudgetExcludesAll(t *testing.T) {
	svc := newRouteService(volgaStore())

	// Moscow's direct edges are 800 and 1000 km; 500 excludes both.
	routes, err := svc.DirectRoutesWithin(context.Background(), 1, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 0 {
		t.Fatalf("expected empty list, got %+v", routes)
	}
}

func TestDirectRoutesWithin_InvalidBudget(t *testing.T) {
	svc := newRouteService(volgaStore())

	for _, budget := range []float64{0, -100} {
		if _, err := svc.DirectRoutesWithin(context.Background(), 1, budget); !errors.Is(err, ErrInvalidDistance) {
			t.Errorf("budget %v: err = %v, want ErrInvalidDistance", budget, err)
		}
	}
}

func TestRouteService_StorageErrorPropagates(t *testing.T) {
	store := volgaStore()
	store.listErr = errors.New("db down")
	svc := newRouteService(store)

	if _, err := svc.ShortestRoute(context.Background(), 1, 3); err == nil {
		t.Fatal("expected storage error to propagate")
	}
}
