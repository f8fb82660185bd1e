package graph

import (
	"testing"

	"github.com/Eropik/estore-logistics-api/internal/storage"
)

func TestSnapshot_CityLookups(t *testing.T) {
	snap := testSnapshot()

	c, ok := snap.City(2)
	if !ok || c.Name != "Kazan" {
		t.Errorf("City(2) = %+v, %v; want Kazan, true", c, ok)
	}

	c, ok = snap.CityByName("Samara")
	if !ok || c.ID != 3 {
		t.Errorf("CityByName(Samara) = %+v, %v; want id 3, true", c, ok)
	}

	if _, ok := snap.City(99); ok {
		t.Error("City(99) should not exist")
	}
	if _, ok := snap.CityByName("Omsk"); ok {
		t.Error("CityByName(Omsk) should not exist")
	}
}

func TestSnapshot_EdgesAreSorted(t *testing.T) {
	// Insert edges out of order; the snapshot must normalise them.
	snap := BuildSnapshot(
		[]storage.City{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}},
		[]storage.Route{
			{ID: 1, FromCityID: 1, ToCityID: 3, DistanceKM: 5},
			{ID: 2, FromCityID: 1, ToCityID: 2, DistanceKM: 7},
		},
		nil,
	)

	edges := snap.EdgesFrom(1)
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}
	if edges[0].ToCityID != 2 || edges[1].ToCityID != 3 {
		t.Errorf("edges not sorted by neighbour: %+v", edges)
	}
}

func TestSnapshot_WarehouseOverlay(t *testing.T) {
	snap := BuildSnapshot(
		[]storage.City{{ID: 1, Name: "Moscow"}, {ID: 2, Name: "Kazan"}},
		nil,
		[]storage.Warehouse{
			{ID: 10, Name: "Kazan-1", CityID: 2},
			{ID: 11, Name: "Kazan-2", CityID: 2},
		},
	)

	if got := len(snap.WarehousesIn(2)); got != 2 {
		t.Errorf("WarehousesIn(2) = %d entries, want 2", got)
	}
	if got := len(snap.WarehousesIn(1)); got != 0 {
		t.Errorf("WarehousesIn(1) = %d entries, want 0", got)
	}
}
