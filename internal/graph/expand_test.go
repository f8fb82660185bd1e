package graph

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Eropik/estore-logistics-api/internal/storage"
)

// testSnapshot builds the Moscow/Kazan/Samara fixture used throughout:
//
//	Moscow(1) -> Kazan(2)  800 km
//	Kazan(2)  -> Samara(3) 600 km
//	Moscow(1) -> Samara(3) 1000 km
func testSnapshot() *Snapshot {
	return BuildSnapshot(
		[]storage.City{
			{ID: 1, Name: "Moscow"},
			{ID: 2, Name: "Kazan"},
			{ID: 3, Name: "Samara"},
		},
		[]storage.Route{
			{ID: 1, FromCityID: 1, ToCityID: 2, DistanceKM: 800},
			{ID: 2, FromCityID: 2, ToCityID: 3, DistanceKM: 600},
			{ID: 3, FromCityID: 1, ToCityID: 3, DistanceKM: 1000},
		},
		nil,
	)
}

func TestExpand_EnumeratesAllSimplePaths(t *testing.T) {
	walks, err := Expand(testSnapshot(), 1, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// From Moscow: [1 2], [1 3], [1 2 3]. The zero-hop path is not emitted.
	if len(walks) != 3 {
		t.Fatalf("got %d walks, want 3: %+v", len(walks), walks)
	}

	want := map[string]struct {
		dist float64
		hops int
	}{
		"Moscow -> Kazan":           {800, 1},
		"Moscow -> Samara":          {1000, 1},
		"Moscow -> Kazan -> Samara": {1400, 2},
	}

	snap := testSnapshot()
	for _, w := range walks {
		label := w.Label(snap)
		exp, ok := want[label]
		if !ok {
			t.Errorf("unexpected walk %q", label)
			continue
		}
		if w.DistanceKM != exp.dist {
			t.Errorf("%q distance = %v, want %v", label, w.DistanceKM, exp.dist)
		}
		if w.Hops != exp.hops {
			t.Errorf("%q hops = %d, want %d", label, w.Hops, exp.hops)
		}
	}
}

func TestExpand_SimplePathInvariant(t *testing.T) {
	// Fully cyclic triangle: without the no-revisit rule this never drains.
	snap := BuildSnapshot(
		[]storage.City{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}},
		[]storage.Route{
			{ID: 1, FromCityID: 1, ToCityID: 2, DistanceKM: 1},
			{ID: 2, FromCityID: 2, ToCityID: 3, DistanceKM: 1},
			{ID: 3, FromCityID: 3, ToCityID: 1, DistanceKM: 1},
		},
		nil,
	)

	walks, err := Expand(snap, 1, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, w := range walks {
		seen := make(map[int32]bool)
		for _, id := range w.CityIDs {
			if seen[id] {
				t.Fatalf("walk %v revisits city %d", w.CityIDs, id)
			}
			seen[id] = true
		}
	}
}

func TestExpand_HopCountMatchesPathLength(t *testing.T) {
	walks, err := Expand(testSnapshot(), 1, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, w := range walks {
		if w.Hops != len(w.CityIDs)-1 {
			t.Errorf("walk %v: hops = %d, want %d", w.CityIDs, w.Hops, len(w.CityIDs)-1)
		}
	}
}

func TestExpand_DirectionIsRespected(t *testing.T) {
	// Only Moscow -> Kazan exists; nothing is reachable from Kazan.
	snap := BuildSnapshot(
		[]storage.City{{ID: 1, Name: "Moscow"}, {ID: 2, Name: "Kazan"}},
		[]storage.Route{{ID: 1, FromCityID: 1, ToCityID: 2, DistanceKM: 800}},
		nil,
	)

	walks, err := Expand(snap, 2, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(walks) != 0 {
		t.Fatalf("expected no walks from Kazan, got %+v", walks)
	}
}

func TestExpand_OriginNeverADestination(t *testing.T) {
	walks, err := Expand(testSnapshot(), 1, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, w := range walks {
		if w.Terminus() == 1 {
			t.Errorf("walk %v terminates at the origin", w.CityIDs)
		}
	}
}

func TestExpand_Deterministic(t *testing.T) {
	snap := testSnapshot()

	first, err := Expand(snap, 1, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Expand(snap, 1, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated expansion differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestExpand_MaxHopsExceeded(t *testing.T) {
	// A chain of 4 cities forces a 3-hop path; cap at 2.
	snap := BuildSnapshot(
		[]storage.City{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}},
		[]storage.Route{
			{ID: 1, FromCityID: 1, ToCityID: 2, DistanceKM: 1},
			{ID: 2, FromCityID: 2, ToCityID: 3, DistanceKM: 1},
			{ID: 3, FromCityID: 3, ToCityID: 4, DistanceKM: 1},
		},
		nil,
	)

	_, err := Expand(snap, 1, Limits{MaxHops: 2})
	if !errors.Is(err, ErrSearchLimit) {
		t.Fatalf("err = %v, want ErrSearchLimit", err)
	}
}

func TestExpand_MaxPathsExceeded(t *testing.T) {
	_, err := Expand(testSnapshot(), 1, Limits{MaxPaths: 2})
	if !errors.Is(err, ErrSearchLimit) {
		t.Fatalf("err = %v, want ErrSearchLimit", err)
	}
}

func TestExpand_UnknownOriginYieldsNothing(t *testing.T) {
	walks, err := Expand(testSnapshot(), 99, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(walks) != 0 {
		t.Fatalf("expected no walks for unknown origin, got %+v", walks)
	}
}

func TestWalk_Label(t *testing.T) {
	snap := testSnapshot()
	w := Walk{CityIDs: []int32{1, 2, 3}, DistanceKM: 1400, Hops: 2}

	if got, want := w.Label(snap), "Moscow -> Kazan -> Samara"; got != want {
		t.Errorf("label = %q, want %q", got, want)
	}
}
