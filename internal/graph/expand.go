package graph

import (
	"errors"
	"strings"
)

// ErrSearchLimit is returned by Expand when the traversal exceeds its
// configured depth or path-count bound. Dense cyclic graphs can produce an
// exponential number of simple paths; rather than hang, the search fails
// closed. Callers should use errors.Is.
var ErrSearchLimit = errors.New("graph: search bound exceeded")

// Default traversal bounds, applied when Limits fields are zero.
const (
	DefaultMaxHops  = 64
	DefaultMaxPaths = 100_000
)

// Limits bounds a single Expand call. Zero values select the defaults.
type Limits struct {
	// MaxHops caps the number of edges in any produced path.
	MaxHops int
	// MaxPaths caps the total number of paths produced.
	MaxPaths int
}

func (l Limits) withDefaults() Limits {
	if l.MaxHops <= 0 {
		l.MaxHops = DefaultMaxHops
	}
	if l.MaxPaths <= 0 {
		l.MaxPaths = DefaultMaxPaths
	}
	return l
}

// Walk is one simple path produced by Expand: an ordered sequence of city
// IDs starting at the query origin, with its cumulative distance and hop
// count. A Walk never visits the same city twice.
type Walk struct {
	CityIDs    []int32
	DistanceKM float64
	Hops       int
}

// Terminus returns the destination city of the walk.
func (w Walk) Terminus() int32 {
	return w.CityIDs[len(w.CityIDs)-1]
}

// Contains reports whether the walk already visits the given city.
func (w Walk) Contains(cityID int32) bool {
	for _, id := range w.CityIDs {
		if id == cityID {
			return true
		}
	}
	return false
}

// Label renders the walk as city display names joined by " -> ".
func (w Walk) Label(s *Snapshot) string {
	var b strings.Builder
	for i, id := range w.CityIDs {
		if i > 0 {
			b.WriteString(" -> ")
		}
		c, _ := s.City(id)
		b.WriteString(c.Name)
	}
	return b.String()
}

// Expand produces every simple path reachable from originID, by repeated
// breadth-oriented extension of a frontier of partial paths:
//
//	level 1: the single path [origin]
//	level n+1: every level-n path extended by one outgoing edge to a city
//	           the path has not visited yet
//
// Only extensions are emitted — the zero-hop [origin] path is not a result,
// so the origin city never appears as a destination. The same city may be
// the terminus of several emitted walks, one per distinct route into it;
// callers that need "the" path to a city must pick one themselves.
//
// Because no path may revisit a city, the frontier drains even on cyclic
// graphs. lim guards against the combinatorial worst case: exceeding either
// bound aborts the whole search with ErrSearchLimit.
func Expand(s *Snapshot, originID int32, lim Limits) ([]Walk, error) {
	lim = lim.withDefaults()

	frontier := []Walk{{CityIDs: []int32{originID}}}
	var emitted []Walk

	for len(frontier) > 0 {
		var next []Walk

		for _, p := range frontier {
			for _, e := range s.EdgesFrom(p.Terminus()) {
				if p.Contains(e.ToCityID) {
					continue
				}

				ids := make([]int32, len(p.CityIDs), len(p.CityIDs)+1)
				copy(ids, p.CityIDs)
				ext := Walk{
					CityIDs:    append(ids, e.ToCityID),
					DistanceKM: p.DistanceKM + e.DistanceKM,
					Hops:       p.Hops + 1,
				}

				if ext.Hops > lim.MaxHops {
					return nil, ErrSearchLimit
				}
				if len(emitted) >= lim.MaxPaths {
					return nil, ErrSearchLimit
				}

				emitted = append(emitted, ext)
				next = append(next, ext)
			}
		}

		frontier = next
	}

	return emitted, nil
}
