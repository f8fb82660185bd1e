// Package handler contains the gin HTTP handlers for the logistics API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Eropik/estore-logistics-api/internal/graph"
	"github.com/Eropik/estore-logistics-api/internal/service"
	"github.com/Eropik/estore-logistics-api/internal/storage"
	"github.com/gin-gonic/gin"
)

// Handler holds the domain dependencies for the public routing endpoints.
// A single Handler is shared across all route groups; individual methods are
// registered as gin handler functions.
type Handler struct {
	citiesRepo     storage.CitiesRepository
	warehousesRepo storage.WarehousesRepository
	routeSvc       *service.RouteService
	warehouseSvc   *service.WarehouseService
}

// New creates a Handler with the given dependencies.
func New(
	citiesRepo storage.CitiesRepository,
	warehousesRepo storage.WarehousesRepository,
	routeSvc *service.RouteService,
	warehouseSvc *service.WarehouseService,
) *Handler {
	return &Handler{
		citiesRepo:     citiesRepo,
		warehousesRepo: warehousesRepo,
		routeSvc:       routeSvc,
		warehouseSvc:   warehouseSvc,
	}
}

// cityJSON is the wire shape of a city.
type cityJSON struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// warehouseJSON is the wire shape of a warehouse.
type warehouseJSON struct {
	ID      int32  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	CityID  int32  `json:"city_id"`
}

func toCityJSON(c storage.City) cityJSON {
	return cityJSON{ID: c.ID, Name: c.Name}
}

func toCityListJSON(cities []storage.City) []cityJSON {
	out := make([]cityJSON, len(cities))
	for i, c := range cities {
		out[i] = toCityJSON(c)
	}
	return out
}

func toWarehouseJSON(w storage.Warehouse) warehouseJSON {
	return warehouseJSON{ID: w.ID, Name: w.Name, Address: w.Address, CityID: w.CityID}
}

// summaryJSON shapes a RouteSummary for the wire. A not-found summary
// serialises as {"found": false} with the remaining fields omitted.
type summaryJSON struct {
	Found        bool       `json:"found"`
	From         *cityJSON  `json:"from,omitempty"`
	To           *cityJSON  `json:"to,omitempty"`
	Path         []cityJSON `json:"path,omitempty"`
	Intermediate []cityJSON `json:"intermediate,omitempty"`
	DistanceKM   float64    `json:"total_distance_km"`
	Stops        int        `json:"number_of_stops"`
	Label        string     `json:"label,omitempty"`
}

func toSummaryJSON(s *service.RouteSummary) summaryJSON {
	if !s.Found {
		return summaryJSON{Found: false}
	}

	from := toCityJSON(s.From)
	to := toCityJSON(s.To)
	return summaryJSON{
		Found:        true,
		From:         &from,
		To:           &to,
		Path:         toCityListJSON(s.Path),
		Intermediate: toCityListJSON(s.Intermediate),
		DistanceKM:   s.DistanceKM,
		Stops:        s.Stops,
		Label:        s.Label,
	}
}

// respondServiceError translates service-layer errors into HTTP responses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "city not found"})
	case errors.Is(err, service.ErrWarehouseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "warehouse not found"})
	case errors.Is(err, service.ErrNoRoute):
		c.JSON(http.StatusNotFound, gin.H{"error": "no route found"})
	case errors.Is(err, service.ErrSameWarehouse):
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and destination warehouses must differ"})
	case errors.Is(err, service.ErrInvalidDistance):
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_distance must be a positive number"})
	case errors.Is(err, service.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": "price_per_km must be a positive number"})
	case errors.Is(err, graph.ErrSearchLimit):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search bound exceeded"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseIDParam extracts a positive int32 path parameter.
// On failure it writes a 400 response and returns (0, false).
func parseIDParam(c *gin.Context, name string) (int32, bool) {
	raw := c.Param(name)
	id64, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id64 <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return int32(id64), true
}

// parseIDQuery extracts a required positive int32 query parameter.
// On failure it writes a 400 response and returns (0, false).
func parseIDQuery(c *gin.Context, name string) (int32, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " query parameter is required"})
		return 0, false
	}
	id64, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id64 <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return int32(id64), true
}

// parseFloatQuery extracts a required float64 query parameter.
// On failure it writes a 400 response and returns (0, false).
func parseFloatQuery(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " query parameter is required"})
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a number"})
		return 0, false
	}
	return v, true
}
