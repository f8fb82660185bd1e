package handler

import (
	"net/http"

	"github.com/Eropik/estore-logistics-api/internal/service"
	"github.com/gin-gonic/gin"
)

// warehouseDistanceJSON is the wire shape of a warehouse-with-distance entry.
type warehouseDistanceJSON struct {
	WarehouseID   int32   `json:"warehouse_id"`
	WarehouseName string  `json:"warehouse_name"`
	CityID        int32   `json:"city_id"`
	Address       string  `json:"address"`
	DistanceKM    float64 `json:"distance_km"`
	Stops         int     `json:"number_of_stops"`
}

func toWarehouseDistanceJSON(matches []service.WarehouseDistance) []warehouseDistanceJSON {
	out := make([]warehouseDistanceJSON, len(matches))
	for i, m := range matches {
		out[i] = warehouseDistanceJSON{
			WarehouseID:   m.Warehouse.ID,
			WarehouseName: m.Warehouse.Name,
			CityID:        m.Warehouse.CityID,
			Address:       m.Warehouse.Address,
			DistanceKM:    m.DistanceKM,
			Stops:         m.Stops,
		}
	}
	return out
}

// ListWarehouses handles GET /api/v1/warehouses
func (h *Handler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.warehousesRepo.ListWarehouses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query warehouses"})
		return
	}

	out := make([]warehouseJSON, len(warehouses))
	for i, w := range warehouses {
		out[i] = toWarehouseJSON(w)
	}
	c.JSON(http.StatusOK, out)
}

// NearbyWarehouses handles GET /api/v1/warehouses/nearby
//
// Query params:
//   - city_id      (required) int32   — origin city
//   - max_distance (required) float64 — distance budget in km
//
// Response 200: warehouses reachable within the budget, ordered by distance
// ascending. The same warehouse may appear at several distances when
// several distinct paths reach its city. Empty list when none qualify.
// Response 400: non-positive budget.
// Response 404: unknown city ID.
func (h *Handler) NearbyWarehouses(c *gin.Context) {
	cityID, ok := parseIDQuery(c, "city_id")
	if !ok {
		return
	}
	maxKM, ok := parseFloatQuery(c, "max_distance")
	if !ok {
		return
	}

	matches, err := h.warehouseSvc.WarehousesWithin(c.Request.Context(), cityID, maxKM)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWarehouseDistanceJSON(matches))
}

// NearestWarehouse handles GET /api/v1/warehouses/nearest
//
// Query params:
//   - city_id (required) int32 — origin city
//
// Response 200: {"warehouse":{...},"distance_km":800,"number_of_stops":1}
// Response 404: unknown city, or no warehouse reachable from it.
func (h *Handler) NearestWarehouse(c *gin.Context) {
	cityID, ok := parseIDQuery(c, "city_id")
	if !ok {
		return
	}

	match, err := h.warehouseSvc.NearestWarehouse(c.Request.Context(), cityID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"warehouse":       toWarehouseJSON(match.Warehouse),
		"distance_km":     match.DistanceKM,
		"number_of_stops": match.Stops,
	})
}

// WarehouseRoute handles GET /api/v1/warehouses/:id/route/:to
//
// Path params:
//   - id (required) int32 — origin warehouse
//   - to (required) int32 — destination warehouse
//
// Response 200: {"from_warehouse":{...},"to_warehouse":{...},"route":{...}}
// where route carries the usual summary shape ({"found":false} when the
// cities are not connected).
// Response 400: identical warehouses.
// Response 404: unknown warehouse ID.
func (h *Handler) WarehouseRoute(c *gin.Context) {
	fromID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	toID, ok := parseIDParam(c, "to")
	if !ok {
		return
	}

	route, err := h.warehouseSvc.RouteBetweenWarehouses(c.Request.Context(), fromID, toID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from_warehouse": toWarehouseJSON(route.From),
		"to_warehouse":   toWarehouseJSON(route.To),
		"route":          toSummaryJSON(&route.Summary),
	})
}

// ReachableWarehouses handles GET /api/v1/warehouses/:id/reachable
//
// Path param:
//   - id (required) int32 — origin warehouse
//
// Response 200: warehouses reachable from the origin warehouse's city,
// ordered by distance ascending, never including the origin itself.
// Response 404: unknown warehouse ID.
func (h *Handler) ReachableWarehouses(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	matches, err := h.warehouseSvc.ReachableWarehouses(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWarehouseDistanceJSON(matches))
}

// DeliveryEstimate handles GET /api/v1/delivery/estimate
//
// Query params:
//   - from_warehouse (required) int32   — origin warehouse
//   - to_warehouse   (required) int32   — destination warehouse
//   - price_per_km   (required) float64 — tariff
//
// Response 200:
//
//	{"quote_id":"...","from_warehouse":{...},"to_warehouse":{...},
//	 "distance_km":1400,"price_per_km":2.5,"cost":3500}
//
// Response 400: identical warehouses or non-positive tariff.
// Response 404: unknown warehouse, or no route between the two.
func (h *Handler) DeliveryEstimate(c *gin.Context) {
	fromID, ok := parseIDQuery(c, "from_warehouse")
	if !ok {
		return
	}
	toID, ok := parseIDQuery(c, "to_warehouse")
	if !ok {
		return
	}
	price, ok := parseFloatQuery(c, "price_per_km")
	if !ok {
		return
	}

	est, err := h.warehouseSvc.EstimateDeliveryCost(c.Request.Context(), fromID, toID, price)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quote_id":       est.QuoteID.String(),
		"from_warehouse": toWarehouseJSON(est.From),
		"to_warehouse":   toWarehouseJSON(est.To),
		"distance_km":    est.DistanceKM,
		"price_per_km":   est.PricePerKM,
		"cost":           est.Cost,
	})
}
