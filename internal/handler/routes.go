package handler

import (
	"net/http"

	"github.com/Eropik/estore-logistics-api/internal/service"
	"github.com/gin-gonic/gin"
)

// ShortestRoute handles GET /api/v1/routes/shortest
//
// Query params:
//   - from_id (required) int32 — origin city ID
//   - to_id   (required) int32 — destination city ID
//
// Response 200:
//
//	{"found":true,"from":{...},"to":{...},"path":[...],"intermediate":[...],
//	 "total_distance_km":1000,"number_of_stops":1,"label":"Moscow -> Samara"}
//
// or {"found":false,...} when the cities are not connected.
// Response 404: unknown city ID.
func (h *Handler) ShortestRoute(c *gin.Context) {
	fromID, ok := parseIDQuery(c, "from_id")
	if !ok {
		return
	}
	toID, ok := parseIDQuery(c, "to_id")
	if !ok {
		return
	}

	summary, err := h.routeSvc.ShortestRoute(c.Request.Context(), fromID, toID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSummaryJSON(summary))
}

// ShortestRouteByName handles GET /api/v1/routes/shortest-by-name
//
// Query params:
//   - from (required) string — origin city display name
//   - to   (required) string — destination city display name
//
// Responses mirror ShortestRoute.
func (h *Handler) ShortestRouteByName(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to query parameters are required"})
		return
	}

	summary, err := h.routeSvc.ShortestRouteByName(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSummaryJSON(summary))
}

// AllRoutesFrom handles GET /api/v1/routes/from/:city
//
// Path param:
//   - city (required) string — origin city display name
//
// Response 200: every simple path leaving the city, ordered by hop count
// then distance:
//
//	[{"destination_city":{...},"total_distance_km":800,"number_of_stops":1,
//	  "path":[...],"label":"Moscow -> Kazan"}]
//
// Response 404: unknown city name.
// Response 503: the traversal exceeded its configured search bound.
func (h *Handler) AllRoutesFrom(c *gin.Context) {
	cityName := c.Param("city")

	paths, err := h.routeSvc.AllRoutesFrom(c.Request.Context(), cityName)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	type pathJSON struct {
		Destination cityJSON   `json:"destination_city"`
		DistanceKM  float64    `json:"total_distance_km"`
		Stops       int        `json:"number_of_stops"`
		Path        []cityJSON `json:"path"`
		Label       string     `json:"label"`
	}

	out := make([]pathJSON, len(paths))
	for i, p := range paths {
		out[i] = pathJSON{
			Destination: toCityJSON(p.Destination),
			DistanceKM:  p.DistanceKM,
			Stops:       p.Stops,
			Path:        toCityListJSON(p.Path),
			Label:       p.Label,
		}
	}

	c.JSON(http.StatusOK, out)
}

// DirectRoutes handles GET /api/v1/routes/direct
//
// Query params:
//   - city_id      (required) int32  — subject city
//   - direction    (optional) string — "from" (default) or "to"
//   - max_distance (optional) float64 — only with direction=from; keeps
//     routes of distance ≤ budget
//
// Response 200: single-hop routes ordered by distance ascending:
//
//	[{"route_id":3,"from":{...},"to":{...},"distance_km":800}]
//
// Response 400: bad direction or non-positive max_distance.
// Response 404: unknown city ID.
func (h *Handler) DirectRoutes(c *gin.Context) {
	cityID, ok := parseIDQuery(c, "city_id")
	if !ok {
		return
	}

	direction := c.DefaultQuery("direction", "from")

	var (
		routes []service.DirectRoute
		err    error
	)
	switch direction {
	case "from":
		if raw := c.Query("max_distance"); raw != "" {
			maxKM, ok := parseFloatQuery(c, "max_distance")
			if !ok {
				return
			}
			routes, err = h.routeSvc.DirectRoutesWithin(c.Request.Context(), cityID, maxKM)
		} else {
			routes, err = h.routeSvc.DirectRoutesFrom(c.Request.Context(), cityID)
		}
	case "to":
		routes, err = h.routeSvc.DirectRoutesTo(c.Request.Context(), cityID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be \"from\" or \"to\""})
		return
	}

	if err != nil {
		respondServiceError(c, err)
		return
	}

	type directJSON struct {
		RouteID    int32    `json:"route_id"`
		From       cityJSON `json:"from"`
		To         cityJSON `json:"to"`
		DistanceKM float64  `json:"distance_km"`
	}

	out := make([]directJSON, len(routes))
	for i, r := range routes {
		out[i] = directJSON{
			RouteID:    r.RouteID,
			From:       toCityJSON(r.From),
			To:         toCityJSON(r.To),
			DistanceKM: r.DistanceKM,
		}
	}

	c.JSON(http.StatusOK, out)
}

// ListCities handles GET /api/v1/cities
func (h *Handler) ListCities(c *gin.Context) {
	cities, err := h.citiesRepo.ListCities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query cities"})
		return
	}

	c.JSON(http.StatusOK, toCityListJSON(cities))
}

// GetCity handles GET /api/v1/cities/:id
//
// Response 404: city does not exist.
func (h *Handler) GetCity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	city, err := h.citiesRepo.GetCityByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query city"})
		return
	}
	if city == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "city not found"})
		return
	}

	c.JSON(http.StatusOK, toCityJSON(*city))
}
