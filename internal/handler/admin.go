package handler

import (
	"errors"
	"net/http"

	"github.com/Eropik/estore-logistics-api/internal/storage"
	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the CRUD surface that mutates the city-route graph.
// All of its endpoints sit behind JWT auth with the admin role.
type AdminHandler struct {
	citiesRepo     storage.CitiesRepository
	routesRepo     storage.RoutesRepository
	warehousesRepo storage.WarehousesRepository
}

// NewAdminHandler creates an AdminHandler with the given repositories.
func NewAdminHandler(
	citiesRepo storage.CitiesRepository,
	routesRepo storage.RoutesRepository,
	warehousesRepo storage.WarehousesRepository,
) *AdminHandler {
	return &AdminHandler{
		citiesRepo:     citiesRepo,
		routesRepo:     routesRepo,
		warehousesRepo: warehousesRepo,
	}
}

// ---------------------------------------------------------------------------
// Cities
// ---------------------------------------------------------------------------

type cityRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCity handles POST /api/v1/admin/cities
//
// Response 201: the created city.
// Response 409: a city with that name already exists.
func (h *AdminHandler) CreateCity(c *gin.Context) {
	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	city, err := h.citiesRepo.CreateCity(c.Request.Context(), req.Name)
	if errors.Is(err, storage.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "city name already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create city"})
		return
	}

	c.JSON(http.StatusCreated, toCityJSON(*city))
}

// UpdateCity handles PUT /api/v1/admin/cities/:id
func (h *AdminHandler) UpdateCity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	err := h.citiesRepo.UpdateCity(c.Request.Context(), id, req.Name)
	if errors.Is(err, storage.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "city name already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update city"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "name": req.Name})
}

// DeleteCity handles DELETE /api/v1/admin/cities/:id
//
// Routes and warehouses referencing the city are removed with it.
func (h *AdminHandler) DeleteCity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.citiesRepo.DeleteCity(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete city"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

type routeRequest struct {
	FromCityID int32   `json:"from_city_id" binding:"required"`
	ToCityID   int32   `json:"to_city_id" binding:"required"`
	DistanceKM float64 `json:"distance_km" binding:"required"`
}

// CreateRoute handles POST /api/v1/admin/routes
//
// The new route is directed from_city_id -> to_city_id. Creation is
// rejected when any route already connects the pair in either direction —
// the only place where the pair is treated as undirected.
//
// Response 201: the created route.
// Response 400: non-positive distance, identical endpoints, unknown city.
// Response 409: the city pair is already connected.
func (h *AdminHandler) CreateRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from_city_id, to_city_id and distance_km are required"})
		return
	}

	if req.DistanceKM <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "distance_km must be positive"})
		return
	}
	if req.FromCityID == req.ToCityID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a route must connect two distinct cities"})
		return
	}

	ctx := c.Request.Context()
	for _, id := range []int32{req.FromCityID, req.ToCityID} {
		city, err := h.citiesRepo.GetCityByID(ctx, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify city"})
			return
		}
		if city == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "city does not exist"})
			return
		}
	}

	exists, err := h.routesRepo.RouteExistsBetween(ctx, req.FromCityID, req.ToCityID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check existing routes"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "a route between these cities already exists"})
		return
	}

	route, err := h.routesRepo.CreateRoute(ctx, req.FromCityID, req.ToCityID, req.DistanceKM)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create route"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           route.ID,
		"from_city_id": route.FromCityID,
		"to_city_id":   route.ToCityID,
		"distance_km":  route.DistanceKM,
	})
}

// ListRoutes handles GET /api/v1/admin/routes
func (h *AdminHandler) ListRoutes(c *gin.Context) {
	routes, err := h.routesRepo.ListRoutes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query routes"})
		return
	}

	type routeJSON struct {
		ID         int32   `json:"id"`
		FromCityID int32   `json:"from_city_id"`
		ToCityID   int32   `json:"to_city_id"`
		DistanceKM float64 `json:"distance_km"`
	}

	out := make([]routeJSON, len(routes))
	for i, r := range routes {
		out[i] = routeJSON{ID: r.ID, FromCityID: r.FromCityID, ToCityID: r.ToCityID, DistanceKM: r.DistanceKM}
	}
	c.JSON(http.StatusOK, out)
}

// UpdateRoute handles PUT /api/v1/admin/routes/:id
func (h *AdminHandler) UpdateRoute(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from_city_id, to_city_id and distance_km are required"})
		return
	}
	if req.DistanceKM <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "distance_km must be positive"})
		return
	}
	if req.FromCityID == req.ToCityID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a route must connect two distinct cities"})
		return
	}

	route := &storage.Route{
		ID:         id,
		FromCityID: req.FromCityID,
		ToCityID:   req.ToCityID,
		DistanceKM: req.DistanceKM,
	}
	if err := h.routesRepo.UpdateRoute(c.Request.Context(), route); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update route"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           route.ID,
		"from_city_id": route.FromCityID,
		"to_city_id":   route.ToCityID,
		"distance_km":  route.DistanceKM,
	})
}

// DeleteRoute handles DELETE /api/v1/admin/routes/:id
func (h *AdminHandler) DeleteRoute(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.routesRepo.DeleteRoute(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete route"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Warehouses
// ---------------------------------------------------------------------------

type warehouseRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	CityID  int32  `json:"city_id" binding:"required"`
}

// CreateWarehouse handles POST /api/v1/admin/warehouses
//
// Response 201: the created warehouse.
// Response 400: unknown city.
func (h *AdminHandler) CreateWarehouse(c *gin.Context) {
	var req warehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, address and city_id are required"})
		return
	}

	ctx := c.Request.Context()
	city, err := h.citiesRepo.GetCityByID(ctx, req.CityID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify city"})
		return
	}
	if city == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city does not exist"})
		return
	}

	w, err := h.warehousesRepo.CreateWarehouse(ctx, &storage.Warehouse{
		Name:    req.Name,
		Address: req.Address,
		CityID:  req.CityID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create warehouse"})
		return
	}

	c.JSON(http.StatusCreated, toWarehouseJSON(*w))
}

// UpdateWarehouse handles PUT /api/v1/admin/warehouses/:id
func (h *AdminHandler) UpdateWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req warehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, address and city_id are required"})
		return
	}

	w := &storage.Warehouse{
		ID:      id,
		Name:    req.Name,
		Address: req.Address,
		CityID:  req.CityID,
	}
	if err := h.warehousesRepo.UpdateWarehouse(c.Request.Context(), w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update warehouse"})
		return
	}

	c.JSON(http.StatusOK, toWarehouseJSON(*w))
}

// DeleteWarehouse handles DELETE /api/v1/admin/warehouses/:id
func (h *AdminHandler) DeleteWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.warehousesRepo.DeleteWarehouse(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete warehouse"})
		return
	}

	c.Status(http.StatusNoContent)
}
