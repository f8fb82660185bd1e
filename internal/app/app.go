package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Eropik/estore-logistics-api/internal/config"
	"github.com/Eropik/estore-logistics-api/internal/graph"
	"github.com/Eropik/estore-logistics-api/internal/handler"
	"github.com/Eropik/estore-logistics-api/internal/middleware"
	"github.com/Eropik/estore-logistics-api/internal/migrations"
	"github.com/Eropik/estore-logistics-api/internal/service"
	"github.com/Eropik/estore-logistics-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBError represents a database-related error.
type DBError struct {
	Op  string
	Err error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("db error during %q: %v", e.Op, e.Err)
}

func (e *DBError) Unwrap() error { return e.Err }

// App holds the application-level dependencies.
type App struct {
	DB     *pgxpool.Pool
	Router *gin.Engine
	cfg    *config.Config
}

// New initializes the application: connects to Postgres, runs migrations,
// wires all domain dependencies, and configures the HTTP engine with routes.
func New(cfg *config.Config) (*App, error) {
	// --- Database pool ---
	poolCfg, err := pgxpool.ParseConfig(cfg.DBDSN)
	if err != nil {
		return nil, &DBError{Op: "parse_dsn", Err: err}
	}

	poolCfg.MaxConns = 20
	poolCfg.MaxConnLifetime = 30 * time.Second
	poolCfg.MaxConnIdleTime = 10 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, &DBError{Op: "connect", Err: err}
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, &DBError{Op: "ping", Err: err}
	}

	log.Println("database connection pool established")

	// --- Migrations ---
	if err := migrations.Run(context.Background(), pool); err != nil {
		return nil, fmt.Errorf("app: run migrations: %w", err)
	}

	log.Println("database schema up to date")

	// --- Domain dependencies ---
	citiesRepo := storage.NewCitiesRepository(pool)
	routesRepo := storage.NewRoutesRepository(pool)
	warehousesRepo := storage.NewWarehousesRepository(pool)

	limits := graph.Limits{
		MaxHops:  cfg.MaxRouteHops,
		MaxPaths: cfg.MaxRoutePaths,
	}
	routeSvc := service.NewRouteService(citiesRepo, routesRepo, warehousesRepo, limits)
	warehouseSvc := service.NewWarehouseService(routeSvc, warehousesRepo)

	// Auth dependencies.
	usersRepo := storage.NewUsersRepository(pool)
	tokensRepo := storage.NewRefreshTokensRepository(pool)
	authService := service.NewAuthService(
		usersRepo, tokensRepo,
		cfg.JWTSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	// --- HTTP engine ---
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.Timeout(10 * time.Second))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes.
	h := handler.New(citiesRepo, warehousesRepo, routeSvc, warehouseSvc)
	ah := handler.NewAuthHandler(authService)
	adminH := handler.NewAdminHandler(citiesRepo, routesRepo, warehousesRepo)

	api := router.Group("/api/v1")
	{
		// Directory (public read).
		api.GET("/cities", h.ListCities)
		api.GET("/cities/:id", h.GetCity)
		api.GET("/warehouses", h.ListWarehouses)

		// Route queries (public).
		api.GET("/routes/shortest", h.ShortestRoute)
		api.GET("/routes/shortest-by-name", h.ShortestRouteByName)
		api.GET("/routes/from/:city", h.AllRoutesFrom)
		api.GET("/routes/direct", h.DirectRoutes)

		// Warehouse queries (public).
		api.GET("/warehouses/nearby", h.NearbyWarehouses)
		api.GET("/warehouses/nearest", h.NearestWarehouse)
		api.GET("/warehouses/:id/route/:to", h.WarehouseRoute)
		api.GET("/warehouses/:id/reachable", h.ReachableWarehouses)

		// Delivery pricing (public).
		api.GET("/delivery/estimate", h.DeliveryEstimate)

		// Auth endpoints (no auth required to call these).
		auth := api.Group("/auth")
		{
			auth.POST("/login", ah.Login)
			auth.POST("/refresh", ah.Refresh)
			auth.POST("/logout", ah.Logout)
		}

		// Protected endpoints: admin role. All graph mutations live here.
		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(authService))
		admin.Use(middleware.RequireRole("admin"))
		{
			// City management.
			admin.POST("/cities", adminH.CreateCity)
			admin.PUT("/cities/:id", adminH.UpdateCity)
			admin.DELETE("/cities/:id", adminH.DeleteCity)

			// Route management.
			admin.POST("/routes", adminH.CreateRoute)
			admin.GET("/routes", adminH.ListRoutes)
			admin.PUT("/routes/:id", adminH.UpdateRoute)
			admin.DELETE("/routes/:id", adminH.DeleteRoute)

			// Warehouse management.
			admin.POST("/warehouses", adminH.CreateWarehouse)
			admin.PUT("/warehouses/:id", adminH.UpdateWarehouse)
			admin.DELETE("/warehouses/:id", adminH.DeleteWarehouse)
		}
	}

	return &App{
		DB:     pool,
		Router: router,
		cfg:    cfg,
	}, nil
}

// Shutdown gracefully closes the database pool.
func (a *App) Shutdown() {
	if a.DB != nil {
		a.DB.Close()
		log.Println("database connection pool closed")
	}
}
