package app

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/grandauto/garage/internal/api/handlers"
	"github.com/grandauto/garage/internal/api/middleware"
	"github.com/grandauto/garage/internal/config"
)

func newRouter(cfg *config.Config, server *handlers.Server) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.CustomRecovery(recoveryHandler),
		middleware.RequestID(),
		middleware.ErrorHandler(),
	)
	router.Use(cors.New(buildCORSConfig(cfg)))

	api := router.Group("/api")
	{
		api.GET("/health", server.Health)

		customers := api.Group("/customers")
		{
			customers.POST("", server.CreateCustomer)
			customers.GET("", server.ListCustomers)
			customers.GET("/search/:query", server.SearchCustomers)
			customers.GET("/stats/summary", server.CustomerStats)
			customers.GET("/:id", server.GetCustomer)
			customers.PUT("/:id", server.UpdateCustomer)
			customers.DELETE("/:id", server.DeleteCustomer)
		}

		vehicles := api.Group("/vehicles")
		{
			vehicles.POST("", server.CreateVehicle)
			vehicles.GET("", server.ListVehicles)
			vehicles.GET("/customer/:customer_id", server.ListVehiclesByCustomer)
			vehicles.GET("/search/:query", server.SearchVehicles)
			vehicles.GET("/stats/summary", server.VehicleStats)
			vehicles.GET("/:id", server.GetVehicle)
			vehicles.PUT("/:id", server.UpdateVehicle)
			vehicles.DELETE("/:id", server.DeleteVehicle)
		}

		services := api.Group("/services")
		{
			services.POST("", server.CreateService)
			services.GET("", server.ListServices)
			services.GET("/vehicle/:vehicle_id", server.ListServicesByVehicle)
			services.GET("/customer/:customer_id", server.ListServicesByCustomer)
			services.GET("/stats/summary", server.ServiceStats)
			services.GET("/:id", server.GetService)
			services.PUT("/:id", server.UpdateService)
			services.DELETE("/:id", server.DeleteService)
		}
	}

	router.NoRoute(noRouteHandler(cfg))
	return router
}

// buildCORSConfig mirrors the permissive CORS posture the browser front end
// expects: no configured origins means allow everything.
func buildCORSConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}

	if len(cfg.Server.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}
	return corsCfg
}

func recoveryHandler(c *gin.Context, err any) {
	msg := "unexpected error"
	if e, ok := err.(error); ok {
		msg = e.Error()
	} else if s, ok := err.(string); ok {
		msg = s
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal server error",
		"message": msg,
	})
}

// noRouteHandler distinguishes unknown API paths, which get a JSON 404, from
// front-end paths, which fall through to the SPA entry point when static
// serving is enabled.
func noRouteHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") || cfg.Frontend.Dir == "" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "API endpoint not found",
				"path":  path,
			})
			return
		}

		file := filepath.Join(cfg.Frontend.Dir, filepath.Clean("/"+path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(cfg.Frontend.Dir, "index.html"))
	}
}
