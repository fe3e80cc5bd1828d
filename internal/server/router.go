package server

import (
	"net/http"
	"time"

	"github.com/gearstack/asset-service/config"
	assetH "github.com/gearstack/asset-service/internal/asset/handler"
	groupH "github.com/gearstack/asset-service/internal/group/handler"
	"github.com/gearstack/asset-service/internal/middleware"
	woH "github.com/gearstack/asset-service/internal/workorder/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the gin engine: CORS, health endpoint, and the
// JWT-protected v1 API surface.
func NewRouter(cfg *config.Config, assetHandler *assetH.AssetHandler, groupHandler *groupH.GroupHandler, workOrderHandler *woH.WorkOrderHandler) *gin.Engine {
	if cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.SecretKey))

	assetHandler.Register(v1)
	groupHandler.Register(v1)
	workOrderHandler.Register(v1)

	return r
}
