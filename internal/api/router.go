package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/middleware"
	"github.com/persistorai/promiscuity/internal/promiscuity"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log           *logrus.Logger
	Pool          Pinger
	Nodes         NodeService
	Edges         EdgeService
	Promiscuity   PromiscuityService
	TenantLookup  middleware.TenantLookup
	CORSOrigins   []string
	Version       string
	SchemaVersion int
	RateLimit     float64
	RateBurst     int
}

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20 // 1 MB

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))

	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			MaxAge:           1 * time.Hour,
			AllowCredentials: false,
		}))
	}

	if deps.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(deps.RateLimit, deps.RateBurst).Handler())
	}

	r.Use(middleware.PrometheusMiddleware())
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, log, deps.Version, deps.SchemaVersion)
	nodes := NewNodeHandler(deps.Nodes, log)
	edges := NewEdgeHandler(deps.Edges, log)
	search := NewPromiscuityHandler(deps.Promiscuity, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	guard := middleware.NewBruteForceGuard(log)
	api.Use(middleware.AuthMiddleware(middleware.NewCachedTenantLookup(deps.TenantLookup), log, guard))

	// Nodes.
	api.GET("/nodes", nodes.List)
	api.POST("/nodes", nodes.Create)
	api.GET("/nodes/:id", nodes.Get)
	api.DELETE("/nodes/:id", nodes.Delete)

	// Edges.
	api.GET("/edges", edges.List)
	api.POST("/edges", edges.Create)
	api.DELETE("/edges/:source/:target/:relation", edges.Delete)

	// Promiscuity searches.
	api.GET("/promiscuity/score", search.Score(promiscuity.AlgorithmBestFirst))
	api.GET("/promiscuity/dfs-score", search.Score(promiscuity.AlgorithmDepthFirst))
	api.GET("/promiscuity/naive-score", search.Score(promiscuity.AlgorithmExhaustive))
	api.GET("/promiscuity/paths", search.Paths)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(r, deps)
	registerRoutes(r.Group("/api/v1"), deps)

	return r
}
