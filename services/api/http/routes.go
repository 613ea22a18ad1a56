package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerRoutes sets up the v1 API structure.
// Groups: /api/v1 metadata endpoints plus /api/v1/analysis report endpoints.
func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())

	v1.GET("/lines", s.handleListLines)
	v1.GET("/rivers", s.handleListRivers)
	v1.GET("/presets", s.handleListPresets)
	v1.GET("/overview", s.handleOverview)

	an := v1.Group("/analysis")
	{
		an.GET("/river/:name", s.handleRiverAnalysis)
		an.GET("/group", s.handleGroupAnalysis)
		an.GET("/all", s.handleAllRiversAnalysis)
		an.GET("/ranking", s.handleRanking)
		an.GET("/ranking/export", s.handleRankingExport)
		an.GET("/compare", s.handleCompare)
	}
}

// apiVersionMiddleware tags responses with the API version.
func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}
