package httpapi

import "github.com/gin-gonic/gin"

// NewRouter builds the gin engine with all query service routes.
func NewRouter(searcher SearchService, answerer AskService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	h := NewHandler(searcher, answerer)
	router.GET("/healthz", h.Healthz)
	router.GET("/openapi.json", h.OpenAPI)
	router.POST("/search", h.Search)
	router.POST("/ask", h.Ask)

	return router
}
