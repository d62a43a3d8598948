package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/course-search/services"
)

// API holds dependencies for the HTTP handlers.
type API struct {
	engine         services.Engine
	analytics      services.AnalyticsTracker // nil disables /analytics
	metricsHandler http.Handler              // nil disables /metrics
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.Engine, analytics services.AnalyticsTracker, metricsHandler http.Handler) *API {
	return &API{
		engine:         engine,
		analytics:      analytics,
		metricsHandler: metricsHandler,
	}
}

// SetupRoutes defines all the API routes for the course search engine.
func SetupRoutes(router *gin.Engine, engine services.Engine, analytics services.AnalyticsTracker, metricsHandler http.Handler) {
	apiHandler := NewAPI(engine, analytics, metricsHandler)

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	courseRoutes := router.Group("/courses")
	{
		courseRoutes.POST("/_search", apiHandler.SearchHandler)             // Ranked search, JSON body
		courseRoutes.POST("/_multi_search", apiHandler.MultiSearchHandler) // Several named searches at once
		courseRoutes.GET("/search", apiHandler.QuickSearchHandler)         // Ranked search, ?q=
		courseRoutes.PUT("", apiHandler.AddCoursesHandler)                 // Add/Update courses
		courseRoutes.GET("", apiHandler.ListCoursesHandler)                // List courses with pagination
		courseRoutes.GET("/:id", apiHandler.GetCourseHandler)
		courseRoutes.DELETE("/:id", apiHandler.DeleteCourseHandler)
	}

	catalogRoutes := router.Group("/catalog")
	{
		catalogRoutes.POST("/_import", apiHandler.ImportCatalogHandler) // Async import of a catalog document
		catalogRoutes.POST("/_reload", apiHandler.ReloadCatalogHandler) // Async reload from storage
	}

	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)
	}

	router.GET("/settings", apiHandler.GetSettingsHandler)
	router.PATCH("/settings", apiHandler.UpdateSettingsHandler)
}

// HealthCheckHandler reports whether the engine and its storage are reachable
func (api *API) HealthCheckHandler(c *gin.Context) {
	if err := api.engine.Health(c.Request.Context()); err != nil {
		SendError(c, http.StatusServiceUnavailable, ErrorCodeUnhealthy, "Storage unavailable: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "course-search",
		"courses":   api.engine.CourseCount(),
		"timestamp": time.Now().Unix(),
	})
}

// GetSettingsHandler returns the ranking weights in use
func (api *API) GetSettingsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.Settings())
}

// UpdateSettingsHandler applies a partial update to the ranking weights.
// Fields missing from the body keep their current value.
func (api *API) UpdateSettingsHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Failed to read request body: "+err.Error())
		return
	}

	settings := api.engine.Settings()
	if err := json.Unmarshal(body, &settings); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if err := api.engine.UpdateSettings(settings); err != nil {
		SendEngineError(c, "update settings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings updated",
		"settings": api.engine.Settings(),
	})
}
