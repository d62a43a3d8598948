package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/course-search/services"
)

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query    string `json:"query" form:"q"`
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"page_size" form:"page_size"`
}

// MultiSearchRequest represents the JSON request for multi-search
type MultiSearchRequest struct {
	Queries  []NamedSearchRequest `json:"queries" binding:"required"`
	Page     int                  `json:"page,omitempty"`
	PageSize int                  `json:"page_size,omitempty"`
}

// NamedSearchRequest represents a single named search query in the request
type NamedSearchRequest struct {
	Name  string `json:"name" binding:"required"`
	Query string `json:"query"`
}

// MultiSearchResponse holds one result per named query
type MultiSearchResponse struct {
	Results map[string]services.SearchResult `json:"results"`
	Took    int64                            `json:"took"` // milliseconds, sum of all queries
}

// SearchHandler ranks the catalog for a JSON search request.
func (api *API) SearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}
	api.search(c, req)
}

// QuickSearchHandler ranks the catalog for GET /courses/search?q=...
func (api *API) QuickSearchHandler(c *gin.Context) {
	var req SearchRequest
	if result := ValidateQueryBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	api.search(c, req)
}

func (api *API) search(c *gin.Context, req SearchRequest) {
	if result := ValidateSearchRequest(req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	results, err := api.engine.Search(services.SearchQuery{
		QueryString: req.Query,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		SendSearchError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// MultiSearchHandler runs several named searches with shared paging.
func (api *API) MultiSearchHandler(c *gin.Context) {
	var req MultiSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Queries) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "At least one query is required")
		return
	}

	queryNames := make(map[string]bool, len(req.Queries))
	for _, namedQuery := range req.Queries {
		if namedQuery.Name == "" {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "All queries must have a non-empty name")
			return
		}
		if queryNames[namedQuery.Name] {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Query names must be unique: '"+namedQuery.Name+"' appears multiple times")
			return
		}
		queryNames[namedQuery.Name] = true

		check := SearchRequest{Query: namedQuery.Query, Page: req.Page, PageSize: req.PageSize}
		if result := ValidateSearchRequest(check); result.HasErrors() {
			SendValidationError(c, result)
			return
		}
	}

	response := MultiSearchResponse{Results: make(map[string]services.SearchResult, len(req.Queries))}
	for _, namedQuery := range req.Queries {
		result, err := api.engine.Search(services.SearchQuery{
			QueryString: namedQuery.Query,
			Page:        req.Page,
			PageSize:    req.PageSize,
		})
		if err != nil {
			SendSearchError(c, err)
			return
		}
		response.Results[namedQuery.Name] = result
		response.Took += result.Took
	}

	c.JSON(http.StatusOK, response)
}
