package apihandlers

import (
	"fmt"
	"net/http"
	"strconv"

	"bulkcat/internal/app"
	"bulkcat/internal/authz"
	"bulkcat/internal/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(app *app.App) *APIHandler {
	return &APIHandler{App: app}
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(a *app.App) *gin.Engine {
	h := NewAPIHandler(a)
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log.StandardLogger()))

	router.GET("/health", h.HealthHandler)

	v1 := router.Group("/api/v1", AuthMiddleware(a.UserService))
	{
		v1.GET("/nonce", h.NonceHandler)
		v1.GET("/categories", h.ListCategoriesHandler)

		postsGroup := v1.Group("/posts")
		{
			postsGroup.GET("", h.ListPostsHandler)
			postsGroup.POST("/bulk-move", h.BulkMoveHandler)
		}
	}
	return router
}

func (h *APIHandler) HealthHandler(c *gin.Context) {
	if err := h.App.Store.Ping(c.Request.Context()); err != nil {
		log.Warnf("Health check: store ping failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NonceHandler issues a bulk move token bound to the calling user.
func (h *APIHandler) NonceHandler(c *gin.Context) {
	user := CurrentUser(c)
	nonces := h.App.Nonces
	c.JSON(http.StatusOK, gin.H{
		"nonce":      nonces.Generate(user.ID, authz.ActionBulkMove),
		"expires_in": int(nonces.TTL().Seconds()),
	})
}

func (h *APIHandler) ListCategoriesHandler(c *gin.Context) {
	cats, err := h.App.CategoryService.ListCategories(c.Request.Context())
	if err != nil {
		log.Errorf("ListCategoriesHandler: failed to list categories: %v", err)
		Internal(c, "Unable to load categories.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": cats})
}

func (h *APIHandler) ListPostsHandler(c *gin.Context) {
	params, err := parseListPostsParams(c)
	if err != nil {
		BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.App.PostService.ListPosts(c.Request.Context(), params)
	if err != nil {
		log.Errorf("ListPostsHandler: failed to list posts: %v", err)
		Internal(c, "Unable to load posts.")
		return
	}
	c.JSON(http.StatusOK, page)
}

// parseListPostsParams reads the filter query. Range checks are left to the service.
func parseListPostsParams(c *gin.Context) (services.ListPostsParams, error) {
	var params services.ListPostsParams
	var err error

	if params.IncludeCategory, err = queryInt64(c, "cat"); err != nil {
		return params, err
	}
	if params.ExcludeCategory, err = queryInt64(c, "exclude_cat"); err != nil {
		return params, err
	}
	perPage, err := queryInt64(c, "per_page")
	if err != nil {
		return params, err
	}
	page, err := queryInt64(c, "paged")
	if err != nil {
		return params, err
	}
	params.PerPage, params.Page = int(perPage), int(page)
	params.Search = c.Query("s")
	return params, nil
}

func queryInt64(c *gin.Context, key string) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, raw)
	}
	return v, nil
}
