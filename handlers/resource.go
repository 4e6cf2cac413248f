package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	resourceRepo "deskhub/database/repository/resource"
	"deskhub/models"
	"deskhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	resourceCatalogKey = "resources:catalog"
	resourceCacheTTL   = 60 * time.Second
)

// ResourceHandler serves the room/desk catalog. Listings are cached in
// Redis briefly; availability templates change rarely, reservations never
// touch them.
type ResourceHandler struct {
	Resources resourceRepo.ResourceRepository
	Cache     *redis.Client
}

func NewResourceHandler(resources resourceRepo.ResourceRepository, cache *redis.Client) *ResourceHandler {
	return &ResourceHandler{Resources: resources, Cache: cache}
}

// ListResourcesHandler returns every room and desk.
func (h *ResourceHandler) ListResourcesHandler(c *gin.Context) {
	ctx := c.Request.Context()

	if h.Cache != nil {
		if cached, err := h.Cache.Get(ctx, resourceCatalogKey).Result(); err == nil {
			var resources []models.Resource
			if json.Unmarshal([]byte(cached), &resources) == nil {
				c.JSON(http.StatusOK, gin.H{"resources": resources})
				return
			}
		}
	}

	resources, err := h.Resources.ListResources(ctx)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list resources", err.Error())
		return
	}

	if h.Cache != nil {
		if data, err := json.Marshal(resources); err == nil {
			if err := h.Cache.Set(ctx, resourceCatalogKey, data, resourceCacheTTL).Err(); err != nil {
				utils.GetLogger().Warn("failed to cache resource catalog", zap.Error(err))
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"resources": resources})
}

// GetResourceHandler returns a single resource by id.
func (h *ResourceHandler) GetResourceHandler(c *gin.Context) {
	resource, err := h.Resources.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch resource", err.Error())
		return
	}
	if resource == nil {
		utils.JSONError(c, http.StatusNotFound, "resource not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"resource": resource})
}
