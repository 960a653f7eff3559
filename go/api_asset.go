package consoleserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	catalogports "github.com/Apurer/storefront-console/internal/domains/catalog/ports"
)

// AssetAPI serves stored product images and reports process health.
type AssetAPI struct {
	assets catalogports.Service
	health func(ctx context.Context) error
}

// NewAssetAPI creates an AssetAPI. health may be nil when no backing store needs probing.
func NewAssetAPI(assets catalogports.Service, health func(ctx context.Context) error) AssetAPI {
	return AssetAPI{assets: assets, health: health}
}

// Get /assets/*path
func (api *AssetAPI) GetAsset(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" {
		respondError(c, http.StatusNotFound, errors.New("asset path is required"))
		return
	}
	object, err := api.assets.Asset(c.Request.Context(), path)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, object.ContentType, object.Data)
}

// Get /healthz
func (api *AssetAPI) Health(c *gin.Context) {
	if api.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := api.health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
