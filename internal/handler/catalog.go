package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"atlasdcat/internal/dcat"
	"atlasdcat/internal/service"
)

// CatalogHandler 目录处理器
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// GetCatalog 导出目录，默认 Turtle，format=json 时返回 JSON
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	catalog, err := h.catalogService.ExportCatalog(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	if c.Query("format") == "json" {
		Success(c, catalog)
		return
	}

	c.Data(http.StatusOK, dcat.MIMETurtle+"; charset=utf-8", []byte(catalog.Turtle()))
}

// ImportCatalog 导入目录，dry_run=true 时只返回映射结果
func (h *CatalogHandler) ImportCatalog(c *gin.Context) {
	var catalog dcat.Catalog
	if err := c.ShouldBindJSON(&catalog); err != nil {
		ValidationError(c, []ErrorItem{{Field: "body", Message: err.Error()}})
		return
	}

	dryRun, _ := strconv.ParseBool(c.Query("dry_run"))
	if dryRun {
		pending, err := h.catalogService.PreviewImport(c.Request.Context(), &catalog)
		if err != nil {
			ServiceError(c, err)
			return
		}
		Success(c, pending)
		return
	}

	saved, err := h.catalogService.ImportCatalog(c.Request.Context(), &catalog)
	if err != nil {
		ServiceError(c, err)
		return
	}

	Success(c, saved)
}

// ListTerms 列出术语表中的术语
func (h *CatalogHandler) ListTerms(c *gin.Context) {
	terms, err := h.catalogService.Terms(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, terms)
}
