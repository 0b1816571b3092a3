package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(api *gin.RouterGroup, catalogHandler *CatalogHandler, attributeHandler *AttributeHandler) {
	// 目录导入导出 API
	catalogAPI := api.Group("/catalog")
	{
		catalogAPI.GET("", catalogHandler.GetCatalog)
		catalogAPI.POST("", catalogHandler.ImportCatalog)
	}

	// 术语查询 API
	api.GET("/terms", catalogHandler.ListTerms)

	// 属性映射查询 API
	attributesAPI := api.Group("/attributes")
	{
		attributesAPI.GET("", attributeHandler.ListAttributes)
		attributesAPI.GET("/:name", attributeHandler.GetAttribute)
	}
}
