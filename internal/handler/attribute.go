package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atlasdcat/internal/service"
)

// AttributeHandler 属性映射处理器
type AttributeHandler struct {
	attributeService *service.AttributeService
}

// NewAttributeHandler 创建属性映射处理器
func NewAttributeHandler(attributeService *service.AttributeService) *AttributeHandler {
	return &AttributeHandler{
		attributeService: attributeService,
	}
}

// ListAttributes 列出全部属性及生效名称
func (h *AttributeHandler) ListAttributes(c *gin.Context) {
	Success(c, h.attributeService.Attributes())
}

// GetAttribute 获取单个属性
func (h *AttributeHandler) GetAttribute(c *gin.Context) {
	name := c.Param("name")
	info, err := h.attributeService.Attribute(name)
	if err != nil {
		Error(c, http.StatusNotFound, err.Error())
		return
	}
	Success(c, info)
}
