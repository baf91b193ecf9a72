package handler

import (
	"Skillmint/internal/api/dto"
	"Skillmint/internal/pkg/response"
	"Skillmint/internal/service"

	"github.com/gin-gonic/gin"
)

type WidgetHandler struct {
	widgetSvc service.WidgetService
}

func NewWidgetHandler(widgetSvc service.WidgetService) *WidgetHandler {
	return &WidgetHandler{widgetSvc: widgetSvc}
}

// Mount 挂载悬浮球；已有活跃实例时 mounted 为 false
func (s *WidgetHandler) Mount(c *gin.Context) {
	mounted := s.widgetSvc.Mount()
	response.Success(c, gin.H{"mounted": mounted})
}

func (s *WidgetHandler) Unmount(c *gin.Context) {
	s.widgetSvc.Unmount()
	response.Success(c, nil)
}

func (s *WidgetHandler) State(c *gin.Context) {
	response.Success(c, s.widgetSvc.State())
}

// Pointer 指针事件入口
func (s *WidgetHandler) Pointer(c *gin.Context) {
	var req dto.PointerReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.widgetSvc.Pointer(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Resize 视口尺寸变化
func (s *WidgetHandler) Resize(c *gin.Context) {
	var req dto.ResizeReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s.widgetSvc.Resize(req.Width, req.Height))
}

// Trigger 触发扇形按钮
func (s *WidgetHandler) Trigger(c *gin.Context) {
	var req dto.TriggerReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.widgetSvc.Trigger(c.Request.Context(), req.Label); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
