package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tcms/internal/api/middleware"
	"tcms/internal/rpc"
	"tcms/pkg/constants"
)

// RPCHandler JSON-RPC 入口
type RPCHandler struct {
	server       *rpc.Server
	maxBodyBytes int64
}

func NewRPCHandler(server *rpc.Server, maxBodyBytes int64) *RPCHandler {
	return &RPCHandler{
		server:       server,
		maxBodyBytes: maxBodyBytes,
	}
}

// Handle JSON-RPC 调用入口
// 未登录或角色无权限时返回 HTTP 403, 不产生 fault
// @Summary JSON-RPC 2.0 调用
// @Description 按 method 分发到 Build.* / TestCasePlan.* / Auth.* / system.listMethods, params 为位置参数数组
// @Description 业务错误以 fault 返回 (HTTP 200), 不支持批量请求
// @Tags RPC
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body rpc.Request true "JSON-RPC 请求"
// @Success 200 {object} rpc.Response "result 或 error"
// @Failure 403 {object} ErrorBody "未登录或无权限"
// @Failure 413 {object} rpc.Response "请求体过大"
// @Router /json-rpc/ [post]
func (h *RPCHandler) Handle(c *gin.Context) {
	body := c.Request.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge,
				rpc.ErrorResponse(nil, constants.FaultInvalidRequest, "Invalid request: body too large"))
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, rpc.ErrorResponse(nil, constants.FaultParseError, "Parse error"))
		return
	}

	req, errResp := h.server.Decode(data)
	if errResp != nil {
		c.JSON(http.StatusOK, errResp)
		return
	}
	c.Set(middleware.RPCMethodKey, req.Method)

	session := middleware.GetSession(c)
	if !h.server.Authorize(req.Method, session) {
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorBody{Error: http.StatusText(http.StatusForbidden)})
		return
	}

	ctx := rpc.WithSession(c.Request.Context(), session)
	c.JSON(http.StatusOK, h.server.Call(ctx, req))
}

// ErrorBody 传输层错误 (403)
type ErrorBody struct {
	Error string `json:"error" example:"Forbidden"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Health 健康检查
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
