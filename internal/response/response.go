package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Snidon06/Playbase/internal/errors"
)

// Response 统一返回值结构体
// @Description API统一响应格式
type Response struct {
	// 状态码，0表示成功，非0表示失败
	Code int `json:"code" example:"0"`
	// 响应消息
	Message string `json:"message" example:"success"`
	// 响应数据
	Data interface{} `json:"data,omitempty"`
	// 请求ID，用于链路追踪
	RequestID string `json:"request_id,omitempty" example:"req_123456789"`
	// 时间戳
	Timestamp int64 `json:"timestamp" example:"1640995200"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:      0,
		Message:   "success",
		Data:      data,
		RequestID: getRequestID(c),
		Timestamp: time.Now().Unix(),
	})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:      0,
		Message:   message,
		Data:      data,
		RequestID: getRequestID(c),
		Timestamp: time.Now().Unix(),
	})
}

// Error 错误响应
// 根据AppError的错误码映射HTTP状态码；未归类的错误按500处理，
// 并将原始错误信息原样返回给客户端（诊断便利性优先，已知的信息披露风险）
func Error(c *gin.Context, err error) {
	if appErr, ok := errors.GetAppError(err); ok {
		c.JSON(appErr.HTTPStatus(), Response{
			Code:      int(appErr.Code),
			Message:   appErr.Message,
			RequestID: getRequestID(c),
			Timestamp: time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, Response{
		Code:      int(errors.ErrInternalServer),
		Message:   err.Error(),
		RequestID: getRequestID(c),
		Timestamp: time.Now().Unix(),
	})
}

// BadRequest 400错误响应
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:      int(errors.ErrInvalidParams),
		Message:   message,
		RequestID: getRequestID(c),
		Timestamp: time.Now().Unix(),
	})
}

// InternalServerError 500错误响应
func InternalServerError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Response{
		Code:      int(errors.ErrInternalServer),
		Message:   message,
		RequestID: getRequestID(c),
		Timestamp: time.Now().Unix(),
	})
}

// getRequestID 获取请求ID
// 从gin上下文中获取请求ID，用于链路追踪
func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}
