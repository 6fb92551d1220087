package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Snidon06/Playbase/internal/errors"
	"github.com/Snidon06/Playbase/internal/response"
	authservice "github.com/Snidon06/Playbase/internal/service/auth"
)

// AuthHandler 账户处理器
// @Description 用户注册与登录相关的HTTP处理器
type AuthHandler struct {
	authService authservice.AuthService
}

// NewAuthHandler 创建账户处理器实例
func NewAuthHandler(authService authservice.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// credentialsRequest 注册和登录共用的请求体
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup 用户注册
// @Summary 用户注册
// @Description 使用用户名和密码注册新账户
// @Tags 账户
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "注册信息"
// @Success 200 {object} map[string]interface{} "注册成功"
// @Failure 400 {object} response.Response "字段缺失或用户名已存在"
// @Failure 500 {object} response.Response "服务器内部错误"
// @Router /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.ErrMissingCredentialsError)
		return
	}

	if err := h.authService.Register(req.Username, req.Password); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "注册成功",
	})
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验用户名和密码；登录是无状态的，不产生会话
// @Tags 账户
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "登录信息"
// @Success 200 {object} map[string]interface{} "登录成功"
// @Failure 400 {object} response.Response "字段缺失"
// @Failure 401 {object} response.Response "用户名或密码错误"
// @Failure 500 {object} response.Response "服务器内部错误"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.ErrMissingCredentialsError)
		return
	}

	if err := h.authService.Authenticate(req.Username, req.Password); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
	})
}
