package handler

import (
	stderrors "errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Snidon06/Playbase/internal/database"
	"github.com/Snidon06/Playbase/internal/errors"
	"github.com/Snidon06/Playbase/internal/response"
	mirrorservice "github.com/Snidon06/Playbase/internal/service/mirror"
)

// MirrorHandler 镜像处理器
// @Description 云端镜像配置与同步相关的HTTP处理器
type MirrorHandler struct {
	configService mirrorservice.ConfigService
	syncService   mirrorservice.SyncService
}

// NewMirrorHandler 创建镜像处理器实例
func NewMirrorHandler(configService mirrorservice.ConfigService, syncService mirrorservice.SyncService) *MirrorHandler {
	return &MirrorHandler{
		configService: configService,
		syncService:   syncService,
	}
}

// CreateConfig 创建镜像配置
// @Summary 创建镜像配置
// @Description 创建云存储镜像配置，第一个配置会自动激活
// @Tags 镜像
// @Accept json
// @Produce json
// @Param body body database.MirrorConfig true "镜像配置"
// @Success 200 {object} response.Response "创建成功"
// @Failure 400 {object} response.Response "配置参数无效"
// @Router /api/mirror/configs [post]
func (h *MirrorHandler) CreateConfig(c *gin.Context) {
	var cfg database.MirrorConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.BadRequest(c, "请求参数格式错误")
		return
	}

	if err := h.configService.CreateConfig(&cfg); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "镜像配置创建成功", cfg)
}

// ListConfigs 获取镜像配置列表
// @Summary 获取镜像配置列表
// @Tags 镜像
// @Produce json
// @Success 200 {object} response.Response "配置列表"
// @Router /api/mirror/configs [get]
func (h *MirrorHandler) ListConfigs(c *gin.Context) {
	configs, err := h.configService.ListConfigs()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, configs)
}

// GetConfig 获取镜像配置详情
// @Summary 获取镜像配置详情
// @Tags 镜像
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response "配置详情"
// @Failure 404 {object} response.Response "配置不存在"
// @Router /api/mirror/configs/{id} [get]
func (h *MirrorHandler) GetConfig(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的配置ID")
		return
	}

	cfg, err := h.configService.GetConfigByID(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cfg)
}

// DeleteConfig 删除镜像配置
// @Summary 删除镜像配置
// @Description 删除指定镜像配置，激活状态的配置不允许删除
// @Tags 镜像
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 400 {object} response.Response "配置处于激活状态"
// @Failure 404 {object} response.Response "配置不存在"
// @Router /api/mirror/configs/{id} [delete]
func (h *MirrorHandler) DeleteConfig(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的配置ID")
		return
	}

	if err := h.configService.DeleteConfig(id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "镜像配置已删除", nil)
}

// ActivateConfig 激活镜像配置
// @Summary 激活镜像配置
// @Description 激活指定配置，同时取消其他配置的激活状态
// @Tags 镜像
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response "激活成功"
// @Failure 404 {object} response.Response "配置不存在"
// @Router /api/mirror/configs/{id}/activate [post]
func (h *MirrorHandler) ActivateConfig(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的配置ID")
		return
	}

	if err := h.configService.ActivateConfig(id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "镜像配置已激活", nil)
}

// TestConfig 测试镜像配置连接
// @Summary 测试镜像配置连接
// @Tags 镜像
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response "连接正常"
// @Failure 500 {object} response.Response "连接测试失败"
// @Router /api/mirror/configs/{id}/test [post]
func (h *MirrorHandler) TestConfig(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的配置ID")
		return
	}

	if err := h.configService.TestConfig(id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "镜像连接测试成功", nil)
}

// SyncVideo 手动触发视频镜像
// @Summary 手动触发视频镜像
// @Description 同步复制指定视频到当前激活的镜像，阻塞直到复制完成
// @Tags 镜像
// @Produce json
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response "同步成功"
// @Failure 404 {object} response.Response "视频不存在或没有激活配置"
// @Router /api/mirror/videos/{id}/sync [post]
func (h *MirrorHandler) SyncVideo(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	if err := h.syncService.SyncVideo(id); err != nil {
		if stderrors.Is(err, mirrorservice.ErrNoActiveConfig) {
			response.Error(c, errors.ErrNoActiveMirrorError)
			return
		}
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "视频镜像同步成功", nil)
}

// GetVideoStatus 查询视频镜像状态
// @Summary 查询视频镜像状态
// @Description 返回指定视频最近一次的镜像日志
// @Tags 镜像
// @Produce json
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response "镜像日志"
// @Failure 404 {object} response.Response "视频没有镜像记录"
// @Router /api/mirror/videos/{id}/status [get]
func (h *MirrorHandler) GetVideoStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	status, err := h.syncService.GetVideoStatus(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, status)
}

// GetLogs 分页查询镜像日志
// @Summary 分页查询镜像日志
// @Tags 镜像
// @Produce json
// @Param page query int false "页码，默认1"
// @Param page_size query int false "每页数量，默认20"
// @Success 200 {object} response.Response "日志列表"
// @Router /api/mirror/logs [get]
func (h *MirrorHandler) GetLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	logs, total, err := h.syncService.GetLogs(page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"logs":      logs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// parseIDParam 解析路径中的ID参数
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, errors.New(errors.ErrInvalidParams, errors.GetErrorMessage(errors.ErrInvalidParams))
	}
	return uint(id), nil
}
