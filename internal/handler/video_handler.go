package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Snidon06/Playbase/internal/errors"
	"github.com/Snidon06/Playbase/internal/response"
	videoservice "github.com/Snidon06/Playbase/internal/service/video"
)

// VideoHandler 视频处理器
// @Description 视频上传与列表相关的HTTP处理器
type VideoHandler struct {
	videoService videoservice.VideoService
}

// NewVideoHandler 创建视频处理器实例
func NewVideoHandler(videoService videoservice.VideoService) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
	}
}

// ListVideos 获取视频列表
// @Summary 获取视频列表
// @Description 返回目录缓存中的全部视频记录，不分页、不排序
// @Tags 视频
// @Produce json
// @Success 200 {array} database.Video "视频列表"
// @Router /api/videos [get]
func (h *VideoHandler) ListVideos(c *gin.Context) {
	// 直接返回裸数组，与目录缓存内容保持一致
	c.JSON(http.StatusOK, h.videoService.List())
}

// UploadVideo 上传视频
// @Summary 上传视频
// @Description 接收multipart表单中的视频文件和元数据，落盘并写入目录
// @Tags 视频
// @Accept multipart/form-data
// @Produce json
// @Param videoFile formData file true "视频文件"
// @Param title formData string true "标题"
// @Param description formData string true "描述"
// @Param tags formData string true "标签"
// @Success 200 {object} map[string]interface{} "上传成功，返回视频访问路径"
// @Failure 400 {object} response.Response "必填字段缺失"
// @Failure 413 {object} response.Response "视频文件超过大小上限"
// @Failure 415 {object} response.Response "不支持的视频类型"
// @Failure 500 {object} response.Response "存储失败"
// @Router /upload-video [post]
func (h *VideoHandler) UploadVideo(c *gin.Context) {
	fileHeader, err := c.FormFile("videoFile")
	if err != nil {
		response.Error(c, errors.ErrMissingFieldsError)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, errors.Wrap(errors.ErrFileReadFailed,
			errors.GetErrorMessage(errors.ErrFileReadFailed), err))
		return
	}
	defer src.Close()

	video, err := h.videoService.Upload(videoservice.UploadInput{
		Reader:      src,
		Filename:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Tags:        c.PostForm("tags"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "视频上传成功",
		"videoPath": video.VideoPath,
	})
}
