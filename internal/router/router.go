// Package router 负责注册HTTP路由和全局中间件
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Snidon06/Playbase/config"
	"github.com/Snidon06/Playbase/internal/handler"
	"github.com/Snidon06/Playbase/internal/middleware"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Auth   *handler.AuthHandler
	Video  *handler.VideoHandler
	Mirror *handler.MirrorHandler
}

// Setup 创建gin引擎并注册全部路由
// 参数:
//   - cfg: 应用配置，用于静态文件路径
//   - h: 处理器集合
func Setup(cfg *config.Config, h *Handlers) *gin.Engine {
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.NewLoggerMiddleware().RequestLogger())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 账户
	engine.POST("/signup", h.Auth.Signup)
	engine.POST("/login", h.Auth.Login)

	// 视频
	engine.GET("/api/videos", h.Video.ListVideos)
	engine.POST("/upload-video", h.Video.UploadVideo)

	// 已上传视频的静态访问
	engine.Static(cfg.Upload.PublicPrefix, cfg.Upload.StoragePath)

	// 镜像管理
	mirror := engine.Group("/api/mirror")
	{
		mirror.POST("/configs", h.Mirror.CreateConfig)
		mirror.GET("/configs", h.Mirror.ListConfigs)
		mirror.GET("/configs/:id", h.Mirror.GetConfig)
		mirror.DELETE("/configs/:id", h.Mirror.DeleteConfig)
		mirror.POST("/configs/:id/activate", h.Mirror.ActivateConfig)
		mirror.POST("/configs/:id/test", h.Mirror.TestConfig)
		mirror.POST("/videos/:id/sync", h.Mirror.SyncVideo)
		mirror.GET("/videos/:id/status", h.Mirror.GetVideoStatus)
		mirror.GET("/logs", h.Mirror.GetLogs)
	}

	return engine
}
