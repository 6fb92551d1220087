// @title Playbase API
// @version 1.0
// @description 视频分享平台后端

// @host localhost:8080
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/net/http2"

	"github.com/Snidon06/Playbase/config"
	"github.com/Snidon06/Playbase/internal/database"
	"github.com/Snidon06/Playbase/internal/handler"
	"github.com/Snidon06/Playbase/internal/logger"
	"github.com/Snidon06/Playbase/internal/router"
	authservice "github.com/Snidon06/Playbase/internal/service/auth"
	mirrorservice "github.com/Snidon06/Playbase/internal/service/mirror"
	videoservice "github.com/Snidon06/Playbase/internal/service/video"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Errorf("Failed to initialize database: %v", err)
		os.Exit(1)
	}

	// 初始化服务
	catalog := videoservice.NewCatalog()
	videoSvc := videoservice.NewVideoService(db, cfg.Upload, catalog)
	authSvc := authservice.NewAuthService(db)
	mirrorConfigSvc := mirrorservice.NewConfigService(db)
	mirrorSyncSvc := mirrorservice.NewSyncService(db, mirrorConfigSvc, cfg.Upload)

	// 上传成功后由镜像服务异步复制到云端
	videoSvc.SetMirrorSyncService(mirrorSyncSvc)

	// 初始化路由
	engine := router.Setup(cfg, &router.Handlers{
		Auth:   handler.NewAuthHandler(authSvc),
		Video:  handler.NewVideoHandler(videoSvc),
		Mirror: handler.NewMirrorHandler(mirrorConfigSvc, mirrorSyncSvc),
	})

	// 创建HTTP服务器
	httpSrv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infof("HTTP服务器启动在端口 %d", cfg.Server.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("HTTP服务器启动失败: %v", err)
			os.Exit(1)
		}
	}()

	// 按需启动HTTPS服务器
	var httpsSrv *http.Server
	if cfg.Server.EnableHTTPS {
		httpsSrv = &http.Server{
			Addr:         ":" + strconv.Itoa(cfg.Server.HTTPSPort),
			Handler:      engine,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			TLSConfig: &tls.Config{
				NextProtos: []string{"h2", "http/1.1"},
			},
		}

		// 如果启用HTTP/2，配置HTTP/2支持
		if cfg.Server.EnableHTTP2 {
			if err := http2.ConfigureServer(httpsSrv, &http2.Server{}); err != nil {
				logger.Errorf("配置HTTP/2失败: %v", err)
				os.Exit(1)
			}
		}

		go func() {
			logger.Infof("HTTPS服务器启动在端口 %d (HTTP/2: %v)", cfg.Server.HTTPSPort, cfg.Server.EnableHTTP2)
			if err := httpsSrv.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile); err != nil && err != http.ErrServerClosed {
				logger.Errorf("HTTPS服务器启动失败: %v", err)
				os.Exit(1)
			}
		}()
	}

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务器...")

	// 优雅关闭服务器
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP服务器强制关闭: %v", err)
	}
	if httpsSrv != nil {
		if err := httpsSrv.Shutdown(ctx); err != nil {
			logger.Errorf("HTTPS服务器强制关闭: %v", err)
		}
	}

	logger.Info("服务器已退出")
}
