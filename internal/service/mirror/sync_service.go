// Package service 本文件实现了视频镜像同步服务
// 上传成功的视频由后台协程复制到激活的云端镜像，并记录镜像日志
package service

import (
	stderrors "errors"
	"os"
	"path"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/Snidon06/Playbase/config"
	"github.com/Snidon06/Playbase/internal/database"
	"github.com/Snidon06/Playbase/internal/errors"
	"github.com/Snidon06/Playbase/internal/logger"
)

// 镜像日志状态
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// SyncService 镜像同步服务接口
type SyncService interface {
	// MirrorVideo 异步将视频复制到激活的镜像
	// 没有激活配置时静默跳过；复制结果写入镜像日志，绝不影响上传主流程
	MirrorVideo(video *database.Video)

	// SyncVideo 同步复制指定视频到激活的镜像
	// 供管理接口手动触发，阻塞直到复制完成
	SyncVideo(videoID uint) error

	// GetLogs 分页查询镜像日志，按创建时间倒序
	GetLogs(page, pageSize int) ([]database.MirrorLog, int64, error)

	// GetVideoStatus 获取指定视频最近一次的镜像日志
	GetVideoStatus(videoID uint) (*database.MirrorLog, error)
}

// syncService 镜像同步服务实现
type syncService struct {
	db            *gorm.DB            // 数据库连接
	configService ConfigService       // 镜像配置服务
	uploadConfig  config.UploadConfig // 上传配置，用于定位本地视频文件
	factory       *ProviderFactory    // 提供商工厂
}

// NewSyncService 创建镜像同步服务实例
func NewSyncService(db *gorm.DB, configService ConfigService, uploadConfig config.UploadConfig) SyncService {
	return &syncService{
		db:            db,
		configService: configService,
		uploadConfig:  uploadConfig,
		factory:       &ProviderFactory{},
	}
}

// MirrorVideo 异步将视频复制到激活的镜像
func (s *syncService) MirrorVideo(video *database.Video) {
	go func() {
		if err := s.SyncVideo(video.ID); err != nil {
			if stderrors.Is(err, ErrNoActiveConfig) {
				logger.Debugf("没有激活的镜像配置, 跳过视频镜像 (ID: %d)", video.ID)
				return
			}
			logger.Errorf("视频镜像复制失败 (ID: %d): %v", video.ID, err)
		}
	}()
}

// SyncVideo 同步复制指定视频到激活的镜像
func (s *syncService) SyncVideo(videoID uint) error {
	mirrorConfig, err := s.configService.GetActiveConfig()
	if err != nil {
		return err
	}

	var video database.Video
	if err := s.db.First(&video, videoID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New(errors.ErrRecordNotFound,
				errors.GetErrorMessage(errors.ErrRecordNotFound))
		}
		return errors.Wrap(errors.ErrDatabaseQuery, errors.GetErrorMessage(errors.ErrDatabaseQuery), err)
	}

	objectKey := s.objectKeyFor(&video, mirrorConfig)

	// 先落一条pending日志，复制结束后更新状态
	syncLog := &database.MirrorLog{
		VideoID:        video.ID,
		MirrorConfigID: mirrorConfig.ID,
		Status:         StatusPending,
		ObjectKey:      objectKey,
		FileSize:       video.FileSize,
	}
	if err := s.db.Create(syncLog).Error; err != nil {
		return errors.Wrap(errors.ErrDatabaseInsert, errors.GetErrorMessage(errors.ErrDatabaseInsert), err)
	}

	logger.Infof("开始镜像视频 (ID: %d) 到 %s, 对象键: %s", video.ID, mirrorConfig.Provider, objectKey)
	start := time.Now()

	err = s.performUpload(mirrorConfig, &video, objectKey)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		s.db.Model(syncLog).Updates(map[string]interface{}{
			"status":    StatusFailed,
			"error_msg": err.Error(),
			"duration":  duration,
		})
		logger.Errorf("视频镜像失败 (ID: %d): %v", video.ID, err)
		return errors.Wrap(errors.ErrMirrorUploadFailed,
			errors.GetErrorMessage(errors.ErrMirrorUploadFailed), err)
	}

	s.db.Model(syncLog).Updates(map[string]interface{}{
		"status":   StatusSuccess,
		"duration": duration,
	})
	logger.Infof("视频镜像成功 (ID: %d), 耗时 %d ms", video.ID, duration)
	return nil
}

// GetLogs 分页查询镜像日志
func (s *syncService) GetLogs(page, pageSize int) ([]database.MirrorLog, int64, error) {
	var logs []database.MirrorLog
	var total int64

	if err := s.db.Model(&database.MirrorLog{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabaseQuery, errors.GetErrorMessage(errors.ErrDatabaseQuery), err)
	}

	offset := (page - 1) * pageSize
	if err := s.db.Preload("MirrorConfig").Offset(offset).Limit(pageSize).
		Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabaseQuery, errors.GetErrorMessage(errors.ErrDatabaseQuery), err)
	}

	return logs, total, nil
}

// GetVideoStatus 获取指定视频最近一次的镜像日志
func (s *syncService) GetVideoStatus(videoID uint) (*database.MirrorLog, error) {
	var syncLog database.MirrorLog
	if err := s.db.Where("video_id = ?", videoID).
		Order("created_at DESC").First(&syncLog).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.ErrRecordNotFound,
				errors.GetErrorMessage(errors.ErrRecordNotFound))
		}
		return nil, errors.Wrap(errors.ErrDatabaseQuery, errors.GetErrorMessage(errors.ErrDatabaseQuery), err)
	}
	return &syncLog, nil
}

// performUpload 打开本地视频文件并上传到镜像
func (s *syncService) performUpload(mirrorConfig *database.MirrorConfig, video *database.Video, objectKey string) error {
	provider, err := s.factory.CreateProvider(mirrorConfig)
	if err != nil {
		return err
	}

	localPath := filepath.Join(s.uploadConfig.StoragePath, filepath.Base(video.VideoPath))
	file, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return provider.UploadFile(objectKey, file, video.MimeType)
}

// objectKeyFor 计算视频在镜像中的对象键
// 形如 <sync_path>/<存储文件名>
func (s *syncService) objectKeyFor(video *database.Video, mirrorConfig *database.MirrorConfig) string {
	prefix := mirrorConfig.SyncPath
	if prefix == "" {
		prefix = "videos"
	}
	return path.Join(prefix, filepath.Base(video.VideoPath))
}
