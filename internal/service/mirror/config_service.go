// Package service 本文件实现了镜像配置管理服务
// 负责镜像配置的增删查、激活状态管理和连接测试
package service

import (
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Snidon06/Playbase/internal/database"
	"github.com/Snidon06/Playbase/internal/errors"
	"github.com/Snidon06/Playbase/internal/logger"
)

// ConfigService 镜像配置服务接口
// 定义了镜像配置管理的所有操作，系统中同一时刻最多有一个激活配置
type ConfigService interface {
	// CreateConfig 创建镜像配置
	// 验证配置参数并保存到数据库，如果是第一个配置会自动激活
	CreateConfig(cfg *database.MirrorConfig) error

	// GetConfigByID 根据ID获取镜像配置
	GetConfigByID(id uint) (*database.MirrorConfig, error)

	// ListConfigs 获取所有镜像配置，按创建时间倒序排列
	ListConfigs() ([]database.MirrorConfig, error)

	// DeleteConfig 删除指定ID的镜像配置，不允许删除激活状态的配置
	DeleteConfig(id uint) error

	// ActivateConfig 激活指定配置并取消其他配置的激活状态
	ActivateConfig(id uint) error

	// TestConfig 使用指定配置创建提供商并测试连接
	TestConfig(id uint) error

	// GetActiveConfig 返回当前激活且启用的镜像配置
	GetActiveConfig() (*database.MirrorConfig, error)
}

// configService 镜像配置服务实现
type configService struct {
	db      *gorm.DB         // 数据库连接实例
	factory *ProviderFactory // 提供商工厂，用于创建不同的云存储客户端
}

// NewConfigService 创建镜像配置服务实例
func NewConfigService(db *gorm.DB) ConfigService {
	return &configService{
		db:      db,
		factory: &ProviderFactory{},
	}
}

// CreateConfig 创建镜像配置
func (s *configService) CreateConfig(cfg *database.MirrorConfig) error {
	logger.Infof("创建镜像配置: %s (提供商: %s, 区域: %s, 存储桶: %s)",
		cfg.Name, cfg.Provider, cfg.Region, cfg.Bucket)

	if err := s.validateConfig(cfg); err != nil {
		logger.Warnf("镜像配置校验失败 %s: %v", cfg.Name, err)
		return err
	}

	// 如果这是第一个配置，自动设为激活状态
	var count int64
	if err := s.db.Model(&database.MirrorConfig{}).Count(&count).Error; err != nil {
		logger.Errorf("统计镜像配置数量失败: %v", err)
		return errors.Wrap(errors.ErrDatabaseQuery, errors.GetErrorMessage(errors.ErrDatabaseQuery), err)
	}
	if count == 0 {
		cfg.IsActive = true
	}

	// 如果设置为激活状态，需要先取消其他配置的激活状态
	if cfg.IsActive {
		if err := s.deactivateAllConfigs(); err != nil {
			return fmt.Errorf("failed to deactivate other configs: %w", err)
		}
	}

	if err := s.db.Create(cfg).Error; err != nil {
		logger.Errorf("镜像配置入库失败 %s: %v", cfg.Name, err)
		return errors.Wrap(errors.ErrDatabaseInsert, errors.GetErrorMessage(errors.ErrDatabaseInsert), err)
	}

	logger.Infof("镜像配置创建成功: %s (ID: %d, 激活: %v)", cfg.Name, cfg.ID, cfg.IsActive)
	return nil
}

// GetConfigByID 根据ID获取镜像配置
func (s *configService) GetConfigByID(id uint) (*database.MirrorConfig, error) {
	var cfg database.MirrorConfig
	if err := s.db.First(&cfg, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.ErrMirrorConfigNotFound,
				errors.GetErrorMessage(errors.ErrMirrorConfigNotFound))
		}
		return nil, errors.Wrap(errors.ErrDatabaseQuery, errors.GetErrorMessage(errors.ErrDatabaseQuery), err)
	}
	return &cfg, nil
}

// ListConfigs 获取所有镜像配置
func (s *configService) ListConfigs() ([]database.MirrorConfig, error) {
	var configs []database.MirrorConfig
	if err := s.db.Order("created_at DESC").Find(&configs).Error; err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseQuery, errors.GetErrorMessage(errors.ErrDatabaseQuery), err)
	}
	return configs, nil
}

// DeleteConfig 删除镜像配置
func (s *configService) DeleteConfig(id uint) error {
	cfg, err := s.GetConfigByID(id)
	if err != nil {
		return err
	}

	if cfg.IsActive {
		return errors.New(errors.ErrMirrorConfigInvalid, "不能删除激活状态的镜像配置")
	}

	if err := s.db.Delete(&database.MirrorConfig{}, id).Error; err != nil {
		return errors.Wrap(errors.ErrDatabaseQuery, errors.GetErrorMessage(errors.ErrDatabaseQuery), err)
	}

	logger.Infof("镜像配置已删除: %s (ID: %d)", cfg.Name, id)
	return nil
}

// ActivateConfig 激活镜像配置
func (s *configService) ActivateConfig(id uint) error {
	cfg, err := s.GetConfigByID(id)
	if err != nil {
		return err
	}

	// 先取消所有配置的激活状态，保证最多一个激活配置
	if err := s.deactivateAllConfigs(); err != nil {
		return fmt.Errorf("failed to deactivate other configs: %w", err)
	}

	if err := s.db.Model(&database.MirrorConfig{}).Where("id = ?", id).
		Update("is_active", true).Error; err != nil {
		return fmt.Errorf("failed to activate mirror config: %w", err)
	}

	logger.Infof("镜像配置已激活: %s (ID: %d)", cfg.Name, id)
	return nil
}

// TestConfig 测试镜像配置连接
func (s *configService) TestConfig(id uint) error {
	cfg, err := s.GetConfigByID(id)
	if err != nil {
		return err
	}

	provider, err := s.factory.CreateProvider(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrMirrorProviderNotSupported,
			errors.GetErrorMessage(errors.ErrMirrorProviderNotSupported), err)
	}

	if err := provider.TestConnection(); err != nil {
		logger.Warnf("镜像连接测试失败 %s: %v", cfg.Name, err)
		return errors.Wrap(errors.ErrMirrorConnectionFailed,
			errors.GetErrorMessage(errors.ErrMirrorConnectionFailed), err)
	}

	logger.Infof("镜像连接测试成功: %s (ID: %d)", cfg.Name, id)
	return nil
}

// GetActiveConfig 获取当前激活的镜像配置
func (s *configService) GetActiveConfig() (*database.MirrorConfig, error) {
	var cfg database.MirrorConfig
	if err := s.db.Where("is_active = ? AND is_enabled = ?", true, true).First(&cfg).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveConfig
		}
		return nil, errors.Wrap(errors.ErrDatabaseQuery, errors.GetErrorMessage(errors.ErrDatabaseQuery), err)
	}
	return &cfg, nil
}

// validateConfig 验证镜像配置的必填字段和业务规则
func (s *configService) validateConfig(cfg *database.MirrorConfig) error {
	if cfg.Name == "" || cfg.Provider == "" || cfg.Region == "" ||
		cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return errors.New(errors.ErrMirrorConfigInvalid,
			errors.GetErrorMessage(errors.ErrMirrorConfigInvalid))
	}

	switch cfg.Provider {
	case "aliyun", "tencent", "qiniu":
	default:
		return errors.New(errors.ErrMirrorProviderNotSupported,
			errors.GetErrorMessage(errors.ErrMirrorProviderNotSupported))
	}

	// 检查配置名称是否重复
	var count int64
	query := s.db.Model(&database.MirrorConfig{}).Where("name = ?", cfg.Name)
	if cfg.ID > 0 {
		query = query.Where("id != ?", cfg.ID)
	}
	if err := query.Count(&count).Error; err != nil {
		return errors.Wrap(errors.ErrDatabaseQuery, errors.GetErrorMessage(errors.ErrDatabaseQuery), err)
	}
	if count > 0 {
		return errors.New(errors.ErrMirrorConfigInvalid, "镜像配置名称已存在")
	}

	return nil
}

// deactivateAllConfigs 取消所有配置的激活状态
func (s *configService) deactivateAllConfigs() error {
	return s.db.Model(&database.MirrorConfig{}).Where("is_active = ?", true).
		Update("is_active", false).Error
}
