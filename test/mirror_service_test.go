// Package test 提供镜像配置服务的单元测试
// 覆盖配置校验、激活状态管理和数据库错误路径
package test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Snidon06/Playbase/internal/database"
	"github.com/Snidon06/Playbase/internal/errors"
	mirrorservice "github.com/Snidon06/Playbase/internal/service/mirror"
)

// mirrorConfigFixture 构造一个字段齐全的镜像配置
func mirrorConfigFixture(name string) *database.MirrorConfig {
	return &database.MirrorConfig{
		Name:      name,
		Provider:  "aliyun",
		Region:    "oss-cn-hangzhou",
		Bucket:    "playbase-videos",
		AccessKey: "ak",
		SecretKey: "sk",
		IsEnabled: true,
	}
}

// TestMirrorConfigService 测试镜像配置管理
func TestMirrorConfigService(t *testing.T) {
	db := setupTestDB(t)
	configService := mirrorservice.NewConfigService(db)

	t.Run("第一个配置自动激活", func(t *testing.T) {
		cfg := mirrorConfigFixture("primary")
		require.NoError(t, configService.CreateConfig(cfg))
		assert.True(t, cfg.IsActive)
	})

	t.Run("后续配置不自动激活", func(t *testing.T) {
		cfg := mirrorConfigFixture("secondary")
		require.NoError(t, configService.CreateConfig(cfg))
		assert.False(t, cfg.IsActive)
	})

	t.Run("重复名称被拒绝", func(t *testing.T) {
		err := configService.CreateConfig(mirrorConfigFixture("primary"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMirrorConfigInvalid))
	})

	t.Run("激活切换保持最多一个激活配置", func(t *testing.T) {
		require.NoError(t, configService.ActivateConfig(2))

		var active int64
		require.NoError(t, db.Model(&database.MirrorConfig{}).
			Where("is_active = ?", true).Count(&active).Error)
		assert.Equal(t, int64(1), active)

		cfg, err := configService.GetActiveConfig()
		require.NoError(t, err)
		assert.Equal(t, "secondary", cfg.Name)
	})

	t.Run("没有激活配置时返回哨兵错误", func(t *testing.T) {
		require.NoError(t, db.Model(&database.MirrorConfig{}).
			Where("is_active = ?", true).Update("is_active", false).Error)

		_, err := configService.GetActiveConfig()
		assert.ErrorIs(t, err, mirrorservice.ErrNoActiveConfig)
	})
}

// TestMirrorConfigServiceDatabaseFailure 测试数据库故障时的错误传播
// 统计查询失败必须返回错误，不能把失败静默当作零条记录
func TestMirrorConfigServiceDatabaseFailure(t *testing.T) {
	db := setupTestDB(t)
	configService := mirrorservice.NewConfigService(db)

	require.NoError(t, db.Migrator().DropTable(&database.MirrorConfig{}))

	err := configService.CreateConfig(mirrorConfigFixture("primary"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDatabaseQuery))
}
