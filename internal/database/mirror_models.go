// Package database 定义了云端镜像相关的数据库模型
// 包含镜像配置和镜像日志等数据模型
package database

import (
	"time"

	"gorm.io/gorm"
)

// MirrorConfig 云端镜像配置模型
// 管理不同云服务商的对象存储配置，上传成功的视频可以异步复制到激活的镜像
// 支持阿里云OSS、腾讯云COS、七牛云Kodo
type MirrorConfig struct {
	ID        uint           `gorm:"primarykey" json:"id"`                          // 主键ID，自增
	Name      string         `gorm:"not null;size:100" json:"name"`                 // 配置名称
	Provider  string         `gorm:"not null;size:20" json:"provider"`              // 服务提供商：aliyun、tencent、qiniu
	Region    string         `gorm:"not null;size:50" json:"region"`                // 服务区域，如：cn-hangzhou、ap-beijing
	Bucket    string         `gorm:"not null;size:100" json:"bucket"`               // 存储桶名称
	AccessKey string         `gorm:"not null;size:100" json:"access_key"`           // 访问密钥ID
	SecretKey string         `gorm:"not null;size:200" json:"secret_key,omitempty"` // 访问密钥Secret，敏感信息，API响应时不返回
	Endpoint  string         `gorm:"size:200" json:"endpoint"`                      // 自定义服务端点URL，可选
	IsActive  bool           `gorm:"default:false" json:"is_active"`                // 是否为当前激活配置，系统中最多一个
	IsEnabled bool           `gorm:"default:true" json:"is_enabled"`                // 配置是否启用
	SyncPath  string         `gorm:"size:200;default:'videos'" json:"sync_path"`    // 镜像中的对象路径前缀
	CreatedAt time.Time      `json:"created_at"`                                    // 配置创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                    // 配置最后修改时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间戳
}

// TableName 指定MirrorConfig模型对应的数据库表名
func (MirrorConfig) TableName() string {
	return "mirror_configs"
}

// MirrorLog 视频镜像日志模型
// 记录视频向云端镜像复制的操作历史，用于追踪状态和错误排查
type MirrorLog struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                     // 主键ID，自增
	VideoID        uint           `gorm:"not null" json:"video_id"`                                 // 关联的视频ID
	MirrorConfigID uint           `gorm:"not null" json:"mirror_config_id"`                         // 关联的镜像配置ID
	MirrorConfig   MirrorConfig   `gorm:"foreignKey:MirrorConfigID" json:"mirror_config,omitempty"` // 关联的镜像配置对象
	Status         string         `gorm:"not null;size:20" json:"status"`                           // 状态：pending、success、failed
	ObjectKey      string         `gorm:"size:500" json:"object_key"`                               // 视频在镜像中的对象键
	ErrorMsg       string         `gorm:"type:text" json:"error_msg"`                               // 失败时的详细错误信息
	FileSize       int64          `json:"file_size"`                                                // 复制文件的大小，单位为字节
	Duration       int64          `json:"duration"`                                                 // 操作耗时，单位为毫秒
	CreatedAt      time.Time      `json:"created_at"`                                               // 日志创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                               // 日志最后更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间戳
}

// TableName 指定MirrorLog模型对应的数据库表名
func (MirrorLog) TableName() string {
	return "mirror_logs"
}
