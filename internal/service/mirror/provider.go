// Package service 提供视频云端镜像相关的业务逻辑实现
// 支持阿里云OSS、腾讯云COS、七牛云Kodo等多种对象存储服务
package service

import (
	"errors"
	"io"

	"github.com/Snidon06/Playbase/internal/database"
)

// 预定义的错误类型
var (
	// ErrUnsupportedProvider 不支持的镜像提供商错误
	ErrUnsupportedProvider = errors.New("unsupported mirror provider")
	// ErrNoActiveConfig 没有激活的镜像配置错误
	ErrNoActiveConfig = errors.New("no active mirror configuration found")
)

// Provider 镜像提供商接口
type Provider interface {
	// 上传文件到镜像
	UploadFile(objectKey string, reader io.Reader, contentType string) error

	// 从镜像下载文件
	DownloadFile(objectKey string) (io.ReadCloser, error)

	// 删除镜像文件
	DeleteFile(objectKey string) error

	// 检查文件是否存在
	FileExists(objectKey string) (bool, error)

	// 获取文件信息
	GetFileInfo(objectKey string) (*ObjectInfo, error)

	// 列出文件
	ListFiles(prefix string, maxKeys int) ([]ObjectInfo, error)

	// 测试连接
	TestConnection() error
}

// ObjectInfo 镜像对象信息
type ObjectInfo struct {
	Key          string `json:"key"`           // 对象键名
	Size         int64  `json:"size"`          // 对象大小
	LastModified string `json:"last_modified"` // 最后修改时间
	ETag         string `json:"etag"`          // ETag
	ContentType  string `json:"content_type"`  // 内容类型
}

// ProviderFactory 镜像提供商工厂
type ProviderFactory struct{}

// CreateProvider 根据配置创建镜像提供商实例
func (f *ProviderFactory) CreateProvider(cfg *database.MirrorConfig) (Provider, error) {
	switch cfg.Provider {
	case "aliyun":
		return NewAliyunProvider(cfg)
	case "tencent":
		return NewTencentProvider(cfg)
	case "qiniu":
		return NewQiniuProvider(cfg)
	default:
		return nil, ErrUnsupportedProvider
	}
}
