// Package service 本文件实现了阿里云OSS镜像提供商
package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/Snidon06/Playbase/internal/database"
	"github.com/Snidon06/Playbase/internal/logger"
)

// AliyunProvider 阿里云OSS镜像提供商实现
// 实现了Provider接口，提供阿里云对象存储的上传、下载、删除和列表查询
type AliyunProvider struct {
	client *oss.Client            // 阿里云OSS客户端实例
	bucket *oss.Bucket            // OSS存储桶实例
	config *database.MirrorConfig // 镜像配置信息
}

// NewAliyunProvider 创建阿里云OSS镜像提供商实例
// 根据配置信息初始化客户端和存储桶连接
func NewAliyunProvider(cfg *database.MirrorConfig) (*AliyunProvider, error) {
	logger.Infof("[阿里云OSS] 初始化镜像提供商, 配置: %s, 区域: %s, 存储桶: %s",
		cfg.Name, cfg.Region, cfg.Bucket)

	// 构建endpoint
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://oss-%s.aliyuncs.com", cfg.Region)
	}

	client, err := oss.New(endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		logger.Errorf("[阿里云OSS] 创建客户端失败: %v", err)
		return nil, fmt.Errorf("failed to create aliyun oss client: %w", err)
	}

	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		logger.Errorf("[阿里云OSS] 连接存储桶失败, 存储桶: %s, 错误: %v", cfg.Bucket, err)
		return nil, fmt.Errorf("failed to get bucket %s: %w", cfg.Bucket, err)
	}

	return &AliyunProvider{
		client: client,
		bucket: bucket,
		config: cfg,
	}, nil
}

// UploadFile 上传文件到阿里云OSS
func (p *AliyunProvider) UploadFile(objectKey string, reader io.Reader, contentType string) error {
	logger.Infof("[阿里云OSS] 开始上传对象: %s, 内容类型: %s", objectKey, contentType)

	options := []oss.Option{}
	if contentType != "" {
		options = append(options, oss.ContentType(contentType))
	}

	if err := p.bucket.PutObject(objectKey, reader, options...); err != nil {
		logger.Errorf("[阿里云OSS] 上传对象失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload file to aliyun oss: %w", err)
	}

	logger.Infof("[阿里云OSS] 成功上传对象: %s", objectKey)
	return nil
}

// DownloadFile 从阿里云OSS下载文件
// 返回的数据流使用完毕后需要调用者关闭
func (p *AliyunProvider) DownloadFile(objectKey string) (io.ReadCloser, error) {
	body, err := p.bucket.GetObject(objectKey)
	if err != nil {
		logger.Errorf("[阿里云OSS] 下载对象失败, 对象键: %s, 错误: %v", objectKey, err)
		return nil, fmt.Errorf("failed to download file from aliyun oss: %w", err)
	}
	return body, nil
}

// DeleteFile 删除阿里云OSS对象
func (p *AliyunProvider) DeleteFile(objectKey string) error {
	if err := p.bucket.DeleteObject(objectKey); err != nil {
		logger.Errorf("[阿里云OSS] 删除对象失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to delete file from aliyun oss: %w", err)
	}
	return nil
}

// FileExists 检查对象是否存在
func (p *AliyunProvider) FileExists(objectKey string) (bool, error) {
	exists, err := p.bucket.IsObjectExist(objectKey)
	if err != nil {
		return false, fmt.Errorf("failed to check file existence in aliyun oss: %w", err)
	}
	return exists, nil
}

// GetFileInfo 获取对象元数据信息
func (p *AliyunProvider) GetFileInfo(objectKey string) (*ObjectInfo, error) {
	meta, err := p.bucket.GetObjectMeta(objectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info from aliyun oss: %w", err)
	}

	var size int64
	if sizeStr := meta.Get("Content-Length"); sizeStr != "" {
		fmt.Sscanf(sizeStr, "%d", &size)
	}

	return &ObjectInfo{
		Key:          objectKey,
		Size:         size,
		LastModified: meta.Get("Last-Modified"),
		ETag:         strings.Trim(meta.Get("Etag"), "\""),
		ContentType:  meta.Get("Content-Type"),
	}, nil
}

// ListFiles 按前缀列出对象
func (p *AliyunProvider) ListFiles(prefix string, maxKeys int) ([]ObjectInfo, error) {
	options := []oss.Option{
		oss.Prefix(prefix),
		oss.MaxKeys(maxKeys),
	}

	lsRes, err := p.bucket.ListObjects(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to list files from aliyun oss: %w", err)
	}

	var files []ObjectInfo
	for _, object := range lsRes.Objects {
		files = append(files, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified.Format(time.RFC3339),
			ETag:         strings.Trim(object.ETag, "\""),
			ContentType:  object.Type,
		})
	}

	return files, nil
}

// TestConnection 测试连接
// 通过获取存储桶信息来验证连接是否正常
func (p *AliyunProvider) TestConnection() error {
	if _, err := p.client.GetBucketInfo(p.config.Bucket); err != nil {
		logger.Errorf("[阿里云OSS] 连接测试失败, 存储桶: %s, 错误: %v", p.config.Bucket, err)
		return fmt.Errorf("failed to test aliyun oss connection: %w", err)
	}
	logger.Infof("[阿里云OSS] 连接测试成功, 存储桶: %s", p.config.Bucket)
	return nil
}
