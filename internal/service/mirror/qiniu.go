// Package service 本文件实现了七牛云Kodo镜像提供商
package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/storage"

	"github.com/Snidon06/Playbase/internal/database"
)

// QiniuProvider 七牛云Kodo镜像提供商实现
type QiniuProvider struct {
	mac          *qbox.Mac
	bucketName   string
	bucketDomain string
	region       *storage.Region
	config       *database.MirrorConfig
}

// NewQiniuProvider 创建七牛云Kodo镜像提供商实例
func NewQiniuProvider(cfg *database.MirrorConfig) (*QiniuProvider, error) {
	mac := qbox.NewMac(cfg.AccessKey, cfg.SecretKey)

	// 获取区域信息
	region, err := storage.GetRegion(cfg.AccessKey, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get qiniu region: %w", err)
	}

	// 构建域名
	bucketDomain := cfg.Endpoint
	if bucketDomain == "" {
		bucketDomain = fmt.Sprintf("%s.%s", cfg.Bucket, region.RsHost)
	}

	return &QiniuProvider{
		mac:          mac,
		bucketName:   cfg.Bucket,
		bucketDomain: bucketDomain,
		region:       region,
		config:       cfg,
	}, nil
}

// UploadFile 上传文件到七牛云Kodo
func (p *QiniuProvider) UploadFile(objectKey string, reader io.Reader, contentType string) error {
	putPolicy := storage.PutPolicy{
		Scope: fmt.Sprintf("%s:%s", p.bucketName, objectKey),
	}
	upToken := putPolicy.UploadToken(p.mac)

	cfg := storage.Config{
		Region:        p.region,
		UseHTTPS:      true,
		UseCdnDomains: false,
	}

	formUploader := storage.NewFormUploader(&cfg)
	ret := storage.PutRet{}

	putExtra := storage.PutExtra{}
	if contentType != "" {
		putExtra.MimeType = contentType
	}

	err := formUploader.Put(context.Background(), &ret, upToken, objectKey, reader, -1, &putExtra)
	if err != nil {
		return fmt.Errorf("failed to upload file to qiniu kodo: %w", err)
	}

	return nil
}

// DownloadFile 从七牛云Kodo下载文件
// 通过限时私有链接下载
func (p *QiniuProvider) DownloadFile(objectKey string) (io.ReadCloser, error) {
	deadline := time.Now().Add(time.Hour).Unix()
	privateURL := storage.MakePrivateURL(p.mac, p.bucketDomain, objectKey, deadline)

	resp, err := http.Get(privateURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download file from qiniu kodo: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download file, status: %s", resp.Status)
	}

	return resp.Body, nil
}

// DeleteFile 删除七牛云Kodo对象
func (p *QiniuProvider) DeleteFile(objectKey string) error {
	bucketManager := storage.NewBucketManager(p.mac, &storage.Config{
		Region: p.region,
	})

	if err := bucketManager.Delete(p.bucketName, objectKey); err != nil {
		return fmt.Errorf("failed to delete file from qiniu kodo: %w", err)
	}

	return nil
}

// FileExists 检查对象是否存在
func (p *QiniuProvider) FileExists(objectKey string) (bool, error) {
	bucketManager := storage.NewBucketManager(p.mac, &storage.Config{
		Region: p.region,
	})

	_, err := bucketManager.Stat(p.bucketName, objectKey)
	if err != nil {
		if strings.Contains(err.Error(), "no such file or directory") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence in qiniu kodo: %w", err)
	}

	return true, nil
}

// GetFileInfo 获取对象信息
func (p *QiniuProvider) GetFileInfo(objectKey string) (*ObjectInfo, error) {
	bucketManager := storage.NewBucketManager(p.mac, &storage.Config{
		Region: p.region,
	})

	fileInfo, err := bucketManager.Stat(p.bucketName, objectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info from qiniu kodo: %w", err)
	}

	return &ObjectInfo{
		Key:          objectKey,
		Size:         fileInfo.Fsize,
		LastModified: time.Unix(fileInfo.PutTime/10000000, 0).Format(time.RFC3339),
		ETag:         fileInfo.Hash,
		ContentType:  fileInfo.MimeType,
	}, nil
}

// ListFiles 按前缀列出对象
func (p *QiniuProvider) ListFiles(prefix string, maxKeys int) ([]ObjectInfo, error) {
	bucketManager := storage.NewBucketManager(p.mac, &storage.Config{
		Region: p.region,
	})

	entries, _, _, _, err := bucketManager.ListFiles(p.bucketName, prefix, "", "", maxKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to list files from qiniu kodo: %w", err)
	}

	var files []ObjectInfo
	for _, entry := range entries {
		files = append(files, ObjectInfo{
			Key:          entry.Key,
			Size:         entry.Fsize,
			LastModified: time.Unix(entry.PutTime/10000000, 0).Format(time.RFC3339),
			ETag:         entry.Hash,
			ContentType:  entry.MimeType,
		})
	}

	return files, nil
}

// TestConnection 测试连接
// 尝试列出存储桶中的一个对象来验证凭证和连通性
func (p *QiniuProvider) TestConnection() error {
	bucketManager := storage.NewBucketManager(p.mac, &storage.Config{
		Region: p.region,
	})

	_, _, _, _, err := bucketManager.ListFiles(p.bucketName, "", "", "", 1)
	if err != nil {
		return fmt.Errorf("failed to test qiniu kodo connection: %w", err)
	}

	return nil
}
