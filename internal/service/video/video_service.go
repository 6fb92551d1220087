// Package service 提供视频上传与目录相关的业务逻辑服务
// 包含上传校验、文件落盘、元数据入库和目录缓存维护等核心功能
package service

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Snidon06/Playbase/config"
	"github.com/Snidon06/Playbase/internal/database"
	"github.com/Snidon06/Playbase/internal/errors"
	"github.com/Snidon06/Playbase/internal/logger"
)

// stagingDirName 暂存目录名
// 上传内容先写入暂存目录，元数据入库成功后才改名进入公开的上传根目录
const stagingDirName = ".staging"

// UploadInput 一次视频上传的完整输入
type UploadInput struct {
	Reader      io.Reader // 文件数据流
	Filename    string    // 客户端声明的原始文件名，仅用于提取扩展名
	MimeType    string    // 客户端声明的MIME类型
	Size        int64     // 客户端声明的文件大小（字节）
	Title       string    // 视频标题
	Description string    // 视频描述
	Tags        string    // 标签，单个自由文本字符串
}

// MirrorSyncService 云端镜像同步服务接口
// 上传成功后用于将视频异步复制到激活的镜像，复制失败不影响上传结果
type MirrorSyncService interface {
	MirrorVideo(video *database.Video)
}

// VideoService 视频服务接口
// 负责上传流水线和目录缓存两部分职责
type VideoService interface {
	// Upload 接收并持久化一个上传的视频
	// 校验顺序: 必填字段 -> 类型门 -> 大小门；全部通过后文件先写入暂存路径，
	// 元数据入库成功后改名进入上传根目录，入库失败则删除暂存文件
	// 返回:
	//   *database.Video - 新建的视频记录（含VideoPath）
	//   error - 校验失败或存储失败的错误
	Upload(input UploadInput) (*database.Video, error)

	// List 返回目录缓存中的视频序列
	// 不分页、不过滤、不排序，顺序与缓存一致
	List() []database.Video

	// SetMirrorSyncService 设置云端镜像同步服务
	// 设置后每次上传成功会触发一次异步镜像复制
	SetMirrorSyncService(sync MirrorSyncService)
}

// videoService 视频服务实现
type videoService struct {
	db      *gorm.DB            // 数据库连接
	config  config.UploadConfig // 上传配置信息
	catalog *Catalog            // 目录缓存
	mirror  MirrorSyncService   // 镜像同步服务（可选）
}

// NewVideoService 创建视频服务实例
// 功能:
//   - 创建上传根目录和暂存目录（如果不存在）
//   - 从数据库整体加载目录缓存，失败时记录日志并以空缓存启动
func NewVideoService(db *gorm.DB, cfg config.UploadConfig, catalog *Catalog) VideoService {
	logger.Infof("初始化视频服务, 存储目录: %s", cfg.StoragePath)

	if err := os.MkdirAll(filepath.Join(cfg.StoragePath, stagingDirName), 0755); err != nil {
		logger.Errorf("创建存储目录失败 %s: %v", cfg.StoragePath, err)
		panic(fmt.Sprintf("failed to create storage directory: %v", err))
	}

	// 启动时整体加载目录缓存；加载失败不阻塞服务
	if err := catalog.Load(db); err != nil {
		logger.Errorf("启动加载目录缓存失败, 以空目录启动: %v", err)
	}

	logger.Infof("视频服务初始化完成, 大小上限: %d 字节, 允许扩展名: %v",
		cfg.MaxFileSize, cfg.AllowedExtensions)

	return &videoService{
		db:      db,
		config:  cfg,
		catalog: catalog,
	}
}

// Upload 接收并持久化一个上传的视频
func (s *videoService) Upload(input UploadInput) (*database.Video, error) {
	logger.Infof("开始处理视频上传: %s", input.Filename)

	// 必填字段门：先于任何落盘动作校验，拒绝的请求不会留下孤儿文件
	if input.Title == "" || input.Description == "" || input.Tags == "" ||
		input.Filename == "" || input.Reader == nil {
		logger.Warnf("上传缺少必填字段: %s", input.Filename)
		return nil, errors.ErrMissingFieldsError
	}

	// 类型门：扩展名和声明的MIME类型必须同时命中允许集合
	// 只防御简单改名，不做内容嗅探
	ext := strings.ToLower(filepath.Ext(input.Filename))
	if !s.isAllowedExtension(ext) || !s.isAllowedMimeType(input.MimeType) {
		logger.Warnf("不支持的视频类型, 文件: %s, 扩展名: %s, MIME: %s",
			input.Filename, ext, input.MimeType)
		return nil, errors.ErrUnsupportedMediaTypeError
	}

	// 大小门（声明值）：声明大小超限直接拒绝，不消费数据流
	if input.Size > s.config.MaxFileSize {
		logger.Warnf("声明大小超限, 文件: %s, 大小: %d, 上限: %d",
			input.Filename, input.Size, s.config.MaxFileSize)
		return nil, errors.ErrPayloadTooLargeError
	}

	// 写入暂存文件并在流式拷贝过程中计量字节数
	tempFile, err := os.CreateTemp(filepath.Join(s.config.StoragePath, stagingDirName), "upload_*")
	if err != nil {
		logger.Errorf("创建暂存文件失败: %v", err)
		return nil, errors.Wrap(errors.ErrFileWriteFailed,
			errors.GetErrorMessage(errors.ErrFileWriteFailed), err)
	}
	tempPath := tempFile.Name()

	// 大小门（实际值）：多读一个字节即可判断流是否超过上限，
	// 内存占用与文件大小无关
	written, err := io.Copy(tempFile, io.LimitReader(input.Reader, s.config.MaxFileSize+1))
	closeErr := tempFile.Close()
	if err != nil {
		os.Remove(tempPath)
		logger.Errorf("写入暂存文件失败, 文件: %s, 错误: %v", input.Filename, err)
		return nil, errors.Wrap(errors.ErrFileWriteFailed,
			errors.GetErrorMessage(errors.ErrFileWriteFailed), err)
	}
	if closeErr != nil {
		os.Remove(tempPath)
		logger.Errorf("关闭暂存文件失败, 文件: %s, 错误: %v", input.Filename, closeErr)
		return nil, errors.Wrap(errors.ErrFileWriteFailed,
			errors.GetErrorMessage(errors.ErrFileWriteFailed), closeErr)
	}
	if written > s.config.MaxFileSize {
		os.Remove(tempPath)
		logger.Warnf("实际大小超限, 文件: %s, 上限: %d", input.Filename, s.config.MaxFileSize)
		return nil, errors.ErrPayloadTooLargeError
	}
	if written == 0 {
		os.Remove(tempPath)
		logger.Warnf("上传内容为空: %s", input.Filename)
		return nil, errors.ErrMissingFieldsError
	}

	// 生成唯一存储名：上传时刻的纳秒时间戳 + 原始扩展名
	// 客户端文件名中除扩展名外的任何部分都不进入路径，天然免疫路径穿越
	storedName := strconv.FormatInt(time.Now().UnixNano(), 10) + ext
	finalPath := filepath.Join(s.config.StoragePath, storedName)
	publicPath := path.Join(s.config.PublicPrefix, storedName)

	// 元数据入库；入库失败时删除暂存文件，不留孤儿
	video := &database.Video{
		Title:       input.Title,
		Description: input.Description,
		Tags:        input.Tags,
		VideoPath:   publicPath,
		FileSize:    written,
		MimeType:    input.MimeType,
	}

	if err := s.db.Create(video).Error; err != nil {
		os.Remove(tempPath)
		logger.Errorf("视频元数据入库失败, 文件: %s, 错误: %v", input.Filename, err)
		return nil, errors.Wrap(errors.ErrDatabaseInsert,
			errors.GetErrorMessage(errors.ErrDatabaseInsert), err)
	}

	// 入库成功后才把暂存文件改名到公开目录
	// 改名失败时回删刚插入的记录，保持文件与元数据的一致性
	if err := s.moveFile(tempPath, finalPath); err != nil {
		logger.Errorf("暂存文件发布失败, 回滚元数据, 文件: %s, 错误: %v", input.Filename, err)
		if delErr := s.db.Delete(&database.Video{}, video.ID).Error; delErr != nil {
			logger.Errorf("回滚视频元数据失败 (ID: %d): %v", video.ID, delErr)
		}
		os.Remove(tempPath)
		return nil, errors.Wrap(errors.ErrFileWriteFailed,
			errors.GetErrorMessage(errors.ErrFileWriteFailed), err)
	}

	// 更新目录缓存
	s.catalog.Append(*video)

	// 触发异步镜像复制（如果配置了镜像）
	if s.mirror != nil {
		s.mirror.MirrorVideo(video)
	}

	logger.Infof("视频上传完成: %s -> %s (ID: %d, %d 字节)",
		input.Filename, publicPath, video.ID, written)
	return video, nil
}

// List 返回目录缓存中的视频序列
func (s *videoService) List() []database.Video {
	return s.catalog.List()
}

// SetMirrorSyncService 设置云端镜像同步服务
func (s *videoService) SetMirrorSyncService(sync MirrorSyncService) {
	s.mirror = sync
}

// isAllowedExtension 检查文件扩展名是否在允许集合中
// 扩展名比较不区分大小写
func (s *videoService) isAllowedExtension(ext string) bool {
	for _, allowed := range s.config.AllowedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

// isAllowedMimeType 检查声明的MIME类型是否在允许集合中
// 忽略诸如"; codecs=..."之类的参数部分
func (s *videoService) isAllowedMimeType(mimeType string) bool {
	base := strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	for _, allowed := range s.config.AllowedMimeTypes {
		if allowed == base {
			return true
		}
	}
	return false
}

// moveFile 移动文件
// 优先使用重命名操作，如果跨文件系统失败则退回复制+删除
func (s *videoService) moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	return os.Remove(src)
}
