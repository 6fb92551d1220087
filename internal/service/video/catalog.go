package service

import (
	"sync"

	"gorm.io/gorm"

	"github.com/Snidon06/Playbase/internal/database"
	"github.com/Snidon06/Playbase/internal/logger"
)

// Catalog 视频目录缓存
// 进程内的视频元数据镜像：启动时从数据库整体加载一次，之后每次上传成功追加一条，
// 列表请求直接读缓存而不回查数据库。缓存随进程存活，没有失效和刷新机制，
// 外部写入数据库的记录在重启前不可见。容量无上限，按小规模部署接受这一增长开销。
type Catalog struct {
	mu     sync.RWMutex
	videos []database.Video
}

// NewCatalog 创建空的目录缓存实例
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Load 从数据库整体加载视频列表，替换当前缓存内容
// 仅在进程启动时调用一次；加载失败时缓存保持为空并记录日志，服务照常启动
func (c *Catalog) Load(db *gorm.DB) error {
	var videos []database.Video
	if err := db.Find(&videos).Error; err != nil {
		logger.Errorf("目录缓存加载失败: %v", err)
		return err
	}

	c.mu.Lock()
	c.videos = videos
	c.mu.Unlock()

	logger.Infof("目录缓存加载完成, 共 %d 条视频记录", len(videos))
	return nil
}

// Append 在缓存末尾追加一条视频记录
// 不去重、不限容；并发上传之间的先后顺序以互斥锁的实际串行结果为准
func (c *Catalog) Append(video database.Video) {
	c.mu.Lock()
	c.videos = append(c.videos, video)
	c.mu.Unlock()
}

// List 返回当前缓存中的视频序列
// 顺序为最近一次Load的数据库自然返回顺序，之后按上传顺序追加；
// 返回副本，调用方持有的切片不受后续追加影响
func (c *Catalog) List() []database.Video {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]database.Video, len(c.videos))
	copy(out, c.videos)
	return out
}

// Len 返回缓存中的记录数
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.videos)
}
