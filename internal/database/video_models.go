// Package database 定义了视频相关的数据库模型
// 包含视频元数据等核心数据模型
package database

import "time"

// Video 视频元数据模型
// 记录一次成功上传的视频文件及其描述信息
// 同一个结构体同时用于启动加载和上传追加两条路径，保证目录缓存中的记录形态一致
type Video struct {
	ID          uint      `gorm:"primarykey" json:"id"`               // 主键ID，由数据库自增分配
	Title       string    `gorm:"not null;size:255" json:"title"`     // 视频标题
	Description string    `gorm:"not null;type:text" json:"description"` // 视频描述
	Tags        string    `gorm:"not null;size:500" json:"tags"`      // 标签，单个自由文本字符串，不做拆分
	VideoPath   string    `gorm:"not null;size:500;column:video_path" json:"videoPath"` // 上传根目录下的相对访问路径
	FileSize    int64     `gorm:"not null" json:"fileSize"`           // 文件大小，单位为字节
	MimeType    string    `gorm:"size:100;column:mime_type" json:"mimeType"` // 客户端声明的MIME类型
	CreatedAt   time.Time `json:"createdAt"`                          // 记录创建时间
	UpdatedAt   time.Time `json:"updatedAt"`                          // 记录最后更新时间
}

// TableName 指定Video模型对应的数据库表名
func (Video) TableName() string {
	return "videos"
}
