// Package test 提供视频服务的单元测试
// 覆盖上传校验门、落盘一致性、目录缓存和列表行为
package test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Snidon06/Playbase/config"
	"github.com/Snidon06/Playbase/internal/database"
	"github.com/Snidon06/Playbase/internal/errors"
	videoservice "github.com/Snidon06/Playbase/internal/service/video"
)

// testUploadConfig 构造指向临时目录的上传配置
func testUploadConfig(t *testing.T, maxFileSize int64) config.UploadConfig {
	return config.UploadConfig{
		StoragePath:       t.TempDir(),
		PublicPrefix:      "/uploads",
		MaxFileSize:       maxFileSize,
		AllowedExtensions: []string{".mp4", ".mov", ".avi", ".mkv"},
		AllowedMimeTypes: []string{
			"video/mp4",
			"video/quicktime",
			"video/x-msvideo",
			"video/x-matroska",
		},
	}
}

// setupVideoService 设置视频服务和目录缓存
func setupVideoService(t *testing.T, maxFileSize int64) (videoservice.VideoService, *videoservice.Catalog, config.UploadConfig, *gorm.DB) {
	db := setupTestDB(t)
	cfg := testUploadConfig(t, maxFileSize)
	catalog := videoservice.NewCatalog()
	svc := videoservice.NewVideoService(db, cfg, catalog)
	return svc, catalog, cfg, db
}

// uploadInput 构造一个合法的上传输入
func uploadInput(content []byte) videoservice.UploadInput {
	return videoservice.UploadInput{
		Reader:      bytes.NewReader(content),
		Filename:    "clip.mp4",
		MimeType:    "video/mp4",
		Size:        int64(len(content)),
		Title:       "Demo",
		Description: "d",
		Tags:        "x,y",
	}
}

// TestUploadVideo 测试视频上传流水线
func TestUploadVideo(t *testing.T) {
	svc, catalog, cfg, db := setupVideoService(t, 1<<20)

	content := bytes.Repeat([]byte("video-bytes-"), 853) // 约10KB
	t.Run("上传成功并落盘", func(t *testing.T) {
		video, err := svc.Upload(uploadInput(content))
		require.NoError(t, err)
		require.NotNil(t, video)

		assert.Equal(t, "Demo", video.Title)
		assert.Equal(t, "d", video.Description)
		assert.Equal(t, "x,y", video.Tags)
		assert.Equal(t, int64(len(content)), video.FileSize)
		assert.NotZero(t, video.ID)

		// 访问路径: 前缀 + 时间戳文件名 + 原始扩展名
		assert.True(t, strings.HasPrefix(video.VideoPath, "/uploads/"))
		assert.True(t, strings.HasSuffix(video.VideoPath, ".mp4"))
		// 客户端文件名不进入存储路径
		assert.NotContains(t, video.VideoPath, "clip")

		// 落盘内容与上传内容逐字节一致
		stored, err := os.ReadFile(filepath.Join(cfg.StoragePath, filepath.Base(video.VideoPath)))
		require.NoError(t, err)
		assert.Equal(t, content, stored)
	})

	t.Run("元数据写入数据库", func(t *testing.T) {
		var rows []database.Video
		err := db.Find(&rows).Error
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Demo", rows[0].Title)
	})

	t.Run("上传后追加到目录缓存", func(t *testing.T) {
		list := catalog.List()
		require.Len(t, list, 1)
		assert.Equal(t, "Demo", list[0].Title)
	})

	t.Run("列表读取无副作用", func(t *testing.T) {
		first := svc.List()
		second := svc.List()
		assert.Equal(t, first, second)
		assert.Equal(t, 1, catalog.Len())
	})
}

// TestUploadValidation 测试上传校验门
func TestUploadValidation(t *testing.T) {
	svc, catalog, cfg, _ := setupVideoService(t, 1<<20)

	t.Run("缺少标题被拒绝", func(t *testing.T) {
		input := uploadInput([]byte("data"))
		input.Title = ""
		_, err := svc.Upload(input)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMissingFields))
	})

	t.Run("缺少描述被拒绝", func(t *testing.T) {
		input := uploadInput([]byte("data"))
		input.Description = ""
		_, err := svc.Upload(input)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMissingFields))
	})

	t.Run("缺少标签被拒绝", func(t *testing.T) {
		input := uploadInput([]byte("data"))
		input.Tags = ""
		_, err := svc.Upload(input)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMissingFields))
	})

	t.Run("空文件被拒绝", func(t *testing.T) {
		_, err := svc.Upload(uploadInput(nil))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMissingFields))
	})

	t.Run("扩展名不允许被拒绝", func(t *testing.T) {
		input := uploadInput([]byte("data"))
		input.Filename = "clip.txt"
		_, err := svc.Upload(input)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrUnsupportedMediaType))
	})

	t.Run("MIME类型不允许被拒绝", func(t *testing.T) {
		input := uploadInput([]byte("data"))
		input.MimeType = "text/plain"
		_, err := svc.Upload(input)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrUnsupportedMediaType))
	})

	t.Run("扩展名与MIME交叉不匹配被拒绝", func(t *testing.T) {
		// 合法扩展名配非法MIME
		input := uploadInput([]byte("data"))
		input.MimeType = "application/octet-stream"
		_, err := svc.Upload(input)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrUnsupportedMediaType))

		// 合法MIME配非法扩展名
		input = uploadInput([]byte("data"))
		input.Filename = "clip.exe"
		_, err = svc.Upload(input)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrUnsupportedMediaType))
	})

	t.Run("扩展名比较不区分大小写", func(t *testing.T) {
		input := uploadInput([]byte("data"))
		input.Filename = "CLIP.MP4"
		video, err := svc.Upload(input)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(strings.ToLower(video.VideoPath), ".mp4"))
	})

	t.Run("带参数的MIME类型可以通过", func(t *testing.T) {
		input := uploadInput([]byte("data"))
		input.MimeType = "video/mp4; codecs=avc1"
		_, err := svc.Upload(input)
		assert.NoError(t, err)
	})

	t.Run("校验失败不留下孤儿文件", func(t *testing.T) {
		before := countStoredFiles(t, cfg.StoragePath)

		input := uploadInput([]byte("data"))
		input.Title = ""
		_, err := svc.Upload(input)
		require.Error(t, err)

		assert.Equal(t, before, countStoredFiles(t, cfg.StoragePath))
	})

	t.Run("校验失败不进入目录缓存", func(t *testing.T) {
		lenBefore := catalog.Len()
		input := uploadInput([]byte("data"))
		input.MimeType = "text/plain"
		_, err := svc.Upload(input)
		require.Error(t, err)
		assert.Equal(t, lenBefore, catalog.Len())
	})
}

// TestUploadSizeLimit 测试大小上限
func TestUploadSizeLimit(t *testing.T) {
	const limit = 1024
	svc, _, cfg, _ := setupVideoService(t, limit)

	t.Run("恰好等于上限可以上传", func(t *testing.T) {
		content := bytes.Repeat([]byte{0xAB}, limit)
		video, err := svc.Upload(uploadInput(content))
		require.NoError(t, err)
		assert.Equal(t, int64(limit), video.FileSize)
	})

	t.Run("超过上限一个字节被拒绝", func(t *testing.T) {
		content := bytes.Repeat([]byte{0xAB}, limit+1)
		_, err := svc.Upload(uploadInput(content))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrPayloadTooLarge))
	})

	t.Run("声明大小不可信时仍按实际字节拦截", func(t *testing.T) {
		content := bytes.Repeat([]byte{0xAB}, limit+1)
		input := uploadInput(content)
		input.Size = 10 // 谎报大小
		_, err := svc.Upload(input)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrPayloadTooLarge))
	})

	t.Run("超限上传不留下孤儿文件", func(t *testing.T) {
		before := countStoredFiles(t, cfg.StoragePath)
		content := bytes.Repeat([]byte{0xAB}, limit+1)
		_, err := svc.Upload(uploadInput(content))
		require.Error(t, err)
		assert.Equal(t, before, countStoredFiles(t, cfg.StoragePath))
	})
}

// TestUploadCompensation 测试上传失败时的两阶段补偿
// 入库失败删除暂存文件，发布失败回删元数据，两个方向都不留下半成品
func TestUploadCompensation(t *testing.T) {
	t.Run("入库失败时删除暂存文件", func(t *testing.T) {
		svc, catalog, cfg, db := setupVideoService(t, 1<<20)

		// 删除视频表，强制元数据插入失败
		require.NoError(t, db.Migrator().DropTable(&database.Video{}))

		_, err := svc.Upload(uploadInput([]byte("doomed-video")))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrDatabaseInsert))

		// 上传根目录和暂存目录都不留文件，目录缓存不变
		assert.Equal(t, 0, countStoredFiles(t, cfg.StoragePath))
		assert.Equal(t, 0, countStagingFiles(t, cfg.StoragePath))
		assert.Equal(t, 0, catalog.Len())
	})

	t.Run("发布失败时回删元数据", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root不受目录写权限约束，无法模拟发布失败")
		}

		svc, catalog, cfg, db := setupVideoService(t, 1<<20)

		// 收回上传根目录的写权限：暂存目录仍可写，改名进入根目录必然失败
		require.NoError(t, os.Chmod(cfg.StoragePath, 0555))
		t.Cleanup(func() { os.Chmod(cfg.StoragePath, 0755) })

		_, err := svc.Upload(uploadInput([]byte("doomed-video")))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrFileWriteFailed))

		// 刚插入的记录被回删，缓存不变，暂存目录清空
		var rows int64
		require.NoError(t, db.Model(&database.Video{}).Count(&rows).Error)
		assert.Equal(t, int64(0), rows)
		assert.Equal(t, 0, catalog.Len())
		assert.Equal(t, 0, countStagingFiles(t, cfg.StoragePath))
	})
}

// TestCatalogStartupLoad 测试启动时目录缓存的整体加载
func TestCatalogStartupLoad(t *testing.T) {
	db := setupTestDB(t)
	cfg := testUploadConfig(t, 1<<20)

	// 预先写入两条视频记录模拟历史数据
	require.NoError(t, db.Create(&database.Video{
		Title: "first", Description: "d", Tags: "a", VideoPath: "/uploads/1.mp4",
	}).Error)
	require.NoError(t, db.Create(&database.Video{
		Title: "second", Description: "d", Tags: "b", VideoPath: "/uploads/2.mp4",
	}).Error)

	catalog := videoservice.NewCatalog()
	svc := videoservice.NewVideoService(db, cfg, catalog)

	t.Run("历史记录在启动时进入缓存", func(t *testing.T) {
		list := svc.List()
		require.Len(t, list, 2)
		assert.Equal(t, "first", list[0].Title)
		assert.Equal(t, "second", list[1].Title)
	})

	t.Run("新上传追加在历史记录之后", func(t *testing.T) {
		_, err := svc.Upload(uploadInput([]byte("new-video")))
		require.NoError(t, err)

		list := svc.List()
		require.Len(t, list, 3)
		assert.Equal(t, "Demo", list[2].Title)
	})
}

// TestCatalogList 测试目录缓存的读取语义
func TestCatalogList(t *testing.T) {
	catalog := videoservice.NewCatalog()
	catalog.Append(database.Video{Title: "one"})
	catalog.Append(database.Video{Title: "two"})

	t.Run("返回副本，修改不影响缓存", func(t *testing.T) {
		list := catalog.List()
		require.Len(t, list, 2)
		list[0].Title = "mutated"

		again := catalog.List()
		assert.Equal(t, "one", again[0].Title)
	})

	t.Run("追加保持插入顺序", func(t *testing.T) {
		catalog.Append(database.Video{Title: "three"})
		list := catalog.List()
		require.Len(t, list, 3)
		assert.Equal(t, []string{"one", "two", "three"},
			[]string{list[0].Title, list[1].Title, list[2].Title})
	})
}

// countStagingFiles 统计暂存目录里残留的文件数
func countStagingFiles(t *testing.T, storagePath string) int {
	entries, err := os.ReadDir(filepath.Join(storagePath, ".staging"))
	require.NoError(t, err)
	return len(entries)
}

// countStoredFiles 统计上传根目录里的常规文件数（不含暂存目录）
func countStoredFiles(t *testing.T, storagePath string) int {
	entries, err := os.ReadDir(storagePath)
	require.NoError(t, err)

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			count++
		}
	}
	return count
}
