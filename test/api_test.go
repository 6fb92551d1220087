// Package test 提供HTTP边界的集成测试
// 通过httptest验证路由注册、状态码契约和响应体格式
package test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Snidon06/Playbase/config"
	"github.com/Snidon06/Playbase/internal/database"
	"github.com/Snidon06/Playbase/internal/handler"
	"github.com/Snidon06/Playbase/internal/router"
	authservice "github.com/Snidon06/Playbase/internal/service/auth"
	mirrorservice "github.com/Snidon06/Playbase/internal/service/mirror"
	videoservice "github.com/Snidon06/Playbase/internal/service/video"
)

// setupTestServer 组装完整的HTTP测试服务
func setupTestServer(t *testing.T) (*gin.Engine, config.UploadConfig) {
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	uploadCfg := testUploadConfig(t, 1<<20)
	cfg := &config.Config{Upload: uploadCfg}

	catalog := videoservice.NewCatalog()
	videoSvc := videoservice.NewVideoService(db, uploadCfg, catalog)
	authSvc := authservice.NewAuthService(db)
	mirrorConfigSvc := mirrorservice.NewConfigService(db)
	mirrorSyncSvc := mirrorservice.NewSyncService(db, mirrorConfigSvc, uploadCfg)

	engine := router.Setup(cfg, &router.Handlers{
		Auth:   handler.NewAuthHandler(authSvc),
		Video:  handler.NewVideoHandler(videoSvc),
		Mirror: handler.NewMirrorHandler(mirrorConfigSvc, mirrorSyncSvc),
	})

	return engine, uploadCfg
}

// postJSON 发送JSON请求并返回响应记录
func postJSON(engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// postVideo 发送multipart视频上传请求
func postVideo(t *testing.T, engine *gin.Engine, fields map[string]string, filename, mimeType string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	if filename != "" {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="videoFile"; filename="` + filename + `"`}
		header["Content-Type"] = []string{mimeType}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-video", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// TestSignupAndLoginAPI 测试注册和登录接口
func TestSignupAndLoginAPI(t *testing.T) {
	engine, _ := setupTestServer(t)

	t.Run("注册成功返回200", func(t *testing.T) {
		w := postJSON(engine, "/signup", gin.H{"username": "alice", "password": "secret123"})
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body["message"])
	})

	t.Run("重复用户名返回400", func(t *testing.T) {
		w := postJSON(engine, "/signup", gin.H{"username": "alice", "password": "other"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("缺少字段返回400", func(t *testing.T) {
		w := postJSON(engine, "/signup", gin.H{"username": "bob"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("登录成功返回200", func(t *testing.T) {
		w := postJSON(engine, "/login", gin.H{"username": "alice", "password": "secret123"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("密码错误返回401", func(t *testing.T) {
		w := postJSON(engine, "/login", gin.H{"username": "alice", "password": "wrongpass"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("用户不存在返回401", func(t *testing.T) {
		w := postJSON(engine, "/login", gin.H{"username": "nobody", "password": "secret123"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// TestVideoAPI 测试视频上传与列表接口
func TestVideoAPI(t *testing.T) {
	engine, _ := setupTestServer(t)

	metadata := map[string]string{
		"title":       "Demo",
		"description": "d",
		"tags":        "x,y",
	}
	content := bytes.Repeat([]byte("frame"), 2048) // 10KB

	t.Run("空目录返回空数组", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var videos []database.Video
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &videos))
		assert.Empty(t, videos)
	})

	t.Run("上传成功返回访问路径", func(t *testing.T) {
		w := postVideo(t, engine, metadata, "clip.mp4", "video/mp4", content)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body["message"])

		videoPath, ok := body["videoPath"].(string)
		require.True(t, ok)
		assert.Contains(t, videoPath, "/uploads/")
	})

	t.Run("上传后列表返回裸数组", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		// 响应体是JSON数组本身，没有包裹对象
		var videos []database.Video
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &videos))
		require.Len(t, videos, 1)
		assert.Equal(t, "Demo", videos[0].Title)
		assert.Equal(t, "d", videos[0].Description)
		assert.Equal(t, "x,y", videos[0].Tags)
	})

	t.Run("缺少文件字段返回400", func(t *testing.T) {
		w := postVideo(t, engine, metadata, "", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("缺少元数据字段返回400", func(t *testing.T) {
		partial := map[string]string{"title": "Demo"}
		w := postVideo(t, engine, partial, "clip.mp4", "video/mp4", content)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("不支持的类型返回415", func(t *testing.T) {
		w := postVideo(t, engine, metadata, "clip.txt", "text/plain", content)
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("超过大小上限返回413", func(t *testing.T) {
		oversized := bytes.Repeat([]byte{0x01}, 1<<20+1)
		w := postVideo(t, engine, metadata, "clip.mp4", "video/mp4", oversized)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

// TestMirrorSyncAPI 测试镜像同步接口
func TestMirrorSyncAPI(t *testing.T) {
	engine, _ := setupTestServer(t)

	t.Run("没有激活配置时手动同步返回404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/mirror/videos/1/sync", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("没有镜像记录的视频状态查询返回404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/mirror/videos/1/status", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestMirrorConfigAPI 测试镜像配置接口
func TestMirrorConfigAPI(t *testing.T) {
	engine, _ := setupTestServer(t)

	t.Run("创建配置成功并自动激活", func(t *testing.T) {
		w := postJSON(engine, "/api/mirror/configs", gin.H{
			"name":       "primary",
			"provider":   "aliyun",
			"region":     "oss-cn-hangzhou",
			"bucket":     "playbase-videos",
			"access_key": "ak",
			"secret_key": "sk",
			"is_enabled": true,
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("不支持的提供商被拒绝", func(t *testing.T) {
		w := postJSON(engine, "/api/mirror/configs", gin.H{
			"name":       "bad",
			"provider":   "unknown-cloud",
			"region":     "r",
			"bucket":     "b",
			"access_key": "ak",
			"secret_key": "sk",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("配置列表包含已创建的配置", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/mirror/configs", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data []database.MirrorConfig `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "primary", body.Data[0].Name)
		assert.True(t, body.Data[0].IsActive)
	})

	t.Run("激活状态的配置不能删除", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/mirror/configs/1", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("查询不存在的配置返回404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/mirror/configs/999", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
