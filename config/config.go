// Package config 提供应用程序配置的加载与管理
// 基于viper实现，支持配置文件、环境变量和默认值三层覆盖
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用程序总配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	Port         int    `mapstructure:"port"`           // HTTP监听端口
	EnableHTTPS  bool   `mapstructure:"enable_https"`   // 是否启用HTTPS
	HTTPSPort    int    `mapstructure:"https_port"`     // HTTPS监听端口
	TLSCertFile  string `mapstructure:"tls_cert_file"`  // TLS证书文件路径
	TLSKeyFile   string `mapstructure:"tls_key_file"`   // TLS私钥文件路径
	EnableHTTP2  bool   `mapstructure:"enable_http2"`   // HTTPS模式下是否启用HTTP/2
	ReadTimeout  int    `mapstructure:"read_timeout"`   // 读超时（秒），需覆盖大文件上传
	WriteTimeout int    `mapstructure:"write_timeout"`  // 写超时（秒）
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`            // 数据库驱动，当前仅支持sqlite
	DSN             string `mapstructure:"dsn"`               // 数据源名称
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // 最大打开连接数
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 连接最大生命周期（秒）
}

// UploadConfig 视频上传配置
type UploadConfig struct {
	StoragePath       string   `mapstructure:"storage_path"`       // 视频文件存储根目录
	PublicPrefix      string   `mapstructure:"public_prefix"`      // 对外访问路径前缀
	MaxFileSize       int64    `mapstructure:"max_file_size"`      // 单个视频大小上限（字节）
	AllowedExtensions []string `mapstructure:"allowed_extensions"` // 允许的文件扩展名
	AllowedMimeTypes  []string `mapstructure:"allowed_mime_types"` // 允许的MIME类型
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`     // 日志级别 (debug, info, warn, error)
	Format   string `mapstructure:"format"`    // 日志格式 (json, text)
	Output   string `mapstructure:"output"`    // 输出方式 (console, file, both)
	FilePath string `mapstructure:"file_path"` // 日志文件路径
}

// Load 加载应用程序配置
// 读取顺序: 默认值 -> config.yaml -> PLAYBASE_前缀环境变量
// 返回:
//   - *Config: 加载完成的配置
//   - error: 配置文件存在但解析失败时的错误
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("PLAYBASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时使用默认值，其他错误向上返回
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置所有配置项的默认值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.enable_https", false)
	v.SetDefault("server.https_port", 8443)
	v.SetDefault("server.tls_cert_file", "")
	v.SetDefault("server.tls_key_file", "")
	v.SetDefault("server.enable_http2", true)
	v.SetDefault("server.read_timeout", 600)
	v.SetDefault("server.write_timeout", 600)

	// 数据库默认配置
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "playbase.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 3600)

	// 上传默认配置
	v.SetDefault("upload.storage_path", "./uploads")
	v.SetDefault("upload.public_prefix", "/uploads")
	v.SetDefault("upload.max_file_size", int64(200*1024*1024)) // 200 MiB
	v.SetDefault("upload.allowed_extensions", []string{".mp4", ".mov", ".avi", ".mkv"})
	v.SetDefault("upload.allowed_mime_types", []string{
		"video/mp4",
		"video/quicktime",
		"video/x-msvideo",
		"video/x-matroska",
	})

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.file_path", "logs/playbase.log")
}
