// Package i18n 提供国际化支持
// 负责管理应用程序的语言包和翻译功能
package i18n

import (
	"sync"

	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"

	"github.com/Snidon06/Playbase/internal/logger"
)

// 支持的语言
const (
	LangZhCN = "zh-CN"
	LangEnUS = "en-US"
)

var (
	instance *I18n
	once     sync.Once

	// 语言包存储
	translations = map[string]map[string]string{
		LangZhCN: {
			"success":               "成功",
			"internal_server_error": "服务器内部错误",
			"invalid_params":        "参数错误",

			"missing_credentials": "用户名和密码不能为空",
			"duplicate_username":  "用户名已存在",
			"invalid_credentials": "用户名或密码错误",

			"missing_fields":         "标题、描述、标签和视频文件均不能为空",
			"unsupported_media_type": "不支持的视频类型",
			"payload_too_large":      "视频文件大小超限",
			"file_write_failed":      "视频文件写入失败",
			"file_read_failed":       "视频文件读取失败",

			"database_query":   "数据库查询错误",
			"database_insert":  "数据库插入错误",
			"record_not_found": "记录未找到",

			"mirror_config_not_found":       "镜像配置未找到",
			"mirror_config_invalid":         "镜像配置无效",
			"mirror_connection_failed":      "镜像连接失败",
			"mirror_upload_failed":          "镜像上传失败",
			"mirror_provider_not_supported": "镜像提供商不支持",
			"no_active_mirror":              "没有激活的镜像配置",

			"unknown_error": "未知错误",
		},
		LangEnUS: {
			"success":               "Success",
			"internal_server_error": "Internal Server Error",
			"invalid_params":        "Invalid Parameters",

			"missing_credentials": "Username and password are required",
			"duplicate_username":  "Username already exists",
			"invalid_credentials": "Invalid username or password",

			"missing_fields":         "Title, description, tags and video file are required",
			"unsupported_media_type": "Unsupported video type",
			"payload_too_large":      "Video file too large",
			"file_write_failed":      "Video file write failed",
			"file_read_failed":       "Video file read failed",

			"database_query":   "Database Query Error",
			"database_insert":  "Database Insert Error",
			"record_not_found": "Record Not Found",

			"mirror_config_not_found":       "Mirror Config Not Found",
			"mirror_config_invalid":         "Mirror Config Invalid",
			"mirror_connection_failed":      "Mirror Connection Failed",
			"mirror_upload_failed":          "Mirror Upload Failed",
			"mirror_provider_not_supported": "Mirror Provider Not Supported",
			"no_active_mirror":              "No Active Mirror Configuration",

			"unknown_error": "Unknown Error",
		},
	}
)

// I18n 国际化管理器
type I18n struct {
	translators map[string]ut.Translator
	defaultLang string
}

// GetInstance 获取I18n单例
func GetInstance() *I18n {
	once.Do(func() {
		instance = &I18n{
			translators: make(map[string]ut.Translator),
			defaultLang: LangZhCN,
		}
		instance.initTranslators()
	})
	return instance
}

// initTranslators 初始化翻译器
func (i *I18n) initTranslators() {
	zhCN := zh.New()
	enUS := en_US.New()
	uni := ut.New(zhCN, enUS, zhCN)

	// 注册支持的语言 - 使用locale库的标识符
	langMappings := map[string]string{
		LangZhCN: "zh",
		LangEnUS: "en_US",
	}

	for ourLang, localeLang := range langMappings {
		trans, found := uni.GetTranslator(localeLang)
		if !found {
			logger.Errorf("初始化翻译器失败 for language %s (locale: %s): translator not found", ourLang, localeLang)
			continue
		}
		i.translators[ourLang] = trans
	}
}

// Translate 根据键和语言获取翻译
func (i *I18n) Translate(key, lang string) string {
	if translation, found := translations[lang][key]; found {
		return translation
	}

	// 如果当前语言没有找到，尝试在默认语言中查找
	if lang != i.defaultLang {
		if translation, found := translations[i.defaultLang][key]; found {
			return translation
		}
	}

	logger.Warnf("未找到翻译: %s, 语言: %s", key, lang)
	return key
}

// SetDefaultLanguage 设置默认语言
func (i *I18n) SetDefaultLanguage(lang string) {
	i.defaultLang = lang
}

// GetDefaultLanguage 获取默认语言
func (i *I18n) GetDefaultLanguage() string {
	return i.defaultLang
}

// IsSupportedLanguage 检查语言是否支持
func (i *I18n) IsSupportedLanguage(lang string) bool {
	_, exists := i.translators[lang]
	return exists
}
